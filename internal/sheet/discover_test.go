package sheet

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestListFrames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"frame_2.png",
		"frame_10.png",
		"b.png",
		"a.png",
		".hidden.png",
		"upper.PNG",
		"notes.txt",
		"a.png.bak",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := ListFrames(dir)
	if err != nil {
		t.Fatalf("list frames: %v", err)
	}

	// Plain string order: frame_10 sorts before frame_2.
	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "frame_10.png"),
		filepath.Join(dir, "frame_2.png"),
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestListFramesEmptyDir(t *testing.T) {
	got, err := ListFrames(t.TempDir())
	if err != nil {
		t.Fatalf("list frames: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no frames, got %v", got)
	}
}

func TestListFramesMissingDir(t *testing.T) {
	_, err := ListFrames(filepath.Join(t.TempDir(), "gone"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
