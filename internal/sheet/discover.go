package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dunamismax/spritesheet/internal/domain"
)

// ListFrames returns the frame files in dir in sheet order.
//
// Order is plain byte-wise order of the path strings, so frame_10.png comes
// before frame_2.png. Callers that number frames must zero-pad them.
// Dot-files and directories are never frames.
func ListFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, domain.FrameExtension) {
			continue
		}
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}

	slices.Sort(paths)
	return paths, nil
}
