package storage

import "testing"

func TestNewClientRequiresBucket(t *testing.T) {
	if _, err := NewClient(Config{Endpoint: "localhost:9000"}); err == nil {
		t.Fatal("expected error for missing bucket")
	}

	c, err := NewClient(Config{Endpoint: "localhost:9000", Bucket: "sheets"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.Bucket() != "sheets" {
		t.Fatalf("expected bucket sheets, got %s", c.Bucket())
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, path, want string
	}{
		{"", "out/mask_boy_idle.png", "spritesheets/mask_boy_idle.png"},
		{"/assets/characters/", "mask_boy_idle.png", "assets/characters/mask_boy_idle.png"},
		{"atlas", "/tmp/build/run.webp", "atlas/run.webp"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.prefix, tt.path); got != tt.want {
			t.Fatalf("ObjectKey(%q, %q): expected %q, got %q", tt.prefix, tt.path, tt.want, got)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("sheet.PNG"); got != "image/png" {
		t.Fatalf("expected image/png, got %s", got)
	}
	if got := ContentType("sheet.jpeg"); got != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %s", got)
	}
	if got := ContentType("sheet"); got != "application/octet-stream" {
		t.Fatalf("expected octet-stream fallback, got %s", got)
	}
}
