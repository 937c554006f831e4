package uploads

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newStore(t *testing.T) (*DiskStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	now := func() time.Time { return time.UnixMilli(1700000000000) }
	s, err := NewDiskStore(dir, 1024, []string{"image/png"}, now)
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}
	return s, dir
}

func TestDiskStore_SaveListRemove(t *testing.T) {
	ctx := context.Background()
	s, dir := newStore(t)

	ref, err := s.Save(ctx, ports.ImageUpload{Filename: "my  sketch v2.png", Body: bytes.NewReader(pngHeader)})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if ref != "/uploads/1700000000000-my-sketch-v2.png" {
		t.Errorf("Save() ref = %q", ref)
	}
	if _, err := os.Stat(filepath.Join(dir, "1700000000000-my-sketch-v2.png")); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil || len(list) != 1 || list[0].Ref != ref {
		t.Fatalf("List() = %v, %v", list, err)
	}
	if err := s.Remove(ctx, ref); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove(ctx, ref); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}
	if err := s.Remove(ctx, "/uploads/../secret"); !errors.Is(err, domerrors.ErrValidation) {
		t.Errorf("Remove(traversal) error = %v", err)
	}
}

func TestDiskStore_RejectsDisallowedContent(t *testing.T) {
	s, dir := newStore(t)
	_, err := s.Save(context.Background(), ports.ImageUpload{Filename: "fake.png", Body: strings.NewReader("GIF89a......")})
	if !errors.Is(err, domerrors.ErrUnsupportedImage) {
		t.Fatalf("Save(gif) error = %v, want ErrUnsupportedImage", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files", len(entries))
	}
}

func TestDiskStore_RejectsOversize(t *testing.T) {
	s, _ := newStore(t)
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...)
	if _, err := s.Save(context.Background(), ports.ImageUpload{Filename: "big.png", Body: bytes.NewReader(body)}); !errors.Is(err, domerrors.ErrValidation) {
		t.Errorf("Save(oversize) error = %v, want ErrValidation", err)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"a b.png":          "a-b.png",
		"../../etc/passwd": "passwd",
		`C:\tmp\x y.png`:   "x-y.png",
		"":                 "image",
		"tab\there.png":    "tab-here.png",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
