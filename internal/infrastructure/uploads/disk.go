// Package uploads stores admin-uploaded images on local disk under the
// public static root.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

// DiskStore writes images to Dir and serves them as URLPrefix + name.
type DiskStore struct {
	dir      string
	maxBytes int64
	allowed  map[string]struct{}
	now      func() time.Time
}

// NewDiskStore creates dir if needed. allowedTypes are MIME types matched
// against the sniffed content, e.g. "image/png".
func NewDiskStore(dir string, maxBytes int64, allowedTypes []string, now func() time.Time) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			allowed[t] = struct{}{}
		}
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes, allowed: allowed, now: now}, nil
}

// Dir is the directory files are written to.
func (s *DiskStore) Dir() string { return s.dir }

// Save sniffs the content type, then writes the file as
// <unix-ms>-<sanitised name>.
func (s *DiskStore) Save(ctx context.Context, upload ports.ImageUpload) (string, error) {
	limit := s.maxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	data, err := io.ReadAll(io.LimitReader(upload.Body, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", domerrors.Validation("image exceeds " + strconv.FormatInt(limit, 10) + " bytes")
	}
	if len(data) == 0 {
		return "", domerrors.Validation("image is empty")
	}
	ctype := http.DetectContentType(data)
	if _, ok := s.allowed[ctype]; !ok {
		return "", fmt.Errorf("%w: %s", domerrors.ErrUnsupportedImage, ctype)
	}
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + SanitizeName(upload.Filename)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return URLPrefix + name, nil
}

// Remove deletes the file behind ref. Missing files are not an error.
func (s *DiskStore) Remove(ctx context.Context, ref string) error {
	name, ok := nameFromRef(ref)
	if !ok {
		return domerrors.Validation("not an upload reference: " + ref)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// List returns every regular file in the uploads dir.
func (s *DiskStore) List(ctx context.Context) ([]ports.StoredImage, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := make([]ports.StoredImage, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, ports.StoredImage{Ref: URLPrefix + e.Name(), ModTime: info.ModTime()})
	}
	return out, nil
}

// SanitizeName keeps the base name and replaces whitespace runs with '-'.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = ""
	}
	var b strings.Builder
	dash := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			if !dash {
				b.WriteByte('-')
				dash = true
			}
			continue
		}
		dash = false
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}

func nameFromRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, URLPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, URLPrefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", false
	}
	return name, true
}

var _ ports.ImageStore = (*DiskStore)(nil)
