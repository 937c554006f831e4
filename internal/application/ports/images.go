package ports

import (
	"context"
	"io"
	"time"
)

// ImageUpload is one image payload received from an admin form.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// StoredImage describes one file under the uploads root.
type StoredImage struct {
	Ref     string // public path, e.g. /uploads/1700000000000-a.png
	ModTime time.Time
}

// ImageStore saves uploaded images under the public static root.
type ImageStore interface {
	// Save returns the public reference of the stored file, or
	// domerrors.ErrUnsupportedImage when the content type is not allowed.
	Save(ctx context.Context, upload ImageUpload) (string, error)
	Remove(ctx context.Context, ref string) error
	List(ctx context.Context) ([]StoredImage, error)
}
