package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden: admins only")
	ErrUnauthenticated  = errors.New("not signed in")
	ErrUpstreamAuth     = errors.New("identity provider exchange failed")
	ErrConflict         = errors.New("commission was modified concurrently")
	ErrUnsupportedImage = fmt.Errorf("%w: unsupported image type", ErrValidation)

	ErrCommissionNotFound = fmt.Errorf("%w: commission", ErrNotFound)
	ErrUpdateNotFound     = fmt.Errorf("%w: update", ErrNotFound)
)

// Validation wraps ErrValidation with a field-specific message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
