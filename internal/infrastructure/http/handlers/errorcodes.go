package handlers

// Error codes returned in the X-Error-Code header for stable client handling.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeOAuth          = "oauth_error"
	ErrCodeInternal       = "internal_error"
)
