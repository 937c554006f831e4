package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// AdminPath is where successful admin mutations redirect.
const AdminPath = "/order-tracker/admin"

// writeErr sends a plain-text message with the stable code in X-Error-Code.
// If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Error-Code", errCode)
	w.WriteHeader(code)
	_, _ = w.Write([]byte(message + "\n"))
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	default:
		return ErrCodeInternal
	}
}

// statusFor maps a use-case error to its HTTP status and client message.
// Validation is checked first so an error carrying both validation and
// not-found (append to a missing commission) is reported as 400.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domerrors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domerrors.ErrCommissionNotFound):
		return http.StatusNotFound, "Commission not found"
	case errors.Is(err, domerrors.ErrUpdateNotFound):
		return http.StatusNotFound, "Update not found"
	case errors.Is(err, domerrors.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domerrors.ErrForbidden), errors.Is(err, domerrors.ErrUnauthenticated):
		return http.StatusForbidden, "Forbidden: Admins only"
	case errors.Is(err, domerrors.ErrConflict):
		return http.StatusConflict, "Commission was changed by another request; reload and retry"
	case errors.Is(err, domerrors.ErrUpstreamAuth):
		return http.StatusInternalServerError, "OAuth error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func redirectAdmin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, AdminPath, http.StatusSeeOther)
}
