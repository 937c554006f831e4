package middleware

import (
	"net/http"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

// RequireAdmin rejects every caller outside the administrator set with 403.
// Anonymous callers get 403 as well; no commission data is written.
// Use after SessionLoader.
func RequireAdmin(admins domain.AdminSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !admins.IsAdmin(IdentityFromContext(r.Context())) {
				writeErr(w, http.StatusForbidden, "forbidden", "Forbidden: Admins only")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeErr sends a plain-text error with a stable code in X-Error-Code.
func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Error-Code", errCode)
	w.WriteHeader(code)
	_, _ = w.Write([]byte(message + "\n"))
}
