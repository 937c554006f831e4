package middleware

import (
	"net/http"
	"strings"

	"github.com/unrolled/secure"
)

// pagePolicy allows same-origin styles and uploads only. The inline
// delete confirmation on the admin page needs 'unsafe-inline' scripts.
var pagePolicy = strings.Join([]string{
	"default-src 'self'",
	"img-src 'self'",
	"style-src 'self'",
	"script-src 'unsafe-inline'",
	"form-action 'self'",
	"frame-ancestors 'none'",
}, "; ")

// SecureOptions returns header settings for the tracker pages. HSTS is only
// sent outside development.
func SecureOptions(isDevelopment bool) secure.Options {
	opts := secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		ContentSecurityPolicy: pagePolicy,
		ReferrerPolicy:        "same-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=()",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}
	if !isDevelopment {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	return opts
}

func NewSecure(opts secure.Options) func(next http.Handler) http.Handler {
	return secure.New(opts).Handler
}
