package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

// SessionLoader reads the identity bound to the request's session cookie
// and stores it in the request context. Anonymous requests pass through.
type SessionLoader struct {
	session ports.IdentitySession
	log     zerolog.Logger
}

func NewSessionLoader(session ports.IdentitySession, log zerolog.Logger) *SessionLoader {
	return &SessionLoader{session: session, log: log}
}

func (m *SessionLoader) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.session.Current(r)
		if err != nil {
			m.log.Warn().Err(err).Msg("read session; treating request as anonymous")
			next.ServeHTTP(w, r)
			return
		}
		if identity == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}
