// Package session binds the signed-in identity to a signed browser cookie.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

// CookieName is the session cookie set on sign-in.
const CookieName = "ordertracker_session"

const (
	keyUserID        = "user_id"
	keyUsername      = "username"
	keyDiscriminator = "discriminator"
)

// CookieSession is an IdentitySession backed by a gorilla CookieStore.
type CookieSession struct {
	store *sessions.CookieStore
}

// NewCookieSession signs cookies with secret. secure marks the cookie
// HTTPS-only.
func NewCookieSession(secret []byte, secure bool) *CookieSession {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSession{store: store}
}

// Store exposes the underlying store so the OAuth state can share it.
func (s *CookieSession) Store() sessions.Store { return s.store }

// Current returns nil for anonymous requests. A cookie that fails
// verification is treated as anonymous.
func (s *CookieSession) Current(r *http.Request) (*domain.Identity, error) {
	sess, err := s.store.Get(r, CookieName)
	if err != nil {
		return nil, nil
	}
	id, _ := sess.Values[keyUserID].(string)
	if id == "" {
		return nil, nil
	}
	username, _ := sess.Values[keyUsername].(string)
	discriminator, _ := sess.Values[keyDiscriminator].(string)
	return &domain.Identity{ID: id, Username: username, Discriminator: discriminator}, nil
}

func (s *CookieSession) Establish(w http.ResponseWriter, r *http.Request, identity domain.Identity) error {
	// a stale or tampered cookie still yields a fresh session
	sess, _ := s.store.Get(r, CookieName)
	sess.Values[keyUserID] = identity.ID
	sess.Values[keyUsername] = identity.Username
	sess.Values[keyDiscriminator] = identity.Discriminator
	return sess.Save(r, w)
}

func (s *CookieSession) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, CookieName)
	sess.Values = make(map[interface{}]interface{})
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

var _ ports.IdentitySession = (*CookieSession)(nil)
