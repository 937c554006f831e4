package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

func roundTrip(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/order-tracker", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestCookieSession_EstablishCurrentDestroy(t *testing.T) {
	s := NewCookieSession([]byte(strings.Repeat("k", 32)), false)

	r := httptest.NewRequest(http.MethodGet, "/order-tracker", nil)
	if id, err := s.Current(r); err != nil || id != nil {
		t.Fatalf("Current(anonymous) = %v, %v", id, err)
	}

	w := httptest.NewRecorder()
	if err := s.Establish(w, r, domain.Identity{ID: "42", Username: "kit", Discriminator: "0"}); err != nil {
		t.Fatalf("Establish() error = %v", err)
	}
	r = roundTrip(t, w)
	id, err := s.Current(r)
	if err != nil || id == nil || id.ID != "42" || id.Username != "kit" {
		t.Fatalf("Current() = %+v, %v", id, err)
	}

	w = httptest.NewRecorder()
	if err := s.Destroy(w, r); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("Destroy() cookies = %+v, want expired cookie", cookies)
	}
}

func TestCookieSession_TamperedCookieIsAnonymous(t *testing.T) {
	s := NewCookieSession([]byte(strings.Repeat("k", 32)), false)
	other := NewCookieSession([]byte(strings.Repeat("x", 32)), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := other.Establish(w, r, domain.Identity{ID: "1"}); err != nil {
		t.Fatalf("Establish() error = %v", err)
	}
	id, err := s.Current(roundTrip(t, w))
	if err != nil || id != nil {
		t.Errorf("Current(foreign cookie) = %+v, %v; want anonymous", id, err)
	}
}
