package ports

import (
	"net/http"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

// IdentitySession holds the signed-in identity for a browser session.
type IdentitySession interface {
	// Current returns the identity bound to the request, or nil when anonymous.
	Current(r *http.Request) (*domain.Identity, error)
	Establish(w http.ResponseWriter, r *http.Request, identity domain.Identity) error
	Destroy(w http.ResponseWriter, r *http.Request) error
}
