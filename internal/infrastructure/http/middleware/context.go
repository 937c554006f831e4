package middleware

import (
	"context"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity injects the signed-in identity into the context.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the identity from the context, or nil when the
// caller is anonymous.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return id
}
