// Package auth turns a completed provider exchange into a session identity.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

// OAuthUser is the minimal info we get from the provider (Goth user).
type OAuthUser struct {
	Provider       string
	ProviderUserID string
	Username       string
	Discriminator  string
}

// SignInResult is the identity to bind to the session.
type SignInResult struct {
	Identity domain.Identity
	IsAdmin  bool
}

// SignIn validates the provider identity and resolves the admin flag.
type SignIn struct {
	admins domain.AdminSet
}

// NewSignIn builds the use case.
func NewSignIn(admins domain.AdminSet) *SignIn {
	return &SignIn{admins: admins}
}

// Execute returns ErrUpstreamAuth when the provider returned no usable id.
func (uc *SignIn) Execute(ctx context.Context, user OAuthUser) (*SignInResult, error) {
	id := strings.TrimSpace(user.ProviderUserID)
	if id == "" {
		return nil, fmt.Errorf("%w: provider %q returned no user id", domerrors.ErrUpstreamAuth, user.Provider)
	}
	identity := domain.Identity{
		ID:            id,
		Username:      strings.TrimSpace(user.Username),
		Discriminator: strings.TrimSpace(user.Discriminator),
	}
	return &SignInResult{Identity: identity, IsAdmin: uc.admins.IsAdmin(&identity)}, nil
}
