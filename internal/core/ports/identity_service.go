package ports

import (
	"context"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

// RegisterInput carries the fields of a signup request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityService is the typed adapter over the remote identity endpoints.
type IdentityService interface {
	// Login authenticates and, on success, persists the returned credential
	// before returning, so the very next outbound call already carries it.
	Login(ctx context.Context, email, password string) (*domain.AuthSession, error)
	// Logout invokes the remote logout operation and clears the local
	// credential regardless of the remote outcome. It never returns a
	// remote failure.
	Logout(ctx context.Context) error
	// CurrentUser fetches the authenticated user. Read-only: it does not
	// mutate the credential store.
	CurrentUser(ctx context.Context) (*domain.User, error)
	// Register creates a new account. It does not authenticate.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}
