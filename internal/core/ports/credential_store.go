package ports

import (
	"context"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

// CredentialStore persists the current session credential across process
// restarts. It holds whatever it was told to hold until explicitly cleared
// or overwritten; no expiry logic lives here.
type CredentialStore interface {
	// Save writes the token and user atomically.
	Save(ctx context.Context, token string, user *domain.User) error
	// Load returns the persisted credential, or (nil, nil) when nothing is
	// stored. Absence is a first-class outcome, not an error.
	Load(ctx context.Context) (*domain.Credential, error)
	// Clear removes the stored credential. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
