package ports

import (
	"context"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

// UserRepository defines the persistence interface of the identity provider.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// AuthService defines the identity provider's application surface.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	UserByID(ctx context.Context, id string) (*domain.User, error)
	Users(ctx context.Context) ([]*domain.User, error)
}

// TokenDenylist records revoked tokens until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttlSeconds int64) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
