// Package memory provides an in-memory credential store for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

// Store keeps the credential in process memory. It satisfies the same
// contract as the durable stores minus persistence across restarts.
type Store struct {
	mu   sync.Mutex
	cred *domain.Credential
}

func New() *Store {
	return &Store{}
}

func (s *Store) Save(_ context.Context, token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &domain.Credential{Token: token, User: user.Clone()}
	return nil
}

func (s *Store) Load(_ context.Context) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil || s.cred.Token == "" {
		return nil, nil
	}
	return &domain.Credential{Token: s.cred.Token, User: s.cred.User.Clone()}, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
