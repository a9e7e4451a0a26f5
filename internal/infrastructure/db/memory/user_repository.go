// Package memory provides the in-memory user repository identityd uses in
// development when no MONGO_URI is configured, and tests use everywhere.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

// UserRepository keeps accounts in a map keyed by ID.
type UserRepository struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]*domain.User), nextID: 1}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}

	created := user.Clone()
	created.ID = strconv.Itoa(r.nextID)
	r.nextID++
	r.byID[created.ID] = created.Clone()
	return created, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
