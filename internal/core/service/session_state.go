package service

import (
	"sync"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

// SessionState is the in-memory session state machine: the single source of
// truth for "is the user logged in". It is mutated only by SessionService in
// response to operation outcomes; consumers read value snapshots or register
// observers.
//
// Transitions:
//
//	anonymous     --login success--> authenticated
//	authenticated --logout--------->  anonymous        (cannot fail)
//	authenticated --refresh 401---->  anonymous
//
// lastError is orthogonal: it can be set from any state and is cleared at
// the start of every new operation. Overlapping operations resolve
// last-write-wins; there is no sequence guard and no cancellation.
type SessionState struct {
	mu              sync.Mutex
	user            *domain.User
	token           string
	isAuthenticated bool
	isLoading       bool
	lastError       string
	watchers        []func(domain.SessionSnapshot)
}

// NewSessionState returns a state machine seeded from a persisted
// credential. A nil credential starts anonymous. isLoading and lastError
// always start false/empty regardless of what was persisted.
func NewSessionState(cred *domain.Credential) *SessionState {
	s := &SessionState{}
	if cred != nil && cred.Token != "" {
		s.user = cred.User.Clone()
		s.token = cred.Token
		s.isAuthenticated = true
	}
	return s
}

// Snapshot returns a point-in-time copy of the state.
func (s *SessionState) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionState) snapshotLocked() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		User:            s.user.Clone(),
		Token:           s.token,
		IsAuthenticated: s.isAuthenticated,
		IsLoading:       s.isLoading,
		LastError:       s.lastError,
	}
}

// Watch registers fn to be called after every mutation with the resulting
// snapshot. Watchers run synchronously on the mutating goroutine, outside
// the state lock.
func (s *SessionState) Watch(fn func(domain.SessionSnapshot)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// notify must be called without the lock held.
func (s *SessionState) notify(snap domain.SessionSnapshot, watchers []func(domain.SessionSnapshot)) {
	for _, fn := range watchers {
		fn(snap)
	}
}

func (s *SessionState) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	watchers := s.watchers
	s.mu.Unlock()
	s.notify(snap, watchers)
}

// Login applies a successful authentication outcome.
func (s *SessionState) Login(user *domain.User, token string) {
	s.mutate(func() {
		s.user = user.Clone()
		s.token = token
		s.isAuthenticated = true
		s.lastError = ""
	})
}

// Logout resets to anonymous and clears any error.
func (s *SessionState) Logout() {
	s.mutate(func() {
		s.user = nil
		s.token = ""
		s.isAuthenticated = false
		s.lastError = ""
	})
}

// Deauthenticate resets to anonymous but preserves lastError, for
// transitions forced by an authorization failure mid-operation.
func (s *SessionState) Deauthenticate() {
	s.mutate(func() {
		s.user = nil
		s.token = ""
		s.isAuthenticated = false
	})
}

// SetUser replaces the user wholesale, leaving authentication untouched.
func (s *SessionState) SetUser(user *domain.User) {
	s.mutate(func() { s.user = user.Clone() })
}

// SetLoading toggles the in-flight flag.
func (s *SessionState) SetLoading(loading bool) {
	s.mutate(func() { s.isLoading = loading })
}

// SetError records the failure message of the most recently settled operation.
func (s *SessionState) SetError(msg string) {
	s.mutate(func() { s.lastError = msg })
}

// ClearError resets lastError; called at the start of every operation.
func (s *SessionState) ClearError() {
	s.mutate(func() { s.lastError = "" })
}
