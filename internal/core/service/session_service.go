package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/bestpractice/identity-system/internal/core/domain"
	"github.com/bestpractice/identity-system/internal/core/ports"
)

// SessionService is the facade the UI layer calls. Each operation clears
// lastError, flags loading, delegates to the identity adapter, records the
// outcome in the state machine, and re-raises failures to the caller. Dual
// reporting (returned error + lastError in state) is intentional: one-shot
// and reactive consumers are both supported.
//
// Construct one per process and inject it; there is no package-level
// singleton.
type SessionService struct {
	state    *SessionState
	identity ports.IdentityService
	creds    ports.CredentialStore
	log      zerolog.Logger
}

// NewSessionService rehydrates session state from the credential store and
// returns the facade. A persisted JWT whose exp claim has passed is
// discarded: the store is cleared and the session starts anonymous. Opaque
// (non-JWT) tokens are kept as-is. A store read failure also starts the
// session anonymous rather than failing construction.
func NewSessionService(creds ports.CredentialStore, identity ports.IdentityService, log zerolog.Logger) *SessionService {
	s := &SessionService{
		identity: identity,
		creds:    creds,
		log:      log,
	}

	cred, err := creds.Load(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("session rehydration failed, starting anonymous")
		cred = nil
	}
	if cred != nil && tokenExpired(cred.Token, time.Now()) {
		log.Info().Msg("persisted token expired, clearing session")
		if err := creds.Clear(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to clear expired credential")
		}
		cred = nil
	}

	s.state = NewSessionState(cred)
	return s
}

// Snapshot returns the current session state.
func (s *SessionService) Snapshot() domain.SessionSnapshot {
	return s.state.Snapshot()
}

// Watch registers an observer invoked after every state change.
func (s *SessionService) Watch(fn func(domain.SessionSnapshot)) {
	s.state.Watch(fn)
}

// Login authenticates with the identity service. On success the credential
// has already been persisted by the adapter and the state machine becomes
// authenticated. On failure the state machine keeps its previous
// authentication but records the failure message, and the error is returned.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.state.ClearError()
	s.state.SetLoading(true)
	defer s.state.SetLoading(false)

	sess, err := s.identity.Login(ctx, email, password)
	if err != nil {
		s.state.SetError(errorMessage(err))
		return nil, err
	}

	s.state.Login(sess.User, sess.Token)
	s.log.Info().Str("email", email).Msg("login successful")
	return sess.User, nil
}

// Logout ends the session. The remote call is best-effort; local state
// always becomes anonymous and the credential store is always emptied, so
// Logout never leaves the machine authenticated.
func (s *SessionService) Logout(ctx context.Context) error {
	s.state.ClearError()
	s.state.SetLoading(true)
	defer s.state.SetLoading(false)

	if err := s.identity.Logout(ctx); err != nil {
		// The adapter contract swallows remote failures; a non-nil error
		// here means the local clear itself failed, which we still do not
		// let resurrect the session.
		s.log.Warn().Err(err).Msg("logout cleanup reported an error")
	}

	s.state.Logout()
	return nil
}

// RefreshCurrentUser re-fetches the authenticated user and replaces it in
// state. A failed refresh does not deauthenticate — unless the failure is an
// authorization failure, in which case the gateway has already cleared the
// stored credential and the state machine follows it to anonymous.
func (s *SessionService) RefreshCurrentUser(ctx context.Context) (*domain.User, error) {
	s.state.ClearError()
	s.state.SetLoading(true)
	defer s.state.SetLoading(false)

	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		s.state.SetError(errorMessage(err))
		if domain.IsAuthFailure(err) {
			s.state.Deauthenticate()
		}
		return nil, err
	}

	s.state.SetUser(user)
	s.persistRefreshedUser(ctx, user)
	return user, nil
}

// Register creates a new account. It does not authenticate; callers log in
// afterwards.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	s.state.ClearError()
	s.state.SetLoading(true)
	defer s.state.SetLoading(false)

	user, err := s.identity.Register(ctx, input)
	if err != nil {
		s.state.SetError(errorMessage(err))
		return nil, err
	}
	return user, nil
}

// persistRefreshedUser refreshes the stored snapshot so a restart sees the
// latest profile. The token is reused unchanged; if the store was cleared
// mid-flight there is nothing to refresh.
func (s *SessionService) persistRefreshedUser(ctx context.Context, user *domain.User) {
	cred, err := s.creds.Load(ctx)
	if err != nil || cred == nil || cred.Token == "" {
		return
	}
	if err := s.creds.Save(ctx, cred.Token, user); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist refreshed user")
	}
}

func errorMessage(err error) string {
	if ae := domain.AsAPIError(err); ae != nil {
		return ae.Message
	}
	return err.Error()
}

// tokenExpired reports whether tok is a JWT with an exp claim in the past.
// Signature verification is deliberately skipped: the client never holds the
// signing key, and a forged-but-unexpired token is caught by the service's
// 401 on first use.
func tokenExpired(tok string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false // opaque token, no local expiry knowledge
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
