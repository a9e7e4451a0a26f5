package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bestpractice/identity-system/internal/core/domain"
	"github.com/bestpractice/identity-system/internal/core/ports"
)

// Remote identity endpoints, relative to the configured base URL.
const (
	loginPath    = "/auth/login"
	logoutPath   = "/auth/logout"
	mePath       = "/auth/me"
	registerPath = "/auth/register"
)

// IdentityService is the typed adapter over the remote identity provider.
// Each operation is a thin wrapper over the gateway calling a fixed
// endpoint; Login and Logout are the only operations that touch the
// credential store.
type IdentityService struct {
	api   ports.APIClient
	creds ports.CredentialStore
	log   zerolog.Logger
}

func NewIdentityService(api ports.APIClient, creds ports.CredentialStore, log zerolog.Logger) *IdentityService {
	return &IdentityService{api: api, creds: creds, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and persists the returned credential before
// returning, so the very next outbound call already carries it.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	var sess domain.AuthSession
	if err := s.api.Post(ctx, loginPath, loginRequest{Email: email, Password: password}, &sess); err != nil {
		return nil, err
	}

	if sess.Token != "" {
		if err := s.creds.Save(ctx, sess.Token, sess.User); err != nil {
			return nil, err
		}
	}
	return &sess, nil
}

// Logout is best-effort from the client's point of view: the remote call
// may fail or be unreachable, but the local session always ends. The remote
// failure is logged and swallowed; only a local clear failure is returned.
func (s *IdentityService) Logout(ctx context.Context) error {
	if err := s.api.Post(ctx, logoutPath, nil, nil); err != nil {
		s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
	return s.creds.Clear(ctx)
}

// CurrentUser fetches the authenticated user. It never mutates the
// credential store; on a 401 the gateway has already cleared it.
func (s *IdentityService) CurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := s.api.Get(ctx, mePath, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new account. The response carries the created user;
// no credential is issued or stored.
func (s *IdentityService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	var resp struct {
		User *domain.User `json:"user"`
	}
	if err := s.api.Post(ctx, registerPath, input, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}
