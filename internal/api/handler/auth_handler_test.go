package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bestpractice/identity-system/internal/api/middleware"
	"github.com/bestpractice/identity-system/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	byIDFn     func(ctx context.Context, id string) (*domain.User, error)
	usersFn    func(ctx context.Context) ([]*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.byIDFn(ctx, id)
}

func (s *stubAuthService) Users(ctx context.Context) ([]*domain.User, error) {
	return s.usersFn(ctx)
}

type stubDenylist struct {
	revoked map[string]int64
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, ttlSeconds int64) error {
	if d.revoked == nil {
		d.revoked = make(map[string]int64)
	}
	d.revoked[tokenID] = ttlSeconds
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := d.revoked[tokenID]
	return ok, nil
}

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i any) error { return tv.v.Struct(i) }

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "Password1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "tok-1", &domain.User{ID: "1", Name: "Alice", Email: email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub, nil, zerolog.Nop())

	body := strings.NewReader(`{"email":"alice@example.com","password":"Password1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok-1" {
		t.Fatalf("missing token in response: %v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "1" {
		t.Fatalf("missing user in response: %v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, nil, zerolog.Nop())

	body := strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_RejectsInvalidPayload(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, nil, zerolog.Nop())

	body := strings.NewReader(`{"email":"not-an-email","password":""}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password, role string) (*domain.User, error) {
			if name != "Bob" || role != "" {
				t.Fatalf("unexpected args: %s %s", name, role)
			}
			return &domain.User{ID: "2", Name: name, Email: email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub, nil, zerolog.Nop())

	body := strings.NewReader(`{"name":"Bob","email":"bob@example.com","password":"Password1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, hasToken := resp["token"]; hasToken {
		t.Fatalf("register must not issue a token: %v", resp)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password, role string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, nil, zerolog.Nop())

	body := strings.NewReader(`{"name":"Bob","email":"bob@example.com","password":"Password1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to propagate, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		byIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &domain.User{ID: "1", Name: "Alice", Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, "1")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var user domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if user.ID != "1" || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Logout_RevokesToken(t *testing.T) {
	e := newTestEcho()
	denylist := &stubDenylist{}
	h := NewAuthHandler(&stubAuthService{}, denylist, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxTokenID, "jti-1")
	c.Set(middleware.CtxExpiry, time.Now().Add(time.Hour).Unix())

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	ttl, ok := denylist.revoked["jti-1"]
	if !ok {
		t.Fatalf("token not revoked")
	}
	if ttl <= 0 || ttl > 3600 {
		t.Fatalf("ttl should match remaining token life, got %d", ttl)
	}
}

func TestAuthHandler_Users(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		usersFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "1", Name: "Alice", Role: domain.RoleAdmin},
				{ID: "2", Name: "Bob", Role: domain.RoleUser},
			}, nil
		},
	}
	h := NewAuthHandler(stub, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Users(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Users []domain.User `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp.Users))
	}
}
