package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bestpractice/identity-system/internal/api/middleware"
	"github.com/bestpractice/identity-system/internal/core/domain"
	"github.com/bestpractice/identity-system/internal/core/ports"
	"github.com/bestpractice/identity-system/internal/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
	denylist    ports.TokenDenylist
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, denylist ports.TokenDenylist, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, denylist: denylist, log: log}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user manager"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Register creates a new account. It returns the created user without a
// token; clients log in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates and returns {user, token}.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Logout revokes the presented token for its remaining lifetime. The
// response body is empty; clients end their session regardless.
func (h *AuthHandler) Logout(c echo.Context) error {
	if h.denylist != nil {
		jti, _ := c.Get(middleware.CtxTokenID).(string)
		exp, _ := c.Get(middleware.CtxExpiry).(int64)
		if jti != "" && exp > 0 {
			ttl := exp - time.Now().Unix()
			if err := h.denylist.Revoke(c.Request().Context(), jti, ttl); err != nil {
				// Logout stays best-effort: a denylist outage must not keep
				// the client logged in.
				h.log.Warn().Err(err).Msg("token revocation failed")
			} else {
				metrics.TokenRevocationsTotal.Inc()
			}
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	user, err := h.authService.UserByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Users lists all accounts. Admin-only; the RBAC middleware enforces it.
func (h *AuthHandler) Users(c echo.Context) error {
	users, err := h.authService.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]*domain.User{"users": users})
}
