package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bestpractice/identity-system/internal/api/handler"
	"github.com/bestpractice/identity-system/internal/api/middleware"
	"github.com/bestpractice/identity-system/internal/core/domain"
	"github.com/bestpractice/identity-system/internal/core/ports"
)

// Deps carries the constructed collaborators the router wires up. DB and RDB
// are only used by the readiness probe and may be nil in the in-memory setup.
type Deps struct {
	Auth      ports.AuthService
	Denylist  ports.TokenDenylist
	JWTSecret string
	DB        *mongo.Database
	RDB       *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Denylist, deps.Log)
	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Denylist)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/auth/me", authHandler.Me, authMiddleware)
	e.GET("/auth/users", authHandler.Users, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.RDB)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
