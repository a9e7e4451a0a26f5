// Package routes is the static routing table: each client page path mapped
// to the session requirement that gates it. The table is data, not behavior;
// Allowed is the only logic on top of it.
package routes

import (
	"net/url"
	"sort"
	"strings"

	"github.com/bestpractice/identity-system/internal/core/domain"
)

// Access is the session state a route requires.
type Access int

const (
	// Public routes are reachable in any session state.
	Public Access = iota
	// RequiresAuth routes need an authenticated session.
	RequiresAuth
	// RequiresAdmin routes need an authenticated admin.
	RequiresAdmin
	// AnonymousOnly routes (login, register) are hidden from authenticated
	// sessions.
	AnonymousOnly
)

const (
	Home           = "/"
	Dashboard      = "/dashboard"
	Profile        = "/profile"
	Settings       = "/settings"
	SignIn         = "/auth/signin"
	SignUp         = "/auth/signup"
	ForgotPassword = "/auth/forgot-password"
	ResetPassword  = "/auth/reset-password"
	AdminDashboard = "/admin/dashboard"
	AdminSettings  = "/admin/settings"
)

// Table maps every known route to its access requirement.
var Table = map[string]Access{
	Home:           Public,
	Dashboard:      RequiresAuth,
	Profile:        RequiresAuth,
	Settings:       RequiresAuth,
	SignIn:         AnonymousOnly,
	SignUp:         AnonymousOnly,
	ForgotPassword: AnonymousOnly,
	ResetPassword:  AnonymousOnly,
	AdminDashboard: RequiresAdmin,
	AdminSettings:  RequiresAdmin,
}

// Allowed reports whether the session snapshot may access the route. Unknown
// paths are public (the 404 page is reachable by anyone).
func Allowed(path string, snap domain.SessionSnapshot) bool {
	access, known := Table[path]
	if !known {
		return true
	}
	switch access {
	case RequiresAuth:
		return snap.IsAuthenticated
	case RequiresAdmin:
		return snap.IsAuthenticated && snap.User != nil && snap.User.Role == domain.RoleAdmin
	case AnonymousOnly:
		return !snap.IsAuthenticated
	default:
		return true
	}
}

// URLConfig customizes BuildURL output.
type URLConfig struct {
	Slug  string
	Query map[string]string
}

// BuildURL appends an optional slug and query string to a base path.
func BuildURL(basePath string, cfg *URLConfig) string {
	u := basePath
	if cfg == nil {
		return u
	}

	if cfg.Slug != "" {
		if strings.HasSuffix(u, "/") {
			u += cfg.Slug
		} else {
			u += "/" + cfg.Slug
		}
	}

	if len(cfg.Query) > 0 {
		keys := make([]string, 0, len(cfg.Query))
		for k := range cfg.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		params := url.Values{}
		for _, k := range keys {
			params.Add(k, cfg.Query[k])
		}
		u += "?" + params.Encode()
	}

	return u
}
