package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleManager = "manager"
)

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser || role == RoleManager
}

// User models an authenticated actor as returned by the identity service.
// It is an immutable value from the client's point of view: each fetch
// replaces it wholesale, there is no partial merge at this layer.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// PasswordHash is only populated server-side; it never crosses the wire.
	PasswordHash string `json:"-"`
}

// Clone returns an independent copy of u, or nil for nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
