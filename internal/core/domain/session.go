package domain

// Credential is the durable session record: the bearer token issued by the
// identity service plus the user it belongs to. It is owned exclusively by
// the credential store — written on successful login, erased on logout or on
// a 401 from the gateway.
type Credential struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// AuthSession is the payload of a successful login.
type AuthSession struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// SessionSnapshot is a point-in-time, read-only view of the session state
// machine. UI code reads snapshots; it never mutates state directly.
type SessionSnapshot struct {
	User            *User  `json:"user,omitempty"`
	Token           string `json:"-"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsLoading       bool   `json:"isLoading"`
	LastError       string `json:"lastError,omitempty"`
}
