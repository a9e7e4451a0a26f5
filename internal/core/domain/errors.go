package domain

import (
	"errors"
	"net/http"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrTokenRevoked = errors.New("token revoked")

// fallbackMessage is surfaced when neither the service body nor the
// transport layer provides anything usable.
const fallbackMessage = "An unexpected error occurred"

// APIError is the single normalized error shape surfaced above the gateway.
// Every transport failure and every non-2xx response is converted into this
// shape at the gateway boundary; nothing above it ever inspects a raw
// response. Optional fields are decided once, at construction — never
// inferred later.
type APIError struct {
	Success bool `json:"success"` // always false; kept for wire compatibility

	// Message priority: service-supplied message, then transport error
	// text, then a generic fallback.
	Message string `json:"message"`

	// Errors carries field-level validation errors from the service body,
	// passed through unchanged.
	Errors map[string][]string `json:"errors,omitempty"`

	// StatusCode is the HTTP status of the response, or 0 when no response
	// was received (transport failure).
	StatusCode int `json:"statusCode,omitempty"`

	cause error
}

// NewAPIError builds a normalized error applying the message priority rule.
func NewAPIError(message string, statusCode int, fieldErrors map[string][]string, cause error) *APIError {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	if message == "" {
		message = fallbackMessage
	}
	return &APIError{
		Message:    message,
		Errors:     fieldErrors,
		StatusCode: statusCode,
		cause:      cause,
	}
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.cause }

// IsAuthFailure reports whether e is an authorization failure (HTTP 401).
func (e *APIError) IsAuthFailure() bool { return e.StatusCode == http.StatusUnauthorized }

// AsAPIError extracts an *APIError from err's chain, or nil.
func AsAPIError(err error) *APIError {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsAuthFailure reports whether err carries a 401 from the service.
func IsAuthFailure(err error) bool {
	ae := AsAPIError(err)
	return ae != nil && ae.IsAuthFailure()
}
