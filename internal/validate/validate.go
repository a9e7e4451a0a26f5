// Package validate holds the form-level credential validation helpers: pure
// functions over a shared go-playground validator instance.
package validate

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

var (
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
)

// Email reports whether s is a plausible email address.
func Email(s string) bool {
	return v.Var(s, "required,email") == nil
}

// PasswordResult carries the outcome of a password strength check.
type PasswordResult struct {
	IsValid bool
	Errors  []string
}

// Password checks the signup password rules: at least 8 characters, one
// uppercase letter, one lowercase letter, and one digit.
func Password(s string) PasswordResult {
	var errs []string
	if len(s) < 8 {
		errs = append(errs, "Password must be at least 8 characters")
	}
	if !upperRe.MatchString(s) {
		errs = append(errs, "Password must contain at least 1 uppercase letter")
	}
	if !lowerRe.MatchString(s) {
		errs = append(errs, "Password must contain at least 1 lowercase letter")
	}
	if !digitRe.MatchString(s) {
		errs = append(errs, "Password must contain at least 1 number")
	}
	return PasswordResult{IsValid: len(errs) == 0, Errors: errs}
}
