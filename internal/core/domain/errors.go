package domain

import (
	"errors"
	"strings"
)

var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUnauthorized = errors.New("unauthorized")

// ErrTokenExpired and ErrTokenInvalid both surface as ErrUnauthorized to
// clients; they exist so the failure reason can be logged distinctly.
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")

// ValidationError carries every rule violation found in a request payload,
// in field declaration order, then rule order within a field.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// IsUnauthorized reports whether err maps to an external 401, regardless
// of the internal reason.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenInvalid)
}
