package domain

import (
	"errors"
	"strings"
)

// Authentication failures. All of them collapse to the same 401 at the HTTP boundary.
var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedToken     = errors.New("malformed token")
	ErrExpiredToken       = errors.New("token expired")
	ErrInvalidSignature   = errors.New("invalid token signature")
)

// ErrInsufficientRole is returned when a valid identity lacks the required role.
var ErrInsufficientRole = errors.New("insufficient privileges")

// ErrStoreUnavailable marks a persistence failure that the core never retries.
var ErrStoreUnavailable = errors.New("store unavailable")

var (
	ErrEntryNotFound    = errors.New("time entry not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrEmailInUse       = errors.New("email already in use")
)

// IsAuthFailure reports whether err is one of the authentication failure kinds.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrCredentialNotFound) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidSignature)
}

// ValidationError collects domain validation messages; each one is shown to the caller.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Add appends a message.
func (e *ValidationError) Add(msg string) {
	e.Messages = append(e.Messages, msg)
}

// OrNil returns e when it holds at least one message, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Messages) == 0 {
		return nil
	}
	return e
}
