package models

import (
	"errors"
	"strings"
)

// Error kinds surfaced to callers. Business errors wrap one of these with a
// human-readable message, e.g. fmt.Errorf("%w: you do not own this property", ErrInvalidRequest).
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrDuplicateUsername  = errors.New("models: duplicate username")
)

// Message returns the human-readable part of a wrapped business error. For
// "invalid request: price must be greater than zero" it returns
// "price must be greater than zero".
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, kind := range []error{ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrInvalidRequest, ErrConflict} {
		if errors.Is(err, kind) {
			prefix := kind.Error() + ": "
			if strings.HasPrefix(msg, prefix) {
				return strings.TrimPrefix(msg, prefix)
			}
			return msg
		}
	}
	return msg
}
