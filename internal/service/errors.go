// Package service contains the command and query services: the write path
// validates business invariants before mutating one repository, the read
// path projects active rows into response views.  Services return typed
// errors; the handler layer maps them onto HTTP status codes and never the
// other way around.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrParentNotFound is returned when a command references an owner entity
// (user, field, crop, device, sensor) that does not exist or has been
// deactivated.  Handlers map it to 404 like a plain not-found.
var ErrParentNotFound = errors.New("parent not found")

// ErrInvalidCredentials is returned on login when the username is unknown
// or the password does not match.  Both cases share one error so the API
// does not leak which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned when a bearer token is malformed, expired or
// signed with the wrong key.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrIdentityNotFound is returned when a valid token references a user
// that has been deactivated since issuance.
var ErrIdentityNotFound = errors.New("identity no longer active")

// ValidationError aggregates field-level input failures.  Handlers render
// it as a 400 with the Fields map as the body.
type ValidationError struct {
	Fields map[string]string
}

func newValidation() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, msg string) { e.Fields[field] = msg }

func (e *ValidationError) ok() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}
