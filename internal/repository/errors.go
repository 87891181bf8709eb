// Package repository contains data access logic separated from HTTP
// handlers and services.  This file defines the sentinel errors shared by
// every repository.  Services and handlers use errors.Is against these
// values to distinguish failure kinds: ErrNotFound maps to HTTP 404 and
// ErrDuplicate to HTTP 409 at the boundary.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a row does not exist or has been
// soft-deleted and the query only considers active rows.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint, either detected by a pre-check or by the database itself.
var ErrDuplicate = errors.New("already exists")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).  The unique indexes are the last line of defense against
// concurrent writes racing the service-level pre-checks.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
