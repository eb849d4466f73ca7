package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services. The HTTP layer owns the mapping to
// status codes; nothing below the router picks a status itself.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthorized      = errors.New("not authorized to access this route")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
)

// NotFoundError tags a lookup by a well-formed identifier that matched
// nothing.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// CastError tags an identifier that is not a valid ObjectID, produced by the
// persistence adapter before any query runs.
type CastError struct {
	Entity string
}

func (e *CastError) Error() string {
	return "invalid " + e.Entity + " id"
}

// DuplicateKeyError tags a write rejected by a unique index. Field names the
// offending field so the client message can be specific.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("the %s provided is already in use", e.Field)
}

// ValidationError carries one message per failing field. The messages are
// joined on the way out so the envelope stays a single string.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// ForbiddenError tags an authenticated request whose role is not in the
// allowed set for the route.
type ForbiddenError struct {
	Role string
}

func (e *ForbiddenError) Error() string {
	role := e.Role
	if role == "" {
		role = "unknown"
	}
	return fmt.Sprintf("user role %s is not authorized to access this route", role)
}
