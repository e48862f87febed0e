// Package apperr defines the typed error taxonomy returned by the
// verification and scoring engine. Every rejected state change maps to one of
// these kinds; all are recoverable by the caller.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	// Validation marks malformed input (missing location, bad image reference).
	Validation Kind = iota
	// InvalidState marks a transition attempted from a state that forbids it.
	InvalidState
	// Conflict marks a concurrent transition that lost a race.
	Conflict
	// Authorization marks a banned user mutating, or a non-admin on an
	// admin-only operation.
	Authorization
	// NotFound marks a missing submission or user.
	NotFound
)

// Error is a typed engine error carrying the API error code and message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is makes errors.Is match on Kind so callers can test against the sentinel
// constructors below without string comparison.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Code: "VALIDATION_ERROR", Message: fmt.Sprintf(format, args...)}
}

func InvalidStatef(format string, args ...any) *Error {
	return &Error{Kind: InvalidState, Code: "INVALID_STATE", Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Code: "CONFLICT", Message: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...any) *Error {
	return &Error{Kind: Authorization, Code: "FORBIDDEN", Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Code: "NOT_FOUND", Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation    = &Error{Kind: Validation, Code: "VALIDATION_ERROR"}
	ErrInvalidState  = &Error{Kind: InvalidState, Code: "INVALID_STATE"}
	ErrConflict      = &Error{Kind: Conflict, Code: "CONFLICT"}
	ErrAuthorization = &Error{Kind: Authorization, Code: "FORBIDDEN"}
	ErrNotFound      = &Error{Kind: NotFound, Code: "NOT_FOUND"}
)

// KindOf returns the Kind of err and true when err is an engine error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
