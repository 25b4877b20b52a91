// Package apperr defines the error kinds surfaced to callers of the core services.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable, machine-readable class of an error.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation_failed"
	KindConflict   Kind = "already_exists"
	KindInternal   Kind = "internal"
)

// Error carries a Kind and a message that is safe to show to end users.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	return e.Message
}

// Is reports whether target is a kind-only sentinel of the same kind,
// so errors.Is(err, ErrNotFound) matches every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// Message returns the user-facing message for err. Internal errors get a
// generic message so query or driver details never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}

	return "internal error"
}
