// Package apperr defines the error taxonomy for the analytics engine.
// Validation faults are raised immediately to the caller and never retried;
// repository faults wrap the underlying cause and propagate unchanged
// through single-user operations.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that branch on failure class.
type Kind int

const (
	// KindValidation marks invalid parameters (bad period type,
	// out-of-range intensity, unknown emotion).
	KindValidation Kind = iota
	// KindNotFound marks a missing record.
	KindNotFound
	// KindRepository marks a persistence-layer fault.
	KindRepository
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRepository:
		return "repository"
	default:
		return "unknown"
	}
}

// Error carries a kind, the operation that failed, and an optional cause.
type Error struct {
	Kind Kind
	Op   string // e.g. "service.GetRecommendations"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a validation error.
func Validationf(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error.
func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

// Repository wraps a persistence fault.
func Repository(op string, err error) error {
	return &Error{Kind: KindRepository, Op: op, Err: err}
}

// KindOf returns the kind of err, or ok=false if err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsValidation reports whether err is a validation fault.
func IsValidation(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindValidation
}

// IsNotFound reports whether err is a not-found fault.
func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}

// IsRepository reports whether err is a persistence fault.
func IsRepository(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindRepository
}
