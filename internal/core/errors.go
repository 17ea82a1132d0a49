package core

import (
	"errors"
	"fmt"
)

// Kind classifies domain errors so the calling layer can map them to a
// transport-level response without string matching.
type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindConflict         Kind = "CONFLICT"
	KindOutOfOrder       Kind = "OUT_OF_ORDER"
	KindNotFound         Kind = "NOT_FOUND"
	KindUnavailable      Kind = "UNAVAILABLE"
)

// Error is a classified domain error. Storage-layer causes are kept in Err so
// callers can still unwrap to pgx errors when they need to.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds a classified error with a formatted message.
func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapStorage classifies an unexpected storage failure as KindUnavailable,
// preserving the cause for unwrapping.
func wrapStorage(err error, format string, args ...any) *Error {
	return &Error{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or "" when err carries no classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
