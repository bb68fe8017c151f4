package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and for HTTP status mapping.
type Kind string

const (
	KindBadRequest    Kind = "BAD_REQUEST"
	KindNotFound      Kind = "NOT_FOUND"
	KindConflict      Kind = "CONFLICT"
	KindUnprocessable Kind = "UNPROCESSABLE"
	KindTransient     Kind = "TRANSIENT_CONFLICT"
	KindTimeout       Kind = "TIMEOUT"
	KindInternal      Kind = "INTERNAL"
)

// Error is an application error carrying a kind, a client-safe message and
// the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an error with a kind and message
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *Error {
	return &Error{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NotFound creates a not found error
func NotFound(resource string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Conflict creates a conflict error
func Conflict(message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
	}
}

// Unprocessable creates an unprocessable error
func Unprocessable(message string) *Error {
	return &Error{
		Kind:    KindUnprocessable,
		Message: message,
	}
}

// Transient creates a transient conflict error; callers may retry
func Transient(message string, err error) *Error {
	return &Error{
		Kind:    KindTransient,
		Message: message,
		Err:     err,
	}
}

// Timeout creates a timeout error
func Timeout(message string, err error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: message,
		Err:     err,
	}
}

// Internal creates an internal error
func Internal(message string, err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: message,
		Err:     err,
	}
}

// As extracts an *Error from an error chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of an error, or KindInternal for unclassified errors
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether the error chain contains an Error of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsTransient reports whether the error is safe to retry
func IsTransient(err error) bool {
	return IsKind(err, KindTransient)
}
