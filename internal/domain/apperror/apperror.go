package apperror

import "errors"

// Kind classifies a business error.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindLocked          Kind = "locked"
)

// Error is a business error whose Message is safe to show to the caller.
// Sentinel values are compared by identity with errors.Is.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// New creates a business error.
// PRE: message is non-empty
// POST: Returns a new *Error with the given kind and message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a validation error with a dynamic message.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// As extracts the business error from err's chain.
// PRE: none
// POST: Returns (e, true) if err wraps an *Error, (nil, false) otherwise
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ErrForbidden is returned when the caller is neither the owner nor an admin.
var ErrForbidden = New(KindForbidden, "Nicht berechtigt.")
