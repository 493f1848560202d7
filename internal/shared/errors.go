// ============================================================================
// internal/shared/errors.go
// Error taxonomy shared by the services and the HTTP layer
// ============================================================================

package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service error so the HTTP layer can pick a status
// code and the retry policy can decide whether another attempt makes sense.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTransient
	KindPersistence
)

// Error carries a short user-facing message, an optional remediation hint
// for store-connectivity failures, and the wrapped cause. Internal details
// never leave the process; only Message and SuggestedAction are rendered.
type Error struct {
	Kind            ErrorKind
	Message         string
	SuggestedAction string
	Err             error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an Error of the given kind around a cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewTransientError builds a transient store error carrying a remediation
// hint for the caller.
func NewTransientError(message, suggestedAction string, err error) *Error {
	return &Error{Kind: KindTransient, Message: message, SuggestedAction: suggestedAction, Err: err}
}

// KindOf extracts the ErrorKind from an error chain. Plain errors report
// KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsTransient reports whether err is a retryable store failure. Validation
// and credential failures are never transient.
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}
