package record

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure.
type Kind int

const (
	// KindValidation: a record was constructed or mutated with a column
	// name the entity does not declare.
	KindValidation Kind = iota
	// KindNotFound: no row matched the requested primary key.
	KindNotFound
	// KindInvalidQuery: a query was malformed before it reached the store —
	// empty criteria, or an order referencing undeclared columns.
	KindInvalidQuery
	// KindStore: the underlying store failed; the driver error is carried
	// verbatim as the cause.
	KindStore
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindInvalidQuery:
		return "invalid query"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is the engine's error type. Every failure the engine reports is an
// *Error with one of the four kinds; store failures wrap the driver error.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// Unwrap returns the underlying cause for errors.As/errors.Is support.
func (e *Error) Unwrap() error { return e.cause }

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{kind: KindValidation, message: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a not-found error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{kind: KindNotFound, message: fmt.Sprintf(format, args...)}
}

// InvalidQueryf creates an invalid-query error with a formatted message.
func InvalidQueryf(format string, args ...any) *Error {
	return &Error{kind: KindInvalidQuery, message: fmt.Sprintf(format, args...)}
}

// StoreWrap wraps a store failure, preserving the driver error as the cause.
func StoreWrap(message string, cause error) *Error {
	return &Error{kind: KindStore, message: message, cause: cause}
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsInvalidQuery reports whether err is an invalid-query error.
func IsInvalidQuery(err error) bool { return isKind(err, KindInvalidQuery) }

// IsStore reports whether err is a store error.
func IsStore(err error) bool { return isKind(err, KindStore) }
