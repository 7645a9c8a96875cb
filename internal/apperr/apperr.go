// Package apperr defines the error taxonomy shared by the service layer and
// both transport edges (REST and GraphQL).
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates the failure categories a request can surface.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindNotAuthorized   Kind = "not_authorized"
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindInternal        Kind = "internal"
)

// Detail is a single field-level validation message.
type Detail struct {
	Message string `json:"message"`
}

// Error carries a failure kind, the HTTP status it maps to, and optional
// field-level details for validation failures.
type Error struct {
	Kind       Kind
	HTTPStatus int
	Message    string
	Details    []Detail
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Unauthenticated reports a missing/invalid token or an unresolvable identity.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, HTTPStatus: http.StatusUnauthorized, Message: message}
}

// NotAuthorized reports an authenticated caller acting on a resource they do not own.
func NotAuthorized(message string) *Error {
	return &Error{Kind: KindNotAuthorized, HTTPStatus: http.StatusForbidden, Message: message}
}

// InvalidInput aggregates all field-level validation failures into one error.
func InvalidInput(message string, details []Detail) *Error {
	return &Error{Kind: KindInvalidInput, HTTPStatus: http.StatusUnprocessableEntity, Message: message, Details: details}
}

// NotFound reports an absent entity.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, HTTPStatus: http.StatusNotFound, Message: message}
}

// Internal wraps an unexpected failure; the default when no explicit kind applies.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, HTTPStatus: http.StatusInternalServerError, Message: message, Err: err}
}

// From extracts an *Error from err, wrapping unknown errors as Internal so the
// transport layer always has a status to send.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An error occurred", err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
