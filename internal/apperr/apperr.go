// Package apperr defines the application error kinds: authorization
// failures (caller lacks a role or relationship) and validation failures
// (malformed or out-of-range input). Store-level failures are wrapped as
// internal errors and are not specially classified.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindAuthorization Kind = "AUTHORIZATION"
	KindValidation    Kind = "VALIDATION"
	KindInternal      Kind = "INTERNAL"
)

// AppError carries an error kind and a human-readable message. The
// message is what callers present; no localization happens here.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Authorization creates an authorization error.
func Authorization(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps a lower-level failure (typically a store error).
func Internal(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or KindInternal when err is not an
// AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsAuthorization reports whether err is an authorization error.
func IsAuthorization(err error) bool {
	return KindOf(err) == KindAuthorization
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
