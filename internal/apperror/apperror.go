// Package apperror defines the domain errors shared by the repository,
// service and handler layers.
//
// Lower layers return these errors; only the handler layer knows how they
// map onto HTTP status codes. Callers test for a category with errors.Is
// against one of the sentinels below.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidFormat = errors.New("invalid format")
)

// AppError carries a sentinel category plus a message that is safe to show
// to the client.
type AppError struct {
	Err     error  // sentinel category
	Message string // client-facing message
	Field   string // optional: offending field or document path
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound is returned both when a row does not exist and when it belongs to
// another user.
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a write that collides with an existing row, such as a
// second account claiming an email that is already registered.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// InvalidFormat reports a structurally unusable document, such as a backup
// without a version marker.
func InvalidFormat(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidFormat,
		Message: message,
	}
}
