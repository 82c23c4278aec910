// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrConflict = errors.New("conflict")
	ErrInternal = errors.New("internal error")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError reports required fields that were missing or malformed at
// the boundary. Fields holds the offending field names in request order; Msg
// overrides the default message when the problem is not a missing field.
type ValidationError struct {
	Fields []string
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if len(e.Fields) == 0 {
		return "validation error"
	}
	return fmt.Sprintf("validation error: missing fields: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError builds a ValidationError for the given field names.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
