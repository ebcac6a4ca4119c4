// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped by a *ValidationError carrying per-field details.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidRole is returned when a role string cannot be used where a
	// strict role is required (path parameters, admin role changes).
	ErrInvalidRole = errors.New("invalid role")
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level violations for one entity or request.
// It unwraps to the cause (ErrValidation unless stated otherwise) so callers
// can keep matching with errors.Is.
type ValidationError struct {
	Fields []FieldError
	Cause  error
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string, cause error) *ValidationError {
	if cause == nil {
		cause = ErrValidation
	}
	return &ValidationError{
		Fields: []FieldError{{Field: field, Message: message}},
		Cause:  cause,
	}
}

// Add records another field violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns nil when nothing was recorded, so it can be returned directly
// from Validate methods.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%v: %s", e.Unwrap(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	if e.Cause == nil {
		return ErrValidation
	}
	return e.Cause
}
