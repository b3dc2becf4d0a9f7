package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrMissingOwner is returned when a task is created without complete
	// owner information.
	ErrMissingOwner = fmt.Errorf("%w: owner name and email are required", ErrValidation)

	// ErrInvalidTitle is returned when a task title is empty or too long.
	ErrInvalidTitle = fmt.Errorf("%w: title is required and limited to %d characters", ErrValidation, MaxTitleLength)

	// ErrMissingEmail is returned when an owner lookup has no email.
	ErrMissingEmail = fmt.Errorf("%w: email is required", ErrValidation)
)

// ValidationError carries a client-safe message for a failed field check.
// Message is what the API returns; Err links the failure to a sentinel above.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel so errors.Is works against ErrValidation
// and ErrInvalidID.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}
