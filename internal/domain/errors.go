package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrNotInitialized     = errors.New("store not initialized")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrProvider           = errors.New("provider error")

	// ErrDuplicateSession is returned when a session already exists for the
	// same (user, date, mode). It matches ErrAlreadyExists as well.
	ErrDuplicateSession = fmt.Errorf("duplicate session: %w", ErrAlreadyExists)
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ProviderErrorCategory is the user-facing class of a messaging gateway failure.
type ProviderErrorCategory string

const (
	ProviderErrorInvalidNumber        ProviderErrorCategory = "invalid_number"
	ProviderErrorUnverifiedNumber     ProviderErrorCategory = "unverified_number"
	ProviderErrorRecipientNotOptedIn  ProviderErrorCategory = "recipient_not_opted_in"
	ProviderErrorChannelMismatch      ProviderErrorCategory = "channel_mismatch"
	ProviderErrorRecipientUnreachable ProviderErrorCategory = "recipient_unreachable"
	ProviderErrorGeneric              ProviderErrorCategory = "generic"
)

func (c ProviderErrorCategory) String() string { return string(c) }

// ProviderError is a messaging gateway rejection translated into a category.
// Code keeps the raw provider code for logs and API clients.
type ProviderError struct {
	Category ProviderErrorCategory
	Code     int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("provider: %s (code %d): %s", e.Category, e.Code, e.Message)
	}
	return fmt.Sprintf("provider: %s: %s", e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error { return ErrProvider }
