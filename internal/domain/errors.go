package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the sentinel wrapped by every ValidationError.
	ErrValidation = errors.New("validation error")

	// ErrNotConfigured is returned when the proxy has no upstream credential.
	ErrNotConfigured = errors.New("server API key not configured")

	// ErrRateLimited is returned when a client exceeded its request window.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ValidationError reports a rejected submission. It is raised before any
// network activity.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
