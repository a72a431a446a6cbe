package models

import "errors"

var (
	// ErrNotFound is returned by repositories when a row does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a unique constraint would be violated
	ErrConflict = errors.New("resource already exists")

	// ErrInsufficientStock is returned when an issue exceeds the available quantity
	ErrInsufficientStock = errors.New("insufficient stock available")

	// ErrInvalidStatusTransition is returned when a status change is not allowed
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &ValidationError{Message: message}
}

// ErrInvalidField creates a validation error tied to a named field
func ErrInvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
