package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// Message is the user-facing text shown next to the field.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match any ValidationError with errors.Is(err, ErrValidationFailed).
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// FieldMessages collects the user-facing messages of every ValidationError in err,
// keyed by field name. Errors that are not validation errors are ignored.
func FieldMessages(err error) map[string][]string {
	out := map[string][]string{}
	if err == nil {
		return out
	}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			for field, msgs := range FieldMessages(e) {
				out[field] = append(out[field], msgs...)
			}
		}
		return out
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		out[ve.Field] = append(out[ve.Field], ve.Message)
	}
	return out
}
