package api_models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the service layer. Controllers map these to
// HTTP status codes; the webhook gateway contains all of them.
var (
	// ErrDeviceNotFound is returned when a referenced device does not exist
	ErrDeviceNotFound = errors.New("device not found")

	// ErrProviderUnavailable is returned when the text-generation or
	// messaging platform call failed or timed out
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrUnsupportedProvider is returned at startup when the configured AI
	// provider name is not recognized
	ErrUnsupportedProvider = errors.New("unsupported AI provider")
)

// ValidationError flags a missing or malformed field at the API boundary
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for one field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
