package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("profile not found")

// ValidationError reports a missing or malformed field. It is raised before
// any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
