package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("Project not found")

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

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
