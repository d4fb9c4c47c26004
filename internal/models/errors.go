package models

import (
	"errors"
	"strings"
)

// ErrProductNotFound is returned when no product matches the requested ID or name.
var ErrProductNotFound = errors.New("product not found")

// Violation describes a single failed field constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input breaks one or more field constraints.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

// NewValidationError builds a ValidationError holding one violation.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []Violation{{Field: field, Message: message}}}
}
