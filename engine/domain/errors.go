package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for load-time validation failures.
var (
	ErrMissingCode     = errors.New("missing fault code")
	ErrMissingBrand    = errors.New("missing brand")
	ErrMissingTitle    = errors.New("missing title")
	ErrUnknownSeverity = errors.New("unknown severity")
	ErrDuplicateRecord = errors.New("duplicate (code, brand) record")
)

// ValidationError wraps a sentinel with context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
