// Package errors defines the domain errors raised by the service layer.
// Handlers map them to HTTP status codes with errors.Is.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrValidation   = fmt.Errorf("validation failed")
	ErrDuplicate    = fmt.Errorf("duplicate value")
	ErrUnauthorized = fmt.Errorf("unauthorized")
	ErrForbidden    = fmt.Errorf("forbidden")
)

// CompanyNotFound reports a company id that does not resolve.
func CompanyNotFound(id fmt.Stringer) error {
	return fmt.Errorf("%w: company with id %s doesn't exist in the database", ErrNotFound, id)
}

// EmployeeNotFound reports an employee id that does not resolve within its company.
func EmployeeNotFound(id fmt.Stringer) error {
	return fmt.Errorf("%w: employee with id %s doesn't exist in the database", ErrNotFound, id)
}

// ValidationError carries the per-field messages of a rejected DTO.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records a message against a field.
func (v *ValidationError) Add(field, message string) {
	v.Fields[field] = append(v.Fields[field], message)
}

// Empty reports whether no messages were recorded.
func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], "; "))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}
