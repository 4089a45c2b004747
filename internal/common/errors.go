// Package common provides shared utilities and types used across the application.
package common

import "fmt"

// ValidationError reports a single field that violated its invariant at
// construction time.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IntegrityError reports a whole-collection consistency failure detected by
// re-validation after a mutation. The store always rolls the mutation back
// before returning one of these.
type IntegrityError struct {
	Code   string
	Reason string
}

func (e *IntegrityError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("integrity check failed: %s", e.Reason)
	}
	return fmt.Sprintf("integrity check failed for item %s: %s", e.Code, e.Reason)
}

// NewIntegrityError creates an integrity error for the item with the given code.
func NewIntegrityError(code, reason string) error {
	return &IntegrityError{Code: code, Reason: reason}
}

// DuplicateCodeError reports an add with a code already present in the
// collection. Codes compare case-insensitively.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("item code %s already exists", e.Code)
}

// NotFoundError reports an operation referencing a nonexistent item code.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %s not found", e.Code)
}
