package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing products, orders and profiles.
	ErrNotFound = errors.New("not found")
	// ErrForbidden covers missing identity and ownership mismatches.
	ErrForbidden = errors.New("you do not have permission to update this order")
	// ErrOrderPaid rejects any mutation of a terminal order. The text is
	// the detail message clients see.
	ErrOrderPaid = errors.New("Paid orders cannot be updated.")
	// ErrUnauthorized is a failed credential check at sign-in.
	ErrUnauthorized = errors.New("invalid email or password")
)

// ValidationError is a malformed field in a request body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
