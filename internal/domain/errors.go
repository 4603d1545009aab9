package domain

import (
	"errors"
	"fmt"
)

var (
	// Balance errors
	ErrNoVerifications  = errors.New("no verifications exist yet")
	ErrDateOutOfRange   = errors.New("date precedes the earliest verification")
	ErrAnchorNotFound   = errors.New("closest verification not found where one must exist")
	ErrInvalidDateRange = errors.New("minDate must not be after maxDate")

	// Verification errors
	ErrDuplicateVerification = errors.New("a verification already exists for this date")
	ErrVerificationNotFound  = errors.New("verification not found")

	// Event source errors
	ErrSaleNotFound     = errors.New("sale not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrSpendingNotFound = errors.New("spending not found")
	ErrInvalidDate      = errors.New("invalid date")

	// Auth errors
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError describes a malformed input field. It carries the field
// path so the boundary can surface field-level detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
