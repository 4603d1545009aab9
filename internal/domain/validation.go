package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxAmount         = "1000000000" // 1 billion, sanity cap for a cash till
	MaxNoteLength     = 500
	MinPasswordLength = 8
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEventAmount validates a sale/payment/spending amount. Event
// magnitudes are always positive; the sign is decided by the event kind.
func ValidateEventAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount", "must be positive")
	}
	max, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(max) {
		return NewValidationError("amount", "exceeds maximum allowed")
	}
	return nil
}

// ValidateVerificationAmount validates a counted balance. A till can be
// counted at zero but never negative.
func ValidateVerificationAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewValidationError("amount", "must not be negative")
	}
	max, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(max) {
		return NewValidationError("amount", "exceeds maximum allowed")
	}
	return nil
}

// ValidateDateRange checks an optional min/max date pair.
func ValidateDateRange(minDate, maxDate *Date) error {
	if minDate != nil && maxDate != nil && minDate.After(*maxDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValidateNote validates a free-text note or description.
func ValidateNote(field, note string) error {
	if len(note) > MaxNoteLength {
		return NewValidationError(field, "exceeds maximum length")
	}
	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return NewValidationError("email", "invalid email format")
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
