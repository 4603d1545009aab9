package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Verification is a trusted manual snapshot of the total cash balance as of
// the start of a calendar day. At most one verification exists per day; the
// store enforces date uniqueness. Verifications are immutable once created.
type Verification struct {
	ID   string
	Date Date

	// Amount is the counted balance as of the start of Date.
	Amount decimal.Decimal

	// AdjustAmount is Amount minus the balance the system had computed for
	// the end of the previous day, recorded for audit. Zero for the first
	// verification, where there is nothing to compare against.
	AdjustAmount decimal.Decimal

	CreatedBy string
	CreatedAt time.Time
}
