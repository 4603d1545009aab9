package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Spending is cash leaving the till at a specific instant. Like payments,
// OccurredAt is a UTC instant bucketed into the business-local day. All
// non-voided spendings reduce the cash balance.
type Spending struct {
	ID          string
	Amount      decimal.Decimal
	OccurredAt  time.Time
	Description string

	Deleted   bool
	DeletedAt *time.Time

	CreatedBy string
	CreatedAt time.Time
}
