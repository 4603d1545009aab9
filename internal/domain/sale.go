package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a sale recorded against a calendar day. Sales carry a date-only
// field entered by the operator, so no time zone conversion applies to them.
// Only cash, non-voided sales contribute to the cash balance.
type Sale struct {
	ID       string
	Amount   decimal.Decimal
	Cash     bool
	SaleDate Date
	Note     string

	Deleted   bool
	DeletedAt *time.Time

	CreatedBy string
	CreatedAt time.Time
}
