package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received from a customer at a specific instant.
// OccurredAt is stored as a UTC instant and must be bucketed into the
// business-local calendar day before any per-day grouping. Only direct
// payments (cash handed over, not bank credits) affect the cash balance.
// Payments are immutable.
type Payment struct {
	ID           string
	Amount       decimal.Decimal
	Direct       bool
	OccurredAt   time.Time
	Counterparty string

	CreatedBy string
	CreatedAt time.Time
}
