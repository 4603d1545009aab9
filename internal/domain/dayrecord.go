package domain

import "github.com/shopspring/decimal"

// DayTotal is a per-day aggregate returned by the event stores.
type DayTotal struct {
	Date   Date
	Amount decimal.Decimal
}

// DayRecord is one computed row of the balance ledger. It is derived, never
// persisted. Balance reflects the end-of-day state: the carried (or
// verification-reset) starting balance plus the day's sales and payments
// minus its spendings.
type DayRecord struct {
	Date         Date
	Sales        decimal.Decimal
	Spendings    decimal.Decimal
	Payments     decimal.Decimal
	Verification *Verification
	Balance      decimal.Decimal
}

// NetMovement returns the day's contribution to the balance.
func (r *DayRecord) NetMovement() decimal.Decimal {
	return r.Sales.Add(r.Payments).Sub(r.Spendings)
}
