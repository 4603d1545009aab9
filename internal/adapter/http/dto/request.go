package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateVerificationRequest represents a request to record a counted balance.
// Date is a calendar day in YYYY-MM-DD form, never an instant.
type CreateVerificationRequest struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateSaleRequest represents a request to record a sale.
type CreateSaleRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Cash     bool            `json:"cash"`
	SaleDate string          `json:"saleDate"`
	Note     string          `json:"note,omitempty"`
}

// CreatePaymentRequest represents a request to record a customer payment.
// OccurredAt is an RFC 3339 instant and defaults to now.
type CreatePaymentRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Direct       bool            `json:"direct"`
	OccurredAt   *time.Time      `json:"occurredAt,omitempty"`
	Counterparty string          `json:"counterparty,omitempty"`
}

// CreateSpendingRequest represents a request to record a spending.
type CreateSpendingRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  *time.Time      `json:"occurredAt,omitempty"`
	Description string          `json:"description,omitempty"`
}
