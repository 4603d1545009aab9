package domain

import "time"

// Event types
const (
	EventTypeVerificationCreated = "verification.created"
	EventTypeSaleCreated         = "sale.created"
	EventTypeSaleVoided          = "sale.voided"
	EventTypePaymentCreated      = "payment.created"
	EventTypeSpendingCreated     = "spending.created"
	EventTypeSpendingVoided      = "spending.voided"
)

// Aggregate types
const (
	AggregateTypeVerification = "verification"
	AggregateTypeSale         = "sale"
	AggregateTypePayment      = "payment"
	AggregateTypeSpending     = "spending"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// VerificationCreatedEvent payload
type VerificationCreatedEvent struct {
	VerificationID string `json:"verification_id"`
	Date           string `json:"date"`
	Amount         string `json:"amount"`
	AdjustAmount   string `json:"adjust_amount"`
	CreatedBy      string `json:"created_by"`
}

// SaleCreatedEvent payload
type SaleCreatedEvent struct {
	SaleID   string `json:"sale_id"`
	Amount   string `json:"amount"`
	Cash     bool   `json:"cash"`
	SaleDate string `json:"sale_date"`
}

// SaleVoidedEvent payload
type SaleVoidedEvent struct {
	SaleID   string `json:"sale_id"`
	VoidedBy string `json:"voided_by"`
}

// PaymentCreatedEvent payload
type PaymentCreatedEvent struct {
	PaymentID  string `json:"payment_id"`
	Amount     string `json:"amount"`
	Direct     bool   `json:"direct"`
	OccurredAt string `json:"occurred_at"`
}

// SpendingCreatedEvent payload
type SpendingCreatedEvent struct {
	SpendingID string `json:"spending_id"`
	Amount     string `json:"amount"`
	OccurredAt string `json:"occurred_at"`
}

// SpendingVoidedEvent payload
type SpendingVoidedEvent struct {
	SpendingID string `json:"spending_id"`
	VoidedBy   string `json:"voided_by"`
}
