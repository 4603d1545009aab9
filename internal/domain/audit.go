package domain

import "time"

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // What action (verification.create, sale.void, etc.)
	ResourceType string // Type of resource (verification, sale, payment, spending)
	ResourceID   string // ID of the resource
	Details      JSON   // Action-specific detail, e.g. the adjust amount
	Status       string // success, failure, error
	ErrorMessage string // If status=error, the error message
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionVerificationCreate AuditAction = "verification.create"
	AuditActionSaleCreate         AuditAction = "sale.create"
	AuditActionSaleVoid           AuditAction = "sale.void"
	AuditActionPaymentCreate      AuditAction = "payment.create"
	AuditActionSpendingCreate     AuditAction = "spending.create"
	AuditActionSpendingVoid       AuditAction = "spending.void"
	AuditActionUserLogin          AuditAction = "user.login"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)
