package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
)

// VerificationRepository defines data access for balance verifications.
// Lookups that find nothing return domain.ErrVerificationNotFound.
type VerificationRepository interface {
	// Create inserts a verification. A date collision surfaces as
	// domain.ErrDuplicateVerification.
	Create(ctx context.Context, tx Transaction, verification *domain.Verification) error
	Earliest(ctx context.Context) (*domain.Verification, error)
	// ClosestOnOrBefore returns the most recent verification dated on or
	// before date.
	ClosestOnOrBefore(ctx context.Context, date domain.Date) (*domain.Verification, error)
	GetByDate(ctx context.Context, date domain.Date) (*domain.Verification, error)
	ListRange(ctx context.Context, from, to domain.Date) ([]*domain.Verification, error)
}

// SaleFilter narrows sale listings. Nil bounds leave the side open.
type SaleFilter struct {
	From   *domain.Date
	To     *domain.Date
	Limit  int
	Offset int
}

// SaleRepository defines data access for sales. Sales carry a date-only
// field, so their aggregation needs no time zone conversion.
type SaleRepository interface {
	Create(ctx context.Context, tx Transaction, sale *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	SoftDelete(ctx context.Context, tx Transaction, id string, deletedAt time.Time) error
	List(ctx context.Context, filter SaleFilter) ([]*domain.Sale, error)
	// SumCashByDay aggregates cash, non-voided sales per sale date over
	// [from, to] inclusive.
	SumCashByDay(ctx context.Context, from, to domain.Date) ([]domain.DayTotal, error)
	// SumCashInRange is the single-sum variant over [from, to] inclusive.
	SumCashInRange(ctx context.Context, from, to domain.Date) (decimal.Decimal, error)
}

// InstantFilter narrows payment/spending listings by occurrence instant.
type InstantFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// PaymentRepository defines data access for customer payments. Per-day
// aggregation buckets the UTC occurrence instant into business-local days.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	List(ctx context.Context, filter InstantFilter) ([]*domain.Payment, error)
	// SumDirectByLocalDay aggregates direct payments per business-local day
	// over the instant range [from, to).
	SumDirectByLocalDay(ctx context.Context, from, to time.Time) ([]domain.DayTotal, error)
	SumDirectInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// SpendingRepository defines data access for spendings. Aggregation rules
// mirror PaymentRepository; all non-voided spendings count.
type SpendingRepository interface {
	Create(ctx context.Context, tx Transaction, spending *domain.Spending) error
	GetByID(ctx context.Context, id string) (*domain.Spending, error)
	SoftDelete(ctx context.Context, tx Transaction, id string, deletedAt time.Time) error
	List(ctx context.Context, filter InstantFilter) ([]*domain.Spending, error)
	SumByLocalDay(ctx context.Context, from, to time.Time) ([]domain.DayTotal, error)
	SumInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// UserRepository defines data access for users. Users are seeded by
// migration; there is no write path here.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock provides the current time. The balance ledger always runs through
// "today", so tests need to pin it.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
