package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository. Per-day aggregation
// converts the stored UTC instants into the business time zone in SQL, so it
// matches the application-side bucketing exactly.
type PaymentRepository struct {
	db db
	tz string
}

// NewPaymentRepository creates a new PaymentRepository. tz is an IANA zone
// name, e.g. "America/Guayaquil".
func NewPaymentRepository(pool *pgxpool.Pool, tz string) *PaymentRepository {
	return &PaymentRepository{db: pool, tz: tz}
}

// Create inserts a payment within a transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO payments (id, amount, direct, occurred_at, counterparty, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		payment.ID,
		payment.Amount.String(),
		payment.Direct,
		payment.OccurredAt,
		payment.Counterparty,
		payment.CreatedBy,
		payment.CreatedAt,
	)

	return err
}

// GetByID retrieves a payment.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, amount::text, direct, occurred_at, counterparty, created_by, created_at
		FROM payments
		WHERE id = $1
	`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	return payment, err
}

// List returns payments, most recent first.
func (r *PaymentRepository) List(ctx context.Context, filter usecase.InstantFilter) ([]*domain.Payment, error) {
	query := `
		SELECT id, amount::text, direct, occurred_at, counterparty, created_by, created_at
		FROM payments
		WHERE ($1::timestamptz IS NULL OR occurred_at >= $1)
		  AND ($2::timestamptz IS NULL OR occurred_at < $2)
		ORDER BY occurred_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// SumDirectByLocalDay aggregates direct payments per business-local day over
// the instant range [from, to).
func (r *PaymentRepository) SumDirectByLocalDay(ctx context.Context, from, to time.Time) ([]domain.DayTotal, error) {
	query := `
		SELECT (occurred_at AT TIME ZONE $3)::date AS day, SUM(amount)::text
		FROM payments
		WHERE direct AND occurred_at >= $1 AND occurred_at < $2
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.Query(ctx, query, from, to, r.tz)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDayTotals(rows)
}

// SumDirectInRange returns the total of direct payments over [from, to).
func (r *PaymentRepository) SumDirectInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM payments
		WHERE direct AND occurred_at >= $1 AND occurred_at < $2
	`

	var total string
	if err := r.db.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return parseAmount(total)
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment domain.Payment
		amount  string
	)

	err := row.Scan(&payment.ID, &amount, &payment.Direct, &payment.OccurredAt,
		&payment.Counterparty, &payment.CreatedBy, &payment.CreatedAt)
	if err != nil {
		return nil, err
	}

	if payment.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}

	return &payment, nil
}
