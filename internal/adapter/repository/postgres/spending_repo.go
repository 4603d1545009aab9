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

// SpendingRepository implements usecase.SpendingRepository with the same
// local-day aggregation as PaymentRepository.
type SpendingRepository struct {
	db db
	tz string
}

// NewSpendingRepository creates a new SpendingRepository.
func NewSpendingRepository(pool *pgxpool.Pool, tz string) *SpendingRepository {
	return &SpendingRepository{db: pool, tz: tz}
}

// Create inserts a spending within a transaction.
func (r *SpendingRepository) Create(ctx context.Context, tx usecase.Transaction, spending *domain.Spending) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO spendings (id, amount, occurred_at, description, deleted, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		spending.ID,
		spending.Amount.String(),
		spending.OccurredAt,
		spending.Description,
		spending.Deleted,
		spending.CreatedBy,
		spending.CreatedAt,
	)

	return err
}

// GetByID retrieves a spending, voided or not.
func (r *SpendingRepository) GetByID(ctx context.Context, id string) (*domain.Spending, error) {
	query := `
		SELECT id, amount::text, occurred_at, description, deleted, deleted_at, created_by, created_at
		FROM spendings
		WHERE id = $1
	`

	spending, err := scanSpending(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSpendingNotFound
	}
	return spending, err
}

// SoftDelete marks a spending as voided.
func (r *SpendingRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE spendings
		SET deleted = TRUE, deleted_at = $2
		WHERE id = $1 AND NOT deleted
	`

	tag, err := pgxTx.Exec(ctx, query, id, deletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpendingNotFound
	}

	return nil
}

// List returns non-voided spendings, most recent first.
func (r *SpendingRepository) List(ctx context.Context, filter usecase.InstantFilter) ([]*domain.Spending, error) {
	query := `
		SELECT id, amount::text, occurred_at, description, deleted, deleted_at, created_by, created_at
		FROM spendings
		WHERE NOT deleted
		  AND ($1::timestamptz IS NULL OR occurred_at >= $1)
		  AND ($2::timestamptz IS NULL OR occurred_at < $2)
		ORDER BY occurred_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spendings []*domain.Spending
	for rows.Next() {
		spending, err := scanSpending(rows)
		if err != nil {
			return nil, err
		}
		spendings = append(spendings, spending)
	}

	return spendings, rows.Err()
}

// SumByLocalDay aggregates non-voided spendings per business-local day over
// the instant range [from, to).
func (r *SpendingRepository) SumByLocalDay(ctx context.Context, from, to time.Time) ([]domain.DayTotal, error) {
	query := `
		SELECT (occurred_at AT TIME ZONE $3)::date AS day, SUM(amount)::text
		FROM spendings
		WHERE NOT deleted AND occurred_at >= $1 AND occurred_at < $2
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

// SumInRange returns the total of non-voided spendings over [from, to).
func (r *SpendingRepository) SumInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM spendings
		WHERE NOT deleted AND occurred_at >= $1 AND occurred_at < $2
	`

	var total string
	if err := r.db.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return parseAmount(total)
}

func scanSpending(row pgx.Row) (*domain.Spending, error) {
	var (
		spending domain.Spending
		amount   string
	)

	err := row.Scan(&spending.ID, &amount, &spending.OccurredAt, &spending.Description,
		&spending.Deleted, &spending.DeletedAt, &spending.CreatedBy, &spending.CreatedAt)
	if err != nil {
		return nil, err
	}

	if spending.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}

	return &spending, nil
}
