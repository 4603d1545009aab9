package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
)

// VerificationRepository implements usecase.VerificationRepository.
type VerificationRepository struct {
	db db
}

// NewVerificationRepository creates a new VerificationRepository.
func NewVerificationRepository(pool *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{db: pool}
}

func newVerificationRepositoryWithDB(db db) *VerificationRepository {
	return &VerificationRepository{db: db}
}

const verificationColumns = `id, verified_date, amount::text, adjust_amount::text, created_by, created_at`

// Create inserts a verification within a transaction. The unique index on
// verified_date serializes concurrent creates for the same day; the loser
// surfaces as domain.ErrDuplicateVerification.
func (r *VerificationRepository) Create(ctx context.Context, tx usecase.Transaction, verification *domain.Verification) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO verifications (id, verified_date, amount, adjust_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := pgxTx.Exec(ctx, query,
		verification.ID,
		verification.Date.String(),
		verification.Amount.String(),
		verification.AdjustAmount.String(),
		verification.CreatedBy,
		verification.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateVerification
	}

	return err
}

// Earliest returns the verification with the lowest date.
func (r *VerificationRepository) Earliest(ctx context.Context) (*domain.Verification, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verifications
		ORDER BY verified_date ASC
		LIMIT 1
	`

	return r.queryOne(ctx, query)
}

// ClosestOnOrBefore returns the most recent verification dated on or before
// date.
func (r *VerificationRepository) ClosestOnOrBefore(ctx context.Context, date domain.Date) (*domain.Verification, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verifications
		WHERE verified_date <= $1
		ORDER BY verified_date DESC
		LIMIT 1
	`

	return r.queryOne(ctx, query, date.String())
}

// GetByDate returns the verification for an exact date.
func (r *VerificationRepository) GetByDate(ctx context.Context, date domain.Date) (*domain.Verification, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verifications
		WHERE verified_date = $1
	`

	return r.queryOne(ctx, query, date.String())
}

// ListRange returns all verifications dated within [from, to], ascending.
func (r *VerificationRepository) ListRange(ctx context.Context, from, to domain.Date) ([]*domain.Verification, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verifications
		WHERE verified_date >= $1 AND verified_date <= $2
		ORDER BY verified_date ASC
	`

	rows, err := r.db.Query(ctx, query, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var verifications []*domain.Verification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		verifications = append(verifications, v)
	}

	return verifications, rows.Err()
}

func (r *VerificationRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Verification, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrVerificationNotFound
	}

	return scanVerification(rows)
}

func scanVerification(row pgx.Row) (*domain.Verification, error) {
	var (
		v            domain.Verification
		verifiedDate time.Time
		amount       string
		adjustAmount string
	)

	err := row.Scan(&v.ID, &verifiedDate, &amount, &adjustAmount, &v.CreatedBy, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVerificationNotFound
	}
	if err != nil {
		return nil, err
	}

	v.Date = civilDate(verifiedDate)
	if v.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	if v.AdjustAmount, err = parseAmount(adjustAmount); err != nil {
		return nil, err
	}

	return &v, nil
}
