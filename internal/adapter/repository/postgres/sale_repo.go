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

// SaleRepository implements usecase.SaleRepository. Sales are bucketed by
// their stored sale_date; no time zone conversion happens here.
type SaleRepository struct {
	db db
}

// NewSaleRepository creates a new SaleRepository.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{db: pool}
}

func newSaleRepositoryWithDB(db db) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create inserts a sale within a transaction.
func (r *SaleRepository) Create(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO sales (id, amount, cash, sale_date, note, deleted, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, query,
		sale.ID,
		sale.Amount.String(),
		sale.Cash,
		sale.SaleDate.String(),
		sale.Note,
		sale.Deleted,
		sale.CreatedBy,
		sale.CreatedAt,
	)

	return err
}

// GetByID retrieves a sale, voided or not.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT id, amount::text, cash, sale_date, note, deleted, deleted_at, created_by, created_at
		FROM sales
		WHERE id = $1
	`

	sale, err := scanSale(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSaleNotFound
	}
	return sale, err
}

// SoftDelete marks a sale as voided. Already-voided rows are left untouched.
func (r *SaleRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE sales
		SET deleted = TRUE, deleted_at = $2
		WHERE id = $1 AND NOT deleted
	`

	tag, err := pgxTx.Exec(ctx, query, id, deletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}

	return nil
}

// List returns non-voided sales, most recent first.
func (r *SaleRepository) List(ctx context.Context, filter usecase.SaleFilter) ([]*domain.Sale, error) {
	query := `
		SELECT id, amount::text, cash, sale_date, note, deleted, deleted_at, created_by, created_at
		FROM sales
		WHERE NOT deleted
		  AND ($1::date IS NULL OR sale_date >= $1)
		  AND ($2::date IS NULL OR sale_date <= $2)
		ORDER BY sale_date DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query,
		dateArg(filter.From), dateArg(filter.To), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	return sales, rows.Err()
}

// SumCashByDay aggregates cash, non-voided sales per sale date over [from, to].
func (r *SaleRepository) SumCashByDay(ctx context.Context, from, to domain.Date) ([]domain.DayTotal, error) {
	query := `
		SELECT sale_date, SUM(amount)::text
		FROM sales
		WHERE cash AND NOT deleted AND sale_date >= $1 AND sale_date <= $2
		GROUP BY sale_date
		ORDER BY sale_date
	`

	rows, err := r.db.Query(ctx, query, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDayTotals(rows)
}

// SumCashInRange returns the total of cash, non-voided sales over [from, to].
func (r *SaleRepository) SumCashInRange(ctx context.Context, from, to domain.Date) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM sales
		WHERE cash AND NOT deleted AND sale_date >= $1 AND sale_date <= $2
	`

	var total string
	if err := r.db.QueryRow(ctx, query, from.String(), to.String()).Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return parseAmount(total)
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var (
		sale     domain.Sale
		amount   string
		saleDate time.Time
	)

	err := row.Scan(&sale.ID, &amount, &sale.Cash, &saleDate, &sale.Note,
		&sale.Deleted, &sale.DeletedAt, &sale.CreatedBy, &sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	sale.SaleDate = civilDate(saleDate)
	if sale.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}

	return &sale, nil
}

// scanDayTotals reads (day, total) aggregate rows.
func scanDayTotals(rows pgx.Rows) ([]domain.DayTotal, error) {
	var totals []domain.DayTotal
	for rows.Next() {
		var (
			day    time.Time
			amount string
		)
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, err
		}

		total, err := parseAmount(amount)
		if err != nil {
			return nil, err
		}
		totals = append(totals, domain.DayTotal{Date: civilDate(day), Amount: total})
	}

	return totals, rows.Err()
}

// dateArg converts an optional date bound to a nullable query argument.
func dateArg(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
