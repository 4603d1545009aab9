package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	db db
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: pool}
}

const auditInsert = `
	INSERT INTO audit_logs (
		id, user_id, action, resource_type, resource_id,
		details, status, error_message, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Create inserts an audit log entry outside any transaction. Used for
// actions that have no accompanying data mutation, like logins.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	details, err := marshalDetails(log.Details)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, auditInsert, auditArgs(log, details)...)
	return err
}

// CreateTx inserts an audit log entry within the mutation's transaction, so
// the trail commits or rolls back together with the change it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	details, err := marshalDetails(log.Details)
	if err != nil {
		return err
	}

	_, err = tx.(*Tx).PgxTx().Exec(ctx, auditInsert, auditArgs(log, details)...)
	return err
}

func auditArgs(log *domain.AuditLog, details []byte) []any {
	return []any{
		log.ID,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		details,
		log.Status,
		log.ErrorMessage,
		log.CreatedAt,
	}
}

func marshalDetails(details domain.JSON) ([]byte, error) {
	if details == nil {
		return nil, nil
	}
	return json.Marshal(details)
}
