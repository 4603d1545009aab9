package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
)

// SpendingUseCase handles spending business logic.
type SpendingUseCase struct {
	txManager    TransactionManager
	spendingRepo SpendingRepository
	auditRepo    AuditRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	clock        Clock
}

// NewSpendingUseCase creates a new SpendingUseCase.
func NewSpendingUseCase(
	txManager TransactionManager,
	spendingRepo SpendingRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
) *SpendingUseCase {
	return &SpendingUseCase{
		txManager:    txManager,
		spendingRepo: spendingRepo,
		auditRepo:    auditRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		clock:        clock,
	}
}

// CreateSpendingInput represents input for recording a spending.
type CreateSpendingInput struct {
	Amount      decimal.Decimal
	OccurredAt  *time.Time
	Description string
	Actor       *domain.User
}

// Create records cash leaving the till.
func (uc *SpendingUseCase) Create(ctx context.Context, input CreateSpendingInput) (*domain.Spending, error) {
	if err := requireMutator(input.Actor); err != nil {
		return nil, err
	}
	if err := domain.ValidateEventAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateNote("description", input.Description); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	spending := &domain.Spending{
		ID:          uc.idGen.Generate(),
		Amount:      input.Amount,
		OccurredAt:  occurredAt,
		Description: input.Description,
		CreatedBy:   input.Actor.ID,
		CreatedAt:   now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.spendingRepo.Create(ctx, tx, spending); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       input.Actor.ID,
		Action:       string(domain.AuditActionSpendingCreate),
		ResourceType: domain.AggregateTypeSpending,
		ResourceID:   spending.ID,
		Details: domain.JSON{
			"amount":      spending.Amount.String(),
			"occurred_at": spending.OccurredAt.Format(time.RFC3339),
		},
		Status:    string(domain.AuditStatusSuccess),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   spending.ID,
		AggregateType: domain.AggregateTypeSpending,
		EventType:     domain.EventTypeSpendingCreated,
		Payload: domain.JSON{
			"spending_id": spending.ID,
			"amount":      spending.Amount.String(),
			"occurred_at": spending.OccurredAt.Format(time.RFC3339),
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return spending, nil
}

// ListSpendingsInput represents input for listing spendings.
type ListSpendingsInput struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// List lists spendings, most recent first.
func (uc *SpendingUseCase) List(ctx context.Context, input ListSpendingsInput) ([]*domain.Spending, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.spendingRepo.List(ctx, InstantFilter{
		From:   input.From,
		To:     input.To,
		Limit:  limit,
		Offset: offset,
	})
}

// Void soft-deletes a spending so it no longer reduces the ledger.
func (uc *SpendingUseCase) Void(ctx context.Context, id string, actor *domain.User) error {
	if err := requireMutator(actor); err != nil {
		return err
	}

	spending, err := uc.spendingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if spending.Deleted {
		return fmt.Errorf("%w: already voided", domain.ErrSpendingNotFound)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := uc.clock.Now()
	if err := uc.spendingRepo.SoftDelete(ctx, tx, id, now); err != nil {
		return err
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actor.ID,
		Action:       string(domain.AuditActionSpendingVoid),
		ResourceType: domain.AggregateTypeSpending,
		ResourceID:   id,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   id,
		AggregateType: domain.AggregateTypeSpending,
		EventType:     domain.EventTypeSpendingVoided,
		Payload: domain.JSON{
			"spending_id": id,
			"voided_by":   actor.ID,
		},
		CreatedAt: now,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
