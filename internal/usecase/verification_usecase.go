package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
)

// VerificationUseCase handles the append-only verification write path.
type VerificationUseCase struct {
	txManager        TransactionManager
	retrier          Retrier
	verificationRepo VerificationRepository
	auditRepo        AuditRepository
	outboxRepo       OutboxRepository
	balance          *BalanceUseCase
	idGen            IDGenerator
	clock            Clock
}

// NewVerificationUseCase creates a new VerificationUseCase.
func NewVerificationUseCase(
	txManager TransactionManager,
	retrier Retrier,
	verificationRepo VerificationRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	balance *BalanceUseCase,
	idGen IDGenerator,
	clock Clock,
) *VerificationUseCase {
	return &VerificationUseCase{
		txManager:        txManager,
		retrier:          retrier,
		verificationRepo: verificationRepo,
		auditRepo:        auditRepo,
		outboxRepo:       outboxRepo,
		balance:          balance,
		idGen:            idGen,
		clock:            clock,
	}
}

// CreateVerificationInput represents input for creating a verification.
type CreateVerificationInput struct {
	Date   domain.Date
	Amount decimal.Decimal
	Actor  *domain.User
}

// Create records a counted balance for the start of a day. The adjust
// amount is the discrepancy against the previously computed balance; it is
// zero when there is nothing to compare against (first verification, or a
// backfill dated before the earliest existing one).
//
// Two concurrent creates for the same date serialize on the store's date
// uniqueness constraint; the loser gets domain.ErrDuplicateVerification.
func (uc *VerificationUseCase) Create(ctx context.Context, input CreateVerificationInput) (*domain.Verification, error) {
	if input.Actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if input.Actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if input.Date.IsZero() {
		return nil, domain.NewValidationError("date", "is required")
	}
	if err := domain.ValidateVerificationAmount(input.Amount); err != nil {
		return nil, err
	}

	adjust, err := uc.computeAdjustAmount(ctx, input.Date, input.Amount)
	if err != nil {
		return nil, err
	}

	verification := &domain.Verification{
		ID:           uc.idGen.Generate(),
		Date:         input.Date,
		Amount:       input.Amount,
		AdjustAmount: adjust,
		CreatedBy:    input.Actor.ID,
		CreatedAt:    uc.clock.Now(),
	}

	err = uc.retrier.Retry(ctx, func() error {
		return uc.persist(ctx, verification, input.Actor)
	})
	if err != nil {
		return nil, err
	}

	return verification, nil
}

// computeAdjustAmount derives amount minus the balance at the end of the
// previous day.
func (uc *VerificationUseCase) computeAdjustAmount(ctx context.Context, date domain.Date, amount decimal.Decimal) (decimal.Decimal, error) {
	earliest, err := uc.verificationRepo.Earliest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			// First verification ever: no prior balance to compare against.
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("finding earliest verification: %w", err)
	}

	prevDay := date.Prev()
	if prevDay.Before(earliest.Date) {
		// Backfill dated at or before the earliest verification: the balance
		// for prevDay is undefined, so no adjustment can be computed.
		return decimal.Zero, nil
	}

	previousBalance, err := uc.balance.BalanceAt(ctx, prevDay)
	if err != nil {
		return decimal.Zero, fmt.Errorf("computing previous balance: %w", err)
	}

	return amount.Sub(previousBalance), nil
}

func (uc *VerificationUseCase) persist(ctx context.Context, verification *domain.Verification, actor *domain.User) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.verificationRepo.Create(ctx, tx, verification); err != nil {
		return err
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actor.ID,
		Action:       string(domain.AuditActionVerificationCreate),
		ResourceType: domain.AggregateTypeVerification,
		ResourceID:   verification.ID,
		Details: domain.JSON{
			"date":          verification.Date.String(),
			"amount":        verification.Amount.String(),
			"adjust_amount": verification.AdjustAmount.String(),
		},
		Status:    string(domain.AuditStatusSuccess),
		CreatedAt: uc.clock.Now(),
	}); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   verification.ID,
		AggregateType: domain.AggregateTypeVerification,
		EventType:     domain.EventTypeVerificationCreated,
		Payload: domain.JSON{
			"verification_id": verification.ID,
			"date":            verification.Date.String(),
			"amount":          verification.Amount.String(),
			"adjust_amount":   verification.AdjustAmount.String(),
			"created_by":      verification.CreatedBy,
		},
		CreatedAt: uc.clock.Now(),
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
