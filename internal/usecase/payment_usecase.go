package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
)

// PaymentUseCase handles customer payment business logic. Payments are
// immutable; there is no void path.
type PaymentUseCase struct {
	txManager   TransactionManager
	paymentRepo PaymentRepository
	auditRepo   AuditRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	clock       Clock
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	paymentRepo PaymentRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		clock:       clock,
	}
}

// CreatePaymentInput represents input for recording a payment.
type CreatePaymentInput struct {
	Amount       decimal.Decimal
	Direct       bool
	OccurredAt   *time.Time
	Counterparty string
	Actor        *domain.User
}

// Create records a payment. OccurredAt defaults to now and is stored as a
// UTC instant.
func (uc *PaymentUseCase) Create(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error) {
	if err := requireMutator(input.Actor); err != nil {
		return nil, err
	}
	if err := domain.ValidateEventAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateNote("counterparty", input.Counterparty); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	payment := &domain.Payment{
		ID:           uc.idGen.Generate(),
		Amount:       input.Amount,
		Direct:       input.Direct,
		OccurredAt:   occurredAt,
		Counterparty: input.Counterparty,
		CreatedBy:    input.Actor.ID,
		CreatedAt:    now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.paymentRepo.Create(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       input.Actor.ID,
		Action:       string(domain.AuditActionPaymentCreate),
		ResourceType: domain.AggregateTypePayment,
		ResourceID:   payment.ID,
		Details: domain.JSON{
			"amount":      payment.Amount.String(),
			"direct":      payment.Direct,
			"occurred_at": payment.OccurredAt.Format(time.RFC3339),
		},
		Status:    string(domain.AuditStatusSuccess),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentCreated,
		Payload: domain.JSON{
			"payment_id":  payment.ID,
			"amount":      payment.Amount.String(),
			"direct":      payment.Direct,
			"occurred_at": payment.OccurredAt.Format(time.RFC3339),
		},
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return payment, nil
}

// ListPaymentsInput represents input for listing payments.
type ListPaymentsInput struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// List lists payments, most recent first.
func (uc *PaymentUseCase) List(ctx context.Context, input ListPaymentsInput) ([]*domain.Payment, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.paymentRepo.List(ctx, InstantFilter{
		From:   input.From,
		To:     input.To,
		Limit:  limit,
		Offset: offset,
	})
}
