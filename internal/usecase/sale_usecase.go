package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
)

// SaleUseCase handles sale business logic.
type SaleUseCase struct {
	txManager  TransactionManager
	saleRepo   SaleRepository
	auditRepo  AuditRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	clock      Clock
}

// NewSaleUseCase creates a new SaleUseCase.
func NewSaleUseCase(
	txManager TransactionManager,
	saleRepo SaleRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
) *SaleUseCase {
	return &SaleUseCase{
		txManager:  txManager,
		saleRepo:   saleRepo,
		auditRepo:  auditRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		clock:      clock,
	}
}

// CreateSaleInput represents input for recording a sale.
type CreateSaleInput struct {
	Amount   decimal.Decimal
	Cash     bool
	SaleDate domain.Date
	Note     string
	Actor    *domain.User
}

// Create records a sale against a calendar day.
func (uc *SaleUseCase) Create(ctx context.Context, input CreateSaleInput) (*domain.Sale, error) {
	if err := requireMutator(input.Actor); err != nil {
		return nil, err
	}
	if err := domain.ValidateEventAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.SaleDate.IsZero() {
		return nil, domain.NewValidationError("saleDate", "is required")
	}
	if err := domain.ValidateNote("note", input.Note); err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		ID:        uc.idGen.Generate(),
		Amount:    input.Amount,
		Cash:      input.Cash,
		SaleDate:  input.SaleDate,
		Note:      input.Note,
		CreatedBy: input.Actor.ID,
		CreatedAt: uc.clock.Now(),
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.saleRepo.Create(ctx, tx, sale); err != nil {
		return nil, err
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       input.Actor.ID,
		Action:       string(domain.AuditActionSaleCreate),
		ResourceType: domain.AggregateTypeSale,
		ResourceID:   sale.ID,
		Details: domain.JSON{
			"amount":    sale.Amount.String(),
			"cash":      sale.Cash,
			"sale_date": sale.SaleDate.String(),
		},
		Status:    string(domain.AuditStatusSuccess),
		CreatedAt: uc.clock.Now(),
	}); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   sale.ID,
		AggregateType: domain.AggregateTypeSale,
		EventType:     domain.EventTypeSaleCreated,
		Payload: domain.JSON{
			"sale_id":   sale.ID,
			"amount":    sale.Amount.String(),
			"cash":      sale.Cash,
			"sale_date": sale.SaleDate.String(),
		},
		CreatedAt: uc.clock.Now(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return sale, nil
}

// ListSalesInput represents input for listing sales.
type ListSalesInput struct {
	From   *domain.Date
	To     *domain.Date
	Limit  int
	Offset int
}

// List lists sales, most recent first.
func (uc *SaleUseCase) List(ctx context.Context, input ListSalesInput) ([]*domain.Sale, error) {
	if err := domain.ValidateDateRange(input.From, input.To); err != nil {
		return nil, err
	}
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.saleRepo.List(ctx, SaleFilter{
		From:   input.From,
		To:     input.To,
		Limit:  limit,
		Offset: offset,
	})
}

// Void soft-deletes a sale so it no longer contributes to the ledger.
func (uc *SaleUseCase) Void(ctx context.Context, id string, actor *domain.User) error {
	if err := requireMutator(actor); err != nil {
		return err
	}

	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sale.Deleted {
		return fmt.Errorf("%w: already voided", domain.ErrSaleNotFound)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := uc.clock.Now()
	if err := uc.saleRepo.SoftDelete(ctx, tx, id, now); err != nil {
		return err
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actor.ID,
		Action:       string(domain.AuditActionSaleVoid),
		ResourceType: domain.AggregateTypeSale,
		ResourceID:   id,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}); err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   id,
		AggregateType: domain.AggregateTypeSale,
		EventType:     domain.EventTypeSaleVoided,
		Payload: domain.JSON{
			"sale_id":   id,
			"voided_by": actor.ID,
		},
		CreatedAt: now,
	}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// requireMutator checks the actor may record or void till events.
func requireMutator(actor *domain.User) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	if !actor.Role.CanMutate() {
		return domain.ErrForbidden
	}
	return nil
}
