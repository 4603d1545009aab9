package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
)

// BalanceUseCase computes the daily cash-balance ledger. It reads three
// event streams (sales, payments, spendings) and the verification snapshots,
// and derives per-day balances anchored on verifications.
type BalanceUseCase struct {
	verificationRepo VerificationRepository
	saleRepo         SaleRepository
	paymentRepo      PaymentRepository
	spendingRepo     SpendingRepository
	loc              *time.Location
	clock            Clock
}

// NewBalanceUseCase creates a new BalanceUseCase. loc is the business time
// zone used to bucket event instants into calendar days.
func NewBalanceUseCase(
	verificationRepo VerificationRepository,
	saleRepo SaleRepository,
	paymentRepo PaymentRepository,
	spendingRepo SpendingRepository,
	loc *time.Location,
	clock Clock,
) *BalanceUseCase {
	return &BalanceUseCase{
		verificationRepo: verificationRepo,
		saleRepo:         saleRepo,
		paymentRepo:      paymentRepo,
		spendingRepo:     spendingRepo,
		loc:              loc,
		clock:            clock,
	}
}

// ListBalanceInput bounds the requested ledger. Nil bounds leave the side
// open.
type ListBalanceInput struct {
	MinDate *domain.Date
	MaxDate *domain.Date
}

// ListBalance computes the per-day ledger.
//
// The computation always starts at an anchor verification: the most recent
// one dated on or before MinDate when that exists, otherwise the earliest
// verification overall. Days between the anchor and MinDate are computed but
// dropped from the output; they exist only to seed a known balance. The
// walk runs through today in the business time zone, resetting the running
// balance whenever a day carries its own verification.
func (uc *BalanceUseCase) ListBalance(ctx context.Context, input ListBalanceInput) ([]*domain.DayRecord, error) {
	if err := domain.ValidateDateRange(input.MinDate, input.MaxDate); err != nil {
		return nil, err
	}

	anchor, err := uc.findAnchor(ctx, input.MinDate)
	if err != nil {
		return nil, err
	}

	today := domain.DateOf(uc.clock.Now(), uc.loc)
	if today.Before(anchor.Date) {
		// A forward-dated verification still yields a one-day ledger.
		today = anchor.Date
	}

	days, err := uc.computeLedger(ctx, anchor, today)
	if err != nil {
		return nil, err
	}

	return filterRange(days, input.MinDate, input.MaxDate), nil
}

// BalanceAt returns the end-of-day balance for date.
func (uc *BalanceUseCase) BalanceAt(ctx context.Context, date domain.Date) (decimal.Decimal, error) {
	earliest, err := uc.verificationRepo.Earliest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			return decimal.Zero, domain.ErrNoVerifications
		}
		return decimal.Zero, fmt.Errorf("finding earliest verification: %w", err)
	}
	if date.Before(earliest.Date) {
		return decimal.Zero, fmt.Errorf("%w: %s is before %s", domain.ErrDateOutOfRange, date, earliest.Date)
	}

	anchor, err := uc.verificationRepo.ClosestOnOrBefore(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			// Range validation passed, so an anchor must exist. Fail loudly
			// rather than defaulting to a wrong balance.
			return decimal.Zero, fmt.Errorf("%w: date %s", domain.ErrAnchorNotFound, date)
		}
		return decimal.Zero, fmt.Errorf("finding anchor verification: %w", err)
	}

	sales, err := uc.saleRepo.SumCashInRange(ctx, anchor.Date, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing sales: %w", err)
	}

	from := anchor.Date.StartOfDay(uc.loc)
	to := date.Next().StartOfDay(uc.loc)

	payments, err := uc.paymentRepo.SumDirectInRange(ctx, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing payments: %w", err)
	}

	spendings, err := uc.spendingRepo.SumInRange(ctx, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing spendings: %w", err)
	}

	return anchor.Amount.Add(sales).Add(payments).Sub(spendings), nil
}

// findAnchor picks the verification that seeds the ledger walk.
func (uc *BalanceUseCase) findAnchor(ctx context.Context, minDate *domain.Date) (*domain.Verification, error) {
	if minDate != nil {
		anchor, err := uc.verificationRepo.ClosestOnOrBefore(ctx, *minDate)
		if err == nil {
			return anchor, nil
		}
		if !errors.Is(err, domain.ErrVerificationNotFound) {
			return nil, fmt.Errorf("finding anchor verification: %w", err)
		}
		// No verification at or before minDate; fall through to the earliest.
	}

	anchor, err := uc.verificationRepo.Earliest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			return nil, domain.ErrNoVerifications
		}
		return nil, fmt.Errorf("finding earliest verification: %w", err)
	}
	return anchor, nil
}

// computeLedger walks every day from the anchor date through last,
// carrying the running balance forward.
func (uc *BalanceUseCase) computeLedger(ctx context.Context, anchor *domain.Verification, last domain.Date) ([]*domain.DayRecord, error) {
	sales, err := uc.saleRepo.SumCashByDay(ctx, anchor.Date, last)
	if err != nil {
		return nil, fmt.Errorf("aggregating sales: %w", err)
	}

	from := anchor.Date.StartOfDay(uc.loc)
	to := last.Next().StartOfDay(uc.loc)

	payments, err := uc.paymentRepo.SumDirectByLocalDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregating payments: %w", err)
	}

	spendings, err := uc.spendingRepo.SumByLocalDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregating spendings: %w", err)
	}

	verifications, err := uc.verificationRepo.ListRange(ctx, anchor.Date, last)
	if err != nil {
		return nil, fmt.Errorf("listing verifications: %w", err)
	}

	salesByDay := totalsByDay(sales)
	paymentsByDay := totalsByDay(payments)
	spendingsByDay := totalsByDay(spendings)

	verificationsByDay := make(map[domain.Date]*domain.Verification, len(verifications))
	for _, v := range verifications {
		verificationsByDay[v.Date] = v
	}

	var days []*domain.DayRecord
	balance := anchor.Amount
	for d := anchor.Date; !d.After(last); d = d.Next() {
		record := &domain.DayRecord{
			Date:      d,
			Sales:     salesByDay[d],
			Payments:  paymentsByDay[d],
			Spendings: spendingsByDay[d],
		}

		// A verification fixes the day's starting balance, overriding
		// whatever was carried forward. This is how drift gets corrected.
		if v, ok := verificationsByDay[d]; ok {
			record.Verification = v
			balance = v.Amount
		}

		balance = balance.Add(record.NetMovement())
		record.Balance = balance
		days = append(days, record)
	}

	return days, nil
}

func totalsByDay(totals []domain.DayTotal) map[domain.Date]decimal.Decimal {
	byDay := make(map[domain.Date]decimal.Decimal, len(totals))
	for _, t := range totals {
		byDay[t.Date] = byDay[t.Date].Add(t.Amount)
	}
	return byDay
}

func filterRange(days []*domain.DayRecord, minDate, maxDate *domain.Date) []*domain.DayRecord {
	filtered := make([]*domain.DayRecord, 0, len(days))
	for _, day := range days {
		if minDate != nil && day.Date.Before(*minDate) {
			continue
		}
		if maxDate != nil && day.Date.After(*maxDate) {
			continue
		}
		filtered = append(filtered, day)
	}
	return filtered
}
