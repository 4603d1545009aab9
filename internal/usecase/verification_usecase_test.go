package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
	"github.com/hielosur/cashbook/internal/usecase/mocks"
)

type verificationFixture struct {
	verifications *mocks.MockVerificationRepository
	audits        *mocks.MockAuditRepository
	outbox        *mocks.MockOutboxRepository
	txManager     *mocks.MockTransactionManager
	salesSeed     func(...*domain.Sale)
	uc            *usecase.VerificationUseCase
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	ctrl := gomock.NewController(t)

	f := &verificationFixture{
		verifications: mocks.NewMockVerificationRepository(),
		audits:        mocks.NewMockAuditRepository(ctrl),
		outbox:        mocks.NewMockOutboxRepository(ctrl),
		txManager:     mocks.NewMockTransactionManager(),
	}

	sales := mocks.NewMockSaleRepository()
	payments := mocks.NewMockPaymentRepository(testLoc)
	spendings := mocks.NewMockSpendingRepository(testLoc)
	clock := mocks.NewMockClock(testNow)

	balance := usecase.NewBalanceUseCase(f.verifications, sales, payments, spendings, testLoc, clock)
	f.uc = usecase.NewVerificationUseCase(
		f.txManager, mocks.NewMockRetrier(), f.verifications,
		f.audits, f.outbox, balance,
		mocks.NewMockIDGenerator(), clock,
	)

	// Sales feed the previous-day balance that the adjust amount compares
	// against.
	f.salesSeed = sales.Seed
	return f
}

func adminActor() *domain.User {
	return &domain.User{ID: "u-admin", Role: domain.RoleAdmin, Active: true}
}

func TestCreateVerification_Authorization(t *testing.T) {
	tests := []struct {
		name    string
		actor   *domain.User
		wantErr error
	}{
		{"nil actor", nil, domain.ErrUnauthorized},
		{"operator", &domain.User{ID: "u-op", Role: domain.RoleOperator}, domain.ErrForbidden},
		{"viewer", &domain.User{ID: "u-view", Role: domain.RoleViewer}, domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVerificationFixture(t)

			_, err := f.uc.Create(context.Background(), usecase.CreateVerificationInput{
				Date:   date(2024, time.March, 10),
				Amount: dec("100"),
				Actor:  tt.actor,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateVerification_Validation(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.uc.Create(context.Background(), usecase.CreateVerificationInput{
		Amount: dec("100"),
		Actor:  adminActor(),
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "date", vErr.Field)

	_, err = f.uc.Create(context.Background(), usecase.CreateVerificationInput{
		Date:   date(2024, time.March, 10),
		Amount: dec("-1"),
		Actor:  adminActor(),
	})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "amount", vErr.Field)
}

// The first verification ever has nothing to compare against.
func TestCreateVerification_FirstHasZeroAdjust(t *testing.T) {
	f := newVerificationFixture(t)
	f.audits.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	var published *domain.OutboxEvent
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, event *domain.OutboxEvent) error {
			published = event
			return nil
		})

	v, err := f.uc.Create(context.Background(), usecase.CreateVerificationInput{
		Date:   date(2024, time.March, 10),
		Amount: dec("5000"),
		Actor:  adminActor(),
	})
	require.NoError(t, err)

	assert.True(t, v.AdjustAmount.IsZero())
	assert.Equal(t, "u-admin", v.CreatedBy)
	assert.Equal(t, 1, f.txManager.Commits)

	require.NotNil(t, published)
	assert.Equal(t, domain.EventTypeVerificationCreated, published.EventType)
	assert.Equal(t, v.ID, published.AggregateID)

	stored, err := f.verifications.GetByDate(context.Background(), v.Date)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec("5000")))
}

// The adjust amount is the counted balance minus the computed balance at the
// end of the previous day.
func TestCreateVerification_AdjustAgainstPreviousDay(t *testing.T) {
	f := newVerificationFixture(t)
	f.audits.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	f.verifications.Seed(verification(date(2024, time.March, 10), "1000"))
	f.salesSeed(cashSale(date(2024, time.March, 11), "100"))

	// Computed balance at end of March 11 is 1100; counting 1050 means the
	// till is short by 50.
	v, err := f.uc.Create(context.Background(), usecase.CreateVerificationInput{
		Date:   date(2024, time.March, 12),
		Amount: dec("1050"),
		Actor:  adminActor(),
	})
	require.NoError(t, err)
	assert.True(t, v.AdjustAmount.Equal(dec("-50")), "got %s", v.AdjustAmount)
}

// A verification dated before the earliest existing one has no defined
// previous balance, so no adjustment is computed.
func TestCreateVerification_BackfillHasZeroAdjust(t *testing.T) {
	f := newVerificationFixture(t)
	f.audits.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	f.verifications.Seed(verification(date(2024, time.March, 10), "1000"))

	v, err := f.uc.Create(context.Background(), usecase.CreateVerificationInput{
		Date:   date(2024, time.March, 5),
		Amount: dec("900"),
		Actor:  adminActor(),
	})
	require.NoError(t, err)
	assert.True(t, v.AdjustAmount.IsZero())
}

func TestCreateVerification_DuplicateDate(t *testing.T) {
	f := newVerificationFixture(t)

	f.verifications.Seed(verification(date(2024, time.March, 10), "1000"))

	_, err := f.uc.Create(context.Background(), usecase.CreateVerificationInput{
		Date:   date(2024, time.March, 10),
		Amount: dec("1000"),
		Actor:  adminActor(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateVerification)
	assert.Equal(t, 0, f.txManager.Commits)
	assert.Equal(t, 1, f.txManager.Rollbacks)
}
