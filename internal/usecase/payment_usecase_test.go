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

type paymentFixture struct {
	payments  *mocks.MockPaymentRepository
	txManager *mocks.MockTransactionManager
	uc        *usecase.PaymentUseCase
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	ctrl := gomock.NewController(t)

	audits := mocks.NewMockAuditRepository(ctrl)
	audits.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	outbox := mocks.NewMockOutboxRepository(ctrl)
	outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := &paymentFixture{
		payments:  mocks.NewMockPaymentRepository(testLoc),
		txManager: mocks.NewMockTransactionManager(),
	}
	f.uc = usecase.NewPaymentUseCase(
		f.txManager, f.payments, audits, outbox,
		mocks.NewMockIDGenerator(), mocks.NewMockClock(testNow),
	)
	return f
}

func TestCreatePayment_DefaultsOccurredAtToNow(t *testing.T) {
	f := newPaymentFixture(t)

	payment, err := f.uc.Create(context.Background(), usecase.CreatePaymentInput{
		Amount:       dec("75"),
		Direct:       true,
		Counterparty: "acme",
		Actor:        operatorActor(),
	})
	require.NoError(t, err)

	assert.True(t, payment.OccurredAt.Equal(testNow))
	assert.Equal(t, 1, f.txManager.Commits)
}

func TestCreatePayment_NormalizesOccurredAtToUTC(t *testing.T) {
	f := newPaymentFixture(t)

	local := time.Date(2024, time.March, 14, 10, 30, 0, 0, testLoc)
	payment, err := f.uc.Create(context.Background(), usecase.CreatePaymentInput{
		Amount:     dec("75"),
		OccurredAt: &local,
		Actor:      operatorActor(),
	})
	require.NoError(t, err)

	assert.Equal(t, time.UTC, payment.OccurredAt.Location())
	assert.True(t, payment.OccurredAt.Equal(local))
}

func TestCreatePayment_Validation(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.uc.Create(context.Background(), usecase.CreatePaymentInput{
		Amount: dec("-1"),
		Actor:  operatorActor(),
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "amount", vErr.Field)

	_, err = f.uc.Create(context.Background(), usecase.CreatePaymentInput{Amount: dec("10")})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListPayments_InstantWindow(t *testing.T) {
	f := newPaymentFixture(t)

	f.payments.Seed(
		&domain.Payment{ID: "p-1", Amount: dec("10"), OccurredAt: time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)},
		&domain.Payment{ID: "p-2", Amount: dec("20"), OccurredAt: time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)},
	)

	from := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	payments, err := f.uc.List(context.Background(), usecase.ListPaymentsInput{From: &from})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "p-2", payments[0].ID)
}
