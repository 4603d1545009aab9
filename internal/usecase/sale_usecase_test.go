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

type saleFixture struct {
	sales     *mocks.MockSaleRepository
	audits    *mocks.MockAuditRepository
	outbox    *mocks.MockOutboxRepository
	txManager *mocks.MockTransactionManager
	uc        *usecase.SaleUseCase
}

func newSaleFixture(t *testing.T) *saleFixture {
	ctrl := gomock.NewController(t)

	f := &saleFixture{
		sales:     mocks.NewMockSaleRepository(),
		audits:    mocks.NewMockAuditRepository(ctrl),
		outbox:    mocks.NewMockOutboxRepository(ctrl),
		txManager: mocks.NewMockTransactionManager(),
	}
	f.uc = usecase.NewSaleUseCase(
		f.txManager, f.sales, f.audits, f.outbox,
		mocks.NewMockIDGenerator(), mocks.NewMockClock(testNow),
	)
	return f
}

func operatorActor() *domain.User {
	return &domain.User{ID: "u-op", Role: domain.RoleOperator, Active: true}
}

func TestCreateSale(t *testing.T) {
	f := newSaleFixture(t)
	f.audits.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	sale, err := f.uc.Create(context.Background(), usecase.CreateSaleInput{
		Amount:   dec("25.50"),
		Cash:     true,
		SaleDate: date(2024, time.March, 14),
		Note:     "morning shift",
		Actor:    operatorActor(),
	})
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.March, 14), sale.SaleDate)
	assert.Equal(t, "u-op", sale.CreatedBy)
	assert.False(t, sale.Deleted)
	assert.Equal(t, 1, f.txManager.Commits)
}

func TestCreateSale_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.CreateSaleInput
		field string
	}{
		{
			"zero amount",
			usecase.CreateSaleInput{Amount: dec("0"), SaleDate: date(2024, time.March, 14), Actor: operatorActor()},
			"amount",
		},
		{
			"negative amount",
			usecase.CreateSaleInput{Amount: dec("-3"), SaleDate: date(2024, time.March, 14), Actor: operatorActor()},
			"amount",
		},
		{
			"missing date",
			usecase.CreateSaleInput{Amount: dec("10"), Actor: operatorActor()},
			"saleDate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSaleFixture(t)

			_, err := f.uc.Create(context.Background(), tt.input)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, 0, f.txManager.Commits)
		})
	}
}

func TestCreateSale_ViewerForbidden(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.uc.Create(context.Background(), usecase.CreateSaleInput{
		Amount:   dec("10"),
		SaleDate: date(2024, time.March, 14),
		Actor:    &domain.User{ID: "u-view", Role: domain.RoleViewer},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestVoidSale(t *testing.T) {
	f := newSaleFixture(t)
	f.audits.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, event *domain.OutboxEvent) error {
			assert.Equal(t, domain.EventTypeSaleVoided, event.EventType)
			return nil
		})

	f.sales.Seed(cashSale(date(2024, time.March, 14), "25"))

	err := f.uc.Void(context.Background(), "sale-2024-03-14-25", operatorActor())
	require.NoError(t, err)

	_, err = f.uc.List(context.Background(), usecase.ListSalesInput{})
	require.NoError(t, err)

	sale, err := f.sales.GetByID(context.Background(), "sale-2024-03-14-25")
	require.NoError(t, err)
	assert.True(t, sale.Deleted)
	require.NotNil(t, sale.DeletedAt)
}

func TestVoidSale_Errors(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		f := newSaleFixture(t)

		err := f.uc.Void(context.Background(), "missing", operatorActor())
		assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	})

	t.Run("already voided", func(t *testing.T) {
		f := newSaleFixture(t)
		voided := cashSale(date(2024, time.March, 14), "25")
		voided.Deleted = true
		f.sales.Seed(voided)

		err := f.uc.Void(context.Background(), voided.ID, operatorActor())
		assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	})

	t.Run("viewer forbidden", func(t *testing.T) {
		f := newSaleFixture(t)

		err := f.uc.Void(context.Background(), "sale-1", &domain.User{Role: domain.RoleViewer})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestListSales_FiltersVoided(t *testing.T) {
	f := newSaleFixture(t)

	voided := cashSale(date(2024, time.March, 13), "99")
	voided.Deleted = true
	f.sales.Seed(
		cashSale(date(2024, time.March, 13), "10"),
		cashSale(date(2024, time.March, 14), "20"),
		voided,
	)

	from := date(2024, time.March, 13)
	to := date(2024, time.March, 13)
	sales, err := f.uc.List(context.Background(), usecase.ListSalesInput{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.True(t, sales[0].Amount.Equal(dec("10")))
}
