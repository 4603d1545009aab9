package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
)

// MockVerificationRepository is an in-memory VerificationRepository. The
// default behavior enforces date uniqueness the way the real store does;
// individual methods can be overridden through the *Func fields.
type MockVerificationRepository struct {
	mu            sync.RWMutex
	verifications map[domain.Date]*domain.Verification

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, v *domain.Verification) error
	EarliestFunc          func(ctx context.Context) (*domain.Verification, error)
	ClosestOnOrBeforeFunc func(ctx context.Context, date domain.Date) (*domain.Verification, error)
	GetByDateFunc         func(ctx context.Context, date domain.Date) (*domain.Verification, error)
	ListRangeFunc         func(ctx context.Context, from, to domain.Date) ([]*domain.Verification, error)
}

func NewMockVerificationRepository() *MockVerificationRepository {
	return &MockVerificationRepository{
		verifications: make(map[domain.Date]*domain.Verification),
	}
}

// Seed inserts verifications bypassing uniqueness translation, for fixtures.
func (m *MockVerificationRepository) Seed(vs ...*domain.Verification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vs {
		m.verifications[v.Date] = v
	}
}

func (m *MockVerificationRepository) Create(ctx context.Context, tx usecase.Transaction, v *domain.Verification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, v)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.verifications[v.Date]; exists {
		return domain.ErrDuplicateVerification
	}
	m.verifications[v.Date] = v
	return nil
}

func (m *MockVerificationRepository) Earliest(ctx context.Context) (*domain.Verification, error) {
	if m.EarliestFunc != nil {
		return m.EarliestFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var earliest *domain.Verification
	for _, v := range m.verifications {
		if earliest == nil || v.Date.Before(earliest.Date) {
			earliest = v
		}
	}
	if earliest == nil {
		return nil, domain.ErrVerificationNotFound
	}
	return earliest, nil
}

func (m *MockVerificationRepository) ClosestOnOrBefore(ctx context.Context, date domain.Date) (*domain.Verification, error) {
	if m.ClosestOnOrBeforeFunc != nil {
		return m.ClosestOnOrBeforeFunc(ctx, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var closest *domain.Verification
	for _, v := range m.verifications {
		if v.Date.After(date) {
			continue
		}
		if closest == nil || v.Date.After(closest.Date) {
			closest = v
		}
	}
	if closest == nil {
		return nil, domain.ErrVerificationNotFound
	}
	return closest, nil
}

func (m *MockVerificationRepository) GetByDate(ctx context.Context, date domain.Date) (*domain.Verification, error) {
	if m.GetByDateFunc != nil {
		return m.GetByDateFunc(ctx, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.verifications[date]; ok {
		return v, nil
	}
	return nil, domain.ErrVerificationNotFound
}

func (m *MockVerificationRepository) ListRange(ctx context.Context, from, to domain.Date) ([]*domain.Verification, error) {
	if m.ListRangeFunc != nil {
		return m.ListRangeFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Verification
	for _, v := range m.verifications {
		if v.Date.Before(from) || v.Date.After(to) {
			continue
		}
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// MockSaleRepository is an in-memory SaleRepository that aggregates the way
// the real store does: cash, non-voided sales grouped by their sale date.
type MockSaleRepository struct {
	mu    sync.RWMutex
	sales []*domain.Sale

	SumCashByDayFunc   func(ctx context.Context, from, to domain.Date) ([]domain.DayTotal, error)
	SumCashInRangeFunc func(ctx context.Context, from, to domain.Date) (decimal.Decimal, error)
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{}
}

func (m *MockSaleRepository) Seed(sales ...*domain.Sale) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, sales...)
}

func (m *MockSaleRepository) Create(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, sale)
	return nil
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrSaleNotFound
}

func (m *MockSaleRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sales {
		if s.ID == id {
			s.Deleted = true
			s.DeletedAt = &deletedAt
			return nil
		}
	}
	return domain.ErrSaleNotFound
}

func (m *MockSaleRepository) List(ctx context.Context, filter usecase.SaleFilter) ([]*domain.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Sale
	for _, s := range m.sales {
		if s.Deleted {
			continue
		}
		if filter.From != nil && s.SaleDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.SaleDate.After(*filter.To) {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (m *MockSaleRepository) SumCashByDay(ctx context.Context, from, to domain.Date) ([]domain.DayTotal, error) {
	if m.SumCashByDayFunc != nil {
		return m.SumCashByDayFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	byDay := make(map[domain.Date]decimal.Decimal)
	for _, s := range m.sales {
		if !s.Cash || s.Deleted {
			continue
		}
		if s.SaleDate.Before(from) || s.SaleDate.After(to) {
			continue
		}
		byDay[s.SaleDate] = byDay[s.SaleDate].Add(s.Amount)
	}
	return dayTotals(byDay), nil
}

func (m *MockSaleRepository) SumCashInRange(ctx context.Context, from, to domain.Date) (decimal.Decimal, error) {
	if m.SumCashInRangeFunc != nil {
		return m.SumCashInRangeFunc(ctx, from, to)
	}
	totals, err := m.SumCashByDay(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

// MockPaymentRepository is an in-memory PaymentRepository. It buckets
// occurrence instants into calendar days using the location it was built
// with, mirroring the store's local-day aggregation.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments []*domain.Payment
	loc      *time.Location
}

func NewMockPaymentRepository(loc *time.Location) *MockPaymentRepository {
	return &MockPaymentRepository{loc: loc}
}

func (m *MockPaymentRepository) Seed(payments ...*domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payments...)
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) List(ctx context.Context, filter usecase.InstantFilter) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if filter.From != nil && p.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !p.OccurredAt.Before(*filter.To) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (m *MockPaymentRepository) SumDirectByLocalDay(ctx context.Context, from, to time.Time) ([]domain.DayTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byDay := make(map[domain.Date]decimal.Decimal)
	for _, p := range m.payments {
		if !p.Direct {
			continue
		}
		if p.OccurredAt.Before(from) || !p.OccurredAt.Before(to) {
			continue
		}
		day := domain.DateOf(p.OccurredAt, m.loc)
		byDay[day] = byDay[day].Add(p.Amount)
	}
	return dayTotals(byDay), nil
}

func (m *MockPaymentRepository) SumDirectInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	totals, err := m.SumDirectByLocalDay(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

// MockSpendingRepository is an in-memory SpendingRepository with the same
// local-day bucketing as MockPaymentRepository.
type MockSpendingRepository struct {
	mu        sync.RWMutex
	spendings []*domain.Spending
	loc       *time.Location
}

func NewMockSpendingRepository(loc *time.Location) *MockSpendingRepository {
	return &MockSpendingRepository{loc: loc}
}

func (m *MockSpendingRepository) Seed(spendings ...*domain.Spending) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spendings = append(m.spendings, spendings...)
}

func (m *MockSpendingRepository) Create(ctx context.Context, tx usecase.Transaction, spending *domain.Spending) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spendings = append(m.spendings, spending)
	return nil
}

func (m *MockSpendingRepository) GetByID(ctx context.Context, id string) (*domain.Spending, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.spendings {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrSpendingNotFound
}

func (m *MockSpendingRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id string, deletedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.spendings {
		if s.ID == id {
			s.Deleted = true
			s.DeletedAt = &deletedAt
			return nil
		}
	}
	return domain.ErrSpendingNotFound
}

func (m *MockSpendingRepository) List(ctx context.Context, filter usecase.InstantFilter) ([]*domain.Spending, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Spending
	for _, s := range m.spendings {
		if s.Deleted {
			continue
		}
		if filter.From != nil && s.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !s.OccurredAt.Before(*filter.To) {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (m *MockSpendingRepository) SumByLocalDay(ctx context.Context, from, to time.Time) ([]domain.DayTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byDay := make(map[domain.Date]decimal.Decimal)
	for _, s := range m.spendings {
		if s.Deleted {
			continue
		}
		if s.OccurredAt.Before(from) || !s.OccurredAt.Before(to) {
			continue
		}
		day := domain.DateOf(s.OccurredAt, m.loc)
		byDay[day] = byDay[day].Add(s.Amount)
	}
	return dayTotals(byDay), nil
}

func (m *MockSpendingRepository) SumInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	totals, err := m.SumByLocalDay(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

// MockTransactionManager hands out no-op transactions and counts outcomes.
type MockTransactionManager struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &mockTx{manager: m}, nil
}

type mockTx struct {
	manager *MockTransactionManager
	done    bool
}

func (t *mockTx) Commit(ctx context.Context) error {
	t.manager.mu.Lock()
	defer t.manager.mu.Unlock()
	t.done = true
	t.manager.Commits++
	return nil
}

func (t *mockTx) Rollback(ctx context.Context) error {
	t.manager.mu.Lock()
	defer t.manager.mu.Unlock()
	if !t.done {
		t.done = true
		t.manager.Rollbacks++
	}
	return nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "id-" + itoa(m.next)
}

// MockClock returns a fixed time.
type MockClock struct {
	Time time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{Time: t}
}

func (m *MockClock) Now() time.Time {
	return m.Time
}

// MockRetrier runs the operation exactly once.
type MockRetrier struct{}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (MockRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

func dayTotals(byDay map[domain.Date]decimal.Decimal) []domain.DayTotal {
	totals := make([]domain.DayTotal, 0, len(byDay))
	for d, amount := range byDay {
		totals = append(totals, domain.DayTotal{Date: d, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date.Before(totals[j].Date) })
	return totals
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
