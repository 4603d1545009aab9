package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/adapter/http/middleware"
	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
)

type stubBalanceService struct {
	listFn func(ctx context.Context, input usecase.ListBalanceInput) ([]*domain.DayRecord, error)
	atFn   func(ctx context.Context, date domain.Date) (decimal.Decimal, error)
}

func (s *stubBalanceService) ListBalance(ctx context.Context, input usecase.ListBalanceInput) ([]*domain.DayRecord, error) {
	return s.listFn(ctx, input)
}

func (s *stubBalanceService) BalanceAt(ctx context.Context, date domain.Date) (decimal.Decimal, error) {
	return s.atFn(ctx, date)
}

type stubVerificationService struct {
	createFn func(ctx context.Context, input usecase.CreateVerificationInput) (*domain.Verification, error)
}

func (s *stubVerificationService) Create(ctx context.Context, input usecase.CreateVerificationInput) (*domain.Verification, error) {
	return s.createFn(ctx, input)
}

func TestBalanceHandler_List(t *testing.T) {
	var gotInput usecase.ListBalanceInput
	balance := &stubBalanceService{
		listFn: func(ctx context.Context, input usecase.ListBalanceInput) ([]*domain.DayRecord, error) {
			gotInput = input
			return []*domain.DayRecord{
				{
					Date:    domain.NewDate(2024, time.March, 13),
					Sales:   decimal.RequireFromString("150"),
					Balance: decimal.RequireFromString("1150"),
				},
			}, nil
		},
	}
	h := NewBalanceHandler(balance, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/balance/?minDate=2024-03-10&maxDate=2024-03-14", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotInput.MinDate == nil || gotInput.MinDate.String() != "2024-03-10" {
		t.Fatalf("unexpected minDate: %v", gotInput.MinDate)
	}
	if gotInput.MaxDate == nil || gotInput.MaxDate.String() != "2024-03-14" {
		t.Fatalf("unexpected maxDate: %v", gotInput.MaxDate)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Date    string `json:"date"`
			Balance string `json:"balance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 || resp.Data[0].Date != "2024-03-13" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBalanceHandler_ListNoVerifications(t *testing.T) {
	balance := &stubBalanceService{
		listFn: func(ctx context.Context, input usecase.ListBalanceInput) ([]*domain.DayRecord, error) {
			return nil, domain.ErrNoVerifications
		},
	}
	h := NewBalanceHandler(balance, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/balance/", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Error.Code != "no_verifications" {
		t.Fatalf("unexpected error response: %+v", resp)
	}
}

func TestBalanceHandler_ListRejectsMalformedDate(t *testing.T) {
	h := NewBalanceHandler(&stubBalanceService{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/balance/?minDate=bogus", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBalanceHandler_At(t *testing.T) {
	balance := &stubBalanceService{
		atFn: func(ctx context.Context, date domain.Date) (decimal.Decimal, error) {
			if date.String() != "2024-03-14" {
				t.Fatalf("unexpected date: %s", date)
			}
			return decimal.RequireFromString("1500"), nil
		},
	}
	h := NewBalanceHandler(balance, nil, nil)

	req := newChiRequest(http.MethodGet, "/api/balance/2024-03-14", "date", "2024-03-14", nil)
	rec := httptest.NewRecorder()
	h.At(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Date    string `json:"date"`
			Balance string `json:"balance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Date != "2024-03-14" || resp.Data.Balance != "1500" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBalanceHandler_AtBeforeEarliestVerification(t *testing.T) {
	balance := &stubBalanceService{
		atFn: func(ctx context.Context, date domain.Date) (decimal.Decimal, error) {
			return decimal.Zero, domain.ErrDateOutOfRange
		},
	}
	h := NewBalanceHandler(balance, nil, nil)

	req := newChiRequest(http.MethodGet, "/api/balance/2020-01-01", "date", "2020-01-01", nil)
	rec := httptest.NewRecorder()
	h.At(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBalanceHandler_CreateVerification(t *testing.T) {
	var gotInput usecase.CreateVerificationInput
	verifications := &stubVerificationService{
		createFn: func(ctx context.Context, input usecase.CreateVerificationInput) (*domain.Verification, error) {
			gotInput = input
			return &domain.Verification{
				ID:     "ver-1",
				Date:   input.Date,
				Amount: input.Amount,
			}, nil
		},
	}
	h := NewBalanceHandler(nil, verifications, nil)

	admin := &domain.User{ID: "user-admin", Role: domain.RoleAdmin}
	body := `{"date":"2024-03-14","amount":"2000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/balance/verification", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, admin))
	rec := httptest.NewRecorder()
	h.CreateVerification(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotInput.Date.String() != "2024-03-14" || gotInput.Actor != admin {
		t.Fatalf("unexpected input: %+v", gotInput)
	}
}

func TestBalanceHandler_CreateVerificationDuplicateDate(t *testing.T) {
	verifications := &stubVerificationService{
		createFn: func(ctx context.Context, input usecase.CreateVerificationInput) (*domain.Verification, error) {
			return nil, domain.ErrDuplicateVerification
		},
	}
	h := NewBalanceHandler(nil, verifications, nil)

	body := `{"date":"2024-03-14","amount":"2000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/balance/verification", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateVerification(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

// newChiRequest builds a request with a chi URL parameter populated.
func newChiRequest(method, target, param, value string, body *strings.Reader) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
