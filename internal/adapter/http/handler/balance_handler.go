package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/adapter/http/dto"
	"github.com/hielosur/cashbook/internal/adapter/http/middleware"
	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	ListBalance(ctx context.Context, input usecase.ListBalanceInput) ([]*domain.DayRecord, error)
	BalanceAt(ctx context.Context, date domain.Date) (decimal.Decimal, error)
}

// VerificationService defines the verification behavior needed by BalanceHandler.
type VerificationService interface {
	Create(ctx context.Context, input usecase.CreateVerificationInput) (*domain.Verification, error)
}

// BalanceObserver records ledger computation timings. May be nil.
type BalanceObserver interface {
	ObserveBalance(d time.Duration)
}

// BalanceHandler handles balance ledger and verification HTTP requests.
type BalanceHandler struct {
	balanceUC      BalanceService
	verificationUC VerificationService
	observer       BalanceObserver
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService, verificationUC VerificationService, observer BalanceObserver) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC, verificationUC: verificationUC, observer: observer}
}

// List computes the per-day ledger, optionally bounded by minDate and
// maxDate query parameters.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	minDate, err := parseDateQuery(r, "minDate")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	maxDate, err := parseDateQuery(r, "maxDate")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	start := time.Now()
	records, err := h.balanceUC.ListBalance(r.Context(), usecase.ListBalanceInput{
		MinDate: minDate,
		MaxDate: maxDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if h.observer != nil {
		h.observer.ObserveBalance(time.Since(start))
	}

	writeSuccess(w, http.StatusOK, dto.DayRecordsFromDomain(records))
}

// At returns the balance at the end of a single day.
func (h *BalanceHandler) At(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	balance, err := h.balanceUC.BalanceAt(r.Context(), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.BalanceAtResponse{
		Date:    date.String(),
		Balance: balance,
	})
}

// CreateVerification records a counted balance for the start of a day.
func (h *BalanceHandler) CreateVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())
	verification, err := h.verificationUC.Create(r.Context(), usecase.CreateVerificationInput{
		Date:   date,
		Amount: req.Amount,
		Actor:  actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.VerificationFromDomain(verification))
}
