package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hielosur/cashbook/internal/adapter/http/dto"
	"github.com/hielosur/cashbook/internal/adapter/http/middleware"
	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
)

// SpendingService defines the behavior needed by SpendingHandler.
type SpendingService interface {
	Create(ctx context.Context, input usecase.CreateSpendingInput) (*domain.Spending, error)
	List(ctx context.Context, input usecase.ListSpendingsInput) ([]*domain.Spending, error)
	Void(ctx context.Context, id string, actor *domain.User) error
}

// SpendingHandler handles spending-related HTTP requests.
type SpendingHandler struct {
	spendingUC SpendingService
}

// NewSpendingHandler creates a new SpendingHandler.
func NewSpendingHandler(spendingUC SpendingService) *SpendingHandler {
	return &SpendingHandler{spendingUC: spendingUC}
}

// Create records cash leaving the till.
func (h *SpendingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSpendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())
	spending, err := h.spendingUC.Create(r.Context(), usecase.CreateSpendingInput{
		Amount:      req.Amount,
		OccurredAt:  req.OccurredAt,
		Description: req.Description,
		Actor:       actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.SpendingFromDomain(spending))
}

// List lists spendings, most recent first.
func (h *SpendingHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	spendings, err := h.spendingUC.List(r.Context(), usecase.ListSpendingsInput{
		From:   from,
		To:     to,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.SpendingsFromDomain(spendings))
}

// Void soft-deletes a spending so it no longer reduces the ledger.
func (h *SpendingHandler) Void(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing spending ID")
		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())
	if err := h.spendingUC.Void(r.Context(), id, actor); err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"id": id})
}
