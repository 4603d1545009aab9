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

// SaleService defines the behavior needed by SaleHandler.
type SaleService interface {
	Create(ctx context.Context, input usecase.CreateSaleInput) (*domain.Sale, error)
	List(ctx context.Context, input usecase.ListSalesInput) ([]*domain.Sale, error)
	Void(ctx context.Context, id string, actor *domain.User) error
}

// SaleHandler handles sale-related HTTP requests.
type SaleHandler struct {
	saleUC SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(saleUC SaleService) *SaleHandler {
	return &SaleHandler{saleUC: saleUC}
}

// Create records a sale.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	saleDate, err := domain.ParseDate(req.SaleDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())
	sale, err := h.saleUC.Create(r.Context(), usecase.CreateSaleInput{
		Amount:   req.Amount,
		Cash:     req.Cash,
		SaleDate: saleDate,
		Note:     req.Note,
		Actor:    actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.SaleFromDomain(sale))
}

// List lists sales, most recent first.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sales, err := h.saleUC.List(r.Context(), usecase.ListSalesInput{
		From:   from,
		To:     to,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.SalesFromDomain(sales))
}

// Void soft-deletes a sale so it no longer feeds the ledger.
func (h *SaleHandler) Void(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing sale ID")
		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())
	if err := h.saleUC.Void(r.Context(), id, actor); err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"id": id})
}
