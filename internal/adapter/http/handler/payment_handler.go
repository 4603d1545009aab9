package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hielosur/cashbook/internal/adapter/http/dto"
	"github.com/hielosur/cashbook/internal/adapter/http/middleware"
	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/usecase"
)

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	Create(ctx context.Context, input usecase.CreatePaymentInput) (*domain.Payment, error)
	List(ctx context.Context, input usecase.ListPaymentsInput) ([]*domain.Payment, error)
}

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	paymentUC PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Create records a customer payment.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	actor, _ := middleware.GetUserFromContext(r.Context())
	payment, err := h.paymentUC.Create(r.Context(), usecase.CreatePaymentInput{
		Amount:       req.Amount,
		Direct:       req.Direct,
		OccurredAt:   req.OccurredAt,
		Counterparty: req.Counterparty,
		Actor:        actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

// List lists payments, most recent first. The from and to query parameters
// are RFC 3339 instants; to is exclusive.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
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

	payments, err := h.paymentUC.List(r.Context(), usecase.ListPaymentsInput{
		From:   from,
		To:     to,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.PaymentsFromDomain(payments))
}
