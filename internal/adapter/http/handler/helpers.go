package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hielosur/cashbook/internal/adapter/http/dto"
	"github.com/hielosur/cashbook/internal/domain"
)

// Error codes exposed on the wire.
const (
	codeNoVerifications = "no_verifications"
	codeUniqueDate      = "unique_date"
	codeValidation      = "ValidationError"
	codeUnauthorized    = "unauthorized"
	codeNotFound        = "not_found"
	codeInternal        = "internal_error"
)

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.Response{Success: true, Data: data})
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.Response{
		Success: false,
		Error:   &dto.ErrorBody{Code: code, Message: message},
	})
}

// writeDomainError maps a domain error to its HTTP status and code.
//
// Internal errors keep their detail out of the response body.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := mapDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeError(w, status, code, message)
}

// mapDomainError maps domain errors to HTTP status codes and wire codes.
func mapDomainError(err error) (int, string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNoVerifications):
		return http.StatusUnprocessableEntity, codeNoVerifications
	case errors.Is(err, domain.ErrDuplicateVerification):
		return http.StatusConflict, codeUniqueDate
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrDateOutOfRange):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, codeUnauthorized
	case errors.Is(err, domain.ErrVerificationNotFound),
		errors.Is(err, domain.ErrSaleNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrSpendingNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, codeNotFound
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseTimeQuery parses an optional RFC 3339 query parameter. A missing
// parameter returns nil; a malformed one returns the error.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid RFC 3339 instant", val)
	}
	return &t, nil
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter. A missing
// parameter returns nil; a malformed one returns the error.
func parseDateQuery(r *http.Request, key string) (*domain.Date, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(val)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
