package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hielosur/cashbook/internal/adapter/http/dto"
	"github.com/hielosur/cashbook/internal/adapter/http/middleware"
	"github.com/hielosur/cashbook/internal/domain"
)

// AuthService defines the behavior needed by AuthHandler.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// TokenIssuer issues signed tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// AuthObserver records login attempts. May be nil.
type AuthObserver interface {
	ObserveAuthAttempt(status string)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authUC   AuthService
	tokens   TokenIssuer
	observer AuthObserver
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authUC AuthService, tokens TokenIssuer, observer AuthObserver) *AuthHandler {
	return &AuthHandler{authUC: authUC, tokens: tokens, observer: observer}
}

// Login validates credentials and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	user, err := h.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.observer != nil {
			h.observer.ObserveAuthAttempt("failure")
		}
		writeDomainError(w, err)
		return
	}
	if h.observer != nil {
		h.observer.ObserveAuthAttempt("success")
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, dto.LoginResponseFromDomain(user, token))
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
		return
	}

	writeSuccess(w, http.StatusOK, dto.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	})
}
