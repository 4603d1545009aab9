package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hielosur/cashbook/internal/adapter/http/middleware"
	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/infrastructure/auth"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func TestAuthHandler_Login(t *testing.T) {
	authSvc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			if email != "admin@cashbook.local" || password != "secret" {
				t.Fatalf("unexpected credentials: %s / %s", email, password)
			}
			return &domain.User{
				ID: "user-1", Email: email, Name: "Admin", Role: domain.RoleAdmin, Active: true,
			}, nil
		},
	}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	h := NewAuthHandler(authSvc, jwtManager, nil)

	body := `{"email":"admin@cashbook.local","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			User  struct {
				Role string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.Token == "" || resp.Data.User.Role != "admin" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	claims, err := jwtManager.Verify(resp.Data.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	authSvc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(authSvc, auth.NewJWTManager("test-secret", time.Hour), nil)

	body := `{"email":"admin@cashbook.local","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	h.GetCurrentUser(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rec.Code)
	}

	user := &domain.User{ID: "user-1", Email: "op@cashbook.local", Role: domain.RoleOperator}
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
	rec = httptest.NewRecorder()
	h.GetCurrentUser(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
