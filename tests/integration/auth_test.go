package integration

import (
	"net/http"
	"testing"
)

func TestLoginWithSeededUsers(t *testing.T) {
	env := newTestEnv(t)

	t.Run("admin login succeeds", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"email":    "admin@cashbook.local",
			"password": "admin123",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		}
		decodeData(t, rec, &result)

		if result.Token == "" {
			t.Fatal("expected a token")
		}
		if result.User.Role != "admin" {
			t.Fatalf("expected admin role, got %s", result.User.Role)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"email":    "admin@cashbook.local",
			"password": "wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "unauthorized" {
			t.Fatalf("expected unauthorized code, got %s", code)
		}
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"email":    "nobody@cashbook.local",
			"password": "admin123",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("me returns the authenticated user", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/me", env.OperatorToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		decodeData(t, rec, &result)

		if result.Email != env.Operator.Email || result.Role != "operator" {
			t.Fatalf("unexpected user: %+v", result)
		}
	})
}
