package integration

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSaleVoiding(t *testing.T) {
	env := newTestEnv(t)

	day := env.localDay(-1)

	rec := env.do(t, http.MethodPost, "/api/balance/verification", env.AdminToken, map[string]any{
		"date":   day.String(),
		"amount": "100",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/sales/", env.OperatorToken, map[string]any{
		"amount": "50", "cash": true, "saleDate": day.String(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var sale struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &sale)

	balanceAt := func() decimal.Decimal {
		rec := env.do(t, http.MethodGet, "/api/balance/"+day.Next().String(), env.ViewerToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var result struct {
			Balance decimal.Decimal `json:"balance"`
		}
		decodeData(t, rec, &result)
		return result.Balance
	}

	requireDecimalEqual(t, "150", balanceAt())

	t.Run("viewer cannot void", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/sales/"+sale.ID, env.ViewerToken, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("void removes the sale from the ledger", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/sales/"+sale.ID, env.OperatorToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		requireDecimalEqual(t, "100", balanceAt())
	})

	t.Run("voiding twice returns not found", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/sales/"+sale.ID, env.OperatorToken, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("voided sale is absent from listings", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/sales/", env.ViewerToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var sales []struct {
			ID string `json:"id"`
		}
		decodeData(t, rec, &sales)
		for _, s := range sales {
			if s.ID == sale.ID {
				t.Fatal("expected voided sale to be excluded")
			}
		}
	})
}
