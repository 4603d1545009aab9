package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hielosur/cashbook/internal/adapter/http/handler"
	"github.com/hielosur/cashbook/internal/adapter/http/middleware"
	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/infrastructure/auth"
	"github.com/hielosur/cashbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	BalanceHandler   *handler.BalanceHandler
	SaleHandler      *handler.SaleHandler
	PaymentHandler   *handler.PaymentHandler
	SpendingHandler  *handler.SpendingHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
	LoginRate        float64
	LoginBurst       int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.LoginRate <= 0 {
		cfg.LoginRate = 5
	}
	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = 10
	}
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst)

	r.Route("/api", func(r chi.Router) {
		r.With(loginLimiter.Limit).Post("/login", cfg.AuthHandler.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Get("/me", cfg.AuthHandler.GetCurrentUser)

			r.Route("/balance", func(r chi.Router) {
				r.Get("/", cfg.BalanceHandler.List)
				r.With(middleware.RequireRole(domain.RoleAdmin)).
					Post("/verification", cfg.BalanceHandler.CreateVerification)
				r.Get("/{date}", cfg.BalanceHandler.At)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", cfg.SaleHandler.List)
				r.With(middleware.RequireRole(domain.RoleOperator)).Post("/", cfg.SaleHandler.Create)
				r.With(middleware.RequireRole(domain.RoleOperator)).Delete("/{id}", cfg.SaleHandler.Void)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", cfg.PaymentHandler.List)
				r.With(middleware.RequireRole(domain.RoleOperator)).Post("/", cfg.PaymentHandler.Create)
			})

			r.Route("/spendings", func(r chi.Router) {
				r.Get("/", cfg.SpendingHandler.List)
				r.With(middleware.RequireRole(domain.RoleOperator)).Post("/", cfg.SpendingHandler.Create)
				r.With(middleware.RequireRole(domain.RoleOperator)).Delete("/{id}", cfg.SpendingHandler.Void)
			})
		})
	})

	return r
}
