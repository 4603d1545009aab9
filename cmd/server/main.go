package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/hielosur/cashbook/internal/adapter/http"
	"github.com/hielosur/cashbook/internal/adapter/http/handler"
	postgresRepo "github.com/hielosur/cashbook/internal/adapter/repository/postgres"
	redisRepo "github.com/hielosur/cashbook/internal/adapter/repository/redis"
	"github.com/hielosur/cashbook/internal/infrastructure/auth"
	"github.com/hielosur/cashbook/internal/infrastructure/config"
	"github.com/hielosur/cashbook/internal/infrastructure/eventpublisher"
	"github.com/hielosur/cashbook/internal/infrastructure/logger"
	"github.com/hielosur/cashbook/internal/infrastructure/metrics"
	"github.com/hielosur/cashbook/internal/infrastructure/postgres"
	"github.com/hielosur/cashbook/internal/infrastructure/redis"
	"github.com/hielosur/cashbook/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slogger := logger.NewSlog(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve business time zone")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis is optional: without it the service runs with idempotency
	// disabled and events published to the log.
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, idempotency and event streaming disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	m := metrics.New()
	go pollPoolStats(ctx, pool, m)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	verificationRepo := postgresRepo.NewVerificationRepository(pool)
	saleRepo := postgresRepo.NewSaleRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool, cfg.BusinessTimezone)
	spendingRepo := postgresRepo.NewSpendingRepository(pool, cfg.BusinessTimezone)
	userRepo := postgresRepo.NewUserRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)

	// With the outbox disabled, mutations skip event rows entirely.
	var outboxRepo usecase.OutboxRepository = postgresRepo.NewOutboxRepository(pool)
	if !cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
	}

	// Use cases
	clock := usecase.NewSystemClock()
	balanceUC := usecase.NewBalanceUseCase(verificationRepo, saleRepo, paymentRepo, spendingRepo, loc, clock)
	verificationUC := usecase.NewVerificationUseCase(txManager, retrier, verificationRepo, auditRepo, outboxRepo, balanceUC, idGen, clock)
	saleUC := usecase.NewSaleUseCase(txManager, saleRepo, auditRepo, outboxRepo, idGen, clock)
	paymentUC := usecase.NewPaymentUseCase(txManager, paymentRepo, auditRepo, outboxRepo, idGen, clock)
	spendingUC := usecase.NewSpendingUseCase(txManager, spendingRepo, auditRepo, outboxRepo, idGen, clock)
	authUC := usecase.NewAuthUseCase(userRepo, auditRepo, idGen, clock)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Handlers
	authHandler := handler.NewAuthHandler(authUC, jwtManager, m)
	balanceHandler := handler.NewBalanceHandler(balanceUC, verificationUC, m)
	saleHandler := handler.NewSaleHandler(saleUC)
	paymentHandler := handler.NewPaymentHandler(paymentUC)
	spendingHandler := handler.NewSpendingHandler(spendingUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var idempotencyStore usecase.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      authHandler,
		BalanceHandler:   balanceHandler,
		SaleHandler:      saleHandler,
		PaymentHandler:   paymentHandler,
		SpendingHandler:  spendingHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		Logger:           log,
		LoginRate:        cfg.LoginRateLimit,
		LoginBurst:       cfg.LoginRateBurst,
	})

	// Outbox publisher drains events written by the use cases.
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	if cfg.OutboxEnabled {
		var sink eventpublisher.Publisher
		if redisClient != nil {
			sink = eventpublisher.NewRedisPublisher(redisClient, "cashbook.events")
		} else {
			sink = eventpublisher.NewLogPublisher(slogger)
		}

		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  sink,
			Observer:   m,
			Logger:     slogger,
			BatchSize:  cfg.PublisherBatchSize,
			Interval:   cfg.PublisherInterval,
			Retention:  cfg.PublisherRetention,
		})

		go func() {
			if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("timezone", cfg.BusinessTimezone).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// pollPoolStats mirrors the pgx pool size into the connection gauge.
func pollPoolStats(ctx context.Context, pool *pgxpool.Pool, m *metrics.Metrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}
}
