package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/hielosur/cashbook/internal/adapter/http"
	"github.com/hielosur/cashbook/internal/adapter/http/handler"
	postgresrepo "github.com/hielosur/cashbook/internal/adapter/repository/postgres"
	"github.com/hielosur/cashbook/internal/domain"
	"github.com/hielosur/cashbook/internal/infrastructure/auth"
	"github.com/hielosur/cashbook/internal/usecase"
	"github.com/hielosur/cashbook/tests/testutil"
)

const businessTimezone = "America/Guayaquil"

// testEnv wires the full service against the test database.
type testEnv struct {
	DB            *testutil.TestDB
	Router        http.Handler
	Loc           *time.Location
	Admin         *domain.User
	Operator      *domain.User
	Viewer        *domain.User
	AdminToken    string
	OperatorToken string
	ViewerToken   string
	OutboxRepo    *postgresrepo.OutboxRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	loc, err := time.LoadLocation(businessTimezone)
	if err != nil {
		t.Fatalf("failed to load business time zone: %v", err)
	}

	pool := testDB.Pool
	txManager := postgresrepo.NewTxManager(pool)
	retrier := postgresrepo.NewRetrier()
	idGen := postgresrepo.NewULIDGenerator()
	verificationRepo := postgresrepo.NewVerificationRepository(pool)
	saleRepo := postgresrepo.NewSaleRepository(pool)
	paymentRepo := postgresrepo.NewPaymentRepository(pool, businessTimezone)
	spendingRepo := postgresrepo.NewSpendingRepository(pool, businessTimezone)
	userRepo := postgresrepo.NewUserRepository(pool)
	auditRepo := postgresrepo.NewAuditRepository(pool)
	outboxRepo := postgresrepo.NewOutboxRepository(pool)

	clock := usecase.NewSystemClock()
	balanceUC := usecase.NewBalanceUseCase(verificationRepo, saleRepo, paymentRepo, spendingRepo, loc, clock)
	verificationUC := usecase.NewVerificationUseCase(txManager, retrier, verificationRepo, auditRepo, outboxRepo, balanceUC, idGen, clock)
	saleUC := usecase.NewSaleUseCase(txManager, saleRepo, auditRepo, outboxRepo, idGen, clock)
	paymentUC := usecase.NewPaymentUseCase(txManager, paymentRepo, auditRepo, outboxRepo, idGen, clock)
	spendingUC := usecase.NewSpendingUseCase(txManager, spendingRepo, auditRepo, outboxRepo, idGen, clock)
	authUC := usecase.NewAuthUseCase(userRepo, auditRepo, idGen, clock)

	jwtManager := auth.NewJWTManager("integration-secret", time.Hour)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:     handler.NewAuthHandler(authUC, jwtManager, nil),
		BalanceHandler:  handler.NewBalanceHandler(balanceUC, verificationUC, nil),
		SaleHandler:     handler.NewSaleHandler(saleUC),
		PaymentHandler:  handler.NewPaymentHandler(paymentUC),
		SpendingHandler: handler.NewSpendingHandler(spendingUC),
		HealthHandler:   handler.NewHealthHandler(pool, nil),
		JWTManager:      jwtManager,
		Logger:          zerolog.Nop(),
	})

	env := &testEnv{
		DB:         testDB,
		Router:     router,
		Loc:        loc,
		Admin:      testDB.SeededUser(ctx, domain.RoleAdmin),
		Operator:   testDB.SeededUser(ctx, domain.RoleOperator),
		Viewer:     testDB.SeededUser(ctx, domain.RoleViewer),
		OutboxRepo: outboxRepo,
	}

	env.AdminToken = generateToken(t, jwtManager, env.Admin)
	env.OperatorToken = generateToken(t, jwtManager, env.Operator)
	env.ViewerToken = generateToken(t, jwtManager, env.Viewer)

	return env
}

func generateToken(t *testing.T, jwtManager *auth.JWTManager, user *domain.User) string {
	t.Helper()

	token, err := jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token for %s: %v", user.Email, err)
	}
	return token
}

// do sends a request through the router with an optional bearer token and
// JSON body.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps the response envelope into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	if !envelope.Success {
		t.Fatalf("expected success response, got: %s", rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("failed to decode data: %v\nbody: %s", err, rec.Body.String())
	}
}

// errorCode extracts the error code from a failure envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v\nbody: %s", err, rec.Body.String())
	}
	if envelope.Error == nil {
		t.Fatalf("expected error body, got: %s", rec.Body.String())
	}
	return envelope.Error.Code
}

// localDay returns a calendar day offset from today in the business zone.
func (env *testEnv) localDay(offset int) domain.Date {
	return domain.DateOf(time.Now().AddDate(0, 0, offset), env.Loc)
}

// noonUTC returns the instant of local noon on the given day, in UTC.
func (env *testEnv) noonUTC(d domain.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, env.Loc).UTC()
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()

	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("bad expected decimal %q: %v", want, err)
	}
	if !got.Equal(expected) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
