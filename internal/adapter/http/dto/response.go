package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hielosur/cashbook/internal/domain"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody carries a machine-readable code alongside the message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VerificationResponse represents a verification in API responses.
type VerificationResponse struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	AdjustAmount decimal.Decimal `json:"adjustAmount"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// VerificationFromDomain converts a domain verification to its response form.
func VerificationFromDomain(v *domain.Verification) *VerificationResponse {
	return &VerificationResponse{
		ID:           v.ID,
		Date:         v.Date.String(),
		Amount:       v.Amount,
		AdjustAmount: v.AdjustAmount,
		CreatedBy:    v.CreatedBy,
		CreatedAt:    v.CreatedAt,
	}
}

// DayRecordResponse represents one day of the computed ledger.
type DayRecordResponse struct {
	Date         string                `json:"date"`
	Sales        decimal.Decimal       `json:"sales"`
	Payments     decimal.Decimal       `json:"payments"`
	Spendings    decimal.Decimal       `json:"spendings"`
	Verification *VerificationResponse `json:"verification,omitempty"`
	Balance      decimal.Decimal       `json:"balance"`
}

// DayRecordFromDomain converts a domain day record to its response form.
func DayRecordFromDomain(r *domain.DayRecord) *DayRecordResponse {
	resp := &DayRecordResponse{
		Date:      r.Date.String(),
		Sales:     r.Sales,
		Payments:  r.Payments,
		Spendings: r.Spendings,
		Balance:   r.Balance,
	}
	if r.Verification != nil {
		resp.Verification = VerificationFromDomain(r.Verification)
	}
	return resp
}

// DayRecordsFromDomain converts a slice of day records.
func DayRecordsFromDomain(records []*domain.DayRecord) []*DayRecordResponse {
	result := make([]*DayRecordResponse, len(records))
	for i, r := range records {
		result[i] = DayRecordFromDomain(r)
	}
	return result
}

// BalanceAtResponse represents a point-in-time balance.
type BalanceAtResponse struct {
	Date    string          `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Cash      bool            `json:"cash"`
	SaleDate  string          `json:"saleDate"`
	Note      string          `json:"note,omitempty"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SaleFromDomain converts a domain sale to its response form.
func SaleFromDomain(s *domain.Sale) *SaleResponse {
	return &SaleResponse{
		ID:        s.ID,
		Amount:    s.Amount,
		Cash:      s.Cash,
		SaleDate:  s.SaleDate.String(),
		Note:      s.Note,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
	}
}

// SalesFromDomain converts a slice of sales.
func SalesFromDomain(sales []*domain.Sale) []*SaleResponse {
	result := make([]*SaleResponse, len(sales))
	for i, s := range sales {
		result[i] = SaleFromDomain(s)
	}
	return result
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Direct       bool            `json:"direct"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Counterparty string          `json:"counterparty,omitempty"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// PaymentFromDomain converts a domain payment to its response form.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:           p.ID,
		Amount:       p.Amount,
		Direct:       p.Direct,
		OccurredAt:   p.OccurredAt,
		Counterparty: p.Counterparty,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
	}
}

// PaymentsFromDomain converts a slice of payments.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// SpendingResponse represents a spending in API responses.
type SpendingResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Description string          `json:"description,omitempty"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SpendingFromDomain converts a domain spending to its response form.
func SpendingFromDomain(s *domain.Spending) *SpendingResponse {
	return &SpendingResponse{
		ID:          s.ID,
		Amount:      s.Amount,
		OccurredAt:  s.OccurredAt,
		Description: s.Description,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
	}
}

// SpendingsFromDomain converts a slice of spendings.
func SpendingsFromDomain(spendings []*domain.Spending) []*SpendingResponse {
	result := make([]*SpendingResponse, len(spendings))
	for i, s := range spendings {
		result[i] = SpendingFromDomain(s)
	}
	return result
}

// UserInfo is the user portion of a login response.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// LoginResponseFromDomain builds a login response for a user and token.
func LoginResponseFromDomain(user *domain.User, token string) *LoginResponse {
	return &LoginResponse{
		Token: token,
		User: UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  string(user.Role),
		},
	}
}
