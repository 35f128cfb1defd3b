package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankaccounts/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Status         bool            `json:"status"`
	CustomerID     int64           `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts an account detail to a response.
func AccountFromDomain(a *domain.AccountDetail) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Number:         a.Number,
		Type:           string(a.Type),
		InitialBalance: a.InitialBalance,
		Status:         a.Status,
		CustomerID:     a.CustomerID,
		CustomerName:   a.CustomerName,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts account details to responses.
func AccountsFromDomain(accounts []*domain.AccountDetail) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	Date           string          `json:"date"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	Balance        decimal.Decimal `json:"balance"`
	AccountNumber  string          `json:"account_number"`
	AccountStatus  bool            `json:"account_status"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CustomerName   string          `json:"customer_name"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MovementFromDomain converts a movement detail to a response.
func MovementFromDomain(m *domain.MovementDetail) *MovementResponse {
	return &MovementResponse{
		ID:             m.ID,
		AccountID:      m.AccountID,
		Date:           m.Date.Format(DateLayout),
		Type:           string(m.Type),
		Value:          m.Value,
		Balance:        m.Balance,
		AccountNumber:  m.AccountNumber,
		AccountStatus:  m.AccountStatus,
		InitialBalance: m.InitialBalance,
		CustomerName:   m.CustomerName,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// MovementsFromDomain converts movement details to responses.
func MovementsFromDomain(movements []*domain.MovementDetail) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// ReportRowResponse represents one line of the account statement report.
type ReportRowResponse struct {
	Date             string          `json:"date"`
	CustomerName     string          `json:"customer_name"`
	AccountNumber    string          `json:"account_number"`
	AccountType      string          `json:"account_type"`
	InitialBalance   decimal.Decimal `json:"initial_balance"`
	Status           bool            `json:"status"`
	Movement         decimal.Decimal `json:"movement"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// ReportFromDomain converts movement details to report rows. The movement
// column is signed: withdrawals appear negative.
func ReportFromDomain(movements []*domain.MovementDetail) []*ReportRowResponse {
	result := make([]*ReportRowResponse, len(movements))
	for i, m := range movements {
		value := m.Value
		if m.Type == domain.MovementTypeWithdrawal {
			value = value.Neg()
		}

		result[i] = &ReportRowResponse{
			Date:             m.Date.Format(DateLayout),
			CustomerName:     m.CustomerName,
			AccountNumber:    m.AccountNumber,
			AccountType:      string(m.AccountType),
			InitialBalance:   m.InitialBalance,
			Status:           m.AccountStatus,
			Movement:         value,
			AvailableBalance: m.Balance,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
