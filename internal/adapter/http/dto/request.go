package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankaccounts/internal/domain"
	"github.com/iho/bankaccounts/internal/usecase"
)

// DateLayout is the wire format for movement and report dates.
const DateLayout = "2006-01-02"

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Number         string          `json:"number"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Status         bool            `json:"status"`
	CustomerID     int64           `json:"customer_id"`
}

// ToUseCaseInput converts to use case input. An unknown type is passed through
// as-is and rejected by use-case validation.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	accountType, err := domain.ParseAccountType(r.Type)
	if err != nil {
		accountType = domain.AccountType(r.Type)
	}

	return usecase.CreateAccountInput{
		Number:         r.Number,
		Type:           accountType,
		InitialBalance: r.InitialBalance,
		Status:         r.Status,
		CustomerID:     r.CustomerID,
	}
}

// UpdateAccountRequest represents a request to update an account.
type UpdateAccountRequest struct {
	Number         string          `json:"number"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Status         bool            `json:"status"`
	CustomerID     int64           `json:"customer_id"`
}

// ToUseCaseInput converts to use case input. An unknown type is passed through
// as-is and rejected by use-case validation.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	accountType, err := domain.ParseAccountType(r.Type)
	if err != nil {
		accountType = domain.AccountType(r.Type)
	}

	return usecase.UpdateAccountInput{
		Number:         r.Number,
		Type:           accountType,
		InitialBalance: r.InitialBalance,
		Status:         r.Status,
		CustomerID:     r.CustomerID,
	}
}

// CreateMovementRequest represents a request to record a movement. An empty
// date means the movement is dated now.
type CreateMovementRequest struct {
	AccountID string          `json:"account_id"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	Date      string          `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMovementRequest) ToUseCaseInput() (usecase.CreateMovementInput, error) {
	movementType, err := domain.ParseMovementType(r.Type)
	if err != nil {
		return usecase.CreateMovementInput{}, err
	}

	date := time.Now().UTC()
	if r.Date != "" {
		parsed, err := time.Parse(DateLayout, r.Date)
		if err != nil {
			return usecase.CreateMovementInput{}, fmt.Errorf("invalid date %q: expected %s", r.Date, DateLayout)
		}

		date = parsed
	}

	return usecase.CreateMovementInput{
		AccountID: r.AccountID,
		Type:      movementType,
		Value:     r.Value,
		Date:      date,
	}, nil
}

// UpdateMovementRequest represents a request to edit a movement. An empty date
// keeps the movement's current date.
type UpdateMovementRequest struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
	Date  string          `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateMovementRequest) ToUseCaseInput() (usecase.UpdateMovementInput, error) {
	movementType, err := domain.ParseMovementType(r.Type)
	if err != nil {
		return usecase.UpdateMovementInput{}, err
	}

	input := usecase.UpdateMovementInput{
		Type:  movementType,
		Value: r.Value,
	}

	if r.Date != "" {
		parsed, err := time.Parse(DateLayout, r.Date)
		if err != nil {
			return usecase.UpdateMovementInput{}, fmt.Errorf("invalid date %q: expected %s", r.Date, DateLayout)
		}

		input.Date = &parsed
	}

	return input, nil
}
