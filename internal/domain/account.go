package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product class of an account.
type AccountType string

const (
	AccountTypeSavings  AccountType = "savings"
	AccountTypeChecking AccountType = "checking"
)

var validAccountTypes = map[AccountType]bool{
	AccountTypeSavings:  true,
	AccountTypeChecking: true,
}

// IsValid checks if the account type is a known type.
func (t AccountType) IsValid() bool {
	return validAccountTypes[t]
}

// ParseAccountType parses an account type from its string form.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}

	return t, nil
}

// Account represents a customer account that movements are recorded against.
// The owning customer lives in an external system; CustomerID is a foreign
// reference resolved through the local customer projection.
type Account struct {
	ID             string
	Number         string
	Type           AccountType
	InitialBalance decimal.Decimal
	Status         bool
	CustomerID     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks if the account is well formed.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Number) == "" {
		return ErrInvalidAccountNumber
	}

	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}

	if a.InitialBalance.IsNegative() {
		return ErrNegativeInitialBalance
	}

	return nil
}

// AccountDetail is an account joined with the owning customer's projected name.
type AccountDetail struct {
	Account

	CustomerName string
}
