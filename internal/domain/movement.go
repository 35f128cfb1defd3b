package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies a movement as money in or money out.
type MovementType string

const (
	MovementTypeDeposit    MovementType = "deposit"
	MovementTypeWithdrawal MovementType = "withdrawal"
)

var validMovementTypes = map[MovementType]bool{
	MovementTypeDeposit:    true,
	MovementTypeWithdrawal: true,
}

// IsValid checks if the movement type is a known type.
func (t MovementType) IsValid() bool {
	return validMovementTypes[t]
}

// ParseMovementType parses a movement type from its string form.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMovementType, s)
	}

	return t, nil
}

// Movement represents a single deposit or withdrawal against an account.
// Value is always a positive magnitude; Balance is the account's running
// balance immediately after this movement is applied.
type Movement struct {
	ID        string
	AccountID string
	Date      time.Time
	Type      MovementType
	Value     decimal.Decimal
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the movement is well formed.
func (m *Movement) Validate() error {
	if !m.Type.IsValid() {
		return ErrInvalidMovementType
	}

	if m.Value.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// ComputeBalance returns the running balance after applying a movement of the
// given type and value on top of previousBalance. Withdrawals subtract, every
// other type adds.
func ComputeBalance(t MovementType, previousBalance, value decimal.Decimal) decimal.Decimal {
	if t == MovementTypeWithdrawal {
		return previousBalance.Sub(value)
	}

	return previousBalance.Add(value)
}

// MovementDetail is a movement joined with its account and the owning
// customer's projected name, as served on read paths.
type MovementDetail struct {
	Movement

	AccountNumber  string
	AccountType    AccountType
	AccountStatus  bool
	InitialBalance decimal.Decimal
	CustomerName   string
}
