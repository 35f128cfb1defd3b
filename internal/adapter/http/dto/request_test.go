package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankaccounts/internal/domain"
)

func TestCreateAccountRequest_NormalizesType(t *testing.T) {
	tests := []struct {
		name    string
		rawType string
		want    domain.AccountType
	}{
		{"lowercase passes through", "savings", domain.AccountTypeSavings},
		{"uppercase is normalized", "CHECKING", domain.AccountTypeChecking},
		{"surrounding spaces are trimmed", " Savings ", domain.AccountTypeSavings},
		{"unknown type passes through for validation", "bond", domain.AccountType("bond")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &CreateAccountRequest{
				Number:         "478758",
				Type:           tt.rawType,
				InitialBalance: decimal.NewFromInt(100),
				Status:         true,
				CustomerID:     7,
			}

			got := req.ToUseCaseInput()
			if got.Type != tt.want {
				t.Fatalf("ToUseCaseInput().Type = %q, want %q", got.Type, tt.want)
			}
		})
	}
}

func TestCreateMovementRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name     string
		request  *CreateMovementRequest
		wantType domain.MovementType
		wantDate time.Time
		wantErr  error
	}{
		{
			name:     "valid movement",
			request:  &CreateMovementRequest{AccountID: "acc-1", Type: "deposit", Value: decimal.NewFromInt(50), Date: "2024-07-04"},
			wantType: domain.MovementTypeDeposit,
			wantDate: time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "uppercase type is normalized",
			request:  &CreateMovementRequest{AccountID: "acc-1", Type: "WITHDRAWAL", Value: decimal.NewFromInt(10), Date: "2024-07-04"},
			wantType: domain.MovementTypeWithdrawal,
			wantDate: time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "unknown type is rejected",
			request: &CreateMovementRequest{AccountID: "acc-1", Type: "transfer", Value: decimal.NewFromInt(10)},
			wantErr: domain.ErrInvalidMovementType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ToUseCaseInput() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Type != tt.wantType {
				t.Fatalf("ToUseCaseInput().Type = %q, want %q", got.Type, tt.wantType)
			}
			if !got.Date.Equal(tt.wantDate) {
				t.Fatalf("ToUseCaseInput().Date = %v, want %v", got.Date, tt.wantDate)
			}
		})
	}
}

func TestUpdateMovementRequest_ToUseCaseInput(t *testing.T) {
	req := &UpdateMovementRequest{Type: "Deposit", Value: decimal.NewFromInt(80)}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != domain.MovementTypeDeposit {
		t.Fatalf("ToUseCaseInput().Type = %q, want %q", got.Type, domain.MovementTypeDeposit)
	}
	if got.Date != nil {
		t.Fatalf("expected nil date when omitted, got %v", got.Date)
	}
}
