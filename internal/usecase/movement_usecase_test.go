package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankaccounts/internal/domain"
	"github.com/iho/bankaccounts/internal/usecase"
	"github.com/iho/bankaccounts/internal/usecase/mocks"
)

type movementFixture struct {
	uc           *usecase.MovementUseCase
	accountRepo  *mocks.MockAccountRepository
	movementRepo *mocks.MockMovementRepository
	customerRepo *mocks.MockCustomerRepository
}

func newMovementFixture(t *testing.T) *movementFixture {
	t.Helper()

	accountRepo := mocks.NewMockAccountRepository()
	movementRepo := mocks.NewMockMovementRepository()
	customerRepo := mocks.NewMockCustomerRepository()

	uc := usecase.NewMovementUseCase(
		mocks.NewMockTransactionManager(),
		accountRepo,
		movementRepo,
		customerRepo,
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
	)

	return &movementFixture{
		uc:           uc,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		customerRepo: customerRepo,
	}
}

func (f *movementFixture) seedAccount(t *testing.T, id string, initialBalance int64) {
	t.Helper()

	ctx := context.Background()

	err := f.customerRepo.Upsert(ctx, &domain.Customer{ID: 7, Name: "Ana Maria"})
	require.NoError(t, err)

	err = f.accountRepo.Create(ctx, &domain.Account{
		ID:             id,
		Number:         "478758",
		Type:           domain.AccountTypeSavings,
		InitialBalance: decimal.NewFromInt(initialBalance),
		Status:         true,
		CustomerID:     7,
	})
	require.NoError(t, err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMovementUseCase_CreateMovement_RunningBalance(t *testing.T) {
	f := newMovementFixture(t)
	f.seedAccount(t, "acc-1", 100)
	ctx := context.Background()

	first, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(50),
		Date:      date(2024, time.January, 10),
	})
	require.NoError(t, err)
	require.True(t, first.Balance.Equal(decimal.NewFromInt(150)), "expected 150, got %s", first.Balance)
	require.Equal(t, "Ana Maria", first.CustomerName)
	require.Equal(t, "478758", first.AccountNumber)
	require.True(t, first.InitialBalance.Equal(decimal.NewFromInt(100)))

	_, err = f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeWithdrawal,
		Value:     decimal.NewFromInt(200),
		Date:      date(2024, time.January, 11),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// the rejected withdrawal must not have been persisted
	count, err := f.movementRepo.CountByAccount(ctx, "acc-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	second, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(30),
		Date:      date(2024, time.January, 12),
	})
	require.NoError(t, err)
	require.True(t, second.Balance.Equal(decimal.NewFromInt(180)), "expected 180, got %s", second.Balance)
}

func TestMovementUseCase_CreateMovement_ExactWithdrawalToZero(t *testing.T) {
	f := newMovementFixture(t)
	f.seedAccount(t, "acc-1", 100)
	ctx := context.Background()

	detail, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeWithdrawal,
		Value:     decimal.NewFromInt(100),
		Date:      date(2024, time.February, 1),
	})
	require.NoError(t, err)
	require.True(t, detail.Balance.IsZero())
}

func TestMovementUseCase_CreateMovement_AccountNotFound(t *testing.T) {
	f := newMovementFixture(t)

	_, err := f.uc.CreateMovement(context.Background(), usecase.CreateMovementInput{
		AccountID: "missing",
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(10),
		Date:      date(2024, time.January, 1),
	})

	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestMovementUseCase_CreateMovement_MissingProjection(t *testing.T) {
	f := newMovementFixture(t)
	ctx := context.Background()

	// account references a customer id the projector has not seen yet
	err := f.accountRepo.Create(ctx, &domain.Account{
		ID:             "acc-1",
		Number:         "478758",
		Type:           domain.AccountTypeSavings,
		InitialBalance: decimal.NewFromInt(100),
		Status:         true,
		CustomerID:     99,
	})
	require.NoError(t, err)

	_, err = f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(10),
		Date:      date(2024, time.January, 1),
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestMovementUseCase_CreateMovement_InvalidInput(t *testing.T) {
	f := newMovementFixture(t)
	f.seedAccount(t, "acc-1", 100)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       usecase.CreateMovementInput
		expectedErr error
	}{
		{
			name: "unknown movement type",
			input: usecase.CreateMovementInput{
				AccountID: "acc-1",
				Type:      "transfer",
				Value:     decimal.NewFromInt(10),
			},
			expectedErr: domain.ErrInvalidMovementType,
		},
		{
			name: "zero value",
			input: usecase.CreateMovementInput{
				AccountID: "acc-1",
				Type:      domain.MovementTypeDeposit,
				Value:     decimal.Zero,
			},
			expectedErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative value",
			input: usecase.CreateMovementInput{
				AccountID: "acc-1",
				Type:      domain.MovementTypeWithdrawal,
				Value:     decimal.NewFromInt(-5),
			},
			expectedErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateMovement(ctx, tt.input)
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestMovementUseCase_UpdateMovement_RecomputesChain(t *testing.T) {
	f := newMovementFixture(t)
	f.seedAccount(t, "acc-1", 100)
	ctx := context.Background()

	first, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(50),
		Date:      date(2024, time.March, 1),
	})
	require.NoError(t, err)

	second, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeWithdrawal,
		Value:     decimal.NewFromInt(20),
		Date:      date(2024, time.March, 2),
	})
	require.NoError(t, err)

	updated, err := f.uc.UpdateMovement(ctx, first.ID, usecase.UpdateMovementInput{
		Type:  domain.MovementTypeDeposit,
		Value: decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.NewFromInt(180)), "expected 180, got %s", updated.Balance)

	// every movement dated on or after the edit carries a recomputed balance
	stored, err := f.movementRepo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, stored.Balance.Equal(decimal.NewFromInt(160)), "expected 160, got %s", stored.Balance)
}

func TestMovementUseCase_UpdateMovement_DateChangeReordersChain(t *testing.T) {
	f := newMovementFixture(t)
	f.seedAccount(t, "acc-1", 100)
	ctx := context.Background()

	first, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(50),
		Date:      date(2024, time.March, 1),
	})
	require.NoError(t, err)

	second, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeWithdrawal,
		Value:     decimal.NewFromInt(120),
		Date:      date(2024, time.March, 5),
	})
	require.NoError(t, err)

	// move the withdrawal ahead of the deposit: the fold now subtracts first
	newDate := date(2024, time.February, 1)
	moved, err := f.uc.UpdateMovement(ctx, second.ID, usecase.UpdateMovementInput{
		Type:  domain.MovementTypeWithdrawal,
		Value: decimal.NewFromInt(120),
		Date:  &newDate,
	})
	require.NoError(t, err)
	require.True(t, moved.Balance.Equal(decimal.NewFromInt(-20)), "expected -20, got %s", moved.Balance)

	stored, err := f.movementRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, stored.Balance.Equal(decimal.NewFromInt(30)), "expected 30, got %s", stored.Balance)
}

func TestMovementUseCase_UpdateMovement_NotFound(t *testing.T) {
	f := newMovementFixture(t)

	_, err := f.uc.UpdateMovement(context.Background(), "missing", usecase.UpdateMovementInput{
		Type:  domain.MovementTypeDeposit,
		Value: decimal.NewFromInt(10),
	})

	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}
}

func TestMovementUseCase_DeleteMovement_RecomputesRemaining(t *testing.T) {
	f := newMovementFixture(t)
	f.seedAccount(t, "acc-1", 100)
	ctx := context.Background()

	first, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(50),
		Date:      date(2024, time.April, 1),
	})
	require.NoError(t, err)

	second, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeWithdrawal,
		Value:     decimal.NewFromInt(30),
		Date:      date(2024, time.April, 2),
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteMovement(ctx, first.ID))

	// the surviving withdrawal folds directly over the initial balance
	stored, err := f.movementRepo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, stored.Balance.Equal(decimal.NewFromInt(70)), "expected 70, got %s", stored.Balance)
}

func TestMovementUseCase_DeleteMovement_NotFound(t *testing.T) {
	f := newMovementFixture(t)

	err := f.uc.DeleteMovement(context.Background(), "missing")
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}
}

func TestMovementUseCase_GetMovement(t *testing.T) {
	f := newMovementFixture(t)
	f.seedAccount(t, "acc-1", 100)
	ctx := context.Background()

	created, err := f.uc.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: "acc-1",
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(25),
		Date:      date(2024, time.May, 1),
	})
	require.NoError(t, err)

	detail, err := f.uc.GetMovement(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, detail.ID)
	require.Equal(t, "Ana Maria", detail.CustomerName)

	_, err = f.uc.GetMovement(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrMovementNotFound)
}
