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

type reportFixture struct {
	uc           *usecase.ReportUseCase
	movementUC   *usecase.MovementUseCase
	movementRepo *mocks.MockMovementRepository
}

func newReportFixture(t *testing.T) (*reportFixture, string) {
	t.Helper()

	accountRepo := mocks.NewMockAccountRepository()
	movementRepo := mocks.NewMockMovementRepository()
	customerRepo := mocks.NewMockCustomerRepository()
	ctx := context.Background()

	require.NoError(t, customerRepo.Upsert(ctx, &domain.Customer{ID: 7, Name: "Marianela Montalvo"}))
	require.NoError(t, accountRepo.Create(ctx, &domain.Account{
		ID:             "acc-1",
		Number:         "225487",
		Type:           domain.AccountTypeChecking,
		InitialBalance: decimal.NewFromInt(100),
		Status:         true,
		CustomerID:     7,
	}))

	f := &reportFixture{
		uc: usecase.NewReportUseCase(accountRepo, movementRepo, customerRepo),
		movementUC: usecase.NewMovementUseCase(
			mocks.NewMockTransactionManager(),
			accountRepo,
			movementRepo,
			customerRepo,
			mocks.NewMockIDGenerator(),
			mocks.NewMockRetrier(),
		),
		movementRepo: movementRepo,
	}

	return f, "acc-1"
}

func TestReportUseCase_Report(t *testing.T) {
	f, accountID := newReportFixture(t)
	ctx := context.Background()

	for _, m := range []struct {
		day   int
		typ   domain.MovementType
		value int64
	}{
		{day: 1, typ: domain.MovementTypeDeposit, value: 50},
		{day: 15, typ: domain.MovementTypeWithdrawal, value: 30},
		{day: 28, typ: domain.MovementTypeDeposit, value: 10},
	} {
		_, err := f.movementUC.CreateMovement(ctx, usecase.CreateMovementInput{
			AccountID: accountID,
			Type:      m.typ,
			Value:     decimal.NewFromInt(m.value),
			Date:      date(2024, time.June, m.day),
		})
		require.NoError(t, err)
	}

	start := date(2024, time.June, 10)
	end := date(2024, time.June, 30)

	rows, err := f.uc.Report(ctx, usecase.ReportInput{
		StartDate: &start,
		EndDate:   &end,
		AccountID: accountID,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, row := range rows {
		require.Equal(t, "Marianela Montalvo", row.CustomerName)
		require.Equal(t, "225487", row.AccountNumber)
		require.True(t, row.InitialBalance.Equal(decimal.NewFromInt(100)))
	}

	require.True(t, rows[0].Balance.Equal(decimal.NewFromInt(120)), "expected 120, got %s", rows[0].Balance)
	require.True(t, rows[1].Balance.Equal(decimal.NewFromInt(130)), "expected 130, got %s", rows[1].Balance)
}

func TestReportUseCase_Report_BackdatedMovementKeepsCreationOrder(t *testing.T) {
	f, accountID := newReportFixture(t)
	ctx := context.Background()

	// The second movement is backdated before the first. Rows come back in
	// ascending id order, which is creation order, not date order.
	for _, m := range []struct {
		day   int
		value int64
	}{
		{day: 20, value: 50},
		{day: 10, value: 30},
	} {
		_, err := f.movementUC.CreateMovement(ctx, usecase.CreateMovementInput{
			AccountID: accountID,
			Type:      domain.MovementTypeDeposit,
			Value:     decimal.NewFromInt(m.value),
			Date:      date(2024, time.June, m.day),
		})
		require.NoError(t, err)
	}

	start := date(2024, time.June, 1)
	end := date(2024, time.June, 30)

	rows, err := f.uc.Report(ctx, usecase.ReportInput{
		StartDate: &start,
		EndDate:   &end,
		AccountID: accountID,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, date(2024, time.June, 20), rows[0].Date)
	require.Equal(t, date(2024, time.June, 10), rows[1].Date)
	require.True(t, rows[0].ID < rows[1].ID)
}

func TestReportUseCase_Report_InvalidRange(t *testing.T) {
	f, accountID := newReportFixture(t)

	start := date(2024, time.June, 30)
	end := date(2024, time.June, 1)

	var listed bool
	f.movementRepo.ListByDateRangeFunc = func(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Movement, error) {
		listed = true
		return nil, nil
	}

	_, err := f.uc.Report(context.Background(), usecase.ReportInput{
		StartDate: &start,
		EndDate:   &end,
		AccountID: accountID,
	})

	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if listed {
		t.Fatal("range validation must happen before the store is queried")
	}
}

func TestReportUseCase_Report_DefaultsToToday(t *testing.T) {
	f, accountID := newReportFixture(t)
	ctx := context.Background()

	_, err := f.movementUC.CreateMovement(ctx, usecase.CreateMovementInput{
		AccountID: accountID,
		Type:      domain.MovementTypeDeposit,
		Value:     decimal.NewFromInt(5),
		Date:      time.Now().UTC().Truncate(24 * time.Hour),
	})
	require.NoError(t, err)

	rows, err := f.uc.Report(ctx, usecase.ReportInput{AccountID: accountID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
