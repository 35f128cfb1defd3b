package usecase

import (
	"context"
	"time"

	"github.com/iho/bankaccounts/internal/domain"
)

// ReportUseCase handles the read-only movement report over a date window.
type ReportUseCase struct {
	accountRepo  AccountRepository
	movementRepo MovementRepository
	customerRepo CustomerRepository
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	customerRepo CustomerRepository,
) *ReportUseCase {
	return &ReportUseCase{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		customerRepo: customerRepo,
	}
}

// ReportInput represents input for the movement report. Nil dates default
// independently to today.
type ReportInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID string
}

// Report returns every movement of the given account whose date lies in the
// inclusive [start, end] window, enriched, ordered by ascending movement id.
// A start date after the end date fails before touching the store.
func (uc *ReportUseCase) Report(ctx context.Context, input ReportInput) ([]*domain.MovementDetail, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	start := today
	if input.StartDate != nil {
		start = *input.StartDate
	}

	end := today
	if input.EndDate != nil {
		end = *input.EndDate
	}

	if start.After(end) {
		return nil, domain.ErrInvalidDateRange
	}

	movements, err := uc.movementRepo.ListByDateRange(ctx, input.AccountID, start, end)
	if err != nil {
		return nil, err
	}

	details := make([]*domain.MovementDetail, 0, len(movements))
	for _, m := range movements {
		account, err := uc.accountRepo.GetByID(ctx, m.AccountID)
		if err != nil {
			return nil, err
		}

		customer, err := uc.customerRepo.GetByID(ctx, account.CustomerID)
		if err != nil {
			return nil, err
		}

		details = append(details, &domain.MovementDetail{
			Movement:       *m,
			AccountNumber:  account.Number,
			AccountType:    account.Type,
			AccountStatus:  account.Status,
			InitialBalance: account.InitialBalance,
			CustomerName:   customer.Name,
		})
	}

	return details, nil
}
