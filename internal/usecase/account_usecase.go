package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankaccounts/internal/domain"
)

// AccountUseCase handles the account directory: identity, number uniqueness,
// and the movement-existence check gating deletion.
type AccountUseCase struct {
	accountRepo  AccountRepository
	movementRepo MovementRepository
	customerRepo CustomerRepository
	idGen        IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	customerRepo CustomerRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		customerRepo: customerRepo,
		idGen:        idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Number         string
	Type           domain.AccountType
	InitialBalance decimal.Decimal
	Status         bool
	CustomerID     int64
}

// CreateAccount creates a new account. The owning customer must already be
// projected locally and the account number must be unused.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.AccountDetail, error) {
	customer, err := uc.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	_, err = uc.accountRepo.GetByNumber(ctx, input.Number)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateAccountNumber
	case errors.Is(err, domain.ErrAccountNotFound):
		// number is free
	default:
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Number:         input.Number,
		Type:           input.Type,
		InitialBalance: input.InitialBalance,
		Status:         input.Status,
		CustomerID:     input.CustomerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return &domain.AccountDetail{Account: *account, CustomerName: customer.Name}, nil
}

// GetAccount retrieves an account by ID, enriched with the customer's
// projected name.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.AccountDetail, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return uc.toDetail(ctx, account)
}

// ListAccounts lists all accounts, enriched.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.AccountDetail, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return uc.toDetails(ctx, accounts)
}

// ListAccountsByCustomer lists a customer's accounts. The customer identifier
// must resolve to a known projection.
func (uc *AccountUseCase) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]*domain.AccountDetail, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	details := make([]*domain.AccountDetail, 0, len(accounts))
	for _, account := range accounts {
		details = append(details, &domain.AccountDetail{Account: *account, CustomerName: customer.Name})
	}

	return details, nil
}

// UpdateAccountInput represents input for updating an account. Every mutable
// field is overwritten.
type UpdateAccountInput struct {
	Number         string
	Type           domain.AccountType
	InitialBalance decimal.Decimal
	Status         bool
	CustomerID     int64
}

// UpdateAccount overwrites an account's mutable fields and re-resolves the
// owning customer's projected name.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.AccountDetail, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Number = input.Number
	account.Type = input.Type
	account.InitialBalance = input.InitialBalance
	account.Status = input.Status
	account.CustomerID = input.CustomerID
	account.UpdatedAt = time.Now().UTC()

	if err := account.Validate(); err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, account.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return &domain.AccountDetail{Account: *account, CustomerName: customer.Name}, nil
}

// DeleteAccount deletes an account. An account with at least one movement
// cannot be deleted.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	if _, err := uc.accountRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := uc.movementRepo.CountByAccount(ctx, id)
	if err != nil {
		return err
	}

	if count > 0 {
		return domain.ErrAccountHasMovements
	}

	return uc.accountRepo.Delete(ctx, id)
}

func (uc *AccountUseCase) toDetail(ctx context.Context, account *domain.Account) (*domain.AccountDetail, error) {
	customer, err := uc.customerRepo.GetByID(ctx, account.CustomerID)
	if err != nil {
		return nil, err
	}

	return &domain.AccountDetail{Account: *account, CustomerName: customer.Name}, nil
}

func (uc *AccountUseCase) toDetails(ctx context.Context, accounts []*domain.Account) ([]*domain.AccountDetail, error) {
	details := make([]*domain.AccountDetail, 0, len(accounts))
	for _, account := range accounts {
		detail, err := uc.toDetail(ctx, account)
		if err != nil {
			return nil, err
		}

		details = append(details, detail)
	}

	return details, nil
}
