package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/bankaccounts/internal/domain"
)

var (
	movementsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_movements_created_total",
		Help: "Total number of movements recorded.",
	})
	movementsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_movements_rejected_total",
		Help: "Total number of movements rejected for insufficient balance.",
	})
)

// MovementUseCase handles the movement ledger: creation, edit with full-chain
// recomputation, and deletion of movements per account.
//
// All mutations run inside a transaction that first locks the owning account
// row, so writes to the same account's movement chain are serialized while
// operations on different accounts proceed independently.
type MovementUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	customerRepo CustomerRepository
	idGen        IDGenerator
	retrier      Retrier
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	customerRepo CustomerRepository,
	idGen IDGenerator,
	retrier Retrier,
) *MovementUseCase {
	return &MovementUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		customerRepo: customerRepo,
		idGen:        idGen,
		retrier:      retrier,
	}
}

// CreateMovementInput represents input for creating a movement.
type CreateMovementInput struct {
	AccountID string
	Type      domain.MovementType
	Value     decimal.Decimal
	Date      time.Time
}

// CreateMovement records a new movement against an account. The previous
// balance is the balance of the most-recently-dated existing movement, or the
// account's initial balance when none exists. A movement whose computed
// balance would be negative is rejected and nothing is persisted.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, input CreateMovementInput) (*domain.MovementDetail, error) {
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidMovementType
	}

	if input.Value.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	var created *domain.Movement

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		previousBalance := account.InitialBalance

		latest, err := uc.movementRepo.GetLatestByAccount(ctx, tx, account.ID)
		switch {
		case err == nil:
			previousBalance = latest.Balance
		case errors.Is(err, domain.ErrMovementNotFound):
			// first movement, fold starts at the initial balance
		default:
			return err
		}

		balance := domain.ComputeBalance(input.Type, previousBalance, input.Value)
		if balance.IsNegative() {
			movementsRejected.Inc()
			return domain.ErrInsufficientBalance
		}

		now := time.Now().UTC()
		movement := &domain.Movement{
			ID:        uc.idGen.Generate(),
			AccountID: account.ID,
			Date:      input.Date,
			Type:      input.Type,
			Value:     input.Value,
			Balance:   balance,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := uc.movementRepo.Create(ctx, tx, movement); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		created = movement

		return nil
	})
	if err != nil {
		return nil, err
	}

	movementsCreated.Inc()

	return uc.toDetail(ctx, created)
}

// UpdateMovementInput represents input for editing a movement. A nil Date
// keeps the movement's current date.
type UpdateMovementInput struct {
	Type  domain.MovementType
	Value decimal.Decimal
	Date  *time.Time
}

// UpdateMovement edits a movement and rewrites the balance of every movement
// in the owning account. Balances are a running fold over the chronological
// chain, so an interior edit invalidates every subsequent value; the whole
// chain is recomputed in one pass and persisted atomically.
func (uc *MovementUseCase) UpdateMovement(ctx context.Context, movementID string, input UpdateMovementInput) (*domain.MovementDetail, error) {
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidMovementType
	}

	if input.Value.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	existing, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, existing.AccountID)
		if err != nil {
			return err
		}

		movements, err := uc.movementRepo.ListByAccountAsc(ctx, tx, account.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, m := range movements {
			if m.ID != movementID {
				continue
			}

			m.Type = input.Type
			m.Value = input.Value
			if input.Date != nil {
				m.Date = *input.Date
			}
			m.UpdatedAt = now
		}

		sortChain(movements)
		recomputeChain(account.InitialBalance, movements)

		if err := uc.movementRepo.UpdateAll(ctx, tx, movements); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	updated, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}

	return uc.toDetail(ctx, updated)
}

// DeleteMovement removes a movement and recomputes the remaining chain so the
// running-balance invariant keeps holding for every surviving movement.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, movementID string) error {
	movement, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return err
	}

	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, movement.AccountID)
		if err != nil {
			return err
		}

		if err := uc.movementRepo.Delete(ctx, tx, movementID); err != nil {
			return err
		}

		remaining, err := uc.movementRepo.ListByAccountAsc(ctx, tx, account.ID)
		if err != nil {
			return err
		}

		recomputeChain(account.InitialBalance, remaining)

		if err := uc.movementRepo.UpdateAll(ctx, tx, remaining); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// GetMovement retrieves a movement by ID, enriched with account and customer
// data.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*domain.MovementDetail, error) {
	movement, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return uc.toDetail(ctx, movement)
}

// ListMovements lists all movements, enriched.
func (uc *MovementUseCase) ListMovements(ctx context.Context) ([]*domain.MovementDetail, error) {
	movements, err := uc.movementRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return uc.toDetails(ctx, movements)
}

// ListMovementsByAccount lists an account's movements most recent first,
// enriched.
func (uc *MovementUseCase) ListMovementsByAccount(ctx context.Context, accountID string) ([]*domain.MovementDetail, error) {
	movements, err := uc.movementRepo.ListByAccountDesc(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return uc.toDetails(ctx, movements)
}

func (uc *MovementUseCase) toDetail(ctx context.Context, movement *domain.Movement) (*domain.MovementDetail, error) {
	account, err := uc.accountRepo.GetByID(ctx, movement.AccountID)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, account.CustomerID)
	if err != nil {
		return nil, err
	}

	return &domain.MovementDetail{
		Movement:       *movement,
		AccountNumber:  account.Number,
		AccountType:    account.Type,
		AccountStatus:  account.Status,
		InitialBalance: account.InitialBalance,
		CustomerName:   customer.Name,
	}, nil
}

func (uc *MovementUseCase) toDetails(ctx context.Context, movements []*domain.Movement) ([]*domain.MovementDetail, error) {
	details := make([]*domain.MovementDetail, 0, len(movements))
	for _, m := range movements {
		detail, err := uc.toDetail(ctx, m)
		if err != nil {
			return nil, err
		}

		details = append(details, detail)
	}

	return details, nil
}

// sortChain orders movements chronologically, breaking date ties by id so the
// fold order is stable after an edit moves a movement's date.
func sortChain(movements []*domain.Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if movements[i].Date.Equal(movements[j].Date) {
			return movements[i].ID < movements[j].ID
		}

		return movements[i].Date.Before(movements[j].Date)
	})
}

// recomputeChain rewrites every movement's balance as a running fold over the
// ordered chain, starting from the account's initial balance.
func recomputeChain(initialBalance decimal.Decimal, movements []*domain.Movement) {
	running := initialBalance
	for _, m := range movements {
		running = domain.ComputeBalance(m.Type, running, m.Value)
		m.Balance = running
	}
}
