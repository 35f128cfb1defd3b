package usecase

import (
	"context"
	"time"

	"github.com/iho/bankaccounts/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Account, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Account, error)
}

// MovementRepository defines data access for movements.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	// GetLatestByAccount returns the most-recently-dated movement for an
	// account, or domain.ErrMovementNotFound when the account has none.
	GetLatestByAccount(ctx context.Context, tx Transaction, accountID string) (*domain.Movement, error)
	ListByAccountAsc(ctx context.Context, tx Transaction, accountID string) ([]*domain.Movement, error)
	ListByAccountDesc(ctx context.Context, accountID string) ([]*domain.Movement, error)
	List(ctx context.Context) ([]*domain.Movement, error)
	UpdateAll(ctx context.Context, tx Transaction, movements []*domain.Movement) error
	Delete(ctx context.Context, tx Transaction, id string) error
	CountByAccount(ctx context.Context, accountID string) (int64, error)
	ListByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Movement, error)
}

// CustomerRepository defines access to the local customer projection.
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Upsert(ctx context.Context, customer *domain.Customer) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation when it fails with a transient storage error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
