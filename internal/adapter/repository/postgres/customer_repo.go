package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankaccounts/internal/domain"
)

// CustomerRepository implements usecase.CustomerRepository over the local
// customer projection table.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetByID retrieves a projected customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT id, name, updated_at FROM customer_snapshots WHERE id = $1`

	var (
		customer  domain.Customer
		updatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(&customer.ID, &customer.Name, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	customer.UpdatedAt = updatedAt.Time

	return &customer, nil
}

// Upsert inserts or overwrites a projected customer. Last write wins, so
// replaying an already-applied sync message is harmless.
func (r *CustomerRepository) Upsert(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customer_snapshots (id, name, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		customer.ID,
		customer.Name,
		timeToPgTimestamptz(customer.UpdatedAt),
	)

	return err
}
