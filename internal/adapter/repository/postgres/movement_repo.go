package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankaccounts/internal/domain"
	"github.com/iho/bankaccounts/internal/usecase"
)

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	pool pgxQuerier
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return newMovementRepositoryWithPool(pool)
}

func newMovementRepositoryWithPool(pool pgxQuerier) *MovementRepository {
	return &MovementRepository{pool: pool}
}

const movementColumns = `id, account_id, date, type, value, balance, created_at, updated_at`

// Create inserts a new movement inside the given transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO movements (id, account_id, date, type, value, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, query,
		movement.ID,
		movement.AccountID,
		timeToPgTimestamptz(movement.Date),
		string(movement.Type),
		decimalToNumeric(movement.Value),
		decimalToNumeric(movement.Balance),
		timeToPgTimestamptz(movement.CreatedAt),
		timeToPgTimestamptz(movement.UpdatedAt),
	)

	return err
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetLatestByAccount retrieves the most recent movement of an account, by date
// then id. Returns domain.ErrMovementNotFound when the account has none.
func (r *MovementRepository) GetLatestByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Movement, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE account_id = $1
		ORDER BY date DESC, id DESC
		LIMIT 1
	`

	return r.scanOne(pgxTx.QueryRow(ctx, query, accountID))
}

// ListByAccountAsc retrieves an account's movements in chronological order
// inside the given transaction.
func (r *MovementRepository) ListByAccountAsc(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Movement, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE account_id = $1
		ORDER BY date ASC, id ASC
	`

	rows, err := pgxTx.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListByAccountDesc retrieves an account's movements most recent first.
func (r *MovementRepository) ListByAccountDesc(ctx context.Context, accountID string) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE account_id = $1
		ORDER BY date DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// List retrieves all movements most recent first.
func (r *MovementRepository) List(ctx context.Context) ([]*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements ORDER BY date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// UpdateAll rewrites the given movements in one batch inside the transaction.
// Used after a chain recompute, where every balance may have changed.
func (r *MovementRepository) UpdateAll(ctx context.Context, tx usecase.Transaction, movements []*domain.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE movements
		SET date = $2, type = $3, value = $4, balance = $5, updated_at = $6
		WHERE id = $1
	`

	batch := &pgx.Batch{}
	for _, m := range movements {
		batch.Queue(query,
			m.ID,
			timeToPgTimestamptz(m.Date),
			string(m.Type),
			decimalToNumeric(m.Value),
			decimalToNumeric(m.Balance),
			timeToPgTimestamptz(m.UpdatedAt),
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range movements {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}

// Delete deletes a movement inside the given transaction.
func (r *MovementRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// CountByAccount counts an account's movements.
func (r *MovementRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE account_id = $1`, accountID).Scan(&count)

	return count, err
}

// ListByDateRange retrieves an account's movements dated inside the inclusive
// range, ordered by ascending id. IDs are ULIDs, so this is creation order
// even when a movement is backdated.
func (r *MovementRepository) ListByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE account_id = $1 AND date >= $2 AND date <= $3
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, accountID, timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *MovementRepository) scanOne(row pgx.Row) (*domain.Movement, error) {
	var (
		movement     domain.Movement
		movementType string
		date         pgtype.Timestamptz
		value        pgtype.Numeric
		balance      pgtype.Numeric
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&movement.ID,
		&movement.AccountID,
		&date,
		&movementType,
		&value,
		&balance,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	movement.Type = domain.MovementType(movementType)
	movement.Date = date.Time
	movement.Value = numericToDecimal(value)
	movement.Balance = numericToDecimal(balance)
	movement.CreatedAt = createdAt.Time
	movement.UpdatedAt = updatedAt.Time

	return &movement, nil
}

func (r *MovementRepository) scanAll(rows pgx.Rows) ([]*domain.Movement, error) {
	movements := make([]*domain.Movement, 0)
	for rows.Next() {
		movement, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}

		movements = append(movements, movement)
	}

	return movements, rows.Err()
}
