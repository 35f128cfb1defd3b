package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

var movementRows = []string{"id", "account_id", "date", "type", "value", "balance", "created_at", "updated_at"}

func TestMovementRepositoryListByDateRangeOrdersByID(t *testing.T) {
	mockPool := newMockPool(t)

	// The second movement was created later but backdated before the first.
	// Ascending id keeps creation order regardless of the dates.
	created := time.Date(2024, time.June, 25, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(movementRows).
		AddRow("01J0A", "acc-1", time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC), "deposit", "50", "150", created, created).
		AddRow("01J0B", "acc-1", time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), "withdrawal", "30", "120", created, created)

	mockPool.ExpectQuery(`ORDER BY id ASC`).
		WithArgs("acc-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	repo := newMovementRepositoryWithPool(mockPool)

	movements, err := repo.ListByDateRange(
		context.Background(),
		"acc-1",
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if movements[0].ID != "01J0A" || movements[1].ID != "01J0B" {
		t.Fatalf("expected id order [01J0A 01J0B], got [%s %s]", movements[0].ID, movements[1].ID)
	}

	if err := mockPool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
