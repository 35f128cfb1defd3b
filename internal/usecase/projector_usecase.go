package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankaccounts/internal/domain"
)

// ProjectorUseCase consumes identity-sync messages and keeps the local
// customer projection current. It is the sole writer of the projection.
//
// Payloads map customer-identifier strings to customer names; a single
// message may carry several pairs. Consumption is at-least-once, so the
// upsert must be idempotent: last write wins.
type ProjectorUseCase struct {
	customerRepo CustomerRepository
	logger       zerolog.Logger
}

// NewProjectorUseCase creates a new ProjectorUseCase.
func NewProjectorUseCase(customerRepo CustomerRepository, logger zerolog.Logger) *ProjectorUseCase {
	return &ProjectorUseCase{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// HandleMessage processes one inbound identity-sync payload.
//
// An undecodable envelope is logged and the whole message dropped. A pair
// whose key does not parse as a customer id is logged and skipped without
// aborting the rest of the message. Upsert failures are returned so the
// consumer can leave the message uncommitted for redelivery.
func (uc *ProjectorUseCase) HandleMessage(ctx context.Context, payload []byte) error {
	var pairs map[string]string
	if err := json.Unmarshal(payload, &pairs); err != nil {
		uc.logger.Error().
			Err(err).
			Str("payload", string(payload)).
			Msg("dropping undecodable identity sync message")

		return nil
	}

	var failed int

	for key, name := range pairs {
		customerID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			uc.logger.Warn().
				Str("customer_id", key).
				Msg("skipping identity sync entry with unparseable customer id")

			continue
		}

		customer := &domain.Customer{
			ID:        customerID,
			Name:      name,
			UpdatedAt: time.Now().UTC(),
		}

		if err := uc.customerRepo.Upsert(ctx, customer); err != nil {
			uc.logger.Error().
				Err(err).
				Int64("customer_id", customerID).
				Msg("failed to upsert customer projection")

			failed++

			continue
		}

		uc.logger.Info().
			Int64("customer_id", customerID).
			Msg("customer projection updated")
	}

	if failed > 0 {
		return fmt.Errorf("identity sync: %d of %d entries failed to persist", failed, len(pairs))
	}

	return nil
}
