package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/bankaccounts/internal/domain"
	"github.com/iho/bankaccounts/internal/usecase"
)

// CustomerCache is a read-through cache over a CustomerRepository. Customer
// names change rarely and are read on every enriched response, so lookups are
// served from Redis and fall back to the underlying store on a miss. Upserts
// write through and refresh the cached entry so a projector update is visible
// on the next read.
type CustomerCache struct {
	inner  usecase.CustomerRepository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCustomerCache creates a new CustomerCache.
func NewCustomerCache(inner usecase.CustomerRepository, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CustomerCache {
	return &CustomerCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetByID retrieves a customer, preferring the cached copy.
func (c *CustomerCache) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	key := c.key(id)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var customer domain.Customer
		if err := json.Unmarshal(cached, &customer); err == nil {
			return &customer, nil
		}

		// corrupt entry, fall through to the store
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn().Err(err).Int64("customer_id", id).Msg("customer cache read failed")
	}

	customer, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, customer)

	return customer, nil
}

// Upsert writes through to the store and refreshes the cache.
func (c *CustomerCache) Upsert(ctx context.Context, customer *domain.Customer) error {
	if err := c.inner.Upsert(ctx, customer); err != nil {
		return err
	}

	c.store(ctx, customer)

	return nil
}

func (c *CustomerCache) store(ctx context.Context, customer *domain.Customer) {
	payload, err := json.Marshal(customer)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.key(customer.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("customer_id", customer.ID).Msg("customer cache write failed")
	}
}

func (c *CustomerCache) key(id int64) string {
	return fmt.Sprintf("customer:%d", id)
}
