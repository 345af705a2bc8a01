package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/merchkit/orderflow/internal/domain/model"
)

const keyPrefix = "orderflow:order:"

// OrderCache is a short-lived Redis read cache for orders. Every failure is
// logged and swallowed; callers always fall through to storage on a miss.
type OrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis at addr.
func New(addr string, ttl time.Duration, logger *slog.Logger) *OrderCache {
	return &OrderCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger,
	}
}

func key(id string) string {
	return fmt.Sprintf("%s%s", keyPrefix, id)
}

// Get returns a cached order, or (nil, false) on miss or any failure.
func (c *OrderCache) Get(ctx context.Context, id string) (*model.Order, bool) {
	raw, err := c.client.Get(ctx, key(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("order cache get failed", slog.String("order_id", id), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var order model.Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		c.logger.Warn("order cache entry corrupt", slog.String("order_id", id), slog.String("error", err.Error()))
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &order, true
}

// Set stores the order for the configured TTL.
func (c *OrderCache) Set(ctx context.Context, order *model.Order) {
	raw, err := json.Marshal(order)
	if err != nil {
		c.logger.Warn("order cache marshal failed", slog.String("order_id", order.ID), slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, key(order.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("order cache set failed", slog.String("order_id", order.ID), slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached entry after a write.
func (c *OrderCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		c.logger.Warn("order cache invalidate failed", slog.String("order_id", id), slog.String("error", err.Error()))
	}
}

// Close releases the Redis connection.
func (c *OrderCache) Close() error {
	return c.client.Close()
}

// NoopCache is used when no Redis address is configured.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, id string) (*model.Order, bool) { return nil, false }
func (NoopCache) Set(ctx context.Context, order *model.Order)             {}
func (NoopCache) Invalidate(ctx context.Context, id string)               {}
