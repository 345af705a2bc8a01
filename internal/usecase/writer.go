package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/domain/repository"
)

// OrderCache is a short-lived read cache for orders. Implementations must
// swallow their own failures; the cache never affects correctness.
type OrderCache interface {
	Get(ctx context.Context, id string) (*model.Order, bool)
	Set(ctx context.Context, order *model.Order)
	Invalidate(ctx context.Context, id string)
}

// OrderWriter applies order mutations through the bounded optimistic retry
// cycle: read the current version, attempt a conditional update keyed on it,
// retry on conflict, surface ErrConflict once retries are exhausted.
type OrderWriter struct {
	orders  repository.OrderRepository
	cache   OrderCache
	retries int
}

// NewOrderWriter constructs the shared writer used by all mutating use cases.
func NewOrderWriter(orders repository.OrderRepository, cache OrderCache, retries int) *OrderWriter {
	if retries <= 0 {
		retries = 3
	}
	return &OrderWriter{orders: orders, cache: cache, retries: retries}
}

// Update runs the read-compute-write cycle. Validation errors from the
// mutator are deterministic and returned without retry; only version
// conflicts are retried. A cancelled context aborts the loop early.
func (w *OrderWriter) Update(ctx context.Context, id string, mut repository.Mutator) (*model.Order, error) {
	for attempt := 0; attempt < w.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, err := w.orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		updated, err := w.orders.ConditionalUpdate(ctx, id, current.Version, mut)
		if err != nil {
			if errors.Is(err, domainErrors.ErrConflict) {
				continue
			}
			return nil, err
		}

		w.cache.Invalidate(ctx, id)
		return updated, nil
	}
	return nil, domainErrors.ErrConflict
}
