package repository

import (
	"context"

	"github.com/merchkit/orderflow/internal/domain/model"
)

// Mutator transforms the authoritative order row inside a conditional update
// and returns the domain events to record atomically with the change.
type Mutator func(*model.Order) ([]model.Event, error)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Get(ctx context.Context, id string) (*model.Order, error)
	Find(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	// Save performs an administrative full replace (or insert) and bumps the
	// version unconditionally.
	Save(ctx context.Context, order *model.Order) (*model.Order, error)
	// ConditionalUpdate applies the mutator atomically, keyed on the version
	// the caller observed. A stale version yields ErrConflict and no change.
	ConditionalUpdate(ctx context.Context, id string, expectedVersion int64, mut Mutator) (*model.Order, error)
}
