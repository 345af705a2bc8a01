package repository

import (
	"context"

	"github.com/merchkit/orderflow/internal/domain/model"
)

// OutboxRepository provides access to the domain event outbox.
type OutboxRepository interface {
	// Append records an event outside of an order mutation (e.g. payment
	// info notifications).
	Append(ctx context.Context, event model.Event) error
	// SelectBatchForDispatch claims pending events for delivery.
	SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Event, error)
	MarkDelivered(ctx context.Context, eventID string) error
	// MarkFailed releases a claimed event for redelivery.
	MarkFailed(ctx context.Context, eventID string) error
}
