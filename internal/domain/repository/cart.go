package repository

import (
	"context"

	"github.com/merchkit/orderflow/internal/domain/model"
)

// CartRepository persists carts derived from historical orders.
type CartRepository interface {
	Save(ctx context.Context, cart *model.Cart) error
}
