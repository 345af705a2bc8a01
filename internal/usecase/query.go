package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/domain/repository"
)

// QueryUseCase is the read side plus the administrative full replace.
type QueryUseCase struct {
	orders repository.OrderRepository
	cache  OrderCache
}

// NewQueryUseCase constructs QueryUseCase.
func NewQueryUseCase(orders repository.OrderRepository, cache OrderCache) *QueryUseCase {
	return &QueryUseCase{orders: orders, cache: cache}
}

// scopeFilter narrows a filter so a non-administrative caller only ever sees
// their own orders, with failed-payment orders hidden from them.
func scopeFilter(scope model.ActorScope, filter model.OrderFilter) model.OrderFilter {
	if scope.Admin {
		return filter
	}
	id := scope.CustomerID
	filter.CustomerID = &id
	filter.ExcludeStatuses = append(filter.ExcludeStatuses, model.OrderStatusPaymentFailed)
	return filter
}

// ListOrders returns orders matching the typed filter within the caller's
// visibility.
func (u *QueryUseCase) ListOrders(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) ([]model.Order, error) {
	return u.orders.Find(ctx, scopeFilter(scope, filter))
}

// GetOrder returns the first order matching the filter or ErrNotFound.
func (u *QueryUseCase) GetOrder(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) (*model.Order, error) {
	filter.Limit = 1
	orders, err := u.orders.Find(ctx, scopeFilter(scope, filter))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return &orders[0], nil
}

// GetOrderByID fetches a single order, checking ownership.
func (u *QueryUseCase) GetOrderByID(ctx context.Context, scope model.ActorScope, id string) (*model.Order, error) {
	if order, ok := u.cache.Get(ctx, id); ok {
		if !scope.Owns(order) {
			return nil, domainErrors.ErrForbidden
		}
		return order, nil
	}

	order, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Owns(order) {
		return nil, domainErrors.ErrForbidden
	}
	u.cache.Set(ctx, order)
	return order, nil
}

// SetOrder is the administrative full replace. The stored aggregate must
// still satisfy the invariants: package allocations within ordered
// quantities, finalized payments preserved, and a status consistent with the
// sub-records.
func (u *QueryUseCase) SetOrder(ctx context.Context, scope model.ActorScope, order *model.Order) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	if order.ID == "" || len(order.Items) == 0 {
		return nil, domainErrors.ErrInvalidState
	}

	for _, item := range order.Items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return nil, domainErrors.ErrInvalidState
		}
		if order.AllocatedQuantity(item.ProductID) > item.Quantity {
			return nil, domainErrors.ErrOverAllocation
		}
	}

	existing, err := u.orders.Get(ctx, order.ID)
	if err == nil {
		// Finalized payment attempts are append-only history.
		for _, prev := range existing.Payments {
			if !prev.Result.Finalized() {
				continue
			}
			cur := order.PaymentByID(prev.ID)
			if cur == nil || cur.Result != prev.Result || cur.Amount != prev.Amount {
				return nil, domainErrors.ErrInvalidState
			}
		}
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	order.Status = deriveStatus(order)
	saved, err := u.orders.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	u.cache.Invalidate(ctx, order.ID)
	return saved, nil
}
