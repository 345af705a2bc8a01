package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/domain/repository"
)

// Catalog resolves current product price and purchasability.
type Catalog interface {
	Product(ctx context.Context, productID string) (*model.ProductInfo, error)
}

// CartUseCase derives new carts from historical orders.
type CartUseCase struct {
	orders  repository.OrderRepository
	carts   repository.CartRepository
	catalog Catalog
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(orders repository.OrderRepository, carts repository.CartRepository, catalog Catalog) *CartUseCase {
	return &CartUseCase{orders: orders, carts: carts, catalog: catalog}
}

// DuplicateItemsFromOrderToCart builds a new cart from the order's line
// items at current catalog prices. Items no longer purchasable are skipped
// and reported; the operation still succeeds for the remaining valid items.
func (u *CartUseCase) DuplicateItemsFromOrderToCart(ctx context.Context, scope model.ActorScope, orderID string) (*model.CartDuplication, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !scope.Owns(order) {
		return nil, domainErrors.ErrForbidden
	}

	cart := &model.Cart{
		ID:         uuid.NewString(),
		CustomerID: order.CustomerID,
		CreatedAt:  time.Now().UTC(),
	}
	var skipped []string
	for _, item := range order.Items {
		info, err := u.catalog.Product(ctx, item.ProductID)
		if err != nil || info == nil || !info.Purchasable {
			skipped = append(skipped, item.ProductID)
			continue
		}
		cart.Items = append(cart.Items, model.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: info.Price,
		})
	}

	if err := u.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return &model.CartDuplication{Cart: cart, Skipped: skipped}, nil
}
