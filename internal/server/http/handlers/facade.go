package handlers

import (
	"context"

	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (model.ActorScope, error)
}

// QueryFacade exposes order reads and the administrative full replace.
type QueryFacade interface {
	ListOrders(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) ([]model.Order, error)
	GetOrder(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) (*model.Order, error)
	GetOrderByID(ctx context.Context, scope model.ActorScope, id string) (*model.Order, error)
	SetOrder(ctx context.Context, scope model.ActorScope, order *model.Order) (*model.Order, error)
}

// StatusFacade drives lifecycle transitions.
type StatusFacade interface {
	UpdateStatus(ctx context.Context, scope model.ActorScope, orderID string, target model.OrderStatus, override bool) (*model.Order, error)
}

// PaymentFacade exposes payment operations.
type PaymentFacade interface {
	PayOrder(ctx context.Context, scope model.ActorScope, orderID, method, idempotencyKey string) (*model.Order, error)
	UpdatePayment(ctx context.Context, scope model.ActorScope, patch usecase.PaymentPatch) (*model.Order, error)
	InfoPayment(ctx context.Context, scope model.ActorScope, orderID string, notify bool) (*model.Order, error)
}

// CancelFacade exposes the cancellation workflow.
type CancelFacade interface {
	CancelOrder(ctx context.Context, scope model.ActorScope, orderID string) (*model.Order, *model.CancelRefusal, error)
	CancelOrderRequest(ctx context.Context, scope model.ActorScope, orderID string) (bool, *model.Order, error)
	ArbitrateCancel(ctx context.Context, scope model.ActorScope, orderID string, approve bool) (*model.Order, error)
}

// FulfillmentFacade exposes packages and returns.
type FulfillmentFacade interface {
	AddPackage(ctx context.Context, scope model.ActorScope, orderID string, allocation map[string]int) (*model.Order, error)
	DelPackage(ctx context.Context, scope model.ActorScope, orderID, packageID string) (*model.Order, error)
	UpdatePackageStatus(ctx context.Context, scope model.ActorScope, orderID, packageID string, target model.PackageStatus) (*model.Order, error)
	RequestReturn(ctx context.Context, scope model.ActorScope, orderID string, spec usecase.ReturnSpec, locale string) (*model.Order, error)
	AdvanceReturn(ctx context.Context, scope model.ActorScope, orderID, returnID string, target model.ReturnStatus) (*model.Order, error)
}

// CartFacade exposes cart duplication.
type CartFacade interface {
	DuplicateItemsFromOrderToCart(ctx context.Context, scope model.ActorScope, orderID string) (*model.CartDuplication, error)
}

// OrderFacade aggregates the full set of operations used across handlers.
type OrderFacade interface {
	AuthFacade
	QueryFacade
	StatusFacade
	PaymentFacade
	CancelFacade
	FulfillmentFacade
	CartFacade
}
