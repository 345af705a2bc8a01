package app

import (
	"context"

	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/usecase"
)

// OrderFacade aggregates the engine's use cases behind one surface for the
// HTTP handlers.
type OrderFacade struct {
	auth        *usecase.AuthUseCase
	query       *usecase.QueryUseCase
	status      *usecase.StatusUseCase
	payment     *usecase.PaymentUseCase
	cancel      *usecase.CancelUseCase
	fulfillment *usecase.FulfillmentUseCase
	cart        *usecase.CartUseCase
}

func NewOrderFacade(
	auth *usecase.AuthUseCase,
	query *usecase.QueryUseCase,
	status *usecase.StatusUseCase,
	payment *usecase.PaymentUseCase,
	cancel *usecase.CancelUseCase,
	fulfillment *usecase.FulfillmentUseCase,
	cart *usecase.CartUseCase,
) *OrderFacade {
	return &OrderFacade{
		auth:        auth,
		query:       query,
		status:      status,
		payment:     payment,
		cancel:      cancel,
		fulfillment: fulfillment,
		cart:        cart,
	}
}

func (f *OrderFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *OrderFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *OrderFacade) ParseToken(token string) (model.ActorScope, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderFacade) ListOrders(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) ([]model.Order, error) {
	return f.query.ListOrders(ctx, scope, filter)
}

func (f *OrderFacade) GetOrder(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) (*model.Order, error) {
	return f.query.GetOrder(ctx, scope, filter)
}

func (f *OrderFacade) GetOrderByID(ctx context.Context, scope model.ActorScope, id string) (*model.Order, error) {
	return f.query.GetOrderByID(ctx, scope, id)
}

func (f *OrderFacade) SetOrder(ctx context.Context, scope model.ActorScope, order *model.Order) (*model.Order, error) {
	return f.query.SetOrder(ctx, scope, order)
}

func (f *OrderFacade) UpdateStatus(ctx context.Context, scope model.ActorScope, orderID string, target model.OrderStatus, override bool) (*model.Order, error) {
	return f.status.UpdateStatus(ctx, scope, orderID, target, override)
}

func (f *OrderFacade) PayOrder(ctx context.Context, scope model.ActorScope, orderID, method, idempotencyKey string) (*model.Order, error) {
	return f.payment.PayOrder(ctx, scope, orderID, method, idempotencyKey)
}

func (f *OrderFacade) RecordPayment(ctx context.Context, scope model.ActorScope, orderID string, amount model.Money, method, idempotencyKey string) (*model.Order, error) {
	return f.payment.RecordPayment(ctx, scope, orderID, amount, method, idempotencyKey)
}

func (f *OrderFacade) UpdatePayment(ctx context.Context, scope model.ActorScope, patch usecase.PaymentPatch) (*model.Order, error) {
	return f.payment.UpdatePayment(ctx, scope, patch)
}

func (f *OrderFacade) InfoPayment(ctx context.Context, scope model.ActorScope, orderID string, notify bool) (*model.Order, error) {
	return f.payment.InfoPayment(ctx, scope, orderID, notify)
}

func (f *OrderFacade) CancelOrder(ctx context.Context, scope model.ActorScope, orderID string) (*model.Order, *model.CancelRefusal, error) {
	return f.cancel.CancelOrder(ctx, scope, orderID)
}

func (f *OrderFacade) CancelOrderRequest(ctx context.Context, scope model.ActorScope, orderID string) (bool, *model.Order, error) {
	return f.cancel.CancelOrderRequest(ctx, scope, orderID)
}

func (f *OrderFacade) ArbitrateCancel(ctx context.Context, scope model.ActorScope, orderID string, approve bool) (*model.Order, error) {
	return f.cancel.ArbitrateCancel(ctx, scope, orderID, approve)
}

func (f *OrderFacade) AddPackage(ctx context.Context, scope model.ActorScope, orderID string, allocation map[string]int) (*model.Order, error) {
	return f.fulfillment.AddPackage(ctx, scope, orderID, allocation)
}

func (f *OrderFacade) DelPackage(ctx context.Context, scope model.ActorScope, orderID, packageID string) (*model.Order, error) {
	return f.fulfillment.DelPackage(ctx, scope, orderID, packageID)
}

func (f *OrderFacade) UpdatePackageStatus(ctx context.Context, scope model.ActorScope, orderID, packageID string, target model.PackageStatus) (*model.Order, error) {
	return f.fulfillment.UpdatePackageStatus(ctx, scope, orderID, packageID, target)
}

func (f *OrderFacade) RequestReturn(ctx context.Context, scope model.ActorScope, orderID string, spec usecase.ReturnSpec, locale string) (*model.Order, error) {
	return f.fulfillment.RequestReturn(ctx, scope, orderID, spec, locale)
}

func (f *OrderFacade) AdvanceReturn(ctx context.Context, scope model.ActorScope, orderID, returnID string, target model.ReturnStatus) (*model.Order, error) {
	return f.fulfillment.AdvanceReturn(ctx, scope, orderID, returnID, target)
}

func (f *OrderFacade) DuplicateItemsFromOrderToCart(ctx context.Context, scope model.ActorScope, orderID string) (*model.CartDuplication, error) {
	return f.cart.DuplicateItemsFromOrderToCart(ctx, scope, orderID)
}
