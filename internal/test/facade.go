package test

import (
	"context"

	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/usecase"
)

// TokenParserStub resolves every token to a fixed scope or error.
type TokenParserStub struct {
	Scope model.ActorScope
	Err   error
}

// ParseToken returns the configured scope or error.
func (s TokenParserStub) ParseToken(string) (model.ActorScope, error) {
	if s.Err != nil {
		return model.ActorScope{}, s.Err
	}
	return s.Scope, nil
}

// AuthFacadeStub implements the auth handler facade via overrides.
type AuthFacadeStub struct {
	RegisterFn     func(ctx context.Context, login, password string) (string, error)
	AuthenticateFn func(ctx context.Context, login, password string) (string, error)
	ParseTokenFn   func(token string) (model.ActorScope, error)
}

func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) ParseToken(token string) (model.ActorScope, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return model.AdminScope, nil
}

// OrderFacadeStub implements the full handler facade via overrides; every
// unset function returns an empty successful result.
type OrderFacadeStub struct {
	AuthFacadeStub

	ListOrdersFn          func(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) ([]model.Order, error)
	GetOrderFn            func(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) (*model.Order, error)
	GetOrderByIDFn        func(ctx context.Context, scope model.ActorScope, id string) (*model.Order, error)
	SetOrderFn            func(ctx context.Context, scope model.ActorScope, order *model.Order) (*model.Order, error)
	UpdateStatusFn        func(ctx context.Context, scope model.ActorScope, orderID string, target model.OrderStatus, override bool) (*model.Order, error)
	PayOrderFn            func(ctx context.Context, scope model.ActorScope, orderID, method, idempotencyKey string) (*model.Order, error)
	UpdatePaymentFn       func(ctx context.Context, scope model.ActorScope, patch usecase.PaymentPatch) (*model.Order, error)
	InfoPaymentFn         func(ctx context.Context, scope model.ActorScope, orderID string, notify bool) (*model.Order, error)
	CancelOrderFn         func(ctx context.Context, scope model.ActorScope, orderID string) (*model.Order, *model.CancelRefusal, error)
	CancelOrderRequestFn  func(ctx context.Context, scope model.ActorScope, orderID string) (bool, *model.Order, error)
	ArbitrateCancelFn     func(ctx context.Context, scope model.ActorScope, orderID string, approve bool) (*model.Order, error)
	AddPackageFn          func(ctx context.Context, scope model.ActorScope, orderID string, allocation map[string]int) (*model.Order, error)
	DelPackageFn          func(ctx context.Context, scope model.ActorScope, orderID, packageID string) (*model.Order, error)
	UpdatePackageStatusFn func(ctx context.Context, scope model.ActorScope, orderID, packageID string, target model.PackageStatus) (*model.Order, error)
	RequestReturnFn       func(ctx context.Context, scope model.ActorScope, orderID string, spec usecase.ReturnSpec, locale string) (*model.Order, error)
	AdvanceReturnFn       func(ctx context.Context, scope model.ActorScope, orderID, returnID string, target model.ReturnStatus) (*model.Order, error)
	DuplicateFn           func(ctx context.Context, scope model.ActorScope, orderID string) (*model.CartDuplication, error)
}

func (s OrderFacadeStub) ListOrders(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) ([]model.Order, error) {
	if s.ListOrdersFn != nil {
		return s.ListOrdersFn(ctx, scope, filter)
	}
	return nil, nil
}

func (s OrderFacadeStub) GetOrder(ctx context.Context, scope model.ActorScope, filter model.OrderFilter) (*model.Order, error) {
	if s.GetOrderFn != nil {
		return s.GetOrderFn(ctx, scope, filter)
	}
	return &model.Order{}, nil
}

func (s OrderFacadeStub) GetOrderByID(ctx context.Context, scope model.ActorScope, id string) (*model.Order, error) {
	if s.GetOrderByIDFn != nil {
		return s.GetOrderByIDFn(ctx, scope, id)
	}
	return &model.Order{ID: id}, nil
}

func (s OrderFacadeStub) SetOrder(ctx context.Context, scope model.ActorScope, order *model.Order) (*model.Order, error) {
	if s.SetOrderFn != nil {
		return s.SetOrderFn(ctx, scope, order)
	}
	return order, nil
}

func (s OrderFacadeStub) UpdateStatus(ctx context.Context, scope model.ActorScope, orderID string, target model.OrderStatus, override bool) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, scope, orderID, target, override)
	}
	return &model.Order{ID: orderID, Status: target}, nil
}

func (s OrderFacadeStub) PayOrder(ctx context.Context, scope model.ActorScope, orderID, method, idempotencyKey string) (*model.Order, error) {
	if s.PayOrderFn != nil {
		return s.PayOrderFn(ctx, scope, orderID, method, idempotencyKey)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPaid}, nil
}

func (s OrderFacadeStub) UpdatePayment(ctx context.Context, scope model.ActorScope, patch usecase.PaymentPatch) (*model.Order, error) {
	if s.UpdatePaymentFn != nil {
		return s.UpdatePaymentFn(ctx, scope, patch)
	}
	return &model.Order{ID: patch.OrderID}, nil
}

func (s OrderFacadeStub) InfoPayment(ctx context.Context, scope model.ActorScope, orderID string, notify bool) (*model.Order, error) {
	if s.InfoPaymentFn != nil {
		return s.InfoPaymentFn(ctx, scope, orderID, notify)
	}
	return &model.Order{ID: orderID}, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, scope model.ActorScope, orderID string) (*model.Order, *model.CancelRefusal, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, scope, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil, nil
}

func (s OrderFacadeStub) CancelOrderRequest(ctx context.Context, scope model.ActorScope, orderID string) (bool, *model.Order, error) {
	if s.CancelOrderRequestFn != nil {
		return s.CancelOrderRequestFn(ctx, scope, orderID)
	}
	return true, &model.Order{ID: orderID, Status: model.OrderStatusCancelRequested}, nil
}

func (s OrderFacadeStub) ArbitrateCancel(ctx context.Context, scope model.ActorScope, orderID string, approve bool) (*model.Order, error) {
	if s.ArbitrateCancelFn != nil {
		return s.ArbitrateCancelFn(ctx, scope, orderID, approve)
	}
	return &model.Order{ID: orderID}, nil
}

func (s OrderFacadeStub) AddPackage(ctx context.Context, scope model.ActorScope, orderID string, allocation map[string]int) (*model.Order, error) {
	if s.AddPackageFn != nil {
		return s.AddPackageFn(ctx, scope, orderID, allocation)
	}
	return &model.Order{ID: orderID}, nil
}

func (s OrderFacadeStub) DelPackage(ctx context.Context, scope model.ActorScope, orderID, packageID string) (*model.Order, error) {
	if s.DelPackageFn != nil {
		return s.DelPackageFn(ctx, scope, orderID, packageID)
	}
	return &model.Order{ID: orderID}, nil
}

func (s OrderFacadeStub) UpdatePackageStatus(ctx context.Context, scope model.ActorScope, orderID, packageID string, target model.PackageStatus) (*model.Order, error) {
	if s.UpdatePackageStatusFn != nil {
		return s.UpdatePackageStatusFn(ctx, scope, orderID, packageID, target)
	}
	return &model.Order{ID: orderID}, nil
}

func (s OrderFacadeStub) RequestReturn(ctx context.Context, scope model.ActorScope, orderID string, spec usecase.ReturnSpec, locale string) (*model.Order, error) {
	if s.RequestReturnFn != nil {
		return s.RequestReturnFn(ctx, scope, orderID, spec, locale)
	}
	return &model.Order{ID: orderID}, nil
}

func (s OrderFacadeStub) AdvanceReturn(ctx context.Context, scope model.ActorScope, orderID, returnID string, target model.ReturnStatus) (*model.Order, error) {
	if s.AdvanceReturnFn != nil {
		return s.AdvanceReturnFn(ctx, scope, orderID, returnID, target)
	}
	return &model.Order{ID: orderID}, nil
}

func (s OrderFacadeStub) DuplicateItemsFromOrderToCart(ctx context.Context, scope model.ActorScope, orderID string) (*model.CartDuplication, error) {
	if s.DuplicateFn != nil {
		return s.DuplicateFn(ctx, scope, orderID)
	}
	return &model.CartDuplication{Cart: &model.Cart{ID: "cart-stub"}}, nil
}
