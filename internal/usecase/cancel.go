package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
)

// errCancelRefused aborts the conditional write when policy refuses the
// cancellation; it never leaves this package.
var errCancelRefused = errors.New("cancellation refused by policy")

// CancelUseCase arbitrates order cancellation.
type CancelUseCase struct {
	writer *OrderWriter
}

// NewCancelUseCase constructs CancelUseCase.
func NewCancelUseCase(writer *OrderWriter) *CancelUseCase {
	return &CancelUseCase{writer: writer}
}

func adminCancellable(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCompleted, model.OrderStatusReturned:
		return false
	}
	return true
}

func customerCancellable(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusPlaced, model.OrderStatusPaymentPending, model.OrderStatusPaymentFailed,
		model.OrderStatusPaid, model.OrderStatusPackaged:
		return true
	}
	return false
}

// CancelOrder is the administrative direct cancellation. A shipped or later
// order is not an error: the refusal comes back as a value and the order is
// left untouched. Cancelling an already cancelled order is a no-op, so two
// racing cancellations release the reservation exactly once.
func (u *CancelUseCase) CancelOrder(ctx context.Context, scope model.ActorScope, orderID string) (*model.Order, *model.CancelRefusal, error) {
	if !scope.Admin {
		return nil, nil, domainErrors.ErrForbidden
	}

	var refusal *model.CancelRefusal
	order, err := u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		if o.CancelledAt != nil {
			return nil, nil
		}
		if !adminCancellable(o.Status) {
			refusal = &model.CancelRefusal{
				OrderID: o.ID,
				Status:  o.Status,
				Reason:  "order already shipped or closed",
			}
			return nil, errCancelRefused
		}
		events := markCancelled(o, scope)
		o.Status = deriveStatus(o)
		return events, nil
	})
	if errors.Is(err, errCancelRefused) {
		return nil, refusal, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return order, nil, nil
}

// CancelOrderRequest is the customer-initiated path: it records a pending
// cancellation marker for later arbitration. The bool reports whether a
// request is pending after the call; repeating the request is a no-op and
// a non-cancellable state records nothing.
func (u *CancelUseCase) CancelOrderRequest(ctx context.Context, scope model.ActorScope, orderID string) (bool, *model.Order, error) {
	requested := false
	order, err := u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		if !scope.Owns(o) {
			return nil, domainErrors.ErrForbidden
		}
		if o.CancelRequest != nil {
			requested = true
			return nil, nil
		}
		if !customerCancellable(o.Status) {
			return nil, nil
		}
		o.CancelRequest = &model.CancelRequest{
			RequestedBy: scope.CustomerID,
			PriorStatus: o.Status,
			RequestedAt: time.Now().UTC(),
		}
		o.Status = deriveStatus(o)
		requested = true
		return []model.Event{newEvent(o, model.EventOrderCancelReq, nil)}, nil
	})
	if err != nil {
		return false, nil, err
	}
	return requested, order, nil
}

// ArbitrateCancel resolves a pending cancellation request: approval cancels
// the order and releases the reservation, denial clears the marker and the
// derived status falls back to the underlying state.
func (u *CancelUseCase) ArbitrateCancel(ctx context.Context, scope model.ActorScope, orderID string, approve bool) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		if o.CancelRequest == nil {
			return nil, domainErrors.ErrInvalidState
		}
		var events []model.Event
		if approve {
			events = markCancelled(o, scope)
		} else {
			o.CancelRequest = nil
		}
		o.Status = deriveStatus(o)
		return events, nil
	})
}
