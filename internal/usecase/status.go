package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
)

// newEvent stamps the customer into the payload so the dispatcher can route
// notifications without reloading the order. Guest orders carry no customer.
func newEvent(o *model.Order, kind model.EventKind, payload map[string]any) model.Event {
	if payload == nil {
		payload = map[string]any{}
	}
	if o.CustomerID != nil {
		payload["customer_id"] = *o.CustomerID
	}
	return model.Event{
		ID:        uuid.NewString(),
		OrderID:   o.ID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// transitions is the closed lifecycle graph. CANCELLED is reachable from
// PAID and PACKAGED for administrative cancellation only; customers never
// drive any edge other than the cancel request.
var transitions = map[model.OrderStatus]map[model.OrderStatus]bool{
	model.OrderStatusPlaced: {
		model.OrderStatusPaymentPending:  true,
		model.OrderStatusCancelRequested: true,
		model.OrderStatusCancelled:       true,
	},
	model.OrderStatusPaymentPending: {
		model.OrderStatusPaid:            true,
		model.OrderStatusPaymentFailed:   true,
		model.OrderStatusCancelRequested: true,
		model.OrderStatusCancelled:       true,
	},
	model.OrderStatusPaymentFailed: {
		model.OrderStatusPaymentPending:  true,
		model.OrderStatusCancelRequested: true,
		model.OrderStatusCancelled:       true,
	},
	model.OrderStatusPaid: {
		model.OrderStatusPackaged:        true,
		model.OrderStatusCancelRequested: true,
		model.OrderStatusCancelled:       true,
	},
	model.OrderStatusPackaged: {
		model.OrderStatusShipped:         true,
		model.OrderStatusCancelRequested: true,
		model.OrderStatusCancelled:       true,
	},
	model.OrderStatusShipped: {
		model.OrderStatusDelivered: true,
	},
	model.OrderStatusDelivered: {
		model.OrderStatusCompleted: true,
		model.OrderStatusReturned:  true,
	},
	model.OrderStatusCompleted: {
		model.OrderStatusReturned: true,
	},
	model.OrderStatusCancelRequested: {
		model.OrderStatusCancelled: true,
	},
}

func legalTransition(from, to model.OrderStatus) bool {
	return transitions[from][to]
}

// deriveStatus computes the lifecycle status purely from the order's
// sub-records. Every mutator stores the derived value, so a persisted order
// can never contradict its payment, package, cancellation or return facts.
func deriveStatus(o *model.Order) model.OrderStatus {
	switch {
	case o.CancelledAt != nil:
		return model.OrderStatusCancelled
	case o.FullyReturned():
		return model.OrderStatusReturned
	case o.CancelRequest != nil:
		return model.OrderStatusCancelRequested
	}

	if o.Total() > 0 && o.SucceededAmount() >= o.Total() {
		switch {
		case o.FullyAllocated() && o.AllPackagesDelivered():
			if o.CompletedAt != nil {
				return model.OrderStatusCompleted
			}
			return model.OrderStatusDelivered
		case o.FullyAllocated() && o.AllPackagesShipped():
			return model.OrderStatusShipped
		case o.FullyAllocated():
			return model.OrderStatusPackaged
		default:
			return model.OrderStatusPaid
		}
	}

	if len(o.Payments) == 0 {
		return model.OrderStatusPlaced
	}
	for _, p := range o.Payments {
		if p.Result == model.PaymentResultPending {
			return model.OrderStatusPaymentPending
		}
	}
	return model.OrderStatusPaymentFailed
}

// markCancelled records the cancellation and the single reservation release.
func markCancelled(o *model.Order, scope model.ActorScope) []model.Event {
	now := time.Now().UTC()
	o.CancelledAt = &now
	o.CancelRequest = nil
	return []model.Event{
		newEvent(o, model.EventOrderCancelled, map[string]any{"actor_admin": scope.Admin}),
		newEvent(o, model.EventReservationRelease, map[string]any{"order_id": o.ID}),
	}
}

// StatusUseCase is the order status machine.
type StatusUseCase struct {
	writer *OrderWriter
}

// NewStatusUseCase constructs StatusUseCase.
func NewStatusUseCase(writer *OrderWriter) *StatusUseCase {
	return &StatusUseCase{writer: writer}
}

// UpdateStatus applies a lifecycle transition. The edge must exist in the
// transition graph and the actor must be entitled to it: customers may only
// request cancellation of their own order, every other edge is
// administrative. Fact-bearing targets (shipped, delivered, completed,
// cancellation) adjust the underlying sub-records; targets whose facts
// cannot be forced this way (e.g. PAID without covering payments) are
// rejected with ErrIllegalTransition.
func (u *StatusUseCase) UpdateStatus(ctx context.Context, scope model.ActorScope, orderID string, target model.OrderStatus, override bool) (*model.Order, error) {
	if override {
		return u.overrideStatus(ctx, scope, orderID, target)
	}

	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		from := o.Status
		if !legalTransition(from, target) {
			return nil, domainErrors.ErrIllegalTransition
		}
		if !scope.Admin {
			if target != model.OrderStatusCancelRequested || !scope.Owns(o) {
				return nil, domainErrors.ErrForbidden
			}
		}

		var events []model.Event
		now := time.Now().UTC()

		switch target {
		case model.OrderStatusCancelRequested:
			if o.CancelRequest == nil {
				o.CancelRequest = &model.CancelRequest{
					RequestedBy: scope.CustomerID,
					PriorStatus: from,
					RequestedAt: now,
				}
				events = append(events, newEvent(o, model.EventOrderCancelReq, nil))
			}
		case model.OrderStatusCancelled:
			if o.CancelledAt == nil {
				events = append(events, markCancelled(o, scope)...)
			}
		case model.OrderStatusShipped:
			for i := range o.Packages {
				if o.Packages[i].Status == model.PackageStatusPending {
					o.Packages[i].Status = model.PackageStatusShipped
				}
			}
			events = append(events, newEvent(o, model.EventOrderShipped, nil))
		case model.OrderStatusDelivered:
			for i := range o.Packages {
				o.Packages[i].Status = model.PackageStatusDelivered
			}
			events = append(events, newEvent(o, model.EventOrderDelivered, nil))
		case model.OrderStatusCompleted:
			o.CompletedAt = &now
		}

		o.Status = deriveStatus(o)
		if o.Status != target {
			return nil, domainErrors.ErrIllegalTransition
		}
		return events, nil
	})
}

// overrideStatus is the administrative correction path: the target is stored
// as given, skipping edge validation, and the override is audited as an
// event. A cancellation override still releases the reservation exactly once.
func (u *StatusUseCase) overrideStatus(ctx context.Context, scope model.ActorScope, orderID string, target model.OrderStatus) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		from := o.Status
		events := []model.Event{newEvent(o, model.EventStatusOverridden, map[string]any{
			"from": string(from),
			"to":   string(target),
		})}
		if target == model.OrderStatusCancelled && o.CancelledAt == nil {
			events = append(events, markCancelled(o, scope)...)
		}
		o.Status = target
		return events, nil
	})
}
