package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/domain/repository"
)

// PaymentGateway charges a payment method. Network failures and declines
// surface as errors or an unsuccessful result; the bounded retry policy is
// owned by the gateway client, not this engine.
type PaymentGateway interface {
	Charge(ctx context.Context, amount model.Money, method string) (*model.ChargeResult, error)
}

// PaymentPatch is the administrative correction for a payment attempt,
// reflecting an out-of-band settlement.
type PaymentPatch struct {
	OrderID   string
	PaymentID string
	Result    model.PaymentResult
	Reference string
}

// PaymentUseCase records payment attempts idempotently and reconciles order
// status against payment outcomes.
type PaymentUseCase struct {
	writer  *OrderWriter
	orders  repository.OrderRepository
	outbox  repository.OutboxRepository
	gateway PaymentGateway
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(writer *OrderWriter, orders repository.OrderRepository, outbox repository.OutboxRepository, gateway PaymentGateway) *PaymentUseCase {
	return &PaymentUseCase{writer: writer, orders: orders, outbox: outbox, gateway: gateway}
}

// PayOrder is the customer payment entry point: it charges the outstanding
// remainder of the caller's own order.
func (u *PaymentUseCase) PayOrder(ctx context.Context, scope model.ActorScope, orderID, method, idempotencyKey string) (*model.Order, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !scope.Owns(order) {
		return nil, domainErrors.ErrForbidden
	}
	remaining := order.Total() - order.SucceededAmount() - order.PendingAmount()
	if remaining <= 0 {
		return nil, domainErrors.ErrInvalidState
	}
	return u.RecordPayment(ctx, scope, orderID, remaining, method, idempotencyKey)
}

// RecordPayment appends a payment attempt under the idempotency key, invokes
// the gateway outside of any critical section, folds the result back via the
// optimistic write path and reconciles the order status.
func (u *PaymentUseCase) RecordPayment(ctx context.Context, scope model.ActorScope, orderID string, amount model.Money, method, idempotencyKey string) (*model.Order, error) {
	if amount <= 0 || idempotencyKey == "" {
		return nil, domainErrors.ErrInvalidState
	}

	attemptID := uuid.NewString()
	_, err := u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		if !scope.Owns(o) {
			return nil, domainErrors.ErrForbidden
		}
		if o.HasPaymentKey(idempotencyKey) {
			return nil, domainErrors.ErrDuplicatePayment
		}
		if o.Status.Terminal() || o.CancelledAt != nil {
			return nil, domainErrors.ErrInvalidState
		}
		// Coverage is re-checked under the version lock, with pending
		// attempts counted: a charge racing another in-flight charge must
		// not see the full remainder outstanding.
		if o.Total() > 0 && o.SucceededAmount()+o.PendingAmount() >= o.Total() {
			return nil, domainErrors.ErrInvalidState
		}
		o.Payments = append(o.Payments, model.PaymentAttempt{
			ID:             attemptID,
			Amount:         amount,
			Method:         method,
			Result:         model.PaymentResultPending,
			IdempotencyKey: idempotencyKey,
			CreatedAt:      time.Now().UTC(),
		})
		o.Status = deriveStatus(o)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	// Long-latency call happens with no lock held; the outcome is folded
	// back through the same conditional write cycle.
	result, chargeErr := u.gateway.Charge(ctx, amount, method)

	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		attempt := o.PaymentByID(attemptID)
		if attempt == nil {
			return nil, domainErrors.ErrNotFound
		}
		if attempt.Result.Finalized() {
			return nil, nil
		}
		if chargeErr != nil || result == nil || !result.Succeeded {
			attempt.Result = model.PaymentResultFailed
		} else {
			attempt.Result = model.PaymentResultSucceeded
			attempt.Reference = result.Reference
		}
		return reconcile(o), nil
	})
}

// UpdatePayment is the administrative correction path: it finalizes or
// corrects a non-succeeded attempt and re-runs reconciliation in the same
// atomic write, so status is never stale relative to payment facts.
func (u *PaymentUseCase) UpdatePayment(ctx context.Context, scope model.ActorScope, patch PaymentPatch) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	if !patch.Result.Finalized() {
		return nil, domainErrors.ErrInvalidState
	}
	return u.writer.Update(ctx, patch.OrderID, func(o *model.Order) ([]model.Event, error) {
		attempt := o.PaymentByID(patch.PaymentID)
		if attempt == nil {
			return nil, domainErrors.ErrNotFound
		}
		if attempt.Result == model.PaymentResultSucceeded && patch.Result != model.PaymentResultSucceeded {
			return nil, domainErrors.ErrInvalidState
		}
		from := attempt.Result
		attempt.Result = patch.Result
		if patch.Reference != "" {
			attempt.Reference = patch.Reference
		}
		// The correction itself is audited, not just its status effect.
		events := []model.Event{newEvent(o, model.EventPaymentCorrected, map[string]any{
			"payment_id": attempt.ID,
			"from":       string(from),
			"to":         string(patch.Result),
		})}
		return append(events, reconcile(o)...), nil
	})
}

// InfoPayment returns a payment snapshot and optionally enqueues a customer
// notification. It never mutates payment records.
func (u *PaymentUseCase) InfoPayment(ctx context.Context, scope model.ActorScope, orderID string, notify bool) (*model.Order, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !scope.Owns(order) {
		return nil, domainErrors.ErrForbidden
	}
	if notify && order.CustomerID != nil {
		event := newEvent(order, model.EventPaymentInfo, map[string]any{
			"status": string(order.Status),
			"paid":   int64(order.SucceededAmount()),
			"total":  int64(order.Total()),
		})
		if err := u.outbox.Append(ctx, event); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// reconcile recomputes the derived status after a payment fact changed and
// emits the matching event when the status crossed a payment boundary.
func reconcile(o *model.Order) []model.Event {
	prev := o.Status
	o.Status = deriveStatus(o)
	if o.Status == prev {
		return nil
	}
	switch {
	case prev == model.OrderStatusPaymentPending && o.Status == model.OrderStatusPaid:
		return []model.Event{newEvent(o, model.EventOrderPaid, nil)}
	case o.Status == model.OrderStatusPaymentFailed:
		return []model.Event{newEvent(o, model.EventOrderPaymentFailed, nil)}
	}
	return nil
}
