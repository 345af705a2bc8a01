package usecase

import (
	"context"

	"github.com/google/uuid"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
)

// ReturnSpec describes a requested RMA.
type ReturnSpec struct {
	Items  map[string]int
	Reason string
}

// FulfillmentUseCase manages delivery packages and post-delivery returns.
type FulfillmentUseCase struct {
	writer *OrderWriter
}

// NewFulfillmentUseCase constructs FulfillmentUseCase.
func NewFulfillmentUseCase(writer *OrderWriter) *FulfillmentUseCase {
	return &FulfillmentUseCase{writer: writer}
}

// AddPackage creates a pending package. Each allocated quantity must fit in
// the remaining unassigned quantity of its item; on violation nothing
// changes and ErrOverAllocation is returned.
func (u *FulfillmentUseCase) AddPackage(ctx context.Context, scope model.ActorScope, orderID string, allocation map[string]int) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	if len(allocation) == 0 {
		return nil, domainErrors.ErrInvalidState
	}
	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		if o.Status.Terminal() || o.CancelledAt != nil || o.CancelRequest != nil {
			return nil, domainErrors.ErrInvalidState
		}
		for productID, qty := range allocation {
			if qty <= 0 {
				return nil, domainErrors.ErrInvalidState
			}
			ordered := o.OrderedQuantity(productID)
			if ordered == 0 {
				return nil, domainErrors.ErrInvalidState
			}
			if o.AllocatedQuantity(productID)+qty > ordered {
				return nil, domainErrors.ErrOverAllocation
			}
		}
		o.Packages = append(o.Packages, model.Package{
			ID:         uuid.NewString(),
			Allocation: allocation,
			Status:     model.PackageStatusPending,
		})
		o.Status = deriveStatus(o)
		return nil, nil
	})
}

// DelPackage removes a package while it is still pending. Shipped and
// delivered packages are immutable history.
func (u *FulfillmentUseCase) DelPackage(ctx context.Context, scope model.ActorScope, orderID, packageID string) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		pkg := o.PackageByID(packageID)
		if pkg == nil {
			return nil, domainErrors.ErrNotFound
		}
		if pkg.Status != model.PackageStatusPending {
			return nil, domainErrors.ErrInvalidState
		}
		kept := o.Packages[:0]
		for _, p := range o.Packages {
			if p.ID != packageID {
				kept = append(kept, p)
			}
		}
		o.Packages = kept
		o.Status = deriveStatus(o)
		return nil, nil
	})
}

// UpdatePackageStatus advances a package pending→shipped→delivered. Order
// level shipped/delivered events fire when the whole order crosses over.
func (u *FulfillmentUseCase) UpdatePackageStatus(ctx context.Context, scope model.ActorScope, orderID, packageID string, target model.PackageStatus) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		pkg := o.PackageByID(packageID)
		if pkg == nil {
			return nil, domainErrors.ErrNotFound
		}
		legal := (pkg.Status == model.PackageStatusPending && target == model.PackageStatusShipped) ||
			(pkg.Status == model.PackageStatusShipped && target == model.PackageStatusDelivered)
		if !legal {
			return nil, domainErrors.ErrInvalidState
		}
		pkg.Status = target

		prev := o.Status
		o.Status = deriveStatus(o)
		var events []model.Event
		if o.Status != prev {
			switch o.Status {
			case model.OrderStatusShipped:
				events = append(events, newEvent(o, model.EventOrderShipped, nil))
			case model.OrderStatusDelivered:
				events = append(events, newEvent(o, model.EventOrderDelivered, nil))
			}
		}
		return events, nil
	})
}

// RequestReturn records an RMA for delivered items. Requested quantities are
// bounded by delivered-and-not-already-returned quantity per item.
func (u *FulfillmentUseCase) RequestReturn(ctx context.Context, scope model.ActorScope, orderID string, spec ReturnSpec, locale string) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	if len(spec.Items) == 0 {
		return nil, domainErrors.ErrInvalidState
	}
	returnID := uuid.NewString()
	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		if o.Status != model.OrderStatusDelivered && o.Status != model.OrderStatusCompleted {
			return nil, domainErrors.ErrInvalidState
		}
		for productID, qty := range spec.Items {
			if qty <= 0 {
				return nil, domainErrors.ErrInvalidState
			}
			available := o.DeliveredQuantity(productID) - o.ReturnedQuantity(productID)
			if qty > available {
				return nil, domainErrors.ErrOverAllocation
			}
		}
		o.Returns = append(o.Returns, model.Return{
			ID:     returnID,
			Items:  spec.Items,
			Reason: spec.Reason,
			Status: model.ReturnStatusRequested,
		})
		o.Status = deriveStatus(o)
		return []model.Event{newEvent(o, model.EventRMARequested, map[string]any{
			"return_id": returnID,
			"locale":    locale,
		})}, nil
	})
}

// AdvanceReturn drives the RMA micro-state: requested→approved→refunded or
// requested→rejected. Re-applying the current state is a no-op.
func (u *FulfillmentUseCase) AdvanceReturn(ctx context.Context, scope model.ActorScope, orderID, returnID string, target model.ReturnStatus) (*model.Order, error) {
	if !scope.Admin {
		return nil, domainErrors.ErrForbidden
	}
	return u.writer.Update(ctx, orderID, func(o *model.Order) ([]model.Event, error) {
		ret := o.ReturnByID(returnID)
		if ret == nil {
			return nil, domainErrors.ErrNotFound
		}
		if ret.Status == target {
			return nil, nil
		}

		legal := (ret.Status == model.ReturnStatusRequested && target == model.ReturnStatusApproved) ||
			(ret.Status == model.ReturnStatusApproved && target == model.ReturnStatusRefunded) ||
			(ret.Status == model.ReturnStatusRequested && target == model.ReturnStatusRejected)
		if !legal {
			return nil, domainErrors.ErrInvalidState
		}

		ret.Status = target
		var events []model.Event
		switch target {
		case model.ReturnStatusApproved:
			events = append(events, newEvent(o, model.EventRMAApproved, map[string]any{"return_id": returnID}))
		case model.ReturnStatusRefunded:
			ret.RefundID = uuid.NewString()
			events = append(events, newEvent(o, model.EventRMARefunded, map[string]any{
				"return_id": returnID,
				"refund_id": ret.RefundID,
			}))
		case model.ReturnStatusRejected:
			events = append(events, newEvent(o, model.EventRMARejected, map[string]any{"return_id": returnID}))
		}
		o.Status = deriveStatus(o)
		return events, nil
	})
}
