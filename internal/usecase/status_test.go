package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/test"
	"github.com/merchkit/orderflow/internal/usecase"
)

func newStatusUseCase(repo *test.OrderRepositoryStub) *usecase.StatusUseCase {
	writer, _ := newTestWriter(repo)
	return usecase.NewStatusUseCase(writer)
}

func TestUpdateStatusRejectsIllegalEdge(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(paidOrder("o1"))
	uc := newStatusUseCase(repo)

	_, err := uc.UpdateStatus(context.Background(), adminScope, "o1", model.OrderStatusDelivered, false)
	if !errors.Is(err, domainErrors.ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
}

func TestUpdateStatusRejectsTargetWithoutFacts(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	uc := newStatusUseCase(repo)

	// The PLACED->PAYMENT_PENDING edge exists, but no payment fact can be
	// forged by a status call alone.
	_, err := uc.UpdateStatus(context.Background(), adminScope, "o1", model.OrderStatusPaymentPending, false)
	if !errors.Is(err, domainErrors.ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}

	stored, _ := repo.Get(context.Background(), "o1")
	if stored.Version != 1 || stored.Status != model.OrderStatusPlaced {
		t.Fatalf("rejected transition must leave the order untouched, got %s v%d", stored.Status, stored.Version)
	}
}

func TestUpdateStatusCustomerEntitlements(t *testing.T) {
	tests := []struct {
		name   string
		scope  model.ActorScope
		target model.OrderStatus
	}{
		{"customer cannot cancel directly", ownerScope, model.OrderStatusCancelled},
		{"foreign customer cannot request cancel", otherScope, model.OrderStatusCancelRequested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := test.NewOrderRepositoryStub()
			repo.Put(placedOrder("o1"))
			uc := newStatusUseCase(repo)

			_, err := uc.UpdateStatus(context.Background(), tt.scope, "o1", tt.target, false)
			if !errors.Is(err, domainErrors.ErrForbidden) {
				t.Fatalf("expected forbidden, got %v", err)
			}
		})
	}
}

func TestUpdateStatusCustomerCancelRequest(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	uc := newStatusUseCase(repo)

	order, err := uc.UpdateStatus(context.Background(), ownerScope, "o1", model.OrderStatusCancelRequested, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusCancelRequested {
		t.Fatalf("expected CANCEL_REQUESTED, got %s", order.Status)
	}
	if order.CancelRequest == nil || order.CancelRequest.PriorStatus != model.OrderStatusPlaced {
		t.Fatalf("expected cancel request marker with prior status PLACED, got %+v", order.CancelRequest)
	}
	if got := repo.EventsOfKind(model.EventOrderCancelReq); len(got) != 1 {
		t.Fatalf("expected one cancel request event, got %d", len(got))
	}
}

func TestUpdateStatusShipsAllPendingPackages(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	o := paidOrder("o1")
	o.Packages = []model.Package{
		{ID: "pkg-1", Allocation: map[string]int{"p1": 2}, Status: model.PackageStatusPending},
		{ID: "pkg-2", Allocation: map[string]int{"p1": 1}, Status: model.PackageStatusPending},
	}
	o.Status = model.OrderStatusPackaged
	repo.Put(o)
	uc := newStatusUseCase(repo)

	order, err := uc.UpdateStatus(context.Background(), adminScope, "o1", model.OrderStatusShipped, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusShipped {
		t.Fatalf("expected SHIPPED, got %s", order.Status)
	}
	for _, p := range order.Packages {
		if p.Status != model.PackageStatusShipped {
			t.Fatalf("expected every package shipped, got %s for %s", p.Status, p.ID)
		}
	}
	if got := repo.EventsOfKind(model.EventOrderShipped); len(got) != 1 {
		t.Fatalf("expected one shipped event, got %d", len(got))
	}
}

func TestUpdateStatusCompletesDeliveredOrder(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(deliveredOrder("o1"))
	uc := newStatusUseCase(repo)

	order, err := uc.UpdateStatus(context.Background(), adminScope, "o1", model.OrderStatusCompleted, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusCompleted || order.CompletedAt == nil {
		t.Fatalf("expected completed order with timestamp, got %s %v", order.Status, order.CompletedAt)
	}
}

func TestOverrideStatusRequiresAdmin(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	uc := newStatusUseCase(repo)

	_, err := uc.UpdateStatus(context.Background(), ownerScope, "o1", model.OrderStatusDelivered, true)
	if !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestOverrideStatusStoresTargetAndAudits(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	uc := newStatusUseCase(repo)

	order, err := uc.UpdateStatus(context.Background(), adminScope, "o1", model.OrderStatusDelivered, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusDelivered {
		t.Fatalf("override must store the target verbatim, got %s", order.Status)
	}
	audits := repo.EventsOfKind(model.EventStatusOverridden)
	if len(audits) != 1 {
		t.Fatalf("expected one audit event, got %d", len(audits))
	}
	if audits[0].Payload["from"] != string(model.OrderStatusPlaced) || audits[0].Payload["to"] != string(model.OrderStatusDelivered) {
		t.Fatalf("unexpected audit payload %v", audits[0].Payload)
	}
}

func TestOverrideStatusCancelReleasesOnce(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(paidOrder("o1"))
	uc := newStatusUseCase(repo)

	if _, err := uc.UpdateStatus(context.Background(), adminScope, "o1", model.OrderStatusCancelled, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.UpdateStatus(context.Background(), adminScope, "o1", model.OrderStatusCancelled, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := repo.EventsOfKind(model.EventReservationRelease); len(got) != 1 {
		t.Fatalf("expected exactly one reservation release, got %d", len(got))
	}
	if got := repo.EventsOfKind(model.EventStatusOverridden); len(got) != 2 {
		t.Fatalf("expected both overrides audited, got %d", len(got))
	}
}
