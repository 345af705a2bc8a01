package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/merchkit/orderflow/internal/domain/model"
	testhelpers "github.com/merchkit/orderflow/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewEventDispatcherDefaults(t *testing.T) {
	d := NewEventDispatcher(&testhelpers.OutboxStub{}, &testhelpers.NotifyClientStub{}, &testhelpers.StockClientStub{}, time.Second, 0, 0, discardLogger())
	if d.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", d.batchSize)
	}
	if d.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", d.workers)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for dispatcher")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestDispatcherRoutesReservationRelease(t *testing.T) {
	outbox := &testhelpers.OutboxStub{Pending: []model.Event{
		{ID: "evt-1", OrderID: "ord-1", Kind: model.EventReservationRelease},
	}}
	notifier := &testhelpers.NotifyClientStub{}
	stockClient := &testhelpers.StockClientStub{}

	d := NewEventDispatcher(outbox, notifier, stockClient, 10*time.Millisecond, 4, 1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	waitFor(t, func() bool { return stockClient.ReleaseCount() > 0 })
	d.Stop()

	if stockClient.Released[0] != "ord-1" {
		t.Fatalf("unexpected release target: %s", stockClient.Released[0])
	}
	outbox.Lock()
	defer outbox.Unlock()
	if len(outbox.Delivered) != 1 || outbox.Delivered[0] != "evt-1" {
		t.Fatalf("expected event marked delivered, got %+v", outbox.Delivered)
	}
	if notifier.PushCount() != 0 {
		t.Fatal("release events must not reach the notifier")
	}
}

func TestDispatcherNotifiesCustomer(t *testing.T) {
	outbox := &testhelpers.OutboxStub{Pending: []model.Event{
		{ID: "evt-2", OrderID: "ord-2", Kind: model.EventOrderPaid, Payload: map[string]any{"customer_id": float64(42)}},
	}}
	notifier := &testhelpers.NotifyClientStub{}
	stockClient := &testhelpers.StockClientStub{}

	d := NewEventDispatcher(outbox, notifier, stockClient, 10*time.Millisecond, 4, 2, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	waitFor(t, func() bool { return notifier.PushCount() > 0 })
	d.Stop()

	if notifier.Pushed[0].OrderID != "ord-2" {
		t.Fatalf("unexpected notification: %+v", notifier.Pushed[0])
	}
}

func TestDispatcherSkipsGuestOrders(t *testing.T) {
	outbox := &testhelpers.OutboxStub{Pending: []model.Event{
		{ID: "evt-3", OrderID: "ord-3", Kind: model.EventOrderCancelled},
	}}
	notifier := &testhelpers.NotifyClientStub{}
	stockClient := &testhelpers.StockClientStub{}

	d := NewEventDispatcher(outbox, notifier, stockClient, 10*time.Millisecond, 4, 1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	waitFor(t, func() bool {
		outbox.Lock()
		defer outbox.Unlock()
		return len(outbox.Delivered) > 0
	})
	d.Stop()

	if notifier.PushCount() != 0 {
		t.Fatal("guest events must not be pushed")
	}
}

func TestDispatcherRequeuesFailedDelivery(t *testing.T) {
	outbox := &testhelpers.OutboxStub{Pending: []model.Event{
		{ID: "evt-4", OrderID: "ord-4", Kind: model.EventReservationRelease},
	}}
	notifier := &testhelpers.NotifyClientStub{}
	stockClient := &testhelpers.StockClientStub{Err: context.DeadlineExceeded}

	d := NewEventDispatcher(outbox, notifier, stockClient, 10*time.Millisecond, 4, 1, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	waitFor(t, func() bool {
		outbox.Lock()
		defer outbox.Unlock()
		return len(outbox.Failed) > 0
	})
	d.Stop()

	outbox.Lock()
	defer outbox.Unlock()
	if len(outbox.Delivered) != 0 {
		t.Fatal("failed event must not be marked delivered")
	}
	if outbox.Failed[0] != "evt-4" {
		t.Fatalf("unexpected requeued event: %s", outbox.Failed[0])
	}
}
