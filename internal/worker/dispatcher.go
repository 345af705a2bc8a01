package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/merchkit/orderflow/internal/adapter/notify"
	"github.com/merchkit/orderflow/internal/adapter/stock"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/domain/repository"
)

// EventDispatcher drains the order event outbox and delivers each event to
// its downstream consumer. Delivery is at-least-once: a failed delivery is
// requeued and retried on a later poll.
type EventDispatcher struct {
	outbox       repository.OutboxRepository
	notifier     notify.Client
	stock        stock.Client
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Event
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventDispatcher constructs the dispatcher worker pool.
func NewEventDispatcher(
	outbox repository.OutboxRepository,
	notifier notify.Client,
	stockClient stock.Client,
	pollInterval time.Duration,
	batchSize, workers int,
	logger *slog.Logger,
) *EventDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &EventDispatcher{
		outbox:       outbox,
		notifier:     notifier,
		stock:        stockClient,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Event, batchSize*workers),
	}
}

// Start launches background dispatching.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (d *EventDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *EventDispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx)
		}
	}
}

func (d *EventDispatcher) fetchAndDispatch(ctx context.Context) {
	events, err := d.outbox.SelectBatchForDispatch(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("fetch events for dispatch failed", slog.String("error", err.Error()))
		return
	}
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- event:
		}
	}
}

func (d *EventDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handleEvent(ctx, event)
		}
	}
}

func (d *EventDispatcher) handleEvent(ctx context.Context, event model.Event) {
	if err := d.deliver(ctx, event); err != nil {
		d.logger.Error("event delivery failed",
			slog.String("event_id", event.ID),
			slog.String("kind", string(event.Kind)),
			slog.String("error", err.Error()),
		)
		if err := d.outbox.MarkFailed(ctx, event.ID); err != nil {
			d.logger.Error("requeue event failed", slog.String("event_id", event.ID), slog.String("error", err.Error()))
		}
		return
	}

	if err := d.outbox.MarkDelivered(ctx, event.ID); err != nil {
		d.logger.Error("mark event delivered failed", slog.String("event_id", event.ID), slog.String("error", err.Error()))
	}
}

func (d *EventDispatcher) deliver(ctx context.Context, event model.Event) error {
	if event.Kind == model.EventReservationRelease {
		return d.stock.Release(ctx, event.OrderID)
	}

	customerID, ok := eventCustomer(event)
	if !ok {
		// Guest order, nobody to notify.
		return nil
	}
	return d.notifier.Push(ctx, customerID, event)
}

func eventCustomer(event model.Event) (int64, bool) {
	raw, ok := event.Payload["customer_id"]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case int64:
		return v, true
	case float64:
		// JSON round-trip through the outbox turns numbers into float64.
		return int64(v), true
	default:
		return 0, false
	}
}
