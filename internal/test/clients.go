package test

import (
	"context"
	"sync"

	"github.com/merchkit/orderflow/internal/domain/model"
)

// GatewayStub simulates the payment gateway.
type GatewayStub struct {
	mu       sync.Mutex
	ChargeFn func(context.Context, model.Money, string) (*model.ChargeResult, error)
	Charges  []model.Money
}

// Charge records the amount and delegates to the override or succeeds.
func (s *GatewayStub) Charge(ctx context.Context, amount model.Money, method string) (*model.ChargeResult, error) {
	s.mu.Lock()
	s.Charges = append(s.Charges, amount)
	s.mu.Unlock()
	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, amount, method)
	}
	return &model.ChargeResult{Succeeded: true, Reference: "ref-stub"}, nil
}

// ChargeCount returns how many charges were attempted.
func (s *GatewayStub) ChargeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Charges)
}

// CatalogStub resolves products from a fixed map.
type CatalogStub struct {
	Products map[string]*model.ProductInfo
	Err      error
}

// Product returns the configured product, (nil, nil) for unknown ids.
func (s *CatalogStub) Product(ctx context.Context, productID string) (*model.ProductInfo, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Products[productID], nil
}

// NotifyClientStub records pushed notifications.
type NotifyClientStub struct {
	mu     sync.Mutex
	Pushed []model.Event
	Err    error
}

// Push records the event or returns the configured error.
func (s *NotifyClientStub) Push(ctx context.Context, customerID int64, event model.Event) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Pushed = append(s.Pushed, event)
	return nil
}

// PushCount returns how many notifications were delivered.
func (s *NotifyClientStub) PushCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Pushed)
}

// StockClientStub records reservation releases.
type StockClientStub struct {
	mu       sync.Mutex
	Released []string
	Err      error
}

// Release records the order id or returns the configured error.
func (s *StockClientStub) Release(ctx context.Context, orderID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Released = append(s.Released, orderID)
	return nil
}

// ReleaseCount returns how many releases were delivered.
func (s *StockClientStub) ReleaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Released)
}

// CacheStub is an in-memory order cache tracking invalidations.
type CacheStub struct {
	mu          sync.Mutex
	Entries     map[string]*model.Order
	Invalidated []string
}

// NewCacheStub constructs an empty cache stub.
func NewCacheStub() *CacheStub {
	return &CacheStub{Entries: make(map[string]*model.Order)}
}

// Get returns the cached order if present.
func (s *CacheStub) Get(ctx context.Context, id string) (*model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Entries[id]
	if !ok {
		return nil, false
	}
	return CloneOrder(o), true
}

// Set stores the order.
func (s *CacheStub) Set(ctx context.Context, order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries[order.ID] = CloneOrder(order)
}

// Invalidate drops the entry and records the call.
func (s *CacheStub) Invalidate(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Entries, id)
	s.Invalidated = append(s.Invalidated, id)
}
