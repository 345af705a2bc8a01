package test

import (
	"context"
	"sync"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/domain/repository"
)

// CloneOrder deep-copies an order so stub consumers never share sub-slices.
func CloneOrder(o *model.Order) *model.Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.CustomerID != nil {
		v := *o.CustomerID
		clone.CustomerID = &v
	}
	if o.Items != nil {
		clone.Items = append([]model.Item(nil), o.Items...)
	}
	if o.Payments != nil {
		clone.Payments = append([]model.PaymentAttempt(nil), o.Payments...)
	}
	if o.Packages != nil {
		clone.Packages = make([]model.Package, len(o.Packages))
		for i, p := range o.Packages {
			clone.Packages[i] = p
			clone.Packages[i].Allocation = cloneIntMap(p.Allocation)
		}
	}
	if o.Returns != nil {
		clone.Returns = make([]model.Return, len(o.Returns))
		for i, r := range o.Returns {
			clone.Returns[i] = r
			clone.Returns[i].Items = cloneIntMap(r.Items)
		}
	}
	if o.CancelRequest != nil {
		v := *o.CancelRequest
		clone.CancelRequest = &v
	}
	if o.CancelledAt != nil {
		v := *o.CancelledAt
		clone.CancelledAt = &v
	}
	if o.CompletedAt != nil {
		v := *o.CompletedAt
		clone.CompletedAt = &v
	}
	return &clone
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// OrderRepositoryStub is an in-memory versioned order store. ConditionalUpdate
// honors the same compare-and-swap contract as the PostgreSQL repository, and
// ForceConflicts makes the first N updates fail to exercise retry paths.
type OrderRepositoryStub struct {
	mu             sync.Mutex
	orders         map[string]*model.Order
	Events         []model.Event
	ForceConflicts int

	GetFn  func(context.Context, string) (*model.Order, error)
	FindFn func(context.Context, model.OrderFilter) ([]model.Order, error)
}

// NewOrderRepositoryStub constructs an empty stub store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{orders: make(map[string]*model.Order)}
}

// Put seeds an order, assigning version 1 when unset.
func (s *OrderRepositoryStub) Put(o *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Version == 0 {
		o.Version = 1
	}
	s.orders[o.ID] = CloneOrder(o)
}

// Get returns a copy of the stored order.
func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return CloneOrder(o), nil
}

// Find filters stored orders in insertion-independent order.
func (s *OrderRepositoryStub) Find(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.FindFn != nil {
		return s.FindFn(ctx, filter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Order
	for _, o := range s.orders {
		if !matchesFilter(o, filter) {
			continue
		}
		result = append(result, *CloneOrder(o))
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func matchesFilter(o *model.Order, filter model.OrderFilter) bool {
	if filter.CustomerID != nil {
		if o.CustomerID == nil || *o.CustomerID != *filter.CustomerID {
			return false
		}
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, st := range filter.Statuses {
			if o.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, st := range filter.ExcludeStatuses {
		if o.Status == st {
			return false
		}
	}
	if filter.CreatedFrom != nil && o.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && o.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

// Save replaces or inserts an order and bumps the version.
func (s *OrderRepositoryStub) Save(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := CloneOrder(order)
	if existing, ok := s.orders[order.ID]; ok {
		saved.Version = existing.Version + 1
	} else if saved.Version == 0 {
		saved.Version = 1
	}
	s.orders[order.ID] = saved
	return CloneOrder(saved), nil
}

// ConditionalUpdate applies the mutator under the version CAS contract.
func (s *OrderRepositoryStub) ConditionalUpdate(ctx context.Context, id string, expectedVersion int64, mut repository.Mutator) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ForceConflicts > 0 {
		s.ForceConflicts--
		return nil, domainErrors.ErrConflict
	}

	current, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if current.Version != expectedVersion {
		return nil, domainErrors.ErrConflict
	}

	working := CloneOrder(current)
	events, err := mut(working)
	if err != nil {
		return nil, err
	}

	working.Version = expectedVersion + 1
	s.orders[id] = working
	s.Events = append(s.Events, events...)
	return CloneOrder(working), nil
}

// EventsOfKind returns recorded events matching the kind.
func (s *OrderRepositoryStub) EventsOfKind(kind model.EventKind) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, admin bool) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Admin: admin}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CartRepositoryStub records saved carts.
type CartRepositoryStub struct {
	mu     sync.Mutex
	Carts  []*model.Cart
	SaveFn func(context.Context, *model.Cart) error
}

// Save stores the cart or delegates to the override.
func (s *CartRepositoryStub) Save(ctx context.Context, cart *model.Cart) error {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, cart)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Carts = append(s.Carts, cart)
	return nil
}

// OutboxStub is an in-memory outbox with claim semantics.
type OutboxStub struct {
	mu        sync.Mutex
	Appended  []model.Event
	Pending   []model.Event
	Delivered []string
	Failed    []string

	AppendErr error
	SelectErr error
}

// Append records the event.
func (s *OutboxStub) Append(ctx context.Context, event model.Event) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Appended = append(s.Appended, event)
	return nil
}

// SelectBatchForDispatch drains up to limit pending events.
func (s *OutboxStub) SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Event, error) {
	if s.SelectErr != nil {
		return nil, s.SelectErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Pending) == 0 {
		return nil, nil
	}
	n := limit
	if n > len(s.Pending) {
		n = len(s.Pending)
	}
	batch := s.Pending[:n]
	s.Pending = s.Pending[n:]
	return batch, nil
}

// MarkDelivered records the delivered event id.
func (s *OutboxStub) MarkDelivered(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delivered = append(s.Delivered, eventID)
	return nil
}

// MarkFailed records the requeued event id.
func (s *OutboxStub) MarkFailed(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed = append(s.Failed, eventID)
	return nil
}

// Lock exposes the mutex for polling assertions from worker tests.
func (s *OutboxStub) Lock() { s.mu.Lock() }

// Unlock releases the mutex.
func (s *OutboxStub) Unlock() { s.mu.Unlock() }
