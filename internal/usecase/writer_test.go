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

func TestNewOrderWriterDefaultsRetries(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	repo.ForceConflicts = 2
	w := usecase.NewOrderWriter(repo, test.NewCacheStub(), 0)

	// Two forced conflicts still fit into the default budget of three.
	if _, err := w.Update(context.Background(), "o1", func(o *model.Order) ([]model.Event, error) {
		return nil, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOrderWriterRetriesOnConflict(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	repo.ForceConflicts = 2
	writer, cache := newTestWriter(repo)

	updated, err := writer.Update(context.Background(), "o1", func(o *model.Order) ([]model.Event, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2 after successful retry, got %d", updated.Version)
	}
	if len(cache.Invalidated) != 1 || cache.Invalidated[0] != "o1" {
		t.Fatalf("expected cache invalidation for o1, got %v", cache.Invalidated)
	}
}

func TestOrderWriterSurfacesConflictAfterExhaustion(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	repo.ForceConflicts = 3
	writer, cache := newTestWriter(repo)

	_, err := writer.Update(context.Background(), "o1", func(o *model.Order) ([]model.Event, error) {
		return nil, nil
	})
	if !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict after exhausted retries, got %v", err)
	}
	if len(cache.Invalidated) != 0 {
		t.Fatalf("cache must not be invalidated on failure, got %v", cache.Invalidated)
	}
}

func TestOrderWriterDoesNotRetryMutatorErrors(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	writer, _ := newTestWriter(repo)

	attempts := 0
	_, err := writer.Update(context.Background(), "o1", func(o *model.Order) ([]model.Event, error) {
		attempts++
		return nil, domainErrors.ErrInvalidState
	})
	if !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected mutator error to surface, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("validation errors must not be retried, got %d attempts", attempts)
	}
}

func TestOrderWriterHonorsContextCancellation(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	repo.Put(placedOrder("o1"))
	writer, _ := newTestWriter(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := writer.Update(ctx, "o1", func(o *model.Order) ([]model.Event, error) {
		t.Fatal("mutator must not run with a cancelled context")
		return nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestOrderWriterMissingOrder(t *testing.T) {
	repo := test.NewOrderRepositoryStub()
	writer, _ := newTestWriter(repo)

	_, err := writer.Update(context.Background(), "absent", func(o *model.Order) ([]model.Event, error) {
		return nil, nil
	})
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
