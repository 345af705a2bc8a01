package usecase_test

import (
	"time"

	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/test"
	"github.com/merchkit/orderflow/internal/usecase"
)

func newTestWriter(repo *test.OrderRepositoryStub) (*usecase.OrderWriter, *test.CacheStub) {
	cache := test.NewCacheStub()
	return usecase.NewOrderWriter(repo, cache, 3), cache
}

// placedOrder is a fresh order for customer 7: one line of three units at
// 10.00, no payments yet.
func placedOrder(id string) *model.Order {
	cid := int64(7)
	return &model.Order{
		ID:         id,
		CustomerID: &cid,
		Status:     model.OrderStatusPlaced,
		Items:      []model.Item{{ProductID: "p1", Quantity: 3, UnitPrice: 1000}},
		CreatedAt:  time.Now().UTC(),
	}
}

func paidOrder(id string) *model.Order {
	o := placedOrder(id)
	o.Payments = []model.PaymentAttempt{{
		ID:             "pay-1",
		Amount:         3000,
		Method:         "card",
		Result:         model.PaymentResultSucceeded,
		IdempotencyKey: "key-1",
		CreatedAt:      time.Now().UTC(),
	}}
	o.Status = model.OrderStatusPaid
	return o
}

func packagedOrder(id string) *model.Order {
	o := paidOrder(id)
	o.Packages = []model.Package{{
		ID:         "pkg-1",
		Allocation: map[string]int{"p1": 3},
		Status:     model.PackageStatusPending,
	}}
	o.Status = model.OrderStatusPackaged
	return o
}

func deliveredOrder(id string) *model.Order {
	o := packagedOrder(id)
	o.Packages[0].Status = model.PackageStatusDelivered
	o.Status = model.OrderStatusDelivered
	return o
}

var (
	ownerScope = model.ActorScope{CustomerID: 7}
	otherScope = model.ActorScope{CustomerID: 8}
	adminScope = model.AdminScope
)
