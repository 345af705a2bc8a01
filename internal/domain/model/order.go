package model

import "time"

// OrderStatus describes the order lifecycle state.
type OrderStatus string

const (
	OrderStatusPlaced          OrderStatus = "PLACED"
	OrderStatusPaymentPending  OrderStatus = "PAYMENT_PENDING"
	OrderStatusPaymentFailed   OrderStatus = "PAYMENT_FAILED"
	OrderStatusPaid            OrderStatus = "PAID"
	OrderStatusPackaged        OrderStatus = "PACKAGED"
	OrderStatusShipped         OrderStatus = "SHIPPED"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
	OrderStatusCancelRequested OrderStatus = "CANCEL_REQUESTED"
	OrderStatusCancelled       OrderStatus = "CANCELLED"
	OrderStatusReturned        OrderStatus = "RETURNED"
)

// Terminal reports whether no further business mutation is accepted.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusReturned || s == OrderStatusCompleted
}

// PaymentResult describes the outcome of a payment attempt.
type PaymentResult string

const (
	PaymentResultPending   PaymentResult = "pending"
	PaymentResultSucceeded PaymentResult = "succeeded"
	PaymentResultFailed    PaymentResult = "failed"
)

// Finalized reports whether the attempt outcome is immutable.
func (r PaymentResult) Finalized() bool {
	return r == PaymentResultSucceeded || r == PaymentResultFailed
}

// PackageStatus describes fulfillment state of a sub-shipment.
type PackageStatus string

const (
	PackageStatusPending   PackageStatus = "pending"
	PackageStatusShipped   PackageStatus = "shipped"
	PackageStatusDelivered PackageStatus = "delivered"
)

// ReturnStatus describes RMA progression.
type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "requested"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRefunded  ReturnStatus = "refunded"
	ReturnStatusRejected  ReturnStatus = "rejected"
)

// Item is a single order line.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
}

// PaymentAttempt is an append-only payment record. A finalized result is
// never rewritten; corrections append new attempts.
type PaymentAttempt struct {
	ID             string        `json:"id"`
	Amount         Money         `json:"amount"`
	Method         string        `json:"method"`
	Result         PaymentResult `json:"result"`
	IdempotencyKey string        `json:"idempotency_key"`
	Reference      string        `json:"reference,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Package groups a subset of item quantities for independent shipment.
type Package struct {
	ID         string         `json:"id"`
	Allocation map[string]int `json:"allocation"`
	Status     PackageStatus  `json:"status"`
}

// Return is a post-delivery RMA record.
type Return struct {
	ID       string         `json:"id"`
	Items    map[string]int `json:"items"`
	Reason   string         `json:"reason"`
	Status   ReturnStatus   `json:"status"`
	RefundID string         `json:"refund_id,omitempty"`
}

// CancelRequest marks a pending customer-initiated cancellation awaiting
// administrative arbitration. At most one exists per order.
type CancelRequest struct {
	RequestedBy int64       `json:"requested_by"`
	PriorStatus OrderStatus `json:"prior_status"`
	RequestedAt time.Time   `json:"requested_at"`
}

// CancelRefusal reports that a cancellation was refused by policy. It is a
// result value, not an error: the order is left untouched.
type CancelRefusal struct {
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
	Reason  string      `json:"reason"`
}

// Order is the aggregate root. Status is derived from the sub-records and
// must never contradict them.
type Order struct {
	ID            string           `json:"id"`
	CustomerID    *int64           `json:"customer_id,omitempty"`
	Status        OrderStatus      `json:"status"`
	Version       int64            `json:"version"`
	Items         []Item           `json:"items"`
	Packages      []Package        `json:"packages,omitempty"`
	Payments      []PaymentAttempt `json:"payments,omitempty"`
	Returns       []Return         `json:"returns,omitempty"`
	CancelRequest *CancelRequest   `json:"cancel_request,omitempty"`
	CancelledAt   *time.Time       `json:"cancelled_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Total is the sum of line amounts.
func (o *Order) Total() Money {
	var total Money
	for _, it := range o.Items {
		total += it.UnitPrice * Money(it.Quantity)
	}
	return total
}

// SucceededAmount sums all succeeded payment attempts.
func (o *Order) SucceededAmount() Money {
	var sum Money
	for _, p := range o.Payments {
		if p.Result == PaymentResultSucceeded {
			sum += p.Amount
		}
	}
	return sum
}

// PendingAmount sums payment attempts still awaiting a gateway outcome.
func (o *Order) PendingAmount() Money {
	var sum Money
	for _, p := range o.Payments {
		if p.Result == PaymentResultPending {
			sum += p.Amount
		}
	}
	return sum
}

// HasPaymentKey reports whether an attempt already used the idempotency key.
func (o *Order) HasPaymentKey(key string) bool {
	for _, p := range o.Payments {
		if p.IdempotencyKey == key {
			return true
		}
	}
	return false
}

// PaymentByID finds an attempt by identifier.
func (o *Order) PaymentByID(id string) *PaymentAttempt {
	for i := range o.Payments {
		if o.Payments[i].ID == id {
			return &o.Payments[i]
		}
	}
	return nil
}

// PackageByID finds a package by identifier.
func (o *Order) PackageByID(id string) *Package {
	for i := range o.Packages {
		if o.Packages[i].ID == id {
			return &o.Packages[i]
		}
	}
	return nil
}

// ReturnByID finds an RMA record by identifier.
func (o *Order) ReturnByID(id string) *Return {
	for i := range o.Returns {
		if o.Returns[i].ID == id {
			return &o.Returns[i]
		}
	}
	return nil
}

// OrderedQuantity returns the quantity ordered for a product.
func (o *Order) OrderedQuantity(productID string) int {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// AllocatedQuantity sums package allocations for a product.
func (o *Order) AllocatedQuantity(productID string) int {
	var n int
	for _, p := range o.Packages {
		n += p.Allocation[productID]
	}
	return n
}

// DeliveredQuantity sums allocations of delivered packages for a product.
func (o *Order) DeliveredQuantity(productID string) int {
	var n int
	for _, p := range o.Packages {
		if p.Status == PackageStatusDelivered {
			n += p.Allocation[productID]
		}
	}
	return n
}

// ReturnedQuantity sums non-rejected return quantities for a product.
func (o *Order) ReturnedQuantity(productID string) int {
	var n int
	for _, r := range o.Returns {
		if r.Status != ReturnStatusRejected {
			n += r.Items[productID]
		}
	}
	return n
}

// FullyAllocated reports whether every ordered quantity sits in a package.
func (o *Order) FullyAllocated() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, it := range o.Items {
		if o.AllocatedQuantity(it.ProductID) != it.Quantity {
			return false
		}
	}
	return true
}

// AllPackagesShipped reports whether every package left the warehouse.
func (o *Order) AllPackagesShipped() bool {
	if len(o.Packages) == 0 {
		return false
	}
	for _, p := range o.Packages {
		if p.Status == PackageStatusPending {
			return false
		}
	}
	return true
}

// AllPackagesDelivered reports whether every package reached the customer.
func (o *Order) AllPackagesDelivered() bool {
	if len(o.Packages) == 0 {
		return false
	}
	for _, p := range o.Packages {
		if p.Status != PackageStatusDelivered {
			return false
		}
	}
	return true
}

// FullyReturned reports whether refunded RMAs cover every delivered quantity.
func (o *Order) FullyReturned() bool {
	refunded := make(map[string]int)
	for _, r := range o.Returns {
		if r.Status == ReturnStatusRefunded {
			for id, qty := range r.Items {
				refunded[id] += qty
			}
		}
	}
	if len(refunded) == 0 {
		return false
	}
	var delivered int
	for _, it := range o.Items {
		d := o.DeliveredQuantity(it.ProductID)
		delivered += d
		if refunded[it.ProductID] < d {
			return false
		}
	}
	return delivered > 0
}
