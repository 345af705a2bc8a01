package model

import "time"

// EventKind names a domain event emitted after a successful state change.
type EventKind string

const (
	EventOrderPaid          EventKind = "order.paid"
	EventOrderPaymentFailed EventKind = "order.payment_failed"
	EventOrderCancelReq     EventKind = "order.cancel_requested"
	EventOrderCancelled     EventKind = "order.cancelled"
	EventOrderShipped       EventKind = "order.shipped"
	EventOrderDelivered     EventKind = "order.delivered"
	EventStatusOverridden   EventKind = "order.status_overridden"
	EventReservationRelease EventKind = "reservation.release"
	EventRMARequested       EventKind = "rma.requested"
	EventRMAApproved        EventKind = "rma.approved"
	EventRMARefunded        EventKind = "rma.refunded"
	EventRMARejected        EventKind = "rma.rejected"
	EventPaymentCorrected   EventKind = "payment.corrected"
	EventPaymentInfo        EventKind = "payment.info"
)

// Event is an outbox record written in the same transaction as the state
// change it describes and delivered to listeners at-least-once. Consumers
// dedupe on ID.
type Event struct {
	ID        string         `json:"id"`
	OrderID   string         `json:"order_id"`
	Kind      EventKind      `json:"kind"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
