package model

import "time"

// OrderFilter is the closed set of query predicates recognized by the order
// store. Unrecognized predicate fields are rejected at the boundary instead
// of being passed through uninterpreted.
type OrderFilter struct {
	Statuses        []OrderStatus
	ExcludeStatuses []OrderStatus
	CustomerID      *int64
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	Limit           int
}
