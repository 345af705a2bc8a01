package model

// ActorScope identifies the caller of an engine operation. It is passed
// explicitly into every operation; there is no ambient request identity.
type ActorScope struct {
	CustomerID int64
	Admin      bool
}

// AdminScope is the administrative scope used by internal workers.
var AdminScope = ActorScope{Admin: true}

// Owns reports whether the scope may see and act on the order. Guest orders
// (no customer) are visible to administrative scope only.
func (s ActorScope) Owns(o *Order) bool {
	if s.Admin {
		return true
	}
	return o.CustomerID != nil && *o.CustomerID == s.CustomerID
}
