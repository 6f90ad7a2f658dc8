package domain

// Status enumerates order progression.
type Status string

const (
	StatusPlaced           Status = "Order Placed"
	StatusShipped          Status = "Shipped"
	StatusOutForDelivery   Status = "Out for Delivery"
	StatusDelivered        Status = "Delivered"
	StatusCancelled        Status = "Cancelled"
	StatusRefundProcessing Status = "Refund Processing"
	StatusRefunded         Status = "Refunded"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{
	StatusPlaced,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusRefundProcessing,
	StatusRefunded,
}

// transitions is the adjacency table of the lifecycle. Administrative overrides
// may bypass it; customer-facing paths must not.
var transitions = map[Status][]Status{
	StatusPlaced:           {StatusShipped, StatusCancelled, StatusRefundProcessing},
	StatusShipped:          {StatusOutForDelivery},
	StatusOutForDelivery:   {StatusDelivered},
	StatusRefundProcessing: {StatusRefunded},
	StatusDelivered:        nil,
	StatusCancelled:        nil,
	StatusRefunded:         nil,
}

// ParseStatus maps a wire value onto the closed status set. Matching is exact.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(raw)
	if !candidate.Valid() {
		return "", ErrInvalidStatus
	}
	return candidate, nil
}

// Valid reports whether the status is a member of the enum.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition leaves the status.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// InTransit reports whether the order has left the warehouse but not arrived.
func (s Status) InTransit() bool {
	return s == StatusShipped || s == StatusOutForDelivery
}

// CancellationBranch reports whether the status belongs to the cancel/refund side branch.
func (s Status) CancellationBranch() bool {
	switch s {
	case StatusCancelled, StatusRefundProcessing, StatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransition reports whether next is adjacent to s in the lifecycle.
func (s Status) CanTransition(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the statuses reachable from s in one step.
func (s Status) AllowedTransitions() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func (s Status) String() string { return string(s) }
