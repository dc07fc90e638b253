package enums

import "fmt"

// OrderStatus tracks a placed order through the kitchen/rider flow. Status
// transitions never touch the frozen pricing breakdown.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// CanTransitionTo restricts status movement to the forward flow plus
// cancellation from any non-terminal state.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if o == OrderStatusCompleted || o == OrderStatusCancelled {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	order := map[OrderStatus]int{
		OrderStatusPlaced:         0,
		OrderStatusConfirmed:      1,
		OrderStatusPreparing:      2,
		OrderStatusOutForDelivery: 3,
		OrderStatusCompleted:      4,
	}
	cur, ok := order[o]
	if !ok {
		return false
	}
	nxt, ok := order[next]
	if !ok {
		return false
	}
	return nxt == cur+1
}
