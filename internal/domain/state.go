package domain

type OrderState string

const (
	StateInit      OrderState = "INIT"
	StatePaid      OrderState = "PAID"
	StateBrewing   OrderState = "BREWING"
	StateBrewed    OrderState = "BREWED"
	StateTaken     OrderState = "TAKEN"
	StateCancelled OrderState = "CANCELLED"
)

var validNext = map[OrderState]map[OrderState]bool{
	StateInit:      {StatePaid: true, StateCancelled: true},
	StatePaid:      {StateBrewing: true, StateCancelled: true},
	StateBrewing:   {StateBrewed: true},
	StateBrewed:    {StateTaken: true},
	StateTaken:     {},
	StateCancelled: {},
}

// CanTransition reports whether from->to moves the order forward in its
// lifecycle. The order service is the one enforcing it; here it is advisory.
func CanTransition(from, to OrderState) bool {
	return validNext[from][to]
}

func (s OrderState) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s OrderState) Final() bool {
	return s == StateTaken || s == StateCancelled
}
