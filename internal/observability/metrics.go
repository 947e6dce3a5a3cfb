package observability

// Metrics receives timing and outcome events from the HTTP layer, the waiter
// client, the resilience policies and the notification handler.
type Metrics interface {
	ObserveHTTP(method, route string, status int, durMs float64)
	ObserveUpstream(op string, status int, durMs float64)
	ObservePolicy(policy, outcome string)
	ObserveNotification(outcome string, processMs float64)
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObserveUpstream(string, int, float64)     {}
func (Noop) ObservePolicy(string, string)             {}
func (Noop) ObserveNotification(string, float64)      {}
