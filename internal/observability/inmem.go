package observability

import "sync"

type observe struct {
	Kind    string
	Name    string
	Status  int
	Outcome string
	Dur     float64
}

// Inmem keeps the last max events and running totals per policy outcome and
// per notification outcome.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals struct {
		policy        map[string]int
		notifications map[string]int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[len(m.last)-m.max:]
	}
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Name: method + " " + route, Status: status, Dur: durMs})
}

func (m *Inmem) ObserveUpstream(op string, status int, durMs float64) {
	m.push(&observe{Kind: "upstream", Name: op, Status: status, Dur: durMs})
}

func (m *Inmem) ObservePolicy(policy, outcome string) {
	m.mu.Lock()
	if m.totals.policy == nil {
		m.totals.policy = make(map[string]int)
	}
	m.totals.policy[policy+"/"+outcome]++
	m.mu.Unlock()

	m.push(&observe{Kind: "policy", Name: policy, Outcome: outcome})
}

func (m *Inmem) ObserveNotification(outcome string, processMs float64) {
	m.mu.Lock()
	if m.totals.notifications == nil {
		m.totals.notifications = make(map[string]int)
	}
	m.totals.notifications[outcome]++
	m.mu.Unlock()

	m.push(&observe{Kind: "notification", Outcome: outcome, Dur: processMs})
}

// PolicyTotal returns how many calls of policy ended with outcome.
func (m *Inmem) PolicyTotal(policy, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.policy[policy+"/"+outcome]
}

func (m *Inmem) NotificationTotal(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.notifications[outcome]
}
