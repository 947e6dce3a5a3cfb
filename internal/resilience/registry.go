package resilience

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/config"
	"github.com/TemirB/springbucks-customer/internal/observability"
)

// Registry holds the named policies of the process. It is filled once at
// startup and read-only afterwards.
type Registry struct {
	policies map[string]*Policy
}

func NewRegistry(logger *zap.Logger, metrics observability.Metrics, cfgs ...config.Policy) *Registry {
	r := &Registry{policies: make(map[string]*Policy, len(cfgs))}
	for _, cfg := range cfgs {
		r.policies[cfg.Name] = NewPolicy(cfg, logger, metrics)
	}
	return r
}

func (r *Registry) Get(name string) (*Policy, bool) {
	p, ok := r.policies[name]
	return p, ok
}

func (r *Registry) MustGet(name string) *Policy {
	p, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("resilience: unknown policy %q", name))
	}
	return p
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.policies))
	for n := range r.policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
