package resilience

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/config"
	"github.com/TemirB/springbucks-customer/internal/observability"
	"github.com/TemirB/springbucks-customer/internal/pkg/breaker"
	"github.com/TemirB/springbucks-customer/internal/pkg/bulkhead"
)

// Kind tells why a guarded call did not produce a value.
type Kind uint8

const (
	KindOther Kind = iota
	KindBulkheadFull
	KindCallNotPermitted
)

func (k Kind) String() string {
	switch k {
	case KindBulkheadFull:
		return "bulkhead_full"
	case KindCallNotPermitted:
		return "call_not_permitted"
	default:
		return "other"
	}
}

// Classify maps an error returned by Execute to its Kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, bulkhead.ErrBulkheadFull):
		return KindBulkheadFull
	case errors.Is(err, breaker.ErrCallNotPermitted):
		return KindCallNotPermitted
	default:
		return KindOther
	}
}

const outcomeSuccess = "success"

// Policy guards calls with a bulkhead wrapped around a circuit breaker. A call
// rejected by the bulkhead never reaches the breaker and is not counted by it.
type Policy struct {
	name     string
	bulkhead *bulkhead.Bulkhead
	breaker  *breaker.Breaker
	logger   *zap.Logger
	metrics  observability.Metrics
}

func NewPolicy(cfg config.Policy, logger *zap.Logger, metrics observability.Metrics) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	logger = logger.With(zap.String("policy", cfg.Name))

	return &Policy{
		name:     cfg.Name,
		bulkhead: bulkhead.New(cfg.Name, cfg.Bulkhead),
		breaker: breaker.New(cfg.Name, cfg.Breaker, breaker.WithStateListener(
			func(_ string, from, to breaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.Stringer("from", from),
					zap.Stringer("to", to),
				)
			},
		)),
		logger:  logger,
		metrics: metrics,
	}
}

func (p *Policy) Name() string { return p.name }

func (p *Policy) BreakerState() breaker.State { return p.breaker.State() }

func (p *Policy) InFlight() int { return p.bulkhead.InFlight() }

// Execute runs fn under the policy. Every error fn returns counts as a breaker
// failure except context.Canceled, which only gives the permit back.
func (p *Policy) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.bulkhead.Acquire(ctx); err != nil {
		p.observe(err)
		return err
	}
	defer p.bulkhead.Release()

	gen, err := p.breaker.Allow()
	if err != nil {
		err = fmt.Errorf("%w: %q", err, p.name)
		p.observe(err)
		return err
	}

	err = fn(ctx)
	switch {
	case err == nil:
		p.breaker.Success(gen)
	case errors.Is(err, context.Canceled):
		p.breaker.Release(gen)
	default:
		p.breaker.Failure(gen)
	}
	p.observe(err)
	return err
}

func (p *Policy) observe(err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = Classify(err).String()
	}
	p.metrics.ObservePolicy(p.name, outcome)
}

// Call is Execute for functions that produce a value.
func Call[T any](ctx context.Context, p *Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Execute(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Recover replaces err with fallback(err) when err is of one of kinds. With no
// kinds given every error is recovered.
func Recover[T any](v T, err error, fallback func(error) T, kinds ...Kind) (T, error) {
	if err == nil {
		return v, nil
	}
	if len(kinds) == 0 {
		return fallback(err), nil
	}
	k := Classify(err)
	for _, want := range kinds {
		if k == want {
			return fallback(err), nil
		}
	}
	return v, err
}
