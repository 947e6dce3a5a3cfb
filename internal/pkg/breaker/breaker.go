package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/TemirB/springbucks-customer/internal/config"
)

var ErrCallNotPermitted = errors.New("circuit breaker is open: call not permitted")

type State uint8

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker opens after cfg.Threshold consecutive failures, rejects calls for
// cfg.OpenTimeout, then lets up to cfg.MaxHalfOpen trial calls through.
// One trial success closes it, one trial failure opens it again.
// Callers report every permitted call with Success, Failure or Release, passing
// the generation Allow returned. Every state change starts a new generation, so
// outcomes of calls admitted before it are ignored.
type Breaker struct {
	mu          sync.Mutex
	name        string
	cfg         config.Breaker
	state       State
	failCount   uint32
	openedAt    time.Time
	halfOpenReq uint32
	generation  uint64

	now      func() time.Time
	listener func(name string, from, to State)
}

type Option func(*Breaker)

// WithStateListener registers fn to be called after every state change.
// fn runs outside the breaker lock.
func WithStateListener(fn func(name string, from, to State)) Option {
	return func(b *Breaker) { b.listener = fn }
}

func New(name string, cfg config.Breaker, opts ...Option) *Breaker {
	b := &Breaker{
		name:  name,
		cfg:   cfg,
		state: Closed,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

// Allow checks if a call is permitted and returns the generation the call
// belongs to. Open turns into HalfOpen once the open timeout has passed.
func (b *Breaker) Allow() (uint64, error) {
	b.mu.Lock()
	from := b.state
	err := b.allowLocked()
	to, gen := b.state, b.generation
	b.mu.Unlock()

	b.notify(from, to)
	return gen, err
}

func (b *Breaker) allowLocked() error {
	switch b.state {
	case Open:
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCallNotPermitted
		}
		b.transitionTo(HalfOpen)
		b.halfOpenReq = 1
		return nil
	case HalfOpen:
		if b.halfOpenReq >= b.cfg.MaxHalfOpen {
			return ErrCallNotPermitted
		}
		b.halfOpenReq++
		return nil
	default:
		return nil
	}
}

func (b *Breaker) Success(gen uint64) {
	b.mu.Lock()
	from := b.state
	if gen != b.generation {
		b.mu.Unlock()
		return
	}
	switch b.state {
	case HalfOpen:
		b.transitionTo(Closed)
	case Closed:
		b.failCount = 0
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *Breaker) Failure(gen uint64) {
	b.mu.Lock()
	from := b.state
	if gen != b.generation {
		b.mu.Unlock()
		return
	}
	switch b.state {
	case Closed:
		b.failCount++
		if b.failCount >= b.cfg.Threshold {
			b.transitionTo(Open)
		}
	case HalfOpen:
		b.transitionTo(Open)
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// Release gives back a permitted call without recording an outcome, e.g. when
// the caller went away before the call finished.
func (b *Breaker) Release(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen == b.generation && b.state == HalfOpen && b.halfOpenReq > 0 {
		b.halfOpenReq--
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transitionTo(next State) {
	b.state = next
	b.generation++
	b.failCount = 0
	b.halfOpenReq = 0
	if next == Open {
		b.openedAt = b.now()
	}
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.listener != nil {
		b.listener(b.name, from, to)
	}
}
