package bulkhead

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/TemirB/springbucks-customer/internal/config"
)

var ErrBulkheadFull = errors.New("bulkhead is full")

// Bulkhead caps the number of concurrent calls. With MaxWait of zero a call
// that finds no free slot is rejected at once.
type Bulkhead struct {
	name     string
	cfg      config.Bulkhead
	sem      *semaphore.Weighted
	inFlight atomic.Int64
}

func New(name string, cfg config.Bulkhead) *Bulkhead {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	return &Bulkhead{
		name: name,
		cfg:  cfg,
		sem:  semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}
}

func (b *Bulkhead) Name() string { return b.name }

// Acquire takes a slot. Every successful Acquire must be paired with Release.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	if b.cfg.MaxWait <= 0 {
		if !b.sem.TryAcquire(1) {
			return b.full()
		}
		b.inFlight.Add(1)
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.cfg.MaxWait)
	defer cancel()

	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return b.full()
	}
	b.inFlight.Add(1)
	return nil
}

func (b *Bulkhead) Release() {
	b.inFlight.Add(-1)
	b.sem.Release(1)
}

func (b *Bulkhead) InFlight() int {
	return int(b.inFlight.Load())
}

func (b *Bulkhead) full() error {
	return fmt.Errorf("%w: %q", ErrBulkheadFull, b.name)
}
