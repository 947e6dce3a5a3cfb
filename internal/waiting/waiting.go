package waiting

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TemirB/springbucks-customer/internal/domain"
)

//go:generate mockgen -source internal/waiting/waiting.go -destination=internal/waiting/waiting_mock_test.go -package=waiting

type repo interface {
	PendingOrders(ctx context.Context, limit int) ([]domain.Order, error)
}

// Registry tracks orders placed by this customer that have not been picked up
// yet. The oldest entry is evicted once size is reached.
type Registry struct {
	size int
	lru  *lru.Cache[int64, domain.Order]
}

func New(size int) (*Registry, error) {
	c, err := lru.New[int64, domain.Order](size)
	if err != nil {
		return nil, err
	}
	return &Registry{
		size: size,
		lru:  c,
	}, nil
}

// Warm loads pending orders from repo. Errors leave the registry empty.
func (r *Registry) Warm(ctx context.Context, repo repo) int {
	orders, err := repo.PendingOrders(ctx, r.size)
	if err != nil {
		return 0
	}
	// repo returns newest first; add oldest first so recency order survives
	for i := len(orders) - 1; i >= 0; i-- {
		r.Add(&orders[i])
	}
	return len(orders)
}

func (r *Registry) Add(order *domain.Order) {
	if order == nil {
		return
	}
	r.lru.Add(order.ID, *order)
}

// Remove reports whether id was waiting.
func (r *Registry) Remove(id int64) bool {
	return r.lru.Remove(id)
}

func (r *Registry) Contains(id int64) bool {
	return r.lru.Contains(id)
}

func (r *Registry) Len() int {
	return r.lru.Len()
}

// Orders returns the waiting orders, most recently placed first.
func (r *Registry) Orders() []domain.Order {
	keys := r.lru.Keys()
	out := make([]domain.Order, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if o, ok := r.lru.Peek(keys[i]); ok {
			out = append(out, o)
		}
	}
	return out
}
