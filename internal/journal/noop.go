package journal

import (
	"context"

	"github.com/TemirB/springbucks-customer/internal/domain"
)

// Noop is used when no database is configured.
type Noop struct{}

func (Noop) EnsureSchema(context.Context) error                                         { return nil }
func (Noop) RecordPlaced(context.Context, *domain.Order) error                          { return nil }
func (Noop) PendingOrders(context.Context, int) ([]domain.Order, error)                 { return nil, nil }
func (Noop) RecordPickup(context.Context, int64, domain.OrderState, string, bool) error { return nil }
