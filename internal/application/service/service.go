package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/domain"
	"github.com/TemirB/springbucks-customer/internal/resilience"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

// DefaultItem is the single item every placed order contains.
const DefaultItem = "capuccino"

type Catalog interface {
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
}

type Orders interface {
	CreateOrder(ctx context.Context, req domain.NewOrderRequest) (*domain.Order, error)
	UpdateState(ctx context.Context, id int64, state domain.OrderState) (*domain.Order, error)
}

type Waiting interface {
	Add(order *domain.Order)
}

type Journal interface {
	RecordPlaced(ctx context.Context, o *domain.Order) error
}

type Service struct {
	catalog Catalog
	orders  Orders
	menu    *resilience.Policy
	order   *resilience.Policy
	waiting Waiting
	journal Journal
	logger  *zap.Logger
}

func NewService(
	catalog Catalog,
	orders Orders,
	menu, order *resilience.Policy,
	waiting Waiting,
	journal Journal,
	logger *zap.Logger,
) *Service {
	return &Service{
		catalog: catalog,
		orders:  orders,
		menu:    menu,
		order:   order,
		waiting: waiting,
		journal: journal,
		logger:  logger,
	}
}

// ReadMenu lists the catalog under the menu policy. When the policy turns the
// call away the menu is empty. Any other failure is returned.
func (s *Service) ReadMenu(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := resilience.Call(ctx, s.menu, s.catalog.ListItems)
	return resilience.Recover(items, err, func(err error) []domain.MenuItem {
		s.logger.Warn("menu unavailable, serving empty list",
			zap.Stringer("kind", resilience.Classify(err)),
			zap.Error(err),
		)
		return []domain.MenuItem{}
	}, resilience.KindBulkheadFull, resilience.KindCallNotPermitted)
}

// PlaceOrder creates an order with DefaultItem for customer and pays for it.
// It returns nil when the order policy denies the call or either step fails.
// A created order whose payment failed is left as is.
func (s *Service) PlaceOrder(ctx context.Context, customer string) *domain.Order {
	order, err := resilience.Call(ctx, s.order, func(ctx context.Context) (*domain.Order, error) {
		created, err := s.orders.CreateOrder(ctx, domain.NewOrderRequest{
			Customer: customer,
			Items:    []string{DefaultItem},
		})
		if err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
		s.logger.Info("order created",
			zap.Int64("order_id", created.ID),
			zap.String("state", string(created.State)),
		)

		paid, err := s.orders.UpdateState(ctx, created.ID, domain.StatePaid)
		if err != nil {
			return nil, fmt.Errorf("pay order %d: %w", created.ID, err)
		}
		return paid, nil
	})
	order, _ = resilience.Recover(order, err, func(err error) *domain.Order {
		s.logger.Warn("order not placed",
			zap.String("customer", customer),
			zap.Stringer("kind", resilience.Classify(err)),
			zap.Error(err),
		)
		return nil
	})
	if order == nil {
		return nil
	}

	s.logger.Info("order paid",
		zap.Int64("order_id", order.ID),
		zap.String("customer", customer),
		zap.String("state", string(order.State)),
	)
	s.waiting.Add(order)
	if err := s.journal.RecordPlaced(ctx, order); err != nil {
		s.logger.Error("journal write failed", zap.Int64("order_id", order.ID), zap.Error(err))
	}
	return order
}
