package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/domain"
	"github.com/TemirB/springbucks-customer/internal/observability"
	"github.com/TemirB/springbucks-customer/internal/tracing"
)

//go:generate mockgen -source internal/application/handler/handler.go -destination=internal/application/handler/handler_mock_test.go -package=handler

var ErrBadMessage = errors.New("bad notification message")

// Outcome is what a single notification led to.
type Outcome string

const (
	OutcomeTaken        Outcome = "taken"
	OutcomeNotReady     Outcome = "not_ready"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeLookupFailed Outcome = "lookup_failed"
	OutcomeUpdateFailed Outcome = "update_failed"
	OutcomeBadMessage   Outcome = "bad_message"
)

type Orders interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	UpdateState(ctx context.Context, id int64, state domain.OrderState) (*domain.Order, error)
}

type Waiting interface {
	Remove(id int64) bool
}

type Journal interface {
	RecordPickup(ctx context.Context, id int64, observed domain.OrderState, outcome string, taken bool) error
}

type Handler struct {
	orders  Orders
	waiting Waiting
	journal Journal
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewHandler(orders Orders, waiting Waiting, journal Journal, logger *zap.Logger, metrics observability.Metrics) *Handler {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Handler{
		orders:  orders,
		waiting: waiting,
		journal: journal,
		logger:  logger,
		metrics: metrics,
	}
}

// Handle is called by the consumer for every message on the notification
// topic. It never returns an error: a notification that cannot be acted on is
// logged and the offset is committed anyway.
func (h *Handler) Handle(ctx context.Context, message kafkago.Message) error {
	start := time.Now()
	ctx, span := tracing.StartConsumer(ctx, "notification.handle", message)
	defer span.End()

	id, err := ParseOrderID(message.Value)
	if err != nil {
		h.logger.Error("dropping notification",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
			zap.Int("value_bytes", len(message.Value)),
		)
		span.RecordError(err)
		h.metrics.ObserveNotification(string(OutcomeBadMessage), msSince(start))
		return nil
	}
	span.SetAttributes(attribute.Int64("order.id", id))

	outcome := h.NotifyOrder(ctx, id)
	span.SetAttributes(attribute.String("notification.outcome", string(outcome)))
	h.metrics.ObserveNotification(string(outcome), msSince(start))
	return nil
}

// NotifyOrder takes the order if, and only if, the order service reports it
// BREWED. Nothing is retried.
func (h *Handler) NotifyOrder(ctx context.Context, id int64) Outcome {
	logger := h.logger.With(zap.Int64("order_id", id))

	order, err := h.orders.GetOrder(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Warn("order is NOT READY: no such order, why notify me?")
		h.record(ctx, id, "", OutcomeNotFound)
		return OutcomeNotFound
	case err != nil:
		logger.Error("order lookup failed, dropping notification", zap.Error(err))
		h.record(ctx, id, "", OutcomeLookupFailed)
		return OutcomeLookupFailed
	}

	if order.State != domain.StateBrewed {
		logger.Warn("order is NOT READY, why notify me?",
			zap.String("state", string(order.State)),
			zap.Bool("can_take", domain.CanTransition(order.State, domain.StateTaken)),
		)
		h.record(ctx, id, order.State, OutcomeNotReady)
		return OutcomeNotReady
	}

	logger.Info("order is READY, taking it")
	if _, err := h.orders.UpdateState(ctx, id, domain.StateTaken); err != nil {
		logger.Error("taking order failed", zap.Error(err))
		h.record(ctx, id, order.State, OutcomeUpdateFailed)
		return OutcomeUpdateFailed
	}

	h.waiting.Remove(id)
	h.record(ctx, id, order.State, OutcomeTaken)
	return OutcomeTaken
}

func (h *Handler) record(ctx context.Context, id int64, observed domain.OrderState, outcome Outcome) {
	if err := h.journal.RecordPickup(ctx, id, observed, string(outcome), outcome == OutcomeTaken); err != nil {
		h.logger.Error("journal write failed", zap.Int64("order_id", id), zap.Error(err))
	}
}

// ParseOrderID reads a decimal order id, optionally JSON-quoted.
func ParseOrderID(value []byte) (int64, error) {
	v := bytes.TrimSpace(value)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = bytes.TrimSpace(v[1 : len(v)-1])
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("%w: empty value", ErrBadMessage)
	}
	id, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an order id", ErrBadMessage, value)
	}
	return id, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
