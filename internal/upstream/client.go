package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/config"
	"github.com/TemirB/springbucks-customer/internal/domain"
	"github.com/TemirB/springbucks-customer/internal/observability"
	"github.com/TemirB/springbucks-customer/internal/pkg/retry"
	"github.com/TemirB/springbucks-customer/internal/tracing"
)

const (
	opListItems   = "list_items"
	opCreateOrder = "create_order"
	opGetOrder    = "get_order"
	opUpdateState = "update_state"

	maxBodyBytes = 1 << 20
)

// StatusError is a non-2xx answer from the waiter service.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: unexpected status %d", e.Op, e.StatusCode)
}

// Client talks to the waiter service: the coffee catalog and the order API.
// Reads are retried, writes are sent once.
type Client struct {
	baseURL string
	http    *http.Client
	retry   config.Retry
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(cfg config.Upstream, retryPolicy config.Retry, logger *zap.Logger, metrics observability.Metrics) *Client {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.WaiterURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tracing.NewTransport(http.DefaultTransport),
		},
		retry:   retryPolicy,
		logger:  logger,
		metrics: metrics,
	}
}

// ListItems returns the full coffee catalog.
func (c *Client) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	err := retry.Do(ctx, c.retry, func() error {
		items = nil
		return c.do(ctx, opListItems, http.MethodGet, "/coffee/", nil, &items)
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.NewOrderRequest) (*domain.Order, error) {
	var order *domain.Order
	if err := c.do(ctx, opCreateOrder, http.MethodPost, "/order/", req, &order); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("upstream %s: empty response", opCreateOrder)
	}
	return order, nil
}

// GetOrder returns domain.ErrNotFound when the waiter has no such order.
func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order *domain.Order
	err := retry.Do(ctx, c.retry, func() error {
		order = nil
		return c.do(ctx, opGetOrder, http.MethodGet, orderPath(id), nil, &order)
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return order, nil
}

func (c *Client) UpdateState(ctx context.Context, id int64, state domain.OrderState) (*domain.Order, error) {
	var order *domain.Order
	if err := c.do(ctx, opUpdateState, http.MethodPut, orderPath(id), domain.OrderStateRequest{State: state}, &order); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return order, nil
}

func orderPath(id int64) string {
	return "/order/" + strconv.FormatInt(id, 10)
}

// do performs one request and decodes a JSON body into out. An empty body
// leaves out untouched. 4xx answers are not retried.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return retry.Permanent(fmt.Errorf("upstream %s: encode request: %w", op, err))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return retry.Permanent(fmt.Errorf("upstream %s: build request: %w", op, err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(op, 0, msSince(start))
		if ctx.Err() != nil {
			return retry.Permanent(ctx.Err())
		}
		return fmt.Errorf("upstream %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveUpstream(op, resp.StatusCode, msSince(start))
	if err != nil {
		return fmt.Errorf("upstream %s: read body: %w", op, err)
	}

	c.logger.Debug("upstream call",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return retry.Permanent(fmt.Errorf("upstream %s %s: %w", op, path, domain.ErrNotFound))
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return retry.Permanent(&StatusError{Op: op, StatusCode: resp.StatusCode})
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return retry.Permanent(fmt.Errorf("upstream %s: decode response: %w", op, err))
	}
	return nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
