package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/domain"
	"github.com/TemirB/springbucks-customer/internal/observability"
	"github.com/TemirB/springbucks-customer/internal/tracing"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

type Service interface {
	ReadMenu(ctx context.Context) ([]domain.MenuItem, error)
	PlaceOrder(ctx context.Context, customer string) *domain.Order
}

type Waiting interface {
	Orders() []domain.Order
}

type Server struct {
	service  Service
	waiting  Waiting
	customer string
	router   chi.Router
	logger   *zap.Logger
	metrics  observability.Metrics
}

func New(service Service, waiting Waiting, customer string, logger *zap.Logger, metrics observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	s := &Server{
		service:  service,
		waiting:  waiting,
		customer: customer,
		logger:   logger,
		metrics:  metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(ServerTimingApp(s.metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/customer", func(r chi.Router) {
		r.Get("/menu", s.readMenu)
		r.Post("/order", s.placeOrder)
		r.Get("/orders/waiting", s.waitingOrders)
	})
	s.router = r
}

func (s *Server) readMenu(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	items, err := s.service.ReadMenu(r.Context())
	waiterMs := msSince(start)
	observability.AppendServerTiming(w, "waiter", waiterMs, "menu")
	observability.SetIfPos(w, "X-Waiter-Time", waiterMs)
	if err != nil {
		s.logger.Error("reading menu failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		http.Error(w, "menu unavailable", status)
		return
	}
	writeJSON(w, items)
}

// placeOrder answers 200 with the paid order, or with a JSON null when the
// order could not be placed.
func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	order := s.service.PlaceOrder(r.Context(), s.customer)
	waiterMs := msSince(start)
	observability.AppendServerTiming(w, "waiter", waiterMs, "order")
	observability.SetIfPos(w, "X-Waiter-Time", waiterMs)
	writeJSON(w, order)
}

func (s *Server) waitingOrders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.waiting.Orders())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           tracing.WrapHandler(s.router, "customer-http"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler { return s.router }
