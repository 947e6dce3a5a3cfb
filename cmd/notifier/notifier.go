package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/tracing"
)

const maxIDsPerRequest = 1000

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Notifier publishes "order is ready" notifications: one message per order id,
// keyed and valued by the decimal id.
type Notifier struct {
	writer    messageWriter
	logger    *zap.Logger
	totalSent atomic.Int64
	failed    atomic.Int64
	lastID    atomic.Int64
	startedAt time.Time
}

type NotifyRequest struct {
	IDs []int64 `json:"ids"`
}

type NotifyStats struct {
	TotalSent int64   `json:"total_sent"`
	Failed    int64   `json:"failed"`
	LastID    int64   `json:"last_id"`
	Uptime    string  `json:"uptime"`
	Rate      float64 `json:"rate"`
}

func NewNotifier(writer messageWriter, logger *zap.Logger) *Notifier {
	return &Notifier{
		writer:    writer,
		logger:    logger,
		startedAt: time.Now(),
	}
}

func (n *Notifier) Notify(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, span := tracing.Start(ctx, "notifier.publish")
	defer span.End()

	headers := tracing.KafkaHeaders(ctx)
	msgs := make([]kafkago.Message, 0, len(ids))
	for _, id := range ids {
		v := []byte(strconv.FormatInt(id, 10))
		msgs = append(msgs, kafkago.Message{
			Key:     v,
			Value:   v,
			Headers: headers,
			Time:    time.Now(),
		})
	}

	if err := n.writer.WriteMessages(ctx, msgs...); err != nil {
		n.failed.Add(int64(len(msgs)))
		span.RecordError(err)
		return err
	}
	n.totalSent.Add(int64(len(msgs)))
	n.lastID.Store(ids[len(ids)-1])
	n.logger.Info("notifications sent", zap.Int64s("ids", ids))
	return nil
}

func (n *Notifier) Stats() NotifyStats {
	uptime := time.Since(n.startedAt)
	sent := n.totalSent.Load()

	var rate float64
	if secs := uptime.Seconds(); secs > 0 {
		rate = float64(sent) / secs
	}
	return NotifyStats{
		TotalSent: sent,
		Failed:    n.failed.Load(),
		LastID:    n.lastID.Load(),
		Uptime:    uptime.Round(time.Second).String(),
		Rate:      rate,
	}
}

func (n *Notifier) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/notify", func(w http.ResponseWriter, r *http.Request) {
		var req NotifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := validateIDs(req.IDs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := n.Notify(r.Context(), req.IDs); err != nil {
			n.logger.Error("Error sending notifications to Kafka", zap.Error(err))
			http.Error(w, "publish failed", http.StatusBadGateway)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"status": "sent",
			"count":  len(req.IDs),
		})
	})

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, n.Stats())
	})
	return r
}

func validateIDs(ids []int64) error {
	if len(ids) == 0 {
		return errors.New("ids must not be empty")
	}
	if len(ids) > maxIDsPerRequest {
		return errors.New("too many ids")
	}
	for _, id := range ids {
		if id <= 0 {
			return errors.New("ids must be positive")
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
