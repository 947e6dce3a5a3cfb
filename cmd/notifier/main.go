package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/config"
	"github.com/TemirB/springbucks-customer/internal/tracing"
)

func main() {
	_ = godotenv.Load("env/.env")

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	brokers := []string{"kafka:9092"}
	if env := os.Getenv("KAFKA_BROKERS"); env != "" {
		brokers = strings.Split(env, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
	}
	topic := "notifyOrders"
	if env := os.Getenv("KAFKA_TOPIC"); env != "" {
		topic = env
	}
	port := ":8082"
	if env := os.Getenv("NOTIFIER_PORT"); env != "" {
		port = ":" + env
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, config.Tracing{
		ServiceName: "notifier",
		Environment: os.Getenv("DEPLOY_ENV"),
		ExporterURL: os.Getenv("OTEL_EXPORTER_URL"),
		SampleRate:  1,
	})
	if err != nil {
		logger.Fatal("tracing setup", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	defer writer.Close()

	notifier := NewNotifier(writer, logger.With(zap.String("topic", topic)))

	srv := &http.Server{
		Addr:              port,
		Handler:           tracing.WrapHandler(notifier.Router(), "notifier-http"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Notifier server started",
		zap.String("addr", port),
		zap.Strings("brokers", brokers),
		zap.String("endpoints", "POST /notify, GET /stats"),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}
}
