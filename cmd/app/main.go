package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TemirB/springbucks-customer/internal/application/handler"
	"github.com/TemirB/springbucks-customer/internal/application/service"
	"github.com/TemirB/springbucks-customer/internal/config"
	"github.com/TemirB/springbucks-customer/internal/httpapi"
	"github.com/TemirB/springbucks-customer/internal/journal"
	"github.com/TemirB/springbucks-customer/internal/kafka"
	"github.com/TemirB/springbucks-customer/internal/observability"
	"github.com/TemirB/springbucks-customer/internal/resilience"
	"github.com/TemirB/springbucks-customer/internal/tracing"
	"github.com/TemirB/springbucks-customer/internal/upstream"
	"github.com/TemirB/springbucks-customer/internal/waiting"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("customer", cfg.Customer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing setup", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	// Журнал
	var jrnl journal.Journal = journal.Noop{}
	if cfg.JournalEnabled() {
		pool, err := journal.Connect(ctx, cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("journal connect", zap.Error(err))
		}
		defer pool.Close()

		repo := journal.New(pool, cfg.Tables)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("journal schema", zap.Error(err))
		}
		jrnl = repo
		logger.Info("journal enabled", zap.String("schema", cfg.Tables.Schema))
	}

	// Ожидающие заказы
	registry, err := waiting.New(cfg.WaitingCap)
	if err != nil {
		logger.Fatal("waiting registry", zap.Error(err))
	}
	if n := registry.Warm(ctx, jrnl); n > 0 {
		logger.Info("waiting registry warmed", zap.Int("orders", n))
	}

	metrics := observability.NewInmem(1024)
	waiter := upstream.New(cfg.Upstream, cfg.Retry, logger, metrics)

	policies := resilience.NewRegistry(logger, metrics, cfg.Menu, cfg.Order)
	logger.Info("resilience policies", zap.Strings("names", policies.Names()))

	svc := service.NewService(
		waiter,
		waiter,
		policies.MustGet(config.PolicyMenu),
		policies.MustGet(config.PolicyOrder),
		registry,
		jrnl,
		logger,
	)

	// Кафка
	if cfg.Kafka.EnsureTopic {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka, 1, logger); err != nil {
			logger.Fatal("ensure topic", zap.Error(err))
		}
	}
	reader := kafka.NewReader(cfg.Kafka)
	notifications := handler.NewHandler(waiter, registry, jrnl, logger, metrics)
	consumer := kafka.NewConsumer(notifications, reader, cfg.Kafka.Workers, logger)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		consumer.Start(ctx)
	}()

	// HTTP
	server := httpapi.New(svc, registry, cfg.Customer, logger, metrics)
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		logger.Error("http server", zap.Error(err))
		stop()
	}

	<-consumerDone
	if err := reader.Close(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("kafka reader close", zap.Error(err))
	}
	logger.Info("customer service stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
