package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/config"
	"github.com/TemirB/springbucks-customer/internal/pkg/pool"
)

//go:generate mockgen -source internal/kafka/consumer.go -destination=internal/kafka/consumer_mock_test.go -package=kafka

type MessageHandler interface {
	Handle(ctx context.Context, msg kafkago.Message) error
}

type Reader interface {
	Config() kafkago.ReaderConfig
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// NewReader builds a group reader for the notification topic.
func NewReader(cfg config.Kafka) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.Group,
		StartOffset: kafkago.LastOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
		MaxWait:     500 * time.Millisecond,
	})
}

type Consumer struct {
	handler MessageHandler
	reader  Reader
	zlogger *zap.Logger
	workers int

	backoff time.Duration
}

type partitionKey struct {
	topic     string
	partition int
}

type jobItem struct {
	msg    kafkago.Message
	result chan error
}

func NewConsumer(handler MessageHandler, reader Reader, workers int, logger *zap.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		handler: handler,
		reader:  reader,
		zlogger: logger,
		workers: workers,
		backoff: 500 * time.Millisecond,
	}
}

// Start consumes until ctx is done. Up to c.workers messages are handled at
// once, but offsets are committed strictly in fetch order so a crash never
// skips an unhandled message. Once a message fails, nothing later on its
// partition is committed, and the group resumes from it after a restart.
func (c *Consumer) Start(ctx context.Context) {
	rc := c.reader.Config()
	c.zlogger.Info("Starting Kafka consumer",
		zap.Strings("brokers", rc.Brokers),
		zap.String("group", rc.GroupID),
		zap.String("topic", rc.Topic),
		zap.Int("workers", c.workers),
	)

	workers := pool.New(c.workers)
	pending := make(chan jobItem, c.workers)
	committed := make(chan struct{})
	go func() {
		defer close(committed)
		c.commitInOrder(ctx, pending)
	}()

	defer func() {
		close(pending)
		<-committed
		workers.Close()
		workers.Wait()
		c.zlogger.Info("Kafka consumer stopped")
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if isBenignFetchTimeout(err) {
				c.zlogger.Debug("fetch timeout (idle), backing off", zap.Error(err))
			} else {
				// rebalancing and coordinator changes show up here; wait and retry
				c.zlogger.Warn("FetchMessage error, backing off", zap.Error(err))
			}
			sleepWithContext(ctx, c.backoff)
			continue
		}

		it := jobItem{msg: msg, result: make(chan error, 1)}
		// pending is bounded by the worker count, which caps in-flight messages
		select {
		case pending <- it:
		case <-ctx.Done():
			return
		}
		if err := workers.Submit(ctx, func() { it.result <- c.handle(ctx, it.msg) }); err != nil {
			it.result <- err
			return
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) error {
	start := time.Now()
	err := c.handler.Handle(ctx, msg)
	elapsed := time.Since(start)

	if err != nil {
		c.zlogger.Error("message handling failed",
			zap.Error(err),
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Duration("elapsed", elapsed),
		)
		return err
	}
	c.zlogger.Debug("message handled",
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
		zap.Int("value_bytes", len(msg.Value)),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}

func (c *Consumer) commitInOrder(ctx context.Context, pending <-chan jobItem) {
	held := make(map[partitionKey]int64)
	for it := range pending {
		var procErr error
		select {
		case procErr = <-it.result:
		case <-ctx.Done():
			return
		}
		msg := it.msg
		key := partitionKey{topic: msg.Topic, partition: msg.Partition}

		if procErr != nil {
			if _, ok := held[key]; !ok {
				held[key] = msg.Offset
			}
			c.zlogger.Error("handler failed; partition commits held", zap.Error(procErr),
				zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
			continue
		}
		if failed, ok := held[key]; ok {
			c.zlogger.Debug("not committing past failed message",
				zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset), zap.Int64("failed_offset", failed))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.zlogger.Warn(
				"commit failed",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			continue
		}
		c.zlogger.Debug("message committed",
			zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func isBenignFetchTimeout(err error) bool {
	s := err.Error()
	return strings.Contains(s, "Request Timed Out") ||
		strings.Contains(s, "no messages received from kafka within the allocated time")
}
