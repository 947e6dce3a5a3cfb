package tracing

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type headerCarrier []kafkago.Header

func (c *headerCarrier) Get(key string) string {
	for _, h := range *c {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i, h := range *c {
		if h.Key == key {
			(*c)[i].Value = []byte(value)
			return
		}
	}
	*c = append(*c, kafkago.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, h.Key)
	}
	return keys
}

// KafkaHeaders renders the trace context of ctx as message headers.
func KafkaHeaders(ctx context.Context) []kafkago.Header {
	c := headerCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, &c)
	return []kafkago.Header(c)
}

// KafkaLinks returns a link to the producer span found in headers, or nil.
// Notifications are asynchronous so the consumer span links to the producer
// instead of becoming its child.
func KafkaLinks(ctx context.Context, headers []kafkago.Header) []trace.Link {
	c := headerCarrier(headers)
	parent := trace.SpanContextFromContext(otel.GetTextMapPropagator().Extract(ctx, &c))
	if !parent.IsValid() {
		return nil
	}
	return []trace.Link{{
		SpanContext: parent,
		Attributes: []attribute.KeyValue{
			attribute.String("link.type", "async"),
			attribute.String("link.protocol", "kafka"),
			attribute.String("link.role", "consumer"),
		},
	}}
}

// StartConsumer opens a consumer span for msg linked to its producer.
func StartConsumer(ctx context.Context, name string, msg kafkago.Message) (context.Context, trace.Span) {
	return Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithLinks(KafkaLinks(ctx, msg.Headers)...),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
}
