// Package eventbus publishes cache-build notifications (interpolator
// built, min/max widened) onto an optional Kafka topic, grounded in
// the teacher's pkg/event/kafka_producer.go: an async, Snappy-compressed
// segmentio/kafka-go writer with an error logger standing in for a
// dead-letter sink.
package eventbus

import (
	"context"
	"log"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

// EventType names what happened to a cache entry.
type EventType string

const (
	EventInterpolatorBuilt EventType = "INTERPOLATOR_BUILT"
	EventMinMaxWidened     EventType = "MINMAX_WIDENED"
)

// CacheEvent is published whenever the Orchestrator finishes building
// or widening a cached artifact, so downstream consumers (prewarming,
// monitoring) can react without polling the cache.
type CacheEvent struct {
	Type      EventType
	Model     string
	Key       string
	Timestamp time.Time
}

// Bus publishes CacheEvents. A nil Bus is a valid no-op — Kafka
// brokers are optional (spec.md's ambient stack treats eventing as
// best-effort, never load-bearing for correctness).
type Bus interface {
	Publish(ctx context.Context, event CacheEvent) error
	Close() error
}

// KafkaBus implements Bus with segmentio/kafka-go.
type KafkaBus struct {
	writer *kafka.Writer
}

// NewKafkaBus builds a KafkaBus writing to topic across brokers, with
// async, batched, Snappy-compressed writes and a logging error sink.
func NewKafkaBus(brokers []string, topic string) *KafkaBus {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Compression:  kafka.Snappy,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Printf("[eventbus] "+msg, args...)
		}),
	}
	return &KafkaBus{writer: w}
}

// Publish sends event asynchronously; because the writer is async,
// this returns once the message is buffered, not once it's acked.
func (kb *KafkaBus) Publish(ctx context.Context, event CacheEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.Model),
		Value: []byte(string(event.Type) + ":" + event.Key),
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	return kb.writer.WriteMessages(ctx, msg)
}

// Close flushes and closes the underlying writer.
func (kb *KafkaBus) Close() error {
	return kb.writer.Close()
}

// NoopBus discards every event; used when no Kafka brokers are
// configured.
type NoopBus struct{}

func (NoopBus) Publish(context.Context, CacheEvent) error { return nil }
func (NoopBus) Close() error                              { return nil }
