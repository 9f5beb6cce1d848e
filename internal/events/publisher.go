package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the minimal kafka.Writer surface the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Option configures optional behaviour for the Publisher.
type Option func(*Publisher)

// WithLogger overrides the logger used to report publish failures.
func WithLogger(logger *log.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// Publisher writes audit events to a single Kafka topic. Publishing is
// fire-and-forget from the caller's perspective: failures are logged here
// and never fail a sync cycle.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *log.Logger
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, opts ...Option) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	return newPublisher(writer, topic, opts...)
}

func newPublisher(writer messageWriter, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		writer: writer,
		topic:  topic,
		logger: log.New(log.Writer(), "[events] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RecordSubmitted publishes a submission event keyed by participant fbid.
func (p *Publisher) RecordSubmitted(ctx context.Context, event RecordSubmitted) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Printf("encode %s event for %s: %v", EventTypeRecordSubmitted, p.topic, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.FBID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeRecordSubmitted)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Printf("publish %s event to %s: %v", EventTypeRecordSubmitted, p.topic, err)
	}
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
