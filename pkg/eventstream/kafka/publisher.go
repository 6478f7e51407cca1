// Package kafka publishes ingestion events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/eventstream"
)

// DefaultTopic is the topic ingestion events are written to.
const DefaultTopic = "veridoc.ingestion"

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses. Required.
	Brokers []string

	// Topic defaults to DefaultTopic.
	Topic string

	// WriteTimeout bounds each publish. Defaults to 10s.
	WriteTimeout time.Duration
}

// Publisher writes ingestion events to Kafka. Messages are keyed by
// partition id so every event for one document lands on the same Kafka
// partition, preserving per-document ordering.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher creates a Kafka-backed eventstream publisher.
func NewPublisher(c Config, logger *zap.Logger) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}

	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writeTimeout := c.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}

	logger.Info("kafka eventstream publisher initialized",
		zap.Strings("brokers", c.Brokers),
		zap.String("topic", topic),
	)

	return &Publisher{
		writer: writer,
		logger: logger,
	}, nil
}

// PublishIngested writes the event as a JSON message keyed by partition.
func (p *Publisher) PublishIngested(ctx context.Context, event *eventstream.DocumentIngestedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event %s: %w", event.EventID, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Partition),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("writing event %s: %w", event.EventID, err)
	}

	p.logger.Debug("published ingestion event",
		zap.String("event_id", event.EventID),
		zap.String("partition", event.Partition),
	)

	return nil
}

// Close flushes pending messages and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
