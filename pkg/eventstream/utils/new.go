// Package eventstreamutils provides a provider-agnostic constructor for
// eventstream publishers.
package eventstreamutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veridocai/veridoc/pkg/eventstream"
	"github.com/veridocai/veridoc/pkg/eventstream/kafka"
	"github.com/veridocai/veridoc/pkg/eventstream/nop"
)

// NewPublisherOpts holds configuration for creating a Publisher.
type NewPublisherOpts struct {
	// ProviderType is one of "kafka" or "nop".
	ProviderType string

	// Brokers is the Kafka bootstrap broker list.
	Brokers []string

	// Topic is the Kafka topic for ingestion events.
	Topic string

	Logger *zap.Logger
}

// NewPublisher creates a Publisher for the given provider type. An empty
// provider type yields the no-op publisher.
func NewPublisher(opts NewPublisherOpts) (eventstream.Publisher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.ProviderType {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: opts.Brokers,
			Topic:   opts.Topic,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown eventstream provider type: %s", opts.ProviderType)
	}
}
