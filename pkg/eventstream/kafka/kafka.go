// Package kafka publishes batch events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/crewmatchco/crewmatch/pkg/eventstream"
)

// DefaultTopic is the topic batch events are published to.
const DefaultTopic = "crewmatch.batches"

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic overrides DefaultTopic when set.
	Topic string
}

// Publisher writes batch events to Kafka, keyed by event ID.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a Kafka-backed event publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}

	return &Publisher{writer: writer}, nil
}

// PublishBatchCompleted publishes the event, filling in the envelope
// fields when the caller left them empty.
func (p *Publisher) PublishBatchCompleted(ctx context.Context, event *eventstream.BatchCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	if event.SchemaVersion == 0 {
		event.SchemaVersion = eventstream.SchemaVersionV1
	}
	if event.EventType == "" {
		event.EventType = eventstream.EventTypeBatchCompleted
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.EventID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Ensure Publisher implements the contract
var _ eventstream.Publisher = (*Publisher)(nil)
