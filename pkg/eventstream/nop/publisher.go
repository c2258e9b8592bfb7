// Package nop provides a no-op event publisher for deployments without an
// event stream backend.
package nop

import (
	"context"

	"github.com/crewmatchco/crewmatch/pkg/eventstream"
)

// Publisher discards all events.
type Publisher struct{}

// NewPublisher creates a no-op publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishBatchCompleted validates and discards the event.
func (p *Publisher) PublishBatchCompleted(_ context.Context, event *eventstream.BatchCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}

// Ensure Publisher implements the contract
var _ eventstream.Publisher = (*Publisher)(nil)
