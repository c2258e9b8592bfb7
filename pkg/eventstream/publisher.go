// Package eventstream publishes matching lifecycle events to an event
// stream backend. Publishing is best effort: a failed publish is logged by
// the caller, never escalated into a batch failure.
package eventstream

import "context"

// Publisher publishes batch events to an event stream backend.
type Publisher interface {
	PublishBatchCompleted(ctx context.Context, event *BatchCompletedEvent) error
	Close() error
}
