package testutils

import (
	"context"
	"sync"

	"github.com/crewmatchco/crewmatch/pkg/eventstream"
)

// MockPublisher records published events for assertions.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.BatchCompletedEvent

	// Err, when set, is returned from every publish call.
	Err error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishBatchCompleted(_ context.Context, event *eventstream.BatchCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// Events returns the events published so far.
func (m *MockPublisher) Events() []*eventstream.BatchCompletedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*eventstream.BatchCompletedEvent, len(m.events))
	copy(out, m.events)
	return out
}
