package testutils

import (
	"context"
	"sync"

	"github.com/veridocai/veridoc/pkg/eventstream"
)

// MockPublisher records published events
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.DocumentIngestedEvent

	// Err, when set, is returned from PublishIngested
	Err error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishIngested(_ context.Context, event *eventstream.DocumentIngestedEvent) error {
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

// Events returns the recorded events.
func (m *MockPublisher) Events() []*eventstream.DocumentIngestedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.DocumentIngestedEvent(nil), m.events...)
}
