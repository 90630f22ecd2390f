package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

// MockChangeRecorder implements ports.ChangeRecorder in memory.
type MockChangeRecorder struct {
	mu     sync.Mutex
	events []ports.EntityChangedEvent

	RecordError error
}

var _ ports.ChangeRecorder = (*MockChangeRecorder)(nil)

func NewMockChangeRecorder() *MockChangeRecorder {
	return &MockChangeRecorder{}
}

func (m *MockChangeRecorder) RecordChange(ctx context.Context, evt ports.EntityChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordError != nil {
		return m.RecordError
	}
	m.events = append(m.events, evt)
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockChangeRecorder) Events() []ports.EntityChangedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ports.EntityChangedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockChangeEventPublisher implements ports.ChangeEventPublisher without a
// broker connection.
type MockChangeEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.EntityChangedEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.ChangeEventPublisher = (*MockChangeEventPublisher)(nil)

func NewMockChangeEventPublisher() *MockChangeEventPublisher {
	return &MockChangeEventPublisher{
		PublishedEvents: make([]ports.EntityChangedEvent, 0),
	}
}

func (m *MockChangeEventPublisher) PublishEntityChanged(ctx context.Context, evt ports.EntityChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of the published events.
func (m *MockChangeEventPublisher) GetPublishedEvents() []ports.EntityChangedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.EntityChangedEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockChangeEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}
