package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

// MockSessionStore implements ports.SessionStore in memory.
type MockSessionStore struct {
	mu        sync.RWMutex
	societies map[string]string

	GetError   error
	SetError   error
	ClearError error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{societies: make(map[string]string)}
}

func (m *MockSessionStore) SelectedSociety(ctx context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return "", m.GetError
	}
	return m.societies[userID], nil
}

func (m *MockSessionStore) SelectSociety(ctx context.Context, userID, societyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetError != nil {
		return m.SetError
	}
	m.societies[userID] = societyID
	return nil
}

func (m *MockSessionStore) ClearSociety(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearError != nil {
		return m.ClearError
	}
	delete(m.societies, userID)
	return nil
}
