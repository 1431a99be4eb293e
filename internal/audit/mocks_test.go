package audit

import (
	"context"
	"sync"
)

// MockEntryRepo is a mock implementation of EntryRepo for testing
type MockEntryRepo struct {
	mu      sync.RWMutex
	entries []*Entry

	CreateFunc func(ctx context.Context, entry *Entry) error
	ListFunc   func(ctx context.Context, entityType string) ([]*Entry, error)
}

func NewMockEntryRepo() *MockEntryRepo {
	return &MockEntryRepo{}
}

func (m *MockEntryRepo) Create(ctx context.Context, entry *Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepo) List(ctx context.Context, entityType string) ([]*Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, entityType)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if entityType != "" && m.entries[i].EntityType != entityType {
			continue
		}
		result = append(result, m.entries[i])
	}
	return result, nil
}
