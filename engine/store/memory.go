// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/solarcalor/reporting-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	datasets map[engine.Category][]engine.Record
	docs     map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		datasets: make(map[engine.Category][]engine.Record),
		docs:     make(map[string][]byte),
	}
}

// SaveDataset replaces the stored rows for a category. The slice header
// is copied so later appends by the caller cannot leak in.
func (m *Memory) SaveDataset(_ context.Context, category engine.Category, rows []engine.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]engine.Record, len(rows))
	copy(stored, rows)
	m.datasets[category] = stored
	return nil
}

func (m *Memory) LoadDataset(_ context.Context, category engine.Category) ([]engine.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.datasets[category]
	if !ok {
		return nil, nil
	}
	out := make([]engine.Record, len(rows))
	copy(out, rows)
	return out, nil
}

func (m *Memory) SaveDocument(_ context.Context, name string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(body))
	copy(stored, body)
	m.docs[name] = stored
	return nil
}

func (m *Memory) LoadDocument(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.docs[name]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (m *Memory) Close() error { return nil }
