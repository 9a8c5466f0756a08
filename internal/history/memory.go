package history

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the list in process memory. Used when no history file is configured
// and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	entries []Entry
	saves   int
}

// NewMemoryStore seeds the store with typed queries.
func NewMemoryStore(queries ...string) *MemoryStore {
	m := &MemoryStore{}
	for _, q := range queries {
		m.entries = append(m.entries, Entry{Query: q})
	}
	return m
}

func (m *MemoryStore) Load(context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries), nil
}

func (m *MemoryStore) Save(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = slices.Clone(entries)
	m.saves++
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// Saves reports how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
