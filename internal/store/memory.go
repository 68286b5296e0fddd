package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rpgo/payoff-planner/internal/domain"
)

// MemoryStore keeps encoded snapshots in process memory
type MemoryStore struct {
	opts Options

	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{
		opts: opts.withDefaults(),
		data: make(map[string][]byte),
	}
}

// Save stores an encoded snapshot of params and returns its ID
func (m *MemoryStore) Save(_ context.Context, name string, params domain.ScenarioParams) (string, error) {
	snap, err := newSnapshot(m.opts, name, params)
	if err != nil {
		return "", err
	}
	data, err := encodeJSON(snap)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[snap.ID] = data
	return snap.ID, nil
}

// Load decodes a fresh copy of the stored snapshot
func (m *MemoryStore) Load(_ context.Context, id string) (domain.Scenario, error) {
	m.mu.RLock()
	data, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return domain.Scenario{}, ErrNotFound
	}
	return decodeJSON(id, data)
}

// List returns the stored IDs in sorted order
func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes a snapshot; deleting a missing ID returns ErrNotFound
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return ErrNotFound
	}
	delete(m.data, id)
	return nil
}

// put writes raw bytes under an ID; tests use it to plant corrupted snapshots
func (m *MemoryStore) put(id string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = data
}
