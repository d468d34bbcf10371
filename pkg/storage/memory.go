package storage

import (
	"context"
	"sync"
)

// MemoryBacking keeps the document in process memory. Used in tests and for
// throwaway sessions.
type MemoryBacking struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryBacking creates an empty in-memory backing.
func NewMemoryBacking() *MemoryBacking {
	return &MemoryBacking{}
}

// Load returns a copy of the last saved document, or (nil, nil) when empty.
func (m *MemoryBacking) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save stores a copy of data.
func (m *MemoryBacking) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.saves++
	return nil
}

// SaveCount reports how many times Save has been called. Tests use this to
// verify the persist-on-every-mutation contract.
func (m *MemoryBacking) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close is a no-op for MemoryBacking.
func (m *MemoryBacking) Close() error {
	return nil
}
