package storage

import (
	"context"
	"sync"
)

// MemorySlot хранит блобы в памяти процесса. После рестарта всё теряется.
type MemorySlot struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory создаёт пустой слот в памяти.
func NewMemory() *MemorySlot {
	return &MemorySlot{blobs: make(map[string][]byte)}
}

func (m *MemorySlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true, nil
}

func (m *MemorySlot) Set(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.blobs[key] = stored
	return nil
}

func (m *MemorySlot) Close() error { return nil }
