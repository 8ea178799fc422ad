package storage

import (
	"context"
	"sync"
)

// Slot is a single named value holding the full workout snapshot. Get
// returns nil, nil when nothing has been stored yet.
type Slot interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, payload []byte) error
	Delete(ctx context.Context) error
}

// MemorySlot keeps the snapshot in process memory.
type MemorySlot struct {
	mu      sync.Mutex
	payload []byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Get(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return nil, nil
	}
	out := make([]byte, len(m.payload))
	copy(out, m.payload)
	return out, nil
}

func (m *MemorySlot) Set(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = append([]byte(nil), payload...)
	return nil
}

func (m *MemorySlot) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = nil
	return nil
}
