package storage

import (
	"context"
	"sync"

	"github.com/etnz/fintrack"
)

// Memory keeps values in memory. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory { return &Memory{values: make(map[string][]byte)} }

// Get implements fintrack.KV.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, fintrack.ErrNoValue
	}
	return append([]byte(nil), v...), nil
}

// Set implements fintrack.KV.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Close implements Backend.
func (m *Memory) Close() error { return nil }
