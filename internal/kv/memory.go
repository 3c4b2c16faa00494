package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store used for tests and for running without
// a Redis backend. Contents do not survive a restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

var _ Store = (*Memory)(nil)
