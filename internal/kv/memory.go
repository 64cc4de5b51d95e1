package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store for tests and ephemeral runs.
type Memory struct {
	mu    sync.Mutex
	slots map[string]envelope
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string]envelope)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	env, ok := m.slots[key]
	if !ok {
		return nil, 0, nil
	}
	data := make([]byte, len(env.Data))
	copy(data, env.Data)
	return data, env.Version, nil
}

func (m *Memory) Put(_ context.Context, key string, data []byte, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.slots[key]
	if cur.Version != version {
		return ErrVersionMismatch
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.slots[key] = envelope{Version: version + 1, Data: stored}
	return nil
}
