package cachemock

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"loan-origination/internal/domain/readmodel"
)

var _ readmodel.Cache = (*Memory)(nil)

// Memory is a JSON round-tripping map cache; ttl is ignored.
type Memory struct {
	mu      sync.Mutex
	Entries map[string][]byte
	Gets    int
	Hits    int
}

func New() *Memory { return &Memory{Entries: map[string][]byte{}} }

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	b, ok := m.Entries[key]
	if !ok {
		return false, nil
	}
	m.Hits++
	return true, json.Unmarshal(b, dst)
}

func (m *Memory) Set(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.Entries[key] = b
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.Entries, k)
	}
	return nil
}

func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Entries[key]
	return ok
}
