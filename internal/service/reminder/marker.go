package reminder

import (
	"context"
	"sync"
	"time"
)

// MemoryMarker is a process-local Marker used when no redis is configured.
type MemoryMarker struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

// NewMemoryMarker returns an empty MemoryMarker.
func NewMemoryMarker() *MemoryMarker {
	return &MemoryMarker{keys: make(map[string]time.Time), now: time.Now}
}

// Mark stores key until ttl elapses. It reports false when key is
// already held. Expired keys are dropped on each call.
func (m *MemoryMarker) Mark(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.keys {
		if !now.Before(exp) {
			delete(m.keys, k)
		}
	}
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = now.Add(ttl)
	return true, nil
}

// Unmark releases key so the next Mark for it succeeds.
func (m *MemoryMarker) Unmark(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.keys, key)
	m.mu.Unlock()
	return nil
}
