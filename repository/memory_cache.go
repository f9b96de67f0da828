package repository

import (
	"context"
	"sync"
	"time"
)

const memorySweepInterval = time.Minute

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCache is an in-process CacheRepository used when no Redis address is
// configured. Expired entries are dropped on read and by a periodic sweep, so
// keys that are never read again do not pile up. Call Stop when done.
type MemoryCache struct {
	mu      sync.Mutex
	data    map[string]memoryEntry
	now     func() time.Time
	janitor *Janitor
}

func NewMemoryCache() *MemoryCache {
	return newMemoryCache(memorySweepInterval)
}

func newMemoryCache(sweepEvery time.Duration) *MemoryCache {
	m := &MemoryCache{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
	m.janitor = StartJanitor(sweepEvery, m.Sweep)
	return m
}

// Sweep drops every expired entry.
func (m *MemoryCache) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, entry := range m.data {
		if entry.expired(now) {
			delete(m.data, key)
		}
	}
}

// Stop ends the background sweep.
func (m *MemoryCache) Stop() {
	m.janitor.Stop()
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	if entry.expired(m.now()) {
		delete(m.data, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores the value. A zero ttl keeps it until deleted.
func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
