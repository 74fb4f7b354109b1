package memcache

import (
	"context"
	"sync"
	"time"
)

// IdempotencyStore remembers the response recorded for a client supplied
// idempotency key so a retried charge is answered without calling the gateway
// again.
type IdempotencyStore interface {
	// Get returns the stored value for key. ok is false when the key is
	// missing or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Driver names the backend for metrics ("memory" | "redis").
	Driver() string
}

type entry struct {
	value     string
	expiresAt time.Time
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *MemoryStore) Driver() string { return "memory" }

func (s *MemoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.data[key] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.now().After(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

// sweep drops expired entries. Caller holds the write lock.
func (s *MemoryStore) sweep() {
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
