package ratelimiter

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     int
	expiresAt time.Time
}

// memoryStore backs the limiter when no shared cache is configured. Entries
// for idle sources expire with the configured TTL and are swept out once a
// minute so abandoned clients don't accumulate.
type memoryStore struct {
	entries   map[string]memoryEntry
	mu        sync.RWMutex
	stopSweep chan struct{}
	sweepOnce sync.Once
}

func NewInMemory() GetterSetter {
	s := &memoryStore{
		entries:   make(map[string]memoryEntry),
		stopSweep: make(chan struct{}),
	}

	go s.sweep()

	return s
}

func (s *memoryStore) Get(key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, ErrCacheMiss
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return 0, ErrCacheMiss
	}

	return entry.value, nil
}

func (s *memoryStore) Set(key string, value int) error {
	return s.SetWithExpiration(key, value, 0)
}

func (s *memoryStore) SetWithExpiration(key string, value int, expiration time.Duration) error {
	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) sweep() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *memoryStore) removeExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func (s *memoryStore) Close() error {
	s.sweepOnce.Do(func() {
		close(s.stopSweep)
	})
	return nil
}
