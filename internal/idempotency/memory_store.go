package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when Redis is not configured.
// Deduplication then only holds within a single bot instance.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryEntry
	locks   map[string]time.Time
}

func NewMemoryStore() Store {
	return &MemoryStore{
		records: make(map[string]memoryEntry),
		locks:   make(map[string]time.Time),
	}
}

func (s *MemoryStore) Lock(_ context.Context, key string, lockTTL time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deadline, ok := s.locks[key]; ok && time.Now().Before(deadline) {
		return false, nil
	}

	s.locks[key] = time.Now().Add(lockTTL)
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.records[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}

	record := entry.record
	return &record, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, record *Record, ttl time.Duration) error {
	if record == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = memoryEntry{
		record:    *record,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) ReleaseLock(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)
	return nil
}

// Sweep drops expired records and locks.
func (s *MemoryStore) Sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.records {
		if now.After(entry.expiresAt) {
			delete(s.records, key)
		}
	}
	for key, deadline := range s.locks {
		if now.After(deadline) {
			delete(s.locks, key)
		}
	}
}
