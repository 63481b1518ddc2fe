package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Expired keys are evicted lazily on
// access and swept every sweepEvery writes.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]memoryEntry
	now    func() time.Time
	writes int
}

const sweepEvery = 256

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.live(key, now)
	var count int64
	if ok {
		count, _ = strconv.ParseInt(entry.value, 10, 64)
	} else {
		entry = memoryEntry{expiresAt: now.Add(ttl)}
	}
	count++
	entry.value = strconv.FormatInt(count, 10)
	s.data[key] = entry
	s.afterWrite(now)

	return count, entry.expiresAt.Sub(now), nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.data[key] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
	s.afterWrite(now)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(key, s.now())
	if !ok {
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Len reports the number of stored keys, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// live returns the entry for key, deleting it if it has expired.
func (s *MemoryStore) live(key string, now time.Time) (memoryEntry, bool) {
	entry, ok := s.data[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !now.Before(entry.expiresAt) {
		delete(s.data, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryStore) afterWrite(now time.Time) {
	s.writes++
	if s.writes%sweepEvery != 0 {
		return
	}
	for k, e := range s.data {
		if !now.Before(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
