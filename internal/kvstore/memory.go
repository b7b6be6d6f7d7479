package kvstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps values in process memory.
// A positive quota limits the summed length of all keys and values.
type MemoryStore struct {
	mu         sync.RWMutex
	values     map[string]string
	quotaBytes int
}

func NewMemoryStore(quotaBytes int) *MemoryStore {
	return &MemoryStore{
		values:     make(map[string]string),
		quotaBytes: quotaBytes,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quotaBytes > 0 {
		size := s.usedBytes() + len(key) + len(value)
		if previous, ok := s.values[key]; ok {
			size -= len(key) + len(previous)
		}
		if size > s.quotaBytes {
			return fmt.Errorf("set %q (%d of %d bytes) > %w", key, size, s.quotaBytes, ErrQuotaExceeded)
		}
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) usedBytes() int {
	total := 0
	for k, v := range s.values {
		total += len(k) + len(v)
	}
	return total
}
