package stash

import (
	"context"
	"time"

	"github.com/smallbiznis/pixomat/internal/cache"
)

type memoryStore struct {
	entries cache.Cache[string, []byte]
	ttl     time.Duration
}

// NewMemory returns a process-local Store. Suitable for single-instance
// deployments and tests; multi-instance deployments need the redis Store
// so phase 2 can land on a different replica.
func NewMemory(ttl time.Duration) Store {
	return &memoryStore{
		entries: cache.NewTTLCache[string, []byte](),
		ttl:     ttl,
	}
}

func (s *memoryStore) Put(_ context.Context, key string, data []byte) error {
	s.entries.Set(key, data, s.ttl)
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := s.entries.Get(key)
	return data, ok, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}
