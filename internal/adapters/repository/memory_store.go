package repository

import (
	"context"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local store, used for demos and tests
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	b := v.([]byte)
	return append([]byte(nil), b...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.cache.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

var _ ports.KeyValueStore = (*MemoryStore)(nil)
