package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// RedisStore keeps records as plain string values under a common key prefix
type RedisStore struct {
	client *redis.Client
	prefix string
	cb     *gobreaker.CircuitBreaker
}

// NewRedisStore parses url, connects and pings the server
func NewRedisStore(ctx context.Context, url, prefix string, settings BreakerSettings) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.MaxRetries = 3

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		cb:     newBreaker("redis", settings),
	}, nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		b, err := s.client.Get(ctx, s.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrKeyNotFound
		}
		return b, err
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, s.key(key), value, 0).Err()
	})
	return err
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ ports.KeyValueStore = (*RedisStore)(nil)
