package stash

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "stash:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis returns a Store backed by redis, shared across replicas.
func NewRedis(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Put(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
