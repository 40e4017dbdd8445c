package cache

import (
	"context"
	"time"

	"github.com/kbukum/lecturekit/redis"
)

// RedisStore keeps entries in Redis using SET key value EX ttl.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.client.Get(ctx, key)
}

func (s *RedisStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, payload, ttl)
}

func (s *RedisStore) Available(ctx context.Context) bool {
	return s.client.Ping(ctx) == nil
}
