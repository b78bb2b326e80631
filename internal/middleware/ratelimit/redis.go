package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares one fixed window across instances with INCR+EXPIRE.
// Keys carry the window TTL, so idle clients age out on the Redis side.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisStore(rdb *redis.Client, limit int, window time.Duration, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "ratelimit:contact",
		limit:  limit,
		window: window,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	k := s.prefix + ":" + key

	n, err := s.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// First hit opens the window.
		if err := s.rdb.Expire(ctx, k, s.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(s.limit), nil
}
