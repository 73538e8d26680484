package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password})
}

// RateLimiter is a fixed-window counter shared across instances. It bounds
// attempts against auth-sensitive routes; it is backpressure, not a
// correctness mechanism, so a broken counter fails open.
type RateLimiter struct {
	client *redis.Client
	window time.Duration
}

func NewRateLimiter(client *redis.Client, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, window: window}
}

// Allow counts one attempt under key and reports whether the caller is still
// within limit for the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int64) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	pipe := l.client.Pipeline()
	count := pipe.Incr(ctx, "ratelimit:"+key)
	pipe.Expire(ctx, "ratelimit:"+key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return count.Val() <= limit, nil
}
