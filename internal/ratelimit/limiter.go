// Package ratelimit throttles unauthenticated endpoints per client IP
// using fixed windows kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per purpose and IP in Redis.
type Limiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
}

func NewLimiter(client *redis.Client, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
	}
}

func getIPKey(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:ip:%s", purpose, ip)
}

// AllowIPRequestWithPurpose counts one request from ip for purpose and
// reports whether it fits in the current window. The count and the
// check are a single INCR, so concurrent callers cannot overshoot the
// maximum. The first request of a window starts its expiry.
func (l *Limiter) AllowIPRequestWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	key := getIPKey(ip, purpose)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= int64(l.maxRequests), nil
}

// Connect opens a Redis client and verifies it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
