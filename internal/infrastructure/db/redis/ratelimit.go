package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// RateLimiter enforces a fixed-window per-(IP, endpoint) request budget.
// Key format: ratelimit:<endpoint>:<ip>. The window starts on the first
// request and the key expires at window end.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 50
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow counts the request and reports whether the caller is within budget.
func (l *RateLimiter) Allow(ctx context.Context, ip, endpoint string) (ports.RateLimitDecision, error) {
	key := l.key(ip, endpoint)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return ports.RateLimitDecision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return ports.RateLimitDecision{}, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return ports.RateLimitDecision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

func (l *RateLimiter) key(ip, endpoint string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, ip)
}
