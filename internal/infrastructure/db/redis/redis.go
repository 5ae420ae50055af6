package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config holds the connection settings for the Redis instance shared by the
// news rate limiter and the news snapshot cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds dialing, reads, and writes; zero means the default.
	// The limiter fails open on errors, so a short bound keeps a slow
	// Redis from stalling news requests.
	Timeout time.Duration
}

// Connect builds the shared client and pings it so a bad address fails at
// startup instead of on the first rate-limit check.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
