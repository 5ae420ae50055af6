package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

const (
	newsCacheKey = "news:latest"
	newsCacheTTL = 7 * 24 * time.Hour
)

// NewsCache keeps the most recent news batch in Redis so throttled callers
// can still be served.
type NewsCache struct {
	client *redis.Client
}

func NewNewsCache(client *redis.Client) *NewsCache {
	return &NewsCache{client: client}
}

type cachedSnapshot struct {
	NewsData  []domain.NewsItem `json:"news_data"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Latest returns the cached snapshot, or (nil, nil) when none exists.
func (c *NewsCache) Latest(ctx context.Context) (*ports.CachedNews, error) {
	raw, err := c.client.Get(ctx, newsCacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("news cache get: %w", err)
	}

	var snap cachedSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("news cache decode: %w", err)
	}
	return &ports.CachedNews{Items: snap.NewsData, FetchedAt: snap.FetchedAt}, nil
}

// Store replaces the snapshot with a fresh batch.
func (c *NewsCache) Store(ctx context.Context, items []domain.NewsItem, fetchedAt time.Time) error {
	raw, err := json.Marshal(cachedSnapshot{NewsData: items, FetchedAt: fetchedAt})
	if err != nil {
		return fmt.Errorf("news cache encode: %w", err)
	}
	if err := c.client.Set(ctx, newsCacheKey, raw, newsCacheTTL).Err(); err != nil {
		return fmt.Errorf("news cache set: %w", err)
	}
	return nil
}
