package ports

import (
	"context"
	"time"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
)

// RateLimitDecision is the outcome of a per-IP rate-limit check.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter enforces a rolling per-(IP, endpoint) request budget.
type RateLimiter interface {
	Allow(ctx context.Context, ip, endpoint string) (RateLimitDecision, error)
}

// CachedNews is the most recent news snapshot held in the cache.
type CachedNews struct {
	Items     []domain.NewsItem
	FetchedAt time.Time
}

// NewsCache stores and serves the latest fetched news batch.
type NewsCache interface {
	// Latest returns the cached snapshot, or (nil, nil) when none exists.
	Latest(ctx context.Context) (*CachedNews, error)
	Store(ctx context.Context, items []domain.NewsItem, fetchedAt time.Time) error
}

// NewsFetcher calls the AI web-search backend and returns its raw text
// output, expected to contain a JSON array of news items.
type NewsFetcher interface {
	FetchLatest(ctx context.Context) (string, error)
}

// NewsResult is what the news endpoint returns, plus the rate-limit state
// the handler surfaces as response headers.
type NewsResult struct {
	Items     []domain.NewsItem
	FetchedAt time.Time
	Cached    bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitedError is returned when the caller is over budget and no cached
// snapshot can be served instead.
type RateLimitedError struct {
	Limit   int
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return "rate limit exceeded"
}

type NewsService interface {
	Latest(ctx context.Context, ip string) (*NewsResult, error)
}
