package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/api/metrics"
	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

const newsEndpoint = "/api/quantum-news"

// backgroundRunner is the slice of the dispatcher the service needs for
// fire-and-forget cache writes.
type backgroundRunner interface {
	Submit(name string, fn func(ctx context.Context) error)
}

// NewsService serves the quantum-news feed: rate-limited live fetches from
// the AI search backend with a cached fallback for throttled callers.
type NewsService struct {
	limiter ports.RateLimiter
	cache   ports.NewsCache
	fetcher ports.NewsFetcher
	tasks   backgroundRunner
	limit   int
	window  time.Duration
	log     zerolog.Logger
}

func NewNewsService(limiter ports.RateLimiter, cache ports.NewsCache, fetcher ports.NewsFetcher, tasks backgroundRunner, limit int, window time.Duration, log zerolog.Logger) *NewsService {
	if limit <= 0 {
		limit = 50
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &NewsService{
		limiter: limiter,
		cache:   cache,
		fetcher: fetcher,
		tasks:   tasks,
		limit:   limit,
		window:  window,
		log:     log,
	}
}

// Latest returns the freshest news batch the caller's budget allows. Over
// budget, the cached snapshot is served when one exists; with no snapshot
// the caller gets a *ports.RateLimitedError. Limiter failures fail open —
// availability over strict enforcement.
func (s *NewsService) Latest(ctx context.Context, ip string) (*ports.NewsResult, error) {
	decision := ports.RateLimitDecision{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit,
		ResetAt:   time.Now().Add(s.window),
	}

	if s.limiter != nil {
		d, err := s.limiter.Allow(ctx, ip, newsEndpoint)
		if err != nil {
			s.log.Warn().Err(err).Str("ip", ip).Msg("rate limit check failed, allowing request")
			metrics.RateLimitDecisionsTotal.WithLabelValues("error").Inc()
		} else {
			decision = d
			if d.Allowed {
				metrics.RateLimitDecisionsTotal.WithLabelValues("allowed").Inc()
			} else {
				metrics.RateLimitDecisionsTotal.WithLabelValues("limited").Inc()
			}
		}
	}

	if !decision.Allowed {
		cached, err := s.cache.Latest(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("news cache read failed")
		}
		if cached != nil {
			metrics.NewsRequestsTotal.WithLabelValues("cache").Inc()
			return &ports.NewsResult{
				Items:     cached.Items,
				FetchedAt: cached.FetchedAt,
				Cached:    true,
				Limit:     decision.Limit,
				Remaining: 0,
				ResetAt:   decision.ResetAt,
			}, nil
		}
		return nil, &ports.RateLimitedError{Limit: decision.Limit, ResetAt: decision.ResetAt}
	}

	raw, err := s.fetcher.FetchLatest(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("news fetch failed")
		return nil, err
	}

	items, err := parseNewsItems(raw)
	if err != nil {
		s.log.Error().Str("content", clip(raw, 200)).Msg("failed to parse news payload")
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	s.tasks.Submit("news_cache_write", func(ctx context.Context) error {
		return s.cache.Store(ctx, items, fetchedAt)
	})

	metrics.NewsRequestsTotal.WithLabelValues("live").Inc()
	return &ports.NewsResult{
		Items:     items,
		FetchedAt: fetchedAt,
		Cached:    false,
		Limit:     decision.Limit,
		Remaining: decision.Remaining,
		ResetAt:   decision.ResetAt,
	}, nil
}

// parseNewsItems strips any markdown code-fence wrapping and decodes the
// JSON array the prompt demands.
func parseNewsItems(raw string) ([]domain.NewsItem, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var items []domain.NewsItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, domain.ErrNewsParse
	}
	return items, nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
