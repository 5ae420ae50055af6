package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

// NewsHandler serves the rate-limited quantum news feed.
type NewsHandler struct {
	service ports.NewsService
}

func NewNewsHandler(service ports.NewsService) *NewsHandler {
	return &NewsHandler{service: service}
}

type newsResponse struct {
	News      []domain.NewsItem `json:"news"`
	FetchedAt time.Time         `json:"fetchedAt"`
	Cached    bool              `json:"cached"`
}

// Latest handles GET /api/quantum-news. Rate-limit state rides back as
// X-RateLimit-* headers; X-News-Source marks cache vs live.
//
// @Summary      Latest quantum computing news
// @Tags         news
// @Produce      json
// @Success      200  {object}  newsResponse
// @Failure      429  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/quantum-news [get]
func (h *NewsHandler) Latest(c echo.Context) error {
	ip := clientIP(c)

	result, err := h.service.Latest(c.Request().Context(), ip)
	if err != nil {
		var rle *ports.RateLimitedError
		if errors.As(err, &rle) {
			retryAfter := int(time.Until(rle.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.setRateHeaders(c, rle.Limit, 0, rle.ResetAt)
			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}
		if errors.Is(err, domain.ErrNewsParse) {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to parse news data"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch news"})
	}

	h.setRateHeaders(c, result.Limit, result.Remaining, result.ResetAt)
	source := "live"
	if result.Cached {
		source = "cache"
	}
	c.Response().Header().Set("X-News-Source", source)
	c.Response().Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=7200")

	return c.JSON(http.StatusOK, newsResponse{
		News:      result.Items,
		FetchedAt: result.FetchedAt,
		Cached:    result.Cached,
	})
}

func (h *NewsHandler) setRateHeaders(c echo.Context, limit, remaining int, resetAt time.Time) {
	hdr := c.Response().Header()
	hdr.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	hdr.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	hdr.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.UnixMilli(), 10))
}

// clientIP resolves the caller's address for rate limiting: first hop of
// X-Forwarded-For, then X-Real-IP, then "unknown". Echo's RealIP is not used
// here because an empty result must map to the "unknown" bucket, not the
// socket address.
func clientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := c.Request().Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return "unknown"
}
