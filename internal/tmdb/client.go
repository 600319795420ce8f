package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	// TMDB allows ~50 requests per second; stay well under it
	rateLimit = 10
	rateBurst = 5

	// Retry configuration
	maxRetries   = 3
	initialDelay = 1 * time.Second
	maxDelay     = 8 * time.Second
)

// Client fetches movie/show metadata from TMDB with rate limiting,
// retry and an optional Redis cache of category responses. Relational
// reads are never cached; only this external collaborator is.
type Client struct {
	apiURL      string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cache       *redis.Client // nil disables caching
	cacheTTL    time.Duration
	logger      *slog.Logger
}

func NewClient(apiURL, apiKey string, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiURL:      apiURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Title is one movie or show returned by a category fetch.
type Title struct {
	ID           int64  `json:"id"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"` // TV results use name
	PosterPath   string `json:"poster_path"`
	ReleaseDate  string `json:"release_date,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
	Overview     string `json:"overview,omitempty"`
}

// DisplayTitle returns the movie title or show name, whichever is set.
func (t Title) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

type listResponse struct {
	Results []Title `json:"results"`
}

// Upcoming returns upcoming movie releases.
func (c *Client) Upcoming(ctx context.Context) ([]Title, error) {
	return c.fetchList(ctx, "/movie/upcoming")
}

// TrendingTV returns this week's trending shows.
func (c *Client) TrendingTV(ctx context.Context) ([]Title, error) {
	return c.fetchList(ctx, "/trending/tv/week")
}

// Popular returns currently popular movies.
func (c *Client) Popular(ctx context.Context) ([]Title, error) {
	return c.fetchList(ctx, "/movie/popular")
}

func (c *Client) fetchList(ctx context.Context, path string) ([]Title, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("tmdb api key is not configured")
	}

	if cached, ok := c.cacheGet(ctx, path); ok {
		return cached, nil
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode tmdb response: %w", err)
	}

	c.cacheSet(ctx, path, resp.Results)
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	u := fmt.Sprintf("%s%s?api_key=%s&language=en-US&page=1", c.apiURL, path, url.QueryEscape(c.apiKey))

	delay := initialDelay
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = readErr
			case resp.StatusCode == http.StatusOK:
				return body, nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("tmdb returned status %d", resp.StatusCode)
			default:
				// Client errors are not retryable
				return nil, fmt.Errorf("tmdb returned status %d", resp.StatusCode)
			}
		}

		if attempt < maxRetries {
			c.logger.Warn("TMDB request failed, retrying",
				"path", path, "attempt", attempt+1, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}
	return nil, fmt.Errorf("tmdb request failed after %d retries: %w", maxRetries, lastErr)
}

func (c *Client) cacheKey(path string) string {
	return "tmdb:category:" + path
}

func (c *Client) cacheGet(ctx context.Context, path string) ([]Title, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, c.cacheKey(path)).Bytes()
	if err != nil {
		return nil, false
	}
	var titles []Title
	if err := json.Unmarshal(raw, &titles); err != nil {
		return nil, false
	}
	return titles, true
}

func (c *Client) cacheSet(ctx context.Context, path string, titles []Title) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(titles)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, c.cacheKey(path), raw, c.cacheTTL).Err(); err != nil {
		c.logger.Warn("Failed to cache TMDB response", "path", path, "error", err)
	}
}
