// Package fetch is the gateway's outbound JSON layer: cached GETs with
// in-flight de-duplication, and bounded fan-out across providers.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"model_gateway/internal/metrics"
	"model_gateway/internal/models"
	"model_gateway/internal/storage"
	"model_gateway/internal/utils"
)

const defaultRequestTimeout = 30 * time.Second

// Request describes one outbound GET.
type Request struct {
	URL     string
	Headers map[string]string
	// NoCache bypasses both the TTL cache and in-flight de-duplication.
	NoCache bool
}

// Client performs JSON GETs against vendor APIs. Successful responses are
// cached for the TTL of the configured BodyCache, keyed by URL and headers.
// Concurrent identical requests share one network call.
type Client struct {
	http    *resty.Client
	cache   storage.BodyCache
	metrics metrics.Metrics
	group   singleflight.Group
}

// NewClient creates a fetch client. cache may be nil to disable caching.
func NewClient(cache storage.BodyCache, m metrics.Metrics) *Client {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &Client{
		http: resty.New().
			SetTimeout(defaultRequestTimeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "model-gateway/1.0"),
		cache:   cache,
		metrics: m,
	}
}

// CacheKey normalizes a request into its cache identity: the URL plus the
// headers sorted by lower-cased name.
func CacheKey(url string, headers map[string]string) string {
	names := make([]string, 0, len(headers))
	lowered := make(map[string]string, len(headers))
	for k, v := range headers {
		lk := strings.ToLower(k)
		names = append(names, lk)
		lowered[lk] = v
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(url)
	for _, name := range names {
		b.WriteByte('\n')
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(lowered[name])
	}
	return b.String()
}

// GetJSON returns the body of a successful GET whose body is valid JSON.
// Failures are Fetch errors (transport, non-2xx, cancellation) or Parse
// errors (invalid JSON). Failed responses are never cached.
func (c *Client) GetJSON(ctx context.Context, req Request) ([]byte, error) {
	if req.NoCache {
		return c.do(ctx, req)
	}

	// Hashed so credentials carried in headers never appear in cache keys.
	key := utils.HashString(CacheKey(req.URL, req.Headers))

	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, key); ok {
			c.metrics.IncCacheLookup(metrics.CacheHit)
			return body, nil
		}
	}

	// The shared call outlives any single caller; each caller still stops
	// waiting when its own ctx ends.
	ch := c.group.DoChan(key, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultRequestTimeout)
		defer cancel()

		body, err := c.do(sharedCtx, req)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Set(sharedCtx, key, body)
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, models.NewFetchError(fmt.Sprintf("GET %s canceled", req.URL), ctx.Err())
	case res := <-ch:
		if res.Shared {
			c.metrics.IncCacheLookup(metrics.CacheShared)
		} else {
			c.metrics.IncCacheLookup(metrics.CacheMiss)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) do(ctx context.Context, req Request) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(req.Headers).
		Get(req.URL)
	if err != nil {
		return nil, models.NewFetchError(fmt.Sprintf("GET %s", req.URL), err)
	}
	if !resp.IsSuccess() {
		return nil, models.NewHTTPStatusError(req.URL, resp.StatusCode())
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, models.NewParseError(fmt.Sprintf("GET %s returned invalid JSON", req.URL), nil)
	}
	return body, nil
}
