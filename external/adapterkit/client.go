// Package adapterkit is the shared outbound transport for provider adapters:
// one token bucket per provider, bounded retries with backoff, a circuit
// breaker, single-flight collapsing, and a content-hash response cache that
// reports whether a refetched payload actually changed.
package adapterkit

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/courtdata/hoopsync/internal/domain/rawcache"
	"github.com/courtdata/hoopsync/internal/platform/logging"
	"github.com/courtdata/hoopsync/internal/platform/ratelimit"
	"github.com/courtdata/hoopsync/internal/platform/resilience"
	"github.com/courtdata/hoopsync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 6 << 20

var errTransient = crerr.New("transient provider failure")

// StatusError is a non-retryable provider response. Adapters inspect it to
// turn a 404 into a "not found" answer instead of a hard failure.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.Status, e.Body)
}

func IsStatus(err error, status int) bool {
	var se *StatusError
	return stderrors.As(err, &se) && se.Status == status
}

type Config struct {
	// Source keys cache rows and error messages; required.
	Source string
	BaseURL string
	APIKey  string

	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int

	// APIRequestsPerMinute and ScrapeRequestsPerMinute budget the two
	// ratelimit channels independently. A zero scrape budget falls back to a
	// quarter of the API budget.
	APIRequestsPerMinute    int
	ScrapeRequestsPerMinute int
	Channel                 ratelimit.Channel

	CircuitBreaker resilience.CircuitBreakerConfig
	Cache          rawcache.Repository
	Logger         *logging.Logger
}

type Client struct {
	source     string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int

	bucket  *ratelimit.Bucket
	channel ratelimit.Channel

	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	cache  rawcache.Repository
	logger *logging.Logger
}

// Result carries the raw payload plus the cache verdict. Changed is true on
// first sightings and whenever the content hash moved; callers use false to
// short-circuit downstream mapping.
type Result struct {
	Payload []byte
	Changed bool
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	channel := cfg.Channel
	if channel == "" {
		channel = ratelimit.ChannelAPI
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		source:     strings.TrimSpace(cfg.Source),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: httpClient,
		maxRetries: maxInt(cfg.MaxRetries, 0),
		bucket:     ratelimit.New(rateConfig(cfg.APIRequestsPerMinute, cfg.ScrapeRequestsPerMinute)),
		channel:        channel,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		cache:          cfg.Cache,
		logger:         logger,
	}
}

func rateConfig(apiPerMinute, scrapePerMinute int) ratelimit.Config {
	apiPerSecond := float64(apiPerMinute) / 60
	scrapePerSecond := float64(scrapePerMinute) / 60
	if scrapePerMinute <= 0 {
		scrapePerSecond = apiPerSecond / 4
	}
	return ratelimit.Config{
		APIRequestsPerSecond:    apiPerSecond,
		ScrapeRequestsPerSecond: scrapePerSecond,
	}
}

// GetJSON fetches path, decodes the body into target when target is non-nil,
// and runs the payload through the response cache. Transport failures come
// back wrapped in usecase.ErrTransport; a tripped breaker comes back as
// usecase.ErrDependencyUnavailable.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target any) (Result, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "circuit breaker rejected request",
				"source", c.source, "state", c.breaker.State())
			return Result{}, fmt.Errorf("%w: %s is temporarily unavailable", usecase.ErrDependencyUnavailable, c.source)
		}
	}

	if err := c.bucket.Acquire(ctx, c.channel); err != nil {
		return Result{}, err
	}

	paramsKey := ""
	if query != nil {
		paramsKey = query.Encode()
	}
	fullURL := c.baseURL + path
	if paramsKey != "" {
		fullURL += "?" + paramsKey
	}

	flightKey := path + "?" + paramsKey
	out, err, _ := c.flight.Do(flightKey, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if stderrors.Is(err, errTransient) {
			return Result{}, fmt.Errorf("%w: %s: %v", usecase.ErrTransport, c.source, err)
		}
		return Result{}, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return Result{}, fmt.Errorf("unexpected response payload type %T", out)
	}

	changed := true
	if c.cache != nil {
		cacheChanged, cacheErr := c.cache.Put(ctx, rawcache.Entry{
			Source:      c.source,
			Endpoint:    path,
			ParamsKey:   paramsKey,
			Payload:     raw,
			ContentHash: rawcache.HashPayload(raw),
			FetchedAt:   time.Now().UTC(),
		})
		if cacheErr != nil {
			c.logger.WarnContext(ctx, "response cache write failed",
				"source", c.source, "endpoint", path, "error", cacheErr)
		} else {
			changed = cacheChanged
		}
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return Result{}, fmt.Errorf("decode %s payload for %s: %w", c.source, path, err)
		}
	}

	return Result{Payload: raw, Changed: changed}, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, &StatusError{Status: resp.StatusCode, Body: abbreviateBody(raw)}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(retryBackoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: provider request failed", errTransient)
	}
	c.logger.WarnContext(ctx, "provider request failed",
		"source", c.source, "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// retryBackoff doubles per attempt: 500ms, 1s, 2s, ... capped at 30s.
func retryBackoff(attempt int) time.Duration {
	const base = 500 * time.Millisecond
	const ceiling = 30 * time.Second

	backoff := base
	for i := 0; i < attempt && backoff < ceiling; i++ {
		backoff *= 2
	}
	if backoff > ceiling {
		backoff = ceiling
	}
	return backoff
}

// readBody drains through a pooled buffer so fan-outs over a season's games
// do not churn large one-shot allocations.
func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}
	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
