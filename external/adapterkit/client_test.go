package adapterkit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courtdata/hoopsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/hoopsync/internal/platform/id"
	"github.com/courtdata/hoopsync/internal/platform/logging"
	"github.com/courtdata/hoopsync/internal/platform/resilience"
	"github.com/courtdata/hoopsync/internal/usecase"
)

func newTestClient(t *testing.T, serverURL string, mutate func(*Config)) *Client {
	t.Helper()

	cfg := Config{
		Source:               "winner",
		BaseURL:              serverURL,
		Timeout:              2 * time.Second,
		MaxRetries:           0,
		APIRequestsPerMinute: 6000,
		Logger:               logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg)
}

func TestRateConfigSplitsChannels(t *testing.T) {
	cfg := rateConfig(120, 30)
	if cfg.APIRequestsPerSecond != 2 {
		t.Fatalf("unexpected api rate: %v", cfg.APIRequestsPerSecond)
	}
	if cfg.ScrapeRequestsPerSecond != 0.5 {
		t.Fatalf("unexpected scrape rate: %v", cfg.ScrapeRequestsPerSecond)
	}

	// Without an explicit scrape budget, scraping gets a quarter of the API
	// budget.
	fallback := rateConfig(120, 0)
	if fallback.ScrapeRequestsPerSecond != 0.5 {
		t.Fatalf("unexpected fallback scrape rate: %v", fallback.ScrapeRequestsPerSecond)
	}
}

func TestRetryBackoffDoubles(t *testing.T) {
	want := []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
	}
	for attempt, expected := range want {
		if got := retryBackoff(attempt); got != expected {
			t.Fatalf("attempt %d: got %s want %s", attempt, got, expected)
		}
	}
	if got := retryBackoff(20); got != 30*time.Second {
		t.Fatalf("expected ceiling at 30s, got %s", got)
	}
}

func TestGetJSON_DecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		_, _ = w.Write([]byte(`{"name":"Winner League"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, func(cfg *Config) { cfg.APIKey = "secret" })

	var payload struct {
		Name string `json:"name"`
	}
	res, err := client.GetJSON(context.Background(), "/seasons", nil, &payload)
	if err != nil {
		t.Fatalf("get json: %v", err)
	}
	if payload.Name != "Winner League" {
		t.Fatalf("unexpected decode result: %+v", payload)
	}
	if !res.Changed {
		t.Fatalf("expected first fetch to report changed=true")
	}
}

func TestGetJSON_CacheReportsUnchanged(t *testing.T) {
	var body atomic.Value
	body.Store(`{"games":[1]}`)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body.Load().(string)))
	}))
	defer server.Close()

	store := memory.NewStore(id.NewSequence("test"))
	client := newTestClient(t, server.URL, func(cfg *Config) { cfg.Cache = store.RawCache() })

	ctx := context.Background()
	first, err := client.GetJSON(ctx, "/games/g1/boxscore", nil, nil)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if !first.Changed {
		t.Fatalf("expected changed=true on first fetch")
	}

	second, err := client.GetJSON(ctx, "/games/g1/boxscore", nil, nil)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if second.Changed {
		t.Fatalf("expected changed=false for identical payload")
	}

	body.Store(`{"games":[1,2]}`)
	third, err := client.GetJSON(ctx, "/games/g1/boxscore", nil, nil)
	if err != nil {
		t.Fatalf("third fetch: %v", err)
	}
	if !third.Changed {
		t.Fatalf("expected changed=true after payload moved")
	}
}

func TestGetJSON_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, func(cfg *Config) { cfg.MaxRetries = 2 })

	if _, err := client.GetJSON(context.Background(), "/seasons", nil, nil); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestGetJSON_PermanentStatusDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, func(cfg *Config) { cfg.MaxRetries = 3 })

	_, err := client.GetJSON(context.Background(), "/games/missing/boxscore", nil, nil)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("404 should not map to a transport failure: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestGetJSON_TransportFailureWrapsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, nil)

	_, err := client.GetJSON(context.Background(), "/seasons", nil, nil)
	if !errors.Is(err, usecase.ErrTransport) {
		t.Fatalf("expected transport sentinel, got %v", err)
	}
}

func TestGetJSON_CircuitOpensAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.GetJSON(ctx, "/seasons", nil, nil); err == nil {
			t.Fatalf("expected failure on attempt %d", i+1)
		}
	}

	_, err := client.GetJSON(ctx, "/seasons", nil, nil)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit to reject, got %v", err)
	}
}
