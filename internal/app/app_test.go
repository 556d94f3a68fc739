package app

import (
	"context"
	"testing"
	"time"

	"github.com/courtdata/hoopsync/internal/config"
	"github.com/courtdata/hoopsync/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		StorageDriver:      config.StorageMemory,
		CORSAllowedOrigins: []string{"*"},
		SyncMaxWorkers:     2,
		LineupPolicy:       "drop",
		Sources: map[string]config.SourceSettings{
			"winner": {
				Enabled:               true,
				SyncInterval:          30 * time.Minute,
				BaseURL:               "https://stats.winner-league.test/api",
				Timeout:               5 * time.Second,
				APIRateLimitPerMinute: 60,
			},
		},
	}
}

func TestNew_MemoryDriver(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build application: %v", err)
	}
	defer func() { _ = application.Close() }()

	if application.Server == nil || application.Server.Handler == nil {
		t.Fatalf("expected wired http server")
	}
	if application.Scheduler == nil {
		t.Fatalf("expected scheduler")
	}
}

func TestNew_UnknownSourceFails(t *testing.T) {
	cfg := memoryConfig()
	cfg.Sources = map[string]config.SourceSettings{
		"acb": {Enabled: true, BaseURL: "https://acb.test"},
	}

	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for source without an adapter")
	}
}

func TestNormalizeDBURL(t *testing.T) {
	got := normalizeDBURL("postgres://u:p@localhost:5432/hoopsync?sslmode=disable", true)
	want := "postgres://u:p@localhost:5432/hoopsync?disable_prepared_binary_result=yes&sslmode=disable"
	if got != want {
		t.Fatalf("normalizeDBURL=%q want=%q", got, want)
	}

	passthrough := "postgres://u:p@localhost:5432/hoopsync?sslmode=disable"
	if got := normalizeDBURL(passthrough, false); got != passthrough {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
