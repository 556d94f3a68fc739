package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.ServiceName != "hoopsync-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
	}
	if cfg.LineupPolicy != "drop" {
		t.Fatalf("unexpected LineupPolicy: %q", cfg.LineupPolicy)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected two default sources, got %v", cfg.Sources)
	}
	winner, ok := cfg.Sources["winner"]
	if !ok {
		t.Fatalf("expected default winner source")
	}
	if !winner.Enabled || winner.AutoSyncEnabled {
		t.Fatalf("unexpected winner defaults: %+v", winner)
	}
	if winner.SyncInterval != 30*time.Minute {
		t.Fatalf("unexpected winner SyncInterval: %s", winner.SyncInterval)
	}
	if winner.BaseURL == "" {
		t.Fatalf("expected default winner base URL")
	}
	if winner.APIRateLimitPerMinute != 60 || winner.ScrapeRateLimitPerMinute != 15 {
		t.Fatalf("unexpected default rate budgets: %+v", winner)
	}
}

func TestLoad_SourceSettingsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SOURCES", "euroleague")
	t.Setenv("SOURCE_EUROLEAGUE_ENABLED", "true")
	t.Setenv("SOURCE_EUROLEAGUE_AUTO_SYNC_ENABLED", "true")
	t.Setenv("SOURCE_EUROLEAGUE_SYNC_INTERVAL", "10m")
	t.Setenv("SOURCE_EUROLEAGUE_AUTO_SYNC_PBP", "false")
	t.Setenv("SOURCE_EUROLEAGUE_BASE_URL", "https://euroleague.test/api")
	t.Setenv("SOURCE_EUROLEAGUE_API_KEY", "key-123")
	t.Setenv("SOURCE_EUROLEAGUE_TIMEOUT", "5s")
	t.Setenv("SOURCE_EUROLEAGUE_MAX_RETRIES", "1")
	t.Setenv("SOURCE_EUROLEAGUE_API_RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("SOURCE_EUROLEAGUE_SCRAPE_RATE_LIMIT_PER_MINUTE", "6")
	t.Setenv("SOURCE_EUROLEAGUE_CIRCUIT_FAILURE_COUNT", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Sources) != 1 {
		t.Fatalf("expected one source, got %v", cfg.Sources)
	}
	src := cfg.Sources["euroleague"]
	if !src.AutoSyncEnabled || src.AutoSyncPBP {
		t.Fatalf("unexpected sync switches: %+v", src)
	}
	if src.SyncInterval != 10*time.Minute {
		t.Fatalf("unexpected SyncInterval: %s", src.SyncInterval)
	}
	if src.BaseURL != "https://euroleague.test/api" || src.APIKey != "key-123" {
		t.Fatalf("unexpected transport settings: %+v", src)
	}
	if src.Timeout != 5*time.Second || src.MaxRetries != 1 {
		t.Fatalf("unexpected transport tuning: %+v", src)
	}
	if src.APIRateLimitPerMinute != 30 || src.ScrapeRateLimitPerMinute != 6 {
		t.Fatalf("unexpected rate budgets: %+v", src)
	}
	if src.CircuitFailureCount != 7 {
		t.Fatalf("unexpected CircuitFailureCount: %d", src.CircuitFailureCount)
	}
}

func TestLoad_SourceValidation(t *testing.T) {
	t.Run("duplicate source rejected", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SOURCES", "winner,winner")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for duplicate source")
		}
	})

	t.Run("enabled source requires base URL", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SOURCES", "acb")
		t.Setenv("SOURCE_ACB_ENABLED", "true")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for enabled source without base URL")
		}
	})

	t.Run("disabled source allows missing base URL", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SOURCES", "acb")
		t.Setenv("SOURCE_ACB_ENABLED", "false")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Sources["acb"].Enabled {
			t.Fatalf("expected acb disabled")
		}
	})

	t.Run("zero sync interval rejected", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SOURCES", "winner")
		t.Setenv("SOURCE_WINNER_SYNC_INTERVAL", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero sync interval")
		}
	})

	t.Run("zero scrape rate rejected", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SOURCES", "winner")
		t.Setenv("SOURCE_WINNER_SCRAPE_RATE_LIMIT_PER_MINUTE", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero scrape rate")
		}
	})
}

func TestLoad_LineupPolicyValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("LINEUP_POLICY", "ignore")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid LINEUP_POLICY")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid STORAGE_DRIVER")
	}
}
