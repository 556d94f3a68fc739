// Package app assembles the service: storage per the configured driver,
// one adapter per configured source, the sync/query/analytics services, and
// the HTTP server on top.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/external/euroleague"
	"github.com/courtdata/hoopsync/external/winner"
	"github.com/courtdata/hoopsync/internal/config"
	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/league"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/rawcache"
	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
	"github.com/courtdata/hoopsync/internal/domain/synclog"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/hoopsync/internal/infrastructure/repository/postgres"
	"github.com/courtdata/hoopsync/internal/interfaces/httpapi"
	"github.com/courtdata/hoopsync/internal/platform/id"
	"github.com/courtdata/hoopsync/internal/platform/logging"
	"github.com/courtdata/hoopsync/internal/platform/resilience"
	"github.com/courtdata/hoopsync/internal/usecase"
)

// Application holds the assembled server plus the pieces main drives
// directly: the auto-sync scheduler and the storage handle to close on
// shutdown.
type Application struct {
	Server    *http.Server
	Scheduler *usecase.SchedulerService

	db *sqlx.DB
}

type repositories struct {
	leagues  league.Repository
	teams    team.Repository
	players  player.Repository
	games    game.Repository
	boxes    boxscore.Repository
	events   pbp.Repository
	stats    seasonstats.Repository
	syncLogs synclog.Repository
	bundles  game.BundleWriter
	rawCache rawcache.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	adapters, configs, err := buildSources(cfg, repos.rawCache, logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	resolver := usecase.NewResolverService(repos.teams, repos.players, logger)
	aggregator := usecase.NewAggregationService(
		repos.boxes, repos.stats, repos.players,
		usecase.AggregationConfig{MaxWorkers: cfg.AggregationMaxWorkers},
		logger,
	)
	syncService := usecase.NewSyncService(
		adapters, configs,
		repos.leagues, repos.teams, repos.players, repos.games,
		repos.bundles, repos.syncLogs,
		resolver, aggregator,
		cfg.SyncMaxWorkers, logger,
	)
	queryService := usecase.NewQueryService(
		repos.leagues, repos.teams, repos.players, repos.games,
		repos.boxes, repos.stats, logger,
	)
	analyticsService := usecase.NewAnalyticsService(
		repos.games, repos.boxes, repos.events,
		usecase.AnalyticsConfig{LineupPolicy: usecase.LineupPolicy(cfg.LineupPolicy)},
		logger,
	)

	handler := httpapi.NewHandler(queryService, analyticsService, syncService, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.SyncToken)

	return &Application{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Scheduler: usecase.NewSchedulerService(syncService, logger),
		db:        db,
	}, nil
}

// Close releases the storage handle. Safe to call after server shutdown.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	ids := id.NewRandomGenerator()

	if cfg.StorageDriver == config.StorageMemory {
		store := memory.NewStore(ids)
		if cfg.AppEnv == config.EnvDev {
			if err := memory.SeedLeagues(ctx, store.Leagues()); err != nil {
				return repositories{}, nil, fmt.Errorf("seed leagues: %w", err)
			}
		}
		logger.Info("storage ready", "driver", config.StorageMemory)
		return repositories{
			leagues:  store.Leagues(),
			teams:    store.Teams(),
			players:  store.Players(),
			games:    store.Games(),
			boxes:    store.BoxScores(),
			events:   store.Events(),
			stats:    store.SeasonStats(),
			syncLogs: store.SyncLogs(),
			bundles:  store,
			rawCache: store.RawCache(),
		}, nil, nil
	}

	db, err := postgres.Open(ctx, normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return repositories{}, nil, err
	}
	logger.Info("storage ready", "driver", config.StoragePostgres)
	return repositories{
		leagues:  postgres.NewLeagueRepository(db, ids),
		teams:    postgres.NewTeamRepository(db, ids),
		players:  postgres.NewPlayerRepository(db, ids),
		games:    postgres.NewGameRepository(db, ids),
		boxes:    postgres.NewBoxScoreRepository(db),
		events:   postgres.NewPBPRepository(db),
		stats:    postgres.NewSeasonStatsRepository(db, ids),
		syncLogs: postgres.NewSyncLogRepository(db, ids),
		bundles:  postgres.NewBundleRepository(db, ids),
		rawCache: postgres.NewRawCacheRepository(db),
	}, db, nil
}

func buildSources(cfg config.Config, cache rawcache.Repository, logger *logging.Logger) (map[string]usecase.SourceAdapter, map[string]usecase.SourceConfig, error) {
	adapters := make(map[string]usecase.SourceAdapter, len(cfg.Sources))
	configs := make(map[string]usecase.SourceConfig, len(cfg.Sources))

	for name, src := range cfg.Sources {
		breaker := resilience.CircuitBreakerConfig{
			Enabled:          src.CircuitEnabled,
			FailureThreshold: src.CircuitFailureCount,
			OpenTimeout:      src.CircuitOpenTimeout,
			HalfOpenMaxReq:   src.CircuitHalfOpenMaxReq,
		}

		switch name {
		case "winner":
			adapters[name] = winner.New(winner.Config{
				BaseURL:                  src.BaseURL,
				APIKey:                   src.APIKey,
				Timeout:                  src.Timeout,
				MaxRetries:               src.MaxRetries,
				APIRateLimitPerMinute:    src.APIRateLimitPerMinute,
				ScrapeRateLimitPerMinute: src.ScrapeRateLimitPerMinute,
				CircuitBreaker:           breaker,
				Cache:                    cache,
				Logger:                   logger,
			})
		case "euroleague":
			adapters[name] = euroleague.New(euroleague.Config{
				BaseURL:                  src.BaseURL,
				APIKey:                   src.APIKey,
				Timeout:                  src.Timeout,
				MaxRetries:               src.MaxRetries,
				APIRateLimitPerMinute:    src.APIRateLimitPerMinute,
				ScrapeRateLimitPerMinute: src.ScrapeRateLimitPerMinute,
				CircuitBreaker:           breaker,
				Cache:                    cache,
				Logger:                   logger,
			})
		default:
			return nil, nil, fmt.Errorf("no adapter for source %q", name)
		}

		configs[name] = usecase.SourceConfig{
			Enabled:         src.Enabled,
			AutoSyncEnabled: src.AutoSyncEnabled,
			SyncInterval:    src.SyncInterval,
			AutoSyncPBP:     src.AutoSyncPBP,
		}
	}

	return adapters, configs, nil
}
