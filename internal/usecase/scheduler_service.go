package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/courtdata/hoopsync/internal/platform/logging"
)

const defaultSyncInterval = 30 * time.Minute

// SchedulerService drives periodic season syncs for every source that has
// auto sync enabled. Each source ticks on its own interval so a slow source
// never delays the others.
type SchedulerService struct {
	syncer *SyncService
	logger *logging.Logger
}

func NewSchedulerService(syncer *SyncService, logger *logging.Logger) *SchedulerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SchedulerService{syncer: syncer, logger: logger}
}

// Run blocks until ctx is cancelled. Sources with AutoSyncEnabled false are
// skipped entirely; enabling a source requires a restart.
func (s *SchedulerService) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for source, cfg := range s.syncer.Configs() {
		if !cfg.Enabled || !cfg.AutoSyncEnabled {
			continue
		}
		wg.Add(1)
		go func(source string, cfg SourceConfig) {
			defer wg.Done()
			s.runSource(ctx, source, cfg)
		}(source, cfg)
	}
	wg.Wait()
}

func (s *SchedulerService) runSource(ctx context.Context, source string, cfg SourceConfig) {
	interval := cfg.SyncInterval
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	s.logger.InfoContext(ctx, "auto sync scheduled", "source", source, "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First pass runs immediately so a fresh deployment does not sit idle
	// for a full interval.
	s.syncOnce(ctx, source, cfg)
	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "auto sync stopped", "source", source)
			return
		case <-ticker.C:
			s.syncOnce(ctx, source, cfg)
		}
	}
}

func (s *SchedulerService) syncOnce(ctx context.Context, source string, cfg SourceConfig) {
	seasonExternalID, err := s.syncer.CurrentSeasonExternalID(ctx, source)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.WarnContext(ctx, "auto sync cannot resolve current season", "source", source, "error", err)
		return
	}

	run, err := s.syncer.SyncSeason(ctx, source, seasonExternalID, cfg.AutoSyncPBP)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.ErrorContext(ctx, "auto sync run failed",
			"source", source,
			"season_external_id", seasonExternalID,
			"error", err,
		)
		return
	}
	s.logger.InfoContext(ctx, "auto sync run finished",
		"source", source,
		"sync_log_id", run.ID,
		"status", string(run.Status),
	)
}
