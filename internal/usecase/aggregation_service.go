package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
	"github.com/courtdata/hoopsync/internal/platform/logging"
)

// StatTuple identifies one aggregation unit. A traded player has one tuple
// per team in the season.
type StatTuple struct {
	PlayerID string
	TeamID   string
	SeasonID string
}

type AggregationConfig struct {
	MaxWorkers int
}

// AggregationService recomputes PlayerSeasonStats rows from per-game lines.
// Aggregates are derived data: every recompute starts from the game lines,
// so reruns are idempotent and ordering across games is irrelevant.
type AggregationService struct {
	boxRepo    boxscore.Repository
	statsRepo  seasonstats.Repository
	playerRepo player.Repository
	cfg        AggregationConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewAggregationService(
	boxRepo boxscore.Repository,
	statsRepo seasonstats.Repository,
	playerRepo player.Repository,
	cfg AggregationConfig,
	logger *logging.Logger,
) *AggregationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 4
	}
	return &AggregationService{
		boxRepo:    boxRepo,
		statsRepo:  statsRepo,
		playerRepo: playerRepo,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// RecalculateTuple rebuilds one (player, team, season) row. A tuple with no
// remaining game lines drops its stale row.
func (s *AggregationService) RecalculateTuple(ctx context.Context, tuple StatTuple) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.RecalculateTuple")
	defer span.End()

	if s.boxRepo == nil || s.statsRepo == nil {
		return fmt.Errorf("%w: aggregation repositories are not configured", ErrDependencyUnavailable)
	}
	if tuple.PlayerID == "" || tuple.TeamID == "" || tuple.SeasonID == "" {
		return fmt.Errorf("%w: aggregation tuple requires player, team and season ids", ErrInvalidInput)
	}

	lines, err := s.boxRepo.ListPlayerStatsForTuple(ctx, tuple.PlayerID, tuple.TeamID, tuple.SeasonID)
	if err != nil {
		return fmt.Errorf("load game lines for %s/%s/%s: %w", tuple.PlayerID, tuple.TeamID, tuple.SeasonID, err)
	}
	if len(lines) == 0 {
		if err := s.statsRepo.Delete(ctx, tuple.PlayerID, tuple.TeamID, tuple.SeasonID); err != nil {
			return fmt.Errorf("drop empty season stats row: %w", err)
		}
		return nil
	}

	row := computeSeasonStats(tuple, lines, s.now().UTC())
	if err := s.statsRepo.Upsert(ctx, row); err != nil {
		return fmt.Errorf("store season stats for %s/%s/%s: %w", tuple.PlayerID, tuple.TeamID, tuple.SeasonID, err)
	}
	return nil
}

// RecalculateTuples fans the recompute out over a bounded worker pool.
func (s *AggregationService) RecalculateTuples(ctx context.Context, tuples []StatTuple) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.RecalculateTuples")
	defer span.End()

	if len(tuples) == 0 {
		return nil
	}

	workers := s.cfg.MaxWorkers
	if workers > len(tuples) {
		workers = len(tuples)
	}

	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for _, tuple := range tuples {
		tuple := tuple
		p.Go(func() error {
			return s.RecalculateTuple(ctx, tuple)
		})
	}
	return p.Wait()
}

// RecalculateForPlayer rebuilds every tuple the player has history for, plus
// any stats rows that survived a trade or merge.
func (s *AggregationService) RecalculateForPlayer(ctx context.Context, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.RecalculateForPlayer")
	defer span.End()

	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if s.playerRepo == nil {
		return fmt.Errorf("%w: player repository is not configured", ErrDependencyUnavailable)
	}

	history, err := s.playerRepo.ListHistoryByPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load history for %s: %w", playerID, err)
	}
	existing, err := s.statsRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load season stats for %s: %w", playerID, err)
	}

	tuples := make([]StatTuple, 0, len(history)+len(existing))
	for _, row := range history {
		tuples = append(tuples, StatTuple{PlayerID: playerID, TeamID: row.TeamID, SeasonID: row.SeasonID})
	}
	for _, row := range existing {
		tuples = append(tuples, StatTuple{PlayerID: playerID, TeamID: row.TeamID, SeasonID: row.SeasonID})
	}
	return s.RecalculateTuples(ctx, dedupeTuples(tuples))
}

// RecalculateForSeason rebuilds every known stats row of one season.
func (s *AggregationService) RecalculateForSeason(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.RecalculateForSeason")
	defer span.End()

	if seasonID == "" {
		return fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	rows, err := s.statsRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("load season stats for %s: %w", seasonID, err)
	}
	tuples := make([]StatTuple, 0, len(rows))
	for _, row := range rows {
		tuples = append(tuples, StatTuple{PlayerID: row.PlayerID, TeamID: row.TeamID, SeasonID: seasonID})
	}
	return s.RecalculateTuples(ctx, tuples)
}

// computeSeasonStats folds game lines into one season row. Percentages stay
// decimals in [0,1] and are nil on zero attempts; division by zero never
// escapes as anything but nil.
func computeSeasonStats(tuple StatTuple, lines []boxscore.PlayerGameStats, calculatedAt time.Time) seasonstats.PlayerSeasonStats {
	row := seasonstats.PlayerSeasonStats{
		PlayerID:       tuple.PlayerID,
		TeamID:         tuple.TeamID,
		SeasonID:       tuple.SeasonID,
		GamesPlayed:    len(lines),
		LastCalculated: calculatedAt,
	}

	for _, line := range lines {
		if line.IsStarter {
			row.GamesStarted++
		}
		row.MinutesSeconds += line.MinutesSeconds
		row.Points += line.Points
		row.FGM += line.FGM
		row.FGA += line.FGA
		row.TwoPM += line.TwoPM
		row.TwoPA += line.TwoPA
		row.ThreePM += line.ThreePM
		row.ThreePA += line.ThreePA
		row.FTM += line.FTM
		row.FTA += line.FTA
		row.OffRebounds += line.OffRebounds
		row.DefRebounds += line.DefRebounds
		row.TotRebounds += line.TotRebounds
		row.Assists += line.Assists
		row.Turnovers += line.Turnovers
		row.Steals += line.Steals
		row.Blocks += line.Blocks
		row.PersonalFouls += line.PersonalFouls
		row.PlusMinus += line.PlusMinus
		row.Efficiency += line.Efficiency
	}

	games := float64(row.GamesPlayed)
	row.AvgMinutesSeconds = roundAvg(float64(row.MinutesSeconds) / games)
	row.AvgPoints = roundAvg(float64(row.Points) / games)
	row.AvgRebounds = roundAvg(float64(row.TotRebounds) / games)
	row.AvgAssists = roundAvg(float64(row.Assists) / games)
	row.AvgSteals = roundAvg(float64(row.Steals) / games)
	row.AvgBlocks = roundAvg(float64(row.Blocks) / games)
	row.AvgTurnovers = roundAvg(float64(row.Turnovers) / games)
	row.AvgEfficiency = roundAvg(float64(row.Efficiency) / games)

	row.FGPct = percentage(row.FGM, row.FGA)
	row.TwoPPct = percentage(row.TwoPM, row.TwoPA)
	row.ThreePPct = percentage(row.ThreePM, row.ThreePA)
	row.FTPct = percentage(row.FTM, row.FTA)

	if tsDenominator := 2 * (float64(row.FGA) + 0.44*float64(row.FTA)); tsDenominator > 0 {
		ts := roundPct(float64(row.Points) / tsDenominator)
		row.TSPct = &ts
	}
	if row.FGA > 0 {
		efg := roundPct((float64(row.FGM) + 0.5*float64(row.ThreePM)) / float64(row.FGA))
		row.EFGPct = &efg
	}

	switch {
	case row.Turnovers > 0:
		row.AstToRatio = roundAvg(float64(row.Assists) / float64(row.Turnovers))
	case row.Assists > 0:
		row.AstToRatio = float64(row.Assists)
	default:
		row.AstToRatio = 0
	}

	return row
}

func percentage(made, attempted int) *float64 {
	if attempted == 0 {
		return nil
	}
	pct := roundPct(float64(made) / float64(attempted))
	return &pct
}

// roundAvg keeps averages at one decimal, roundPct keeps ratios at three;
// fixed precision makes recomputes byte-identical.
func roundAvg(value float64) float64 {
	return math.Round(value*10) / 10
}

func roundPct(value float64) float64 {
	return math.Round(value*1000) / 1000
}
