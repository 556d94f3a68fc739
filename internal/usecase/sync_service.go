package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/league"
	"github.com/courtdata/hoopsync/internal/domain/normalize"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/synclog"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/platform/logging"
)

const (
	syncEntitySeason = "season"
	syncEntityGame   = "game"
	syncEntityTeams  = "teams"

	defaultSyncWorkers = 4
)

// SourceStatus is the per-source view served by the sync status endpoint.
type SourceStatus struct {
	Name                string          `json:"name"`
	Enabled             bool            `json:"enabled"`
	AutoSyncEnabled     bool            `json:"auto_sync_enabled"`
	SyncIntervalMinutes int             `json:"sync_interval_minutes"`
	RunningSyncs        int             `json:"running_syncs"`
	LatestSeasonSync    *synclog.SyncLog `json:"latest_season_sync,omitempty"`
	LatestGameSync      *synclog.SyncLog `json:"latest_game_sync,omitempty"`
}

// SyncService drives the source workflows: fetch through the adapter, resolve
// identities, persist per game, then hand the touched tuples to the
// aggregator. Every run is audited by exactly one SyncLog; record-level
// failures never escape the run, run-level failures finish it FAILED.
type SyncService struct {
	adapters   map[string]SourceAdapter
	configs    map[string]SourceConfig
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	gameRepo   game.Repository
	bundles    game.BundleWriter
	logRepo    synclog.Repository
	resolver   *ResolverService
	aggregator *AggregationService
	maxWorkers int
	logger     *logging.Logger

	running map[string]*atomic.Int32
}

func NewSyncService(
	adapters map[string]SourceAdapter,
	configs map[string]SourceConfig,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	gameRepo game.Repository,
	bundles game.BundleWriter,
	logRepo synclog.Repository,
	resolver *ResolverService,
	aggregator *AggregationService,
	maxWorkers int,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = defaultSyncWorkers
	}

	running := make(map[string]*atomic.Int32, len(adapters))
	for name := range adapters {
		running[name] = &atomic.Int32{}
	}

	return &SyncService{
		adapters:   adapters,
		configs:    configs,
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		bundles:    bundles,
		logRepo:    logRepo,
		resolver:   resolver,
		aggregator: aggregator,
		maxWorkers: maxWorkers,
		logger:     logger,
		running:    running,
	}
}

func (s *SyncService) sourceFor(source string) (SourceAdapter, SourceConfig, error) {
	adapter, ok := s.adapters[source]
	if !ok {
		return nil, SourceConfig{}, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, source)
	}
	cfg := s.configs[source]
	if !cfg.Enabled {
		return nil, SourceConfig{}, fmt.Errorf("%w: %s", ErrSourceDisabled, source)
	}
	return adapter, cfg, nil
}

// SyncSeason syncs every final game of one provider season. Games already
// known by external id are skipped; the rest fan out over a bounded pool.
func (s *SyncService) SyncSeason(ctx context.Context, source, seasonExternalID string, includePBP bool) (synclog.SyncLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncSeason")
	defer span.End()

	adapter, _, err := s.sourceFor(source)
	if err != nil {
		return synclog.SyncLog{}, err
	}
	if err := s.checkWired(); err != nil {
		return synclog.SyncLog{}, err
	}

	s.runningFor(source).Add(1)
	defer s.runningFor(source).Add(-1)

	season, err := s.ensureSeason(ctx, adapter, seasonExternalID)
	if err != nil {
		return s.failRun(ctx, source, syncEntitySeason, nil, nil, fmt.Errorf("resolve season %q: %w", seasonExternalID, err))
	}

	run, err := s.startLog(ctx, source, syncEntitySeason, &season.ID, nil)
	if err != nil {
		return synclog.SyncLog{}, err
	}

	schedule, err := adapter.GetSchedule(ctx, seasonExternalID)
	if err != nil {
		return s.finishFailed(ctx, run, fmt.Errorf("fetch schedule: %w", err))
	}

	var finals []RawGame
	for _, item := range schedule {
		if adapter.IsGameFinal(item) {
			finals = append(finals, item)
		}
	}

	tally := newRunTally()
	tally.processed = len(finals)

	var pending []RawGame
	for _, item := range finals {
		_, found, err := s.gameRepo.GetByExternalID(ctx, source, item.ExternalID)
		if err != nil {
			return s.finishFailed(ctx, run, fmt.Errorf("check synced game %s: %w", item.ExternalID, err))
		}
		if found {
			tally.skipped++
			continue
		}
		pending = append(pending, item)
	}

	if len(pending) > 0 {
		workers := s.maxWorkers
		if workers > len(pending) {
			workers = len(pending)
		}
		pool, err := ants.NewPool(workers)
		if err != nil {
			return s.finishFailed(ctx, run, fmt.Errorf("start sync pool: %w", err))
		}
		defer pool.Release()

		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for _, item := range pending {
			if ctx.Err() != nil {
				tally.cancelled = true
				tally.skipped++
				continue
			}

			item := item
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				outcome := s.fetchAndSyncGame(ctx, adapter, source, season, item.ExternalID, includePBP)
				mu.Lock()
				tally.absorb(outcome)
				mu.Unlock()
			})
			if submitErr != nil {
				wg.Done()
				mu.Lock()
				tally.fail(item.ExternalID, synclog.KindStorage, fmt.Errorf("submit sync task: %w", submitErr))
				mu.Unlock()
			}
		}
		wg.Wait()
	}
	if ctx.Err() != nil {
		tally.cancelled = true
	}

	s.recalculate(ctx, tally)
	return s.finishRun(ctx, run, tally)
}

// SyncGame syncs a single game end to end. An unchanged cached box score on
// an already-synced game short-circuits as a skip.
func (s *SyncService) SyncGame(ctx context.Context, source, gameExternalID string, includePBP bool) (synclog.SyncLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncGame")
	defer span.End()

	adapter, _, err := s.sourceFor(source)
	if err != nil {
		return synclog.SyncLog{}, err
	}
	if err := s.checkWired(); err != nil {
		return synclog.SyncLog{}, err
	}

	s.runningFor(source).Add(1)
	defer s.runningFor(source).Add(-1)

	box, changed, err := adapter.GetGameBoxScore(ctx, gameExternalID)
	if err != nil {
		return s.failRun(ctx, source, syncEntityGame, nil, nil, fmt.Errorf("fetch box score %s: %w", gameExternalID, err))
	}

	season, err := s.ensureSeason(ctx, adapter, box.Game.SeasonExternalID)
	if err != nil {
		return s.failRun(ctx, source, syncEntityGame, nil, nil, fmt.Errorf("resolve season %q: %w", box.Game.SeasonExternalID, err))
	}

	run, err := s.startLog(ctx, source, syncEntityGame, &season.ID, nil)
	if err != nil {
		return synclog.SyncLog{}, err
	}

	tally := newRunTally()
	tally.processed = 1
	tally.absorb(s.syncOneGame(ctx, source, season, box, changed, includePBP))

	if ctx.Err() != nil {
		tally.cancelled = true
	}
	s.recalculate(ctx, tally)

	// A single-record run that lost its only record failed outright.
	if tally.failureCount() > 0 && !tally.cancelled {
		tally.wholeRunFailed = true
	}
	return s.finishRun(ctx, run, tally)
}

// SyncTeams resolves a season's teams and rosters and records TeamSeason
// membership rows. Each team is its own isolation unit.
func (s *SyncService) SyncTeams(ctx context.Context, source, seasonExternalID string) (synclog.SyncLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeams")
	defer span.End()

	adapter, _, err := s.sourceFor(source)
	if err != nil {
		return synclog.SyncLog{}, err
	}
	if err := s.checkWired(); err != nil {
		return synclog.SyncLog{}, err
	}

	s.runningFor(source).Add(1)
	defer s.runningFor(source).Add(-1)

	season, err := s.ensureSeason(ctx, adapter, seasonExternalID)
	if err != nil {
		return s.failRun(ctx, source, syncEntityTeams, nil, nil, fmt.Errorf("resolve season %q: %w", seasonExternalID, err))
	}

	run, err := s.startLog(ctx, source, syncEntityTeams, &season.ID, nil)
	if err != nil {
		return synclog.SyncLog{}, err
	}

	rawTeams, err := adapter.GetTeams(ctx, seasonExternalID)
	if err != nil {
		return s.finishFailed(ctx, run, fmt.Errorf("fetch teams: %w", err))
	}

	tally := newRunTally()
	tally.processed = len(rawTeams)

	for _, rawTeam := range rawTeams {
		if ctx.Err() != nil {
			tally.cancelled = true
			tally.skipped++
			continue
		}

		resolved, outcome, err := s.resolver.ResolveTeam(ctx, source, rawTeam)
		if err != nil {
			tally.fail(rawTeam.ExternalID, classifyRecordKind(err), err)
			continue
		}
		if err := s.teamRepo.UpsertTeamSeason(ctx, team.TeamSeason{TeamID: resolved.ID, SeasonID: season.ID}); err != nil {
			tally.fail(rawTeam.ExternalID, synclog.KindStorage, fmt.Errorf("record team season: %w", err))
			continue
		}

		rosterFailed := false
		for _, entry := range rawTeam.Roster {
			resolvedPlayer, playerOutcome, err := s.resolver.ResolvePlayer(ctx, source, resolved.ID, entry)
			if err != nil {
				tally.fail(rawTeam.ExternalID, classifyRecordKind(err), fmt.Errorf("roster player %s: %w", entry.ExternalID, err))
				rosterFailed = true
				break
			}
			tally.note(playerOutcome, entry.ExternalID)
			if err := s.playerRepo.UpsertHistory(ctx, historyRow(resolvedPlayer.ID, resolved.ID, season.ID, entry)); err != nil {
				tally.fail(rawTeam.ExternalID, synclog.KindStorage, fmt.Errorf("roster history %s: %w", entry.ExternalID, err))
				rosterFailed = true
				break
			}
		}
		if rosterFailed {
			continue
		}

		if outcome.Created {
			tally.created++
		} else {
			tally.updated++
		}
	}
	if ctx.Err() != nil {
		tally.cancelled = true
	}

	return s.finishRun(ctx, run, tally)
}

// Status reports one SourceStatus per configured source, sorted by name.
func (s *SyncService) Status(ctx context.Context) ([]SourceStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Status")
	defer span.End()

	names := make([]string, 0, len(s.configs))
	for name := range s.configs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]SourceStatus, 0, len(names))
	for _, name := range names {
		cfg := s.configs[name]
		status := SourceStatus{
			Name:                name,
			Enabled:             cfg.Enabled,
			AutoSyncEnabled:     cfg.AutoSyncEnabled,
			SyncIntervalMinutes: int(cfg.SyncInterval / time.Minute),
			RunningSyncs:        int(s.runningFor(name).Load()),
		}
		if s.logRepo != nil {
			if latest, found, err := s.logRepo.Latest(ctx, name, syncEntitySeason); err != nil {
				return nil, fmt.Errorf("load latest season sync for %s: %w", name, err)
			} else if found {
				status.LatestSeasonSync = &latest
			}
			if latest, found, err := s.logRepo.Latest(ctx, name, syncEntityGame); err != nil {
				return nil, fmt.Errorf("load latest game sync for %s: %w", name, err)
			} else if found {
				status.LatestGameSync = &latest
			}
		}
		out = append(out, status)
	}
	return out, nil
}

func (s *SyncService) Logs(ctx context.Context, filter synclog.ListFilter) ([]synclog.SyncLog, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Logs")
	defer span.End()

	if s.logRepo == nil {
		return nil, 0, fmt.Errorf("%w: sync log repository is not configured", ErrDependencyUnavailable)
	}
	return s.logRepo.List(ctx, filter)
}

// Configs exposes the per-source runtime configuration, for the scheduler.
func (s *SyncService) Configs() map[string]SourceConfig {
	out := make(map[string]SourceConfig, len(s.configs))
	for name, cfg := range s.configs {
		out[name] = cfg
	}
	return out
}

// CurrentSeasonExternalID finds the external id, in the source's namespace,
// of the current season of the source's league.
func (s *SyncService) CurrentSeasonExternalID(ctx context.Context, source string) (string, error) {
	lg, found, err := s.leagueRepo.GetLeagueByCode(ctx, source)
	if err != nil {
		return "", fmt.Errorf("load league for %s: %w", source, err)
	}
	if !found {
		return "", fmt.Errorf("%w: no league for source %q", ErrNotFound, source)
	}
	seasons, err := s.leagueRepo.ListSeasonsByLeague(ctx, lg.ID)
	if err != nil {
		return "", fmt.Errorf("load seasons for %s: %w", source, err)
	}
	for _, season := range seasons {
		if !season.IsCurrent {
			continue
		}
		if externalID, ok := season.ExternalIDs[source]; ok {
			return externalID, nil
		}
	}
	return "", fmt.Errorf("%w: no current season with a %s id", ErrNotFound, source)
}

type gameOutcome struct {
	externalID string
	created    bool
	updated    bool
	unchanged  bool
	tuples     []StatTuple
	notes      []synclog.RecordError
	failure    *synclog.RecordError
}

func (s *SyncService) fetchAndSyncGame(ctx context.Context, adapter SourceAdapter, source string, season league.Season, gameExternalID string, includePBP bool) gameOutcome {
	box, changed, err := adapter.GetGameBoxScore(ctx, gameExternalID)
	if err != nil {
		return gameOutcome{externalID: gameExternalID, failure: &synclog.RecordError{
			ExternalID: gameExternalID,
			Kind:       classifyRecordKind(err),
			Message:    err.Error(),
		}}
	}
	return s.syncOneGame(ctx, source, season, box, changed, includePBP)
}

// syncOneGame is the per-game isolation unit: resolve both teams and every
// player line, then persist the whole game as one bundle. Any failure skips
// exactly this game.
func (s *SyncService) syncOneGame(ctx context.Context, source string, season league.Season, box RawBoxScore, changed, includePBP bool) gameOutcome {
	gameExternalID := box.Game.ExternalID
	outcome := gameOutcome{externalID: gameExternalID}
	fail := func(kind string, err error) gameOutcome {
		outcome.failure = &synclog.RecordError{ExternalID: gameExternalID, Kind: kind, Message: err.Error()}
		return outcome
	}

	existing, found, err := s.gameRepo.GetByExternalID(ctx, source, gameExternalID)
	if err != nil {
		return fail(synclog.KindStorage, fmt.Errorf("load game: %w", err))
	}
	if found && !changed {
		outcome.unchanged = true
		return outcome
	}

	adapter := s.adapters[source]
	homeTeam, _, err := s.resolver.ResolveTeam(ctx, source, RawTeam{
		ExternalID: box.Game.HomeTeamExternalID,
		Name:       box.Game.HomeTeamName,
	})
	if err != nil {
		return fail(classifyRecordKind(err), fmt.Errorf("resolve home team: %w", err))
	}
	awayTeam, _, err := s.resolver.ResolveTeam(ctx, source, RawTeam{
		ExternalID: box.Game.AwayTeamExternalID,
		Name:       box.Game.AwayTeamName,
	})
	if err != nil {
		return fail(classifyRecordKind(err), fmt.Errorf("resolve away team: %w", err))
	}

	teamByExt := map[string]string{
		box.Game.HomeTeamExternalID: homeTeam.ID,
		box.Game.AwayTeamExternalID: awayTeam.ID,
	}
	for _, teamID := range []string{homeTeam.ID, awayTeam.ID} {
		if err := s.teamRepo.UpsertTeamSeason(ctx, team.TeamSeason{TeamID: teamID, SeasonID: season.ID}); err != nil {
			return fail(synclog.KindStorage, fmt.Errorf("record team season: %w", err))
		}
	}

	playerByExt := make(map[string]string, len(box.PlayerLines))
	playerStats := make([]boxscore.PlayerGameStats, 0, len(box.PlayerLines))
	for _, line := range box.PlayerLines {
		teamID, ok := teamByExt[line.TeamExternalID]
		if !ok {
			return fail(synclog.KindSchema, fmt.Errorf("player line references unknown team %q", line.TeamExternalID))
		}

		resolved, resolveOutcome, err := s.resolver.ResolvePlayer(ctx, source, teamID, line.Player)
		if err != nil {
			return fail(classifyRecordKind(err), fmt.Errorf("resolve player %s: %w", line.Player.ExternalID, err))
		}
		if resolveOutcome.Ambiguous {
			outcome.notes = append(outcome.notes, synclog.RecordError{
				ExternalID: line.Player.ExternalID,
				Kind:       synclog.KindAmbiguousMatch,
				Message:    fmt.Sprintf("created new player %s, candidates %v", resolved.ID, resolveOutcome.CandidateIDs),
			})
		}
		playerByExt[line.Player.ExternalID] = resolved.ID

		if err := s.playerRepo.UpsertHistory(ctx, historyRow(resolved.ID, teamID, season.ID, line.Player)); err != nil {
			return fail(synclog.KindStorage, fmt.Errorf("record history for %s: %w", resolved.ID, err))
		}

		playerStats = append(playerStats, boxscore.PlayerGameStats{
			PlayerID:   resolved.ID,
			TeamID:     teamID,
			IsStarter:  line.IsStarter,
			StatLine:   statLineFromRaw(line.Line),
			PlusMinus:  line.PlusMinus,
			Efficiency: line.Efficiency,
			Extra:      line.Extra,
		})
		outcome.tuples = append(outcome.tuples, StatTuple{
			PlayerID: resolved.ID,
			TeamID:   teamID,
			SeasonID: season.ID,
		})
	}

	teamStats := make([]boxscore.TeamGameStats, 0, len(box.TeamLines))
	for _, line := range box.TeamLines {
		teamID, ok := teamByExt[line.TeamExternalID]
		if !ok {
			return fail(synclog.KindSchema, fmt.Errorf("team line references unknown team %q", line.TeamExternalID))
		}
		teamStats = append(teamStats, boxscore.TeamGameStats{
			TeamID:             teamID,
			StatLine:           statLineFromRaw(line.Line),
			FastBreakPoints:    line.FastBreakPoints,
			PointsInPaint:      line.PointsInPaint,
			SecondChancePoints: line.SecondChancePoints,
			BenchPoints:        line.BenchPoints,
			BiggestLead:        line.BiggestLead,
			TimeLeadingSeconds: line.TimeLeadingSeconds,
			Extra:              line.Extra,
		})
	}

	item := game.Game{
		SeasonID:    season.ID,
		HomeTeamID:  homeTeam.ID,
		AwayTeamID:  awayTeam.ID,
		GameDate:    box.Game.GameDate,
		Status:      box.Game.Status,
		HomeScore:   box.Game.HomeScore,
		AwayScore:   box.Game.AwayScore,
		Venue:       box.Game.Venue,
		Attendance:  box.Game.Attendance,
		ExternalIDs: map[string]string{source: gameExternalID},
	}
	if found {
		item.ID = existing.ID
	}

	var events []pbp.Event
	var links []pbp.Link
	if includePBP {
		rawEvents, err := adapter.GetGamePBP(ctx, gameExternalID)
		if err != nil {
			return fail(classifyRecordKind(err), fmt.Errorf("fetch play-by-play: %w", err))
		}
		events, links, err = s.buildPBP(ctx, source, rawEvents, teamByExt, playerByExt)
		if err != nil {
			return fail(synclog.KindSchema, fmt.Errorf("map play-by-play: %w", err))
		}
	}

	created, err := s.bundles.SaveBundle(ctx, game.Bundle{
		Game:        item,
		PlayerStats: playerStats,
		TeamStats:   teamStats,
		Events:      events,
		Links:       links,
	})
	if err != nil {
		return fail(classifyRecordKind(err), fmt.Errorf("persist game: %w", err))
	}

	outcome.created = created
	outcome.updated = !created
	return outcome
}

// buildPBP converts raw events to canonical ones, resolving provider player
// ids through the just-synced lines first and the store second. Substitution
// ids that cannot be resolved are left out; the lineup policy downstream
// decides what an incomplete substitution means.
func (s *SyncService) buildPBP(ctx context.Context, source string, rawEvents []RawPBPEvent, teamByExt, playerByExt map[string]string) ([]pbp.Event, []pbp.Link, error) {
	resolvePlayer := func(externalID string) (string, bool) {
		if externalID == "" {
			return "", false
		}
		if id, ok := playerByExt[externalID]; ok {
			return id, true
		}
		resolved, found, err := s.playerRepo.GetByExternalID(ctx, source, externalID)
		if err != nil || !found {
			return "", false
		}
		playerByExt[externalID] = resolved.ID
		return resolved.ID, true
	}

	events := make([]pbp.Event, 0, len(rawEvents))
	var links []pbp.Link
	for _, raw := range rawEvents {
		teamID, ok := teamByExt[raw.TeamExternalID]
		if !ok {
			return nil, nil, fmt.Errorf("event %d references unknown team %q", raw.EventNumber, raw.TeamExternalID)
		}

		attributes := make(map[string]any, len(raw.Attributes)+2)
		for k, v := range raw.Attributes {
			attributes[k] = v
		}
		if id, ok := resolvePlayer(raw.PlayerInExternalID); ok {
			attributes[pbp.AttrPlayerIn] = id
		}
		if id, ok := resolvePlayer(raw.PlayerOutExternalID); ok {
			attributes[pbp.AttrPlayerOut] = id
		}

		event := pbp.Event{
			EventNumber:  raw.EventNumber,
			Period:       raw.Period,
			Clock:        raw.Clock,
			EventType:    raw.EventType,
			EventSubtype: raw.EventSubtype,
			TeamID:       teamID,
			Success:      raw.Success,
			CoordX:       raw.CoordX,
			CoordY:       raw.CoordY,
			Attributes:   attributes,
		}
		if id, ok := resolvePlayer(raw.PlayerExternalID); ok {
			event.PlayerID = &id
		}
		events = append(events, event)

		for _, linkedTo := range raw.LinkedTo {
			links = append(links, pbp.Link{EventNumber: raw.EventNumber, LinkedTo: linkedTo})
		}
	}
	return events, links, nil
}

// ensureSeason resolves a provider season to the canonical row, creating the
// league and season on first sight.
func (s *SyncService) ensureSeason(ctx context.Context, adapter SourceAdapter, seasonExternalID string) (league.Season, error) {
	source := adapter.SourceName()
	if seasonExternalID == "" {
		return league.Season{}, fmt.Errorf("%w: season external id is required", ErrInvalidInput)
	}

	season, found, err := s.leagueRepo.GetSeasonByExternalID(ctx, source, seasonExternalID)
	if err != nil {
		return league.Season{}, fmt.Errorf("load season: %w", err)
	}
	if found {
		return season, nil
	}

	rawSeasons, err := adapter.GetSeasons(ctx)
	if err != nil {
		return league.Season{}, fmt.Errorf("fetch seasons: %w", err)
	}
	var raw *RawSeason
	for i := range rawSeasons {
		if rawSeasons[i].ExternalID == seasonExternalID {
			raw = &rawSeasons[i]
			break
		}
	}
	if raw == nil {
		return league.Season{}, fmt.Errorf("%w: season %q is unknown to %s", ErrNotFound, seasonExternalID, source)
	}

	lg, found, err := s.leagueRepo.GetLeagueByCode(ctx, source)
	if err != nil {
		return league.Season{}, fmt.Errorf("load league: %w", err)
	}
	if !found {
		lg, err = s.leagueRepo.UpsertLeague(ctx, league.League{
			Name: cases.Title(language.English).String(source),
			Code: source,
		})
		if err != nil {
			return league.Season{}, fmt.Errorf("create league for %s: %w", source, err)
		}
	}

	season, err = s.leagueRepo.UpsertSeason(ctx, league.Season{
		LeagueID:    lg.ID,
		Name:        raw.Name,
		StartDate:   raw.StartDate,
		EndDate:     raw.EndDate,
		IsCurrent:   raw.IsCurrent,
		ExternalIDs: map[string]string{source: seasonExternalID},
	})
	if err != nil {
		return league.Season{}, fmt.Errorf("upsert season %q: %w", raw.Name, err)
	}
	if season.IsCurrent {
		if err := s.leagueRepo.SetCurrentSeason(ctx, season.ID); err != nil {
			return league.Season{}, fmt.Errorf("mark season current: %w", err)
		}
	}
	return season, nil
}

func (s *SyncService) recalculate(ctx context.Context, tally *runTally) {
	if s.aggregator == nil || len(tally.tuples) == 0 || ctx.Err() != nil {
		return
	}
	if err := s.aggregator.RecalculateTuples(ctx, dedupeTuples(tally.tuples)); err != nil {
		s.logger.ErrorContext(ctx, "season aggregates recompute failed", "error", err)
		tally.aggregationErr = err
	}
}

func (s *SyncService) startLog(ctx context.Context, source, entityType string, seasonID, gameID *string) (synclog.SyncLog, error) {
	run, err := s.logRepo.Create(ctx, synclog.SyncLog{
		Source:     source,
		EntityType: entityType,
		Status:     synclog.StatusStarted,
		SeasonID:   seasonID,
		GameID:     gameID,
		StartedAt:  time.Now().UTC(),
	})
	if err != nil {
		return synclog.SyncLog{}, fmt.Errorf("open sync log: %w", err)
	}
	return run, nil
}

// failRun records a run that failed before its log could open normally.
func (s *SyncService) failRun(ctx context.Context, source, entityType string, seasonID, gameID *string, cause error) (synclog.SyncLog, error) {
	run, err := s.startLog(ctx, source, entityType, seasonID, gameID)
	if err != nil {
		return synclog.SyncLog{}, errors.Join(cause, err)
	}
	return s.finishFailed(ctx, run, cause)
}

func (s *SyncService) finishFailed(ctx context.Context, run synclog.SyncLog, cause error) (synclog.SyncLog, error) {
	now := time.Now().UTC()
	run.Status = synclog.StatusFailed
	run.ErrorMessage = cause.Error()
	run.CompletedAt = &now
	if err := s.logRepo.Finish(ctx, run); err != nil {
		s.logger.ErrorContext(ctx, "close failed sync log", "sync_log_id", run.ID, "error", err)
	}
	return run, cause
}

func (s *SyncService) finishRun(ctx context.Context, run synclog.SyncLog, tally *runTally) (synclog.SyncLog, error) {
	now := time.Now().UTC()
	run.RecordsProcessed = tally.processed
	run.RecordsCreated = tally.created
	run.RecordsUpdated = tally.updated
	run.RecordsSkipped = tally.skipped
	run.CompletedAt = &now

	details := map[string]any{}
	if len(tally.records) > 0 {
		details["records"] = tally.records
	}
	if tally.cancelled {
		details["cancelled"] = true
	}
	if len(details) > 0 {
		run.ErrorDetails = details
	}

	var runErr error
	switch {
	case tally.wholeRunFailed:
		run.Status = synclog.StatusFailed
		run.ErrorMessage = tally.firstFailureMessage()
		runErr = fmt.Errorf("sync failed: %s", run.ErrorMessage)
	case tally.cancelled:
		run.Status = synclog.StatusPartial
		run.ErrorMessage = "sync cancelled"
	case tally.failureCount() > 0 || tally.aggregationErr != nil:
		run.Status = synclog.StatusPartial
		if tally.aggregationErr != nil {
			run.ErrorMessage = fmt.Sprintf("aggregate recompute: %v", tally.aggregationErr)
		}
	default:
		run.Status = synclog.StatusCompleted
	}

	if err := s.logRepo.Finish(ctx, run); err != nil {
		return run, fmt.Errorf("close sync log %s: %w", run.ID, err)
	}
	s.logger.InfoContext(ctx, "sync run finished",
		"sync_log_id", run.ID,
		"source", run.Source,
		"entity_type", run.EntityType,
		"status", string(run.Status),
		"processed", run.RecordsProcessed,
		"created", run.RecordsCreated,
		"updated", run.RecordsUpdated,
		"skipped", run.RecordsSkipped,
	)
	return run, runErr
}

func (s *SyncService) runningFor(source string) *atomic.Int32 {
	if counter, ok := s.running[source]; ok {
		return counter
	}
	return &atomic.Int32{}
}

func (s *SyncService) checkWired() error {
	if s.leagueRepo == nil || s.teamRepo == nil || s.playerRepo == nil ||
		s.gameRepo == nil || s.bundles == nil || s.logRepo == nil || s.resolver == nil {
		return fmt.Errorf("%w: sync service is not fully configured", ErrDependencyUnavailable)
	}
	return nil
}

// runTally accumulates one run's counters. Skips cover already-synced games,
// unchanged payloads and failed records alike; only failures and
// cancellation make a run PARTIAL.
type runTally struct {
	processed int
	created   int
	updated   int
	skipped   int
	cancelled bool

	wholeRunFailed bool
	aggregationErr error

	records []synclog.RecordError
	tuples  []StatTuple
}

func newRunTally() *runTally {
	return &runTally{}
}

func (t *runTally) absorb(outcome gameOutcome) {
	t.records = append(t.records, outcome.notes...)
	t.tuples = append(t.tuples, outcome.tuples...)
	switch {
	case outcome.failure != nil:
		t.skipped++
		t.records = append(t.records, *outcome.failure)
	case outcome.unchanged:
		t.skipped++
	case outcome.created:
		t.created++
	case outcome.updated:
		t.updated++
	}
}

func (t *runTally) fail(externalID, kind string, err error) {
	t.skipped++
	t.records = append(t.records, synclog.RecordError{
		ExternalID: externalID,
		Kind:       kind,
		Message:    err.Error(),
	})
}

func (t *runTally) note(outcome ResolveOutcome, externalID string) {
	if !outcome.Ambiguous {
		return
	}
	t.records = append(t.records, synclog.RecordError{
		ExternalID: externalID,
		Kind:       synclog.KindAmbiguousMatch,
		Message:    fmt.Sprintf("ambiguous candidates %v", outcome.CandidateIDs),
	})
}

func (t *runTally) failureCount() int {
	count := 0
	for _, record := range t.records {
		if record.Kind != synclog.KindAmbiguousMatch {
			count++
		}
	}
	return count
}

func (t *runTally) firstFailureMessage() string {
	for _, record := range t.records {
		if record.Kind != synclog.KindAmbiguousMatch {
			return record.Message
		}
	}
	return "sync failed"
}

func classifyRecordKind(err error) string {
	var unknown *normalize.UnknownValueError
	switch {
	case errors.As(err, &unknown):
		return synclog.KindSchema
	case errors.Is(err, ErrIdentityConflict), errors.Is(err, extid.ErrConflict):
		return synclog.KindIdentityConflict
	case errors.Is(err, ErrTransport):
		return synclog.KindTransport
	default:
		return synclog.KindStorage
	}
}

func historyRow(playerID, teamID, seasonID string, raw RawPlayer) player.History {
	row := player.History{
		PlayerID:     playerID,
		TeamID:       teamID,
		SeasonID:     seasonID,
		JerseyNumber: raw.JerseyNumber,
	}
	if len(raw.Positions) > 0 {
		position := raw.Positions[0]
		row.Position = &position
	}
	return row
}

func statLineFromRaw(raw RawStatLine) boxscore.StatLine {
	return boxscore.StatLine{
		MinutesSeconds: raw.MinutesSeconds,
		Points:         raw.Points,
		FGM:            raw.FGM,
		FGA:            raw.FGA,
		TwoPM:          raw.TwoPM,
		TwoPA:          raw.TwoPA,
		ThreePM:        raw.ThreePM,
		ThreePA:        raw.ThreePA,
		FTM:            raw.FTM,
		FTA:            raw.FTA,
		OffRebounds:    raw.OffRebounds,
		DefRebounds:    raw.DefRebounds,
		TotRebounds:    raw.TotRebounds,
		Assists:        raw.Assists,
		Turnovers:      raw.Turnovers,
		Steals:         raw.Steals,
		Blocks:         raw.Blocks,
		PersonalFouls:  raw.PersonalFouls,
	}
}

func dedupeTuples(tuples []StatTuple) []StatTuple {
	seen := make(map[StatTuple]struct{}, len(tuples))
	out := make([]StatTuple, 0, len(tuples))
	for _, tuple := range tuples {
		if _, dup := seen[tuple]; dup {
			continue
		}
		seen[tuple] = struct{}{}
		out = append(out, tuple)
	}
	return out
}
