package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/platform/logging"
)

const (
	regulationPeriods       = 4
	regulationPeriodSeconds = 600
	overtimePeriodSeconds   = 300
)

// LineupPolicy decides what an incomplete substitution record means for
// lineup-dependent analytics: drop the affected floor time, or keep it and
// flag the result approximate.
type LineupPolicy string

const (
	LineupPolicyDrop    LineupPolicy = "drop"
	LineupPolicyDegrade LineupPolicy = "degrade"
)

type AnalyticsConfig struct {
	LineupPolicy LineupPolicy
}

// AnalyticsService answers play-by-play questions over the canonical store.
// It never writes; all results are deterministic functions of the persisted
// event stream in event-number order.
type AnalyticsService struct {
	gameRepo game.Repository
	boxRepo  boxscore.Repository
	pbpRepo  pbp.Repository
	cfg      AnalyticsConfig
	logger   *logging.Logger
}

func NewAnalyticsService(
	gameRepo game.Repository,
	boxRepo boxscore.Repository,
	pbpRepo pbp.Repository,
	cfg AnalyticsConfig,
	logger *logging.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LineupPolicy == "" {
		cfg.LineupPolicy = LineupPolicyDrop
	}
	return &AnalyticsService{
		gameRepo: gameRepo,
		boxRepo:  boxRepo,
		pbpRepo:  pbpRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

// EventStatLine is a stat bundle counted from events alone, used by the
// clutch, situational and split analytics.
type EventStatLine struct {
	Points    int `json:"points"`
	FGM       int `json:"fgm"`
	FGA       int `json:"fga"`
	ThreePM   int `json:"three_pm"`
	ThreePA   int `json:"three_pa"`
	FTM       int `json:"ftm"`
	FTA       int `json:"fta"`
	Rebounds  int `json:"rebounds"`
	Assists   int `json:"assists"`
	Turnovers int `json:"turnovers"`
	Steals    int `json:"steals"`
	Blocks    int `json:"blocks"`
	Fouls     int `json:"fouls"`
}

// scanEvent is one event annotated with the running score entering it.
type scanEvent struct {
	event        pbp.Event
	clockSeconds int
	elapsed      int
	homeBefore   int
	awayBefore   int
}

func (e scanEvent) marginBefore() int {
	return e.homeBefore - e.awayBefore
}

// ClutchEvents returns the game's events satisfying the clutch predicate, in
// event-number order.
func (s *AnalyticsService) ClutchEvents(ctx context.Context, gameID string, filter ClutchFilter) ([]pbp.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ClutchEvents")
	defer span.End()

	scan, err := s.scanGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	filter = filter.normalized()
	var out []pbp.Event
	for _, item := range scan {
		if filter.matches(item.event.Period, item.clockSeconds, item.marginBefore()) {
			out = append(out, item.event)
		}
	}
	return out, nil
}

// ClutchStats counts a player's production within the clutch windows of one
// game.
func (s *AnalyticsService) ClutchStats(ctx context.Context, gameID, playerID string, filter ClutchFilter) (EventStatLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ClutchStats")
	defer span.End()

	if playerID == "" {
		return EventStatLine{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	scan, err := s.scanGame(ctx, gameID)
	if err != nil {
		return EventStatLine{}, err
	}

	filter = filter.normalized()
	var line EventStatLine
	for _, item := range scan {
		if !filter.matches(item.event.Period, item.clockSeconds, item.marginBefore()) {
			continue
		}
		countEvent(&line, item.event, playerID)
	}
	return line, nil
}

// SituationalShots returns the game's SHOT events matching the attribute
// constraints, optionally narrowed to one player.
func (s *AnalyticsService) SituationalShots(ctx context.Context, gameID, playerID string, filter SituationalFilter) ([]pbp.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.SituationalShots")
	defer span.End()

	if s.pbpRepo == nil {
		return nil, fmt.Errorf("%w: play-by-play repository is not configured", ErrDependencyUnavailable)
	}
	events, err := s.pbpRepo.ListByGameType(ctx, gameID, pbp.EventShot)
	if err != nil {
		return nil, fmt.Errorf("load shots for game %s: %w", gameID, err)
	}

	var out []pbp.Event
	for _, event := range events {
		if playerID != "" && (event.PlayerID == nil || *event.PlayerID != playerID) {
			continue
		}
		if !matchesSituation(event, filter) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

// SituationalStats aggregates the matching shots into a stat bundle.
func (s *AnalyticsService) SituationalStats(ctx context.Context, gameID, playerID string, filter SituationalFilter) (EventStatLine, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.SituationalStats")
	defer span.End()

	shots, err := s.SituationalShots(ctx, gameID, playerID, filter)
	if err != nil {
		return EventStatLine{}, err
	}
	var line EventStatLine
	for _, event := range shots {
		target := playerID
		if target == "" && event.PlayerID != nil {
			target = *event.PlayerID
		}
		countEvent(&line, event, target)
	}
	return line, nil
}

// FilterEvents applies a time filter over the game's event stream.
func (s *AnalyticsService) FilterEvents(ctx context.Context, gameID string, filter TimeFilter) ([]pbp.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.FilterEvents")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return nil, err
	}
	scan, err := s.scanGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var out []pbp.Event
	for _, item := range scan {
		if filter.matches(item.event.Period, item.clockSeconds, item.marginBefore()) {
			out = append(out, item.event)
		}
	}
	return out, nil
}

// QuarterSplit is one period's production for a player; overtime periods
// merge into a single split flagged IsOvertime.
type QuarterSplit struct {
	Period     int           `json:"period"`
	IsOvertime bool          `json:"is_overtime"`
	Line       EventStatLine `json:"line"`
}

// QuarterSplits buckets a player's event production by period, regulation
// quarters first, then one merged overtime bundle.
func (s *AnalyticsService) QuarterSplits(ctx context.Context, gameID, playerID string) ([]QuarterSplit, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.QuarterSplits")
	defer span.End()

	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	scan, err := s.scanGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	byPeriod := make(map[int]*EventStatLine)
	var overtime *EventStatLine
	for _, item := range scan {
		var bucket *EventStatLine
		if item.event.Period > regulationPeriods {
			if overtime == nil {
				overtime = &EventStatLine{}
			}
			bucket = overtime
		} else {
			if byPeriod[item.event.Period] == nil {
				byPeriod[item.event.Period] = &EventStatLine{}
			}
			bucket = byPeriod[item.event.Period]
		}
		countEvent(bucket, item.event, playerID)
	}

	periods := make([]int, 0, len(byPeriod))
	for period := range byPeriod {
		periods = append(periods, period)
	}
	sort.Ints(periods)

	out := make([]QuarterSplit, 0, len(periods)+1)
	for _, period := range periods {
		out = append(out, QuarterSplit{Period: period, Line: *byPeriod[period]})
	}
	if overtime != nil {
		out = append(out, QuarterSplit{Period: regulationPeriods + 1, IsOvertime: true, Line: *overtime})
	}
	return out, nil
}

// scanGame loads a game's events and annotates each with the running score
// entering it. The event stream is trusted to arrive in event-number order.
func (s *AnalyticsService) scanGame(ctx context.Context, gameID string) ([]scanEvent, error) {
	if s.gameRepo == nil || s.pbpRepo == nil {
		return nil, fmt.Errorf("%w: analytics repositories are not configured", ErrDependencyUnavailable)
	}
	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, found, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	events, err := s.pbpRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load play-by-play for %s: %w", gameID, err)
	}
	return annotateEvents(item, events)
}

func annotateEvents(item game.Game, events []pbp.Event) ([]scanEvent, error) {
	out := make([]scanEvent, 0, len(events))
	home, away := 0, 0
	for _, event := range events {
		clockSeconds, err := event.ClockSeconds()
		if err != nil {
			return nil, fmt.Errorf("event %d of game %s: %w", event.EventNumber, item.ID, err)
		}
		out = append(out, scanEvent{
			event:        event,
			clockSeconds: clockSeconds,
			elapsed:      elapsedSeconds(event.Period, clockSeconds),
			homeBefore:   home,
			awayBefore:   away,
		})

		points := event.PointsValue()
		if points == 0 {
			continue
		}
		if event.TeamID == item.HomeTeamID {
			home += points
		} else {
			away += points
		}
	}
	return out, nil
}

// elapsedSeconds converts (period, clock remaining) to seconds since tip-off.
// Regulation periods run 10 minutes, overtime 5.
func elapsedSeconds(period, clockSeconds int) int {
	if period <= regulationPeriods {
		return (period-1)*regulationPeriodSeconds + (regulationPeriodSeconds - clockSeconds)
	}
	regulation := regulationPeriods * regulationPeriodSeconds
	return regulation + (period-regulationPeriods-1)*overtimePeriodSeconds + (overtimePeriodSeconds - clockSeconds)
}

func countEvent(line *EventStatLine, event pbp.Event, playerID string) {
	if playerID == "" || event.PlayerID == nil || *event.PlayerID != playerID {
		return
	}
	made := event.Success != nil && *event.Success

	switch event.EventType {
	case pbp.EventShot:
		points := 2
		if raw, ok := event.Attributes[pbp.AttrPointsValue]; ok {
			if v, ok := attributeInt(raw); ok && v > 0 {
				points = v
			}
		}
		line.FGA++
		if points == 3 {
			line.ThreePA++
		}
		if made {
			line.FGM++
			line.Points += points
			if points == 3 {
				line.ThreePM++
			}
		}
	case pbp.EventFreeThrow:
		line.FTA++
		if made {
			line.FTM++
			line.Points++
		}
	case pbp.EventRebound:
		line.Rebounds++
	case pbp.EventAssist:
		line.Assists++
	case pbp.EventTurnover:
		line.Turnovers++
	case pbp.EventSteal:
		line.Steals++
	case pbp.EventBlock:
		line.Blocks++
	case pbp.EventFoul:
		line.Fouls++
	}
}

func matchesSituation(event pbp.Event, filter SituationalFilter) bool {
	if filter.FastBreak != nil && attributeBool(event.Attributes[pbp.AttrFastBreak]) != *filter.FastBreak {
		return false
	}
	if filter.SecondChance != nil && attributeBool(event.Attributes[pbp.AttrSecondChance]) != *filter.SecondChance {
		return false
	}
	if filter.Contested != nil && attributeBool(event.Attributes[pbp.AttrContested]) != *filter.Contested {
		return false
	}
	if filter.ShotType != "" {
		raw, ok := event.Attributes[pbp.AttrShotType].(string)
		if !ok || raw != filter.ShotType {
			return false
		}
	}
	return true
}

func attributeBool(raw any) bool {
	value, ok := raw.(bool)
	return ok && value
}

func attributeInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
