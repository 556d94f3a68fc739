package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
)

// floorSegment is a stretch of game time with a fixed on-court set per team.
// Boundaries are substitution events; points are attributed to the segment
// they were scored in.
type floorSegment struct {
	start   int
	end     int
	onCourt map[string]map[string]struct{}
	points  map[string]int
	unknown map[string]bool
}

func (s *floorSegment) duration() int {
	return s.end - s.start
}

// OnOffBucket aggregates floor time with the subject either on or off.
type OnOffBucket struct {
	Seconds    int `json:"seconds"`
	TeamPoints int `json:"team_points"`
	OppPoints  int `json:"opp_points"`
	PlusMinus  int `json:"plus_minus"`
}

type OnOffResult struct {
	PlayerID string      `json:"player_id"`
	GameID   string      `json:"game_id"`
	TeamID   string      `json:"team_id"`
	On       OnOffBucket `json:"on"`
	Off      OnOffBucket `json:"off"`
	// DroppedSeconds is floor time excluded because the lineup became
	// indeterminate under the drop policy.
	DroppedSeconds int  `json:"dropped_seconds"`
	Approximate    bool `json:"approximate"`
}

type LineupResult struct {
	PlayerIDs   []string `json:"player_ids"`
	Seconds     int      `json:"seconds"`
	TeamPoints  int      `json:"team_points"`
	OppPoints   int      `json:"opp_points"`
	PlusMinus   int      `json:"plus_minus"`
	Approximate bool     `json:"approximate"`
}

// OnOffAnalysis reconstructs the player's floor time from substitutions and
// compares team scoring with the player on versus off the court.
func (s *AnalyticsService) OnOffAnalysis(ctx context.Context, gameID, playerID string) (OnOffResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.OnOffAnalysis")
	defer span.End()

	if playerID == "" {
		return OnOffResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, playerStats, scan, err := s.loadLineupInputs(ctx, gameID)
	if err != nil {
		return OnOffResult{}, err
	}

	teamID := ""
	for _, line := range playerStats {
		if line.PlayerID == playerID {
			teamID = line.TeamID
			break
		}
	}
	if teamID == "" {
		return OnOffResult{}, fmt.Errorf("%w: player %s did not appear in game %s", ErrNotFound, playerID, gameID)
	}
	oppID := item.AwayTeamID
	if teamID == item.AwayTeamID {
		oppID = item.HomeTeamID
	}

	segments, approximate := buildFloorSegments(item, playerStats, scan, s.cfg.LineupPolicy)

	result := OnOffResult{PlayerID: playerID, GameID: gameID, TeamID: teamID, Approximate: approximate}
	for i := range segments {
		segment := &segments[i]
		if segment.duration() <= 0 {
			continue
		}
		if segment.unknown[teamID] {
			result.DroppedSeconds += segment.duration()
			continue
		}

		bucket := &result.Off
		if _, on := segment.onCourt[teamID][playerID]; on {
			bucket = &result.On
		}
		bucket.Seconds += segment.duration()
		bucket.TeamPoints += segment.points[teamID]
		bucket.OppPoints += segment.points[oppID]
	}
	result.On.PlusMinus = result.On.TeamPoints - result.On.OppPoints
	result.Off.PlusMinus = result.Off.TeamPoints - result.Off.OppPoints
	return result, nil
}

// LineupStats accumulates the floor time where every listed player (2 to 5)
// was on the court for the team.
func (s *AnalyticsService) LineupStats(ctx context.Context, gameID, teamID string, playerIDs []string) (LineupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.LineupStats")
	defer span.End()

	ids, err := normalizeLineup(playerIDs)
	if err != nil {
		return LineupResult{}, err
	}

	item, playerStats, scan, err := s.loadLineupInputs(ctx, gameID)
	if err != nil {
		return LineupResult{}, err
	}
	oppID, err := opponentOf(item, teamID)
	if err != nil {
		return LineupResult{}, err
	}

	segments, approximate := buildFloorSegments(item, playerStats, scan, s.cfg.LineupPolicy)

	result := LineupResult{PlayerIDs: ids, Approximate: approximate}
	for i := range segments {
		segment := &segments[i]
		if segment.duration() <= 0 || segment.unknown[teamID] {
			continue
		}
		if !allOnCourt(segment.onCourt[teamID], ids) {
			continue
		}
		result.Seconds += segment.duration()
		result.TeamPoints += segment.points[teamID]
		result.OppPoints += segment.points[oppID]
	}
	result.PlusMinus = result.TeamPoints - result.OppPoints
	return result, nil
}

// BestLineups enumerates every distinct size-combination observed on the
// floor for the team and ranks them by plus/minus. Ties break on the sorted
// player id key so output is stable.
func (s *AnalyticsService) BestLineups(ctx context.Context, gameID, teamID string, size, minSeconds int) ([]LineupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.BestLineups")
	defer span.End()

	if size < 2 || size > 5 {
		return nil, fmt.Errorf("%w: lineup size must be between 2 and 5", ErrInvalidInput)
	}

	item, playerStats, scan, err := s.loadLineupInputs(ctx, gameID)
	if err != nil {
		return nil, err
	}
	oppID, err := opponentOf(item, teamID)
	if err != nil {
		return nil, err
	}

	segments, approximate := buildFloorSegments(item, playerStats, scan, s.cfg.LineupPolicy)

	byKey := make(map[string]*LineupResult)
	for i := range segments {
		segment := &segments[i]
		if segment.duration() <= 0 || segment.unknown[teamID] {
			continue
		}

		onCourt := make([]string, 0, len(segment.onCourt[teamID]))
		for id := range segment.onCourt[teamID] {
			onCourt = append(onCourt, id)
		}
		sort.Strings(onCourt)

		for _, combo := range combinations(onCourt, size) {
			key := strings.Join(combo, ",")
			entry, ok := byKey[key]
			if !ok {
				entry = &LineupResult{PlayerIDs: combo, Approximate: approximate}
				byKey[key] = entry
			}
			entry.Seconds += segment.duration()
			entry.TeamPoints += segment.points[teamID]
			entry.OppPoints += segment.points[oppID]
		}
	}

	out := make([]LineupResult, 0, len(byKey))
	for _, entry := range byKey {
		if entry.Seconds < minSeconds {
			continue
		}
		entry.PlusMinus = entry.TeamPoints - entry.OppPoints
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlusMinus != out[j].PlusMinus {
			return out[i].PlusMinus > out[j].PlusMinus
		}
		return strings.Join(out[i].PlayerIDs, ",") < strings.Join(out[j].PlayerIDs, ",")
	})
	return out, nil
}

func (s *AnalyticsService) loadLineupInputs(ctx context.Context, gameID string) (game.Game, []boxscore.PlayerGameStats, []scanEvent, error) {
	if s.boxRepo == nil {
		return game.Game{}, nil, nil, fmt.Errorf("%w: box score repository is not configured", ErrDependencyUnavailable)
	}

	item, found, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, nil, nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	if !found {
		return game.Game{}, nil, nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	playerStats, err := s.boxRepo.ListPlayerStatsByGame(ctx, gameID)
	if err != nil {
		return game.Game{}, nil, nil, fmt.Errorf("load box score for %s: %w", gameID, err)
	}
	events, err := s.pbpRepo.ListByGame(ctx, gameID)
	if err != nil {
		return game.Game{}, nil, nil, fmt.Errorf("load play-by-play for %s: %w", gameID, err)
	}
	scan, err := annotateEvents(item, events)
	if err != nil {
		return game.Game{}, nil, nil, err
	}
	return item, playerStats, scan, nil
}

// buildFloorSegments replays substitutions over the starters to produce the
// lineup timeline. A substitution missing either player id makes that team's
// lineup indeterminate: the drop policy poisons the remaining segments for
// that team, the degrade policy applies what it can and flags the result.
func buildFloorSegments(item game.Game, playerStats []boxscore.PlayerGameStats, scan []scanEvent, policy LineupPolicy) ([]floorSegment, bool) {
	current := map[string]map[string]struct{}{
		item.HomeTeamID: {},
		item.AwayTeamID: {},
	}
	for _, line := range playerStats {
		if line.IsStarter {
			if current[line.TeamID] == nil {
				current[line.TeamID] = map[string]struct{}{}
			}
			current[line.TeamID][line.PlayerID] = struct{}{}
		}
	}
	unknown := map[string]bool{}
	approximate := false

	var segments []floorSegment
	segment := newFloorSegment(0, current, unknown)
	for _, entry := range scan {
		if points := entry.event.PointsValue(); points > 0 {
			segment.points[entry.event.TeamID] += points
		}
		if entry.event.EventType != pbp.EventSubstitution {
			continue
		}

		segment.end = entry.elapsed
		if segment.duration() > 0 {
			segments = append(segments, *segment)
		}

		teamID := entry.event.TeamID
		inID, okIn := entry.event.Attributes[pbp.AttrPlayerIn].(string)
		outID, okOut := entry.event.Attributes[pbp.AttrPlayerOut].(string)
		if !okIn || !okOut {
			if policy == LineupPolicyDegrade {
				approximate = true
			} else {
				unknown[teamID] = true
			}
		}
		if current[teamID] == nil {
			current[teamID] = map[string]struct{}{}
		}
		if okOut {
			delete(current[teamID], outID)
		}
		if okIn {
			current[teamID][inID] = struct{}{}
		}

		segment = newFloorSegment(entry.elapsed, current, unknown)
	}

	if len(scan) > 0 {
		segment.end = scan[len(scan)-1].elapsed
		if segment.duration() > 0 {
			segments = append(segments, *segment)
		}
	}
	return segments, approximate
}

func newFloorSegment(start int, current map[string]map[string]struct{}, unknown map[string]bool) *floorSegment {
	onCourt := make(map[string]map[string]struct{}, len(current))
	for teamID, players := range current {
		set := make(map[string]struct{}, len(players))
		for id := range players {
			set[id] = struct{}{}
		}
		onCourt[teamID] = set
	}
	unknownCopy := make(map[string]bool, len(unknown))
	for teamID, flag := range unknown {
		unknownCopy[teamID] = flag
	}
	return &floorSegment{
		start:   start,
		onCourt: onCourt,
		points:  map[string]int{},
		unknown: unknownCopy,
	}
}

func normalizeLineup(playerIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(playerIDs))
	ids := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: lineup player ids cannot be empty", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate lineup player %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) < 2 || len(ids) > 5 {
		return nil, fmt.Errorf("%w: lineup must list between 2 and 5 players", ErrInvalidInput)
	}
	sort.Strings(ids)
	return ids, nil
}

func opponentOf(item game.Game, teamID string) (string, error) {
	switch teamID {
	case item.HomeTeamID:
		return item.AwayTeamID, nil
	case item.AwayTeamID:
		return item.HomeTeamID, nil
	default:
		return "", fmt.Errorf("%w: team %s did not play game %s", ErrInvalidInput, teamID, item.ID)
	}
}

func allOnCourt(onCourt map[string]struct{}, ids []string) bool {
	for _, id := range ids {
		if _, ok := onCourt[id]; !ok {
			return false
		}
	}
	return true
}

// combinations returns every k-subset of sorted ids, each itself sorted.
func combinations(ids []string, k int) [][]string {
	if k > len(ids) {
		return nil
	}
	var out [][]string
	combo := make([]string, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			out = append(out, append([]string(nil), combo...))
			return
		}
		for i := start; i <= len(ids)-(k-depth); i++ {
			combo[depth] = ids[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
