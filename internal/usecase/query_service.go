package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/league"
	"github.com/courtdata/hoopsync/internal/domain/normalize"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/platform/logging"
)

// Leader board categories. Counting categories rank by per-game average,
// percentage categories by the stored decimal ratio.
const (
	LeaderPoints     = "points"
	LeaderRebounds   = "rebounds"
	LeaderAssists    = "assists"
	LeaderSteals     = "steals"
	LeaderBlocks     = "blocks"
	LeaderFGPct      = "fg_pct"
	LeaderThreePct   = "3pt_pct"
	LeaderFTPct      = "ft_pct"
	LeaderMinutes    = "minutes"
	LeaderEfficiency = "efficiency"
)

const defaultLeaderLimit = 10

type LeadersInput struct {
	SeasonID string
	Category string
	Limit    int
	MinGames int
}

type LeaderEntry struct {
	PlayerID    string   `json:"player_id"`
	TeamIDs     []string `json:"team_ids"`
	GamesPlayed int      `json:"games_played"`
	Value       float64  `json:"value"`
}

// QueryService is the read facade consumed by external handlers. It never
// mutates; everything is a filtered projection of the canonical store.
type QueryService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	gameRepo   game.Repository
	boxRepo    boxscore.Repository
	statsRepo  seasonstats.Repository
	logger     *logging.Logger
}

func NewQueryService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	gameRepo game.Repository,
	boxRepo boxscore.Repository,
	statsRepo seasonstats.Repository,
	logger *logging.Logger,
) *QueryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &QueryService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		boxRepo:    boxRepo,
		statsRepo:  statsRepo,
		logger:     logger,
	}
}

// Leaders ranks a season's players in one category. A traded player's rows
// combine into a single entry; ties break on player id ascending so the
// board is stable across calls.
func (s *QueryService) Leaders(ctx context.Context, input LeadersInput) ([]LeaderEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.Leaders")
	defer span.End()

	if s.statsRepo == nil {
		return nil, fmt.Errorf("%w: season stats repository is not configured", ErrDependencyUnavailable)
	}
	if input.SeasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if !validLeaderCategory(input.Category) {
		return nil, fmt.Errorf("%w: unknown leader category %q", ErrInvalidInput, input.Category)
	}
	if input.Limit <= 0 {
		input.Limit = defaultLeaderLimit
	}

	rows, err := s.statsRepo.ListBySeason(ctx, input.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("load season stats: %w", err)
	}

	combined := combineByPlayer(rows)
	entries := make([]LeaderEntry, 0, len(combined))
	for _, row := range combined {
		if row.GamesPlayed < input.MinGames {
			continue
		}
		value, ok := leaderValue(row.PlayerSeasonStats, input.Category)
		if !ok {
			continue
		}
		entries = append(entries, LeaderEntry{
			PlayerID:    row.PlayerID,
			TeamIDs:     row.teamIDs,
			GamesPlayed: row.GamesPlayed,
			Value:       value,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if len(entries) > input.Limit {
		entries = entries[:input.Limit]
	}
	return entries, nil
}

func (s *QueryService) ListPlayers(ctx context.Context, filter player.ListFilter) ([]player.Player, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListPlayers")
	defer span.End()

	if s.playerRepo == nil {
		return nil, 0, fmt.Errorf("%w: player repository is not configured", ErrDependencyUnavailable)
	}
	return s.playerRepo.List(ctx, filter)
}

// ListTeams lists teams, optionally scoped to a season, with a folded
// substring search over the name.
func (s *QueryService) ListTeams(ctx context.Context, search, seasonID string, limit, offset int) ([]team.Team, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListTeams")
	defer span.End()

	if s.teamRepo == nil {
		return nil, 0, fmt.Errorf("%w: team repository is not configured", ErrDependencyUnavailable)
	}

	var (
		items []team.Team
		err   error
	)
	if seasonID != "" {
		items, err = s.teamRepo.ListBySeason(ctx, seasonID)
	} else {
		items, err = s.teamRepo.List(ctx)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list teams: %w", err)
	}

	if search != "" {
		needle := normalize.Fold(search)
		filtered := items[:0]
		for _, item := range items {
			if strings.Contains(item.NameKey(), needle) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	total := len(items)
	return pageSlice(items, limit, offset), total, nil
}

func (s *QueryService) ListGames(ctx context.Context, filter game.ListFilter) ([]game.Game, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListGames")
	defer span.End()

	if s.gameRepo == nil {
		return nil, 0, fmt.Errorf("%w: game repository is not configured", ErrDependencyUnavailable)
	}
	return s.gameRepo.List(ctx, filter)
}

// TeamGames lists a team's games through an opponent filter (opponent team,
// home-only or away-only splits).
func (s *QueryService) TeamGames(ctx context.Context, teamID, seasonID string, opp OpponentFilter, limit, offset int) ([]game.Game, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.TeamGames")
	defer span.End()

	if teamID == "" {
		return nil, 0, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if err := opp.Validate(); err != nil {
		return nil, 0, err
	}

	items, _, err := s.gameRepo.List(ctx, game.ListFilter{TeamID: teamID, SeasonID: seasonID})
	if err != nil {
		return nil, 0, fmt.Errorf("list team games: %w", err)
	}

	filtered := items[:0]
	for _, item := range items {
		home := item.HomeTeamID == teamID
		if opp.HomeOnly && !home {
			continue
		}
		if opp.AwayOnly && home {
			continue
		}
		if opp.OpponentTeamID != "" {
			opponent := item.AwayTeamID
			if !home {
				opponent = item.HomeTeamID
			}
			if opponent != opp.OpponentTeamID {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	total := len(filtered)
	return pageSlice(filtered, limit, offset), total, nil
}

type PlayerDetail struct {
	Player      player.Player                   `json:"player"`
	History     []player.History                `json:"history"`
	SeasonStats []seasonstats.PlayerSeasonStats `json:"season_stats"`
}

func (s *QueryService) GetPlayer(ctx context.Context, playerID string) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetPlayer")
	defer span.End()

	item, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("load player %s: %w", playerID, err)
	}
	if !found {
		return PlayerDetail{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	history, err := s.playerRepo.ListHistoryByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("load history for %s: %w", playerID, err)
	}
	stats, err := s.statsRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("load season stats for %s: %w", playerID, err)
	}
	return PlayerDetail{Player: item, History: history, SeasonStats: stats}, nil
}

type TeamDetail struct {
	Team   team.Team       `json:"team"`
	Roster []player.Player `json:"roster"`
}

func (s *QueryService) GetTeam(ctx context.Context, teamID string) (TeamDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetTeam")
	defer span.End()

	item, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("load team %s: %w", teamID, err)
	}
	if !found {
		return TeamDetail{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}

	roster, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("load roster for %s: %w", teamID, err)
	}
	return TeamDetail{Team: item, Roster: roster}, nil
}

type GameDetail struct {
	Game        game.Game                 `json:"game"`
	HomeTeam    team.Team                 `json:"home_team"`
	AwayTeam    team.Team                 `json:"away_team"`
	PlayerStats []boxscore.PlayerGameStats `json:"player_stats"`
	TeamStats   []boxscore.TeamGameStats   `json:"team_stats"`
}

func (s *QueryService) GetGame(ctx context.Context, gameID string) (GameDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetGame")
	defer span.End()

	item, found, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return GameDetail{}, fmt.Errorf("load game %s: %w", gameID, err)
	}
	if !found {
		return GameDetail{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	detail := GameDetail{Game: item}
	if detail.HomeTeam, _, err = s.teamRepo.GetByID(ctx, item.HomeTeamID); err != nil {
		return GameDetail{}, fmt.Errorf("load home team: %w", err)
	}
	if detail.AwayTeam, _, err = s.teamRepo.GetByID(ctx, item.AwayTeamID); err != nil {
		return GameDetail{}, fmt.Errorf("load away team: %w", err)
	}
	if detail.PlayerStats, err = s.boxRepo.ListPlayerStatsByGame(ctx, gameID); err != nil {
		return GameDetail{}, fmt.Errorf("load player box score: %w", err)
	}
	if detail.TeamStats, err = s.boxRepo.ListTeamStatsByGame(ctx, gameID); err != nil {
		return GameDetail{}, fmt.Errorf("load team box score: %w", err)
	}
	return detail, nil
}

func (s *QueryService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListLeagues")
	defer span.End()

	return s.leagueRepo.ListLeagues(ctx)
}

func (s *QueryService) ListSeasons(ctx context.Context, leagueID string) ([]league.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListSeasons")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	return s.leagueRepo.ListSeasonsByLeague(ctx, leagueID)
}

// combinedRow merges a traded player's per-team rows back into one line for
// ranking. Percentages and averages are recomputed from the summed totals.
type combinedRow struct {
	seasonstats.PlayerSeasonStats
	teamIDs []string
}

func combineByPlayer(rows []seasonstats.PlayerSeasonStats) []combinedRow {
	byPlayer := make(map[string]*combinedRow)
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		entry, ok := byPlayer[row.PlayerID]
		if !ok {
			copied := row
			byPlayer[row.PlayerID] = &combinedRow{PlayerSeasonStats: copied, teamIDs: []string{row.TeamID}}
			order = append(order, row.PlayerID)
			continue
		}

		entry.teamIDs = append(entry.teamIDs, row.TeamID)
		entry.GamesPlayed += row.GamesPlayed
		entry.GamesStarted += row.GamesStarted
		entry.MinutesSeconds += row.MinutesSeconds
		entry.Points += row.Points
		entry.FGM += row.FGM
		entry.FGA += row.FGA
		entry.TwoPM += row.TwoPM
		entry.TwoPA += row.TwoPA
		entry.ThreePM += row.ThreePM
		entry.ThreePA += row.ThreePA
		entry.FTM += row.FTM
		entry.FTA += row.FTA
		entry.TotRebounds += row.TotRebounds
		entry.Assists += row.Assists
		entry.Steals += row.Steals
		entry.Blocks += row.Blocks
		entry.Turnovers += row.Turnovers
		entry.Efficiency += row.Efficiency
	}

	out := make([]combinedRow, 0, len(order))
	for _, playerID := range order {
		entry := byPlayer[playerID]
		sort.Strings(entry.teamIDs)
		out = append(out, *entry)
	}
	return out
}

func leaderValue(row seasonstats.PlayerSeasonStats, category string) (float64, bool) {
	if row.GamesPlayed == 0 {
		return 0, false
	}
	games := float64(row.GamesPlayed)

	switch category {
	case LeaderPoints:
		return roundAvg(float64(row.Points) / games), true
	case LeaderRebounds:
		return roundAvg(float64(row.TotRebounds) / games), true
	case LeaderAssists:
		return roundAvg(float64(row.Assists) / games), true
	case LeaderSteals:
		return roundAvg(float64(row.Steals) / games), true
	case LeaderBlocks:
		return roundAvg(float64(row.Blocks) / games), true
	case LeaderMinutes:
		return roundAvg(float64(row.MinutesSeconds) / games), true
	case LeaderEfficiency:
		return roundAvg(float64(row.Efficiency) / games), true
	case LeaderFGPct:
		if row.FGA == 0 {
			return 0, false
		}
		return roundPct(float64(row.FGM) / float64(row.FGA)), true
	case LeaderThreePct:
		if row.ThreePA == 0 {
			return 0, false
		}
		return roundPct(float64(row.ThreePM) / float64(row.ThreePA)), true
	case LeaderFTPct:
		if row.FTA == 0 {
			return 0, false
		}
		return roundPct(float64(row.FTM) / float64(row.FTA)), true
	default:
		return 0, false
	}
}

func validLeaderCategory(category string) bool {
	switch category {
	case LeaderPoints, LeaderRebounds, LeaderAssists, LeaderSteals, LeaderBlocks,
		LeaderFGPct, LeaderThreePct, LeaderFTPct, LeaderMinutes, LeaderEfficiency:
		return true
	default:
		return false
	}
}

func pageSlice[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
