package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/usecase"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.queryService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	seasons, err := h.queryService.ListSeasons(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list seasons failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonDTO, 0, len(seasons))
	for _, s := range seasons {
		items = append(items, seasonToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type leadersQuery struct {
	Category string `validate:"required,oneof=points rebounds assists steals blocks fg_pct 3pt_pct ft_pct minutes efficiency"`
	Limit    int    `validate:"gte=0,lte=100"`
	MinGames int    `validate:"gte=0"`
}

func (h *Handler) Leaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaders")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))

	query := leadersQuery{Category: strings.TrimSpace(r.URL.Query().Get("category"))}
	var err error
	if query.Limit, err = intQuery(r, "limit", 0); err != nil {
		writeError(ctx, w, err)
		return
	}
	if query.MinGames, err = intQuery(r, "min_games", 0); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.StructCtx(ctx, query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	leaders, err := h.queryService.Leaders(ctx, usecase.LeadersInput{
		SeasonID: seasonID,
		Category: query.Category,
		Limit:    query.Limit,
		MinGames: query.MinGames,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "leaders failed", "season_id", seasonID, "category", query.Category, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaders)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	limit, offset, err := pageQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	seasonID := strings.TrimSpace(r.URL.Query().Get("season_id"))

	teams, total, err := h.queryService.ListTeams(ctx, search, seasonID, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, pagedDTO{Items: items, Total: total})
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	detail, err := h.queryService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	roster := make([]playerDTO, 0, len(detail.Roster))
	for _, p := range detail.Roster {
		roster = append(roster, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"team":   teamToDTO(detail.Team),
		"roster": roster,
	})
}

func (h *Handler) TeamGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamGames")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	limit, offset, err := pageQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	homeOnly, err := boolQuery(r, "home_only")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	awayOnly, err := boolQuery(r, "away_only")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	opp := usecase.OpponentFilter{
		OpponentTeamID: strings.TrimSpace(r.URL.Query().Get("opponent_id")),
		HomeOnly:       homeOnly != nil && *homeOnly,
		AwayOnly:       awayOnly != nil && *awayOnly,
	}
	seasonID := strings.TrimSpace(r.URL.Query().Get("season_id"))

	games, total, err := h.queryService.TeamGames(ctx, teamID, seasonID, opp, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "team games failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, pagedDTO{Items: items, Total: total})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	limit, offset, err := pageQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, total, err := h.queryService.ListPlayers(ctx, player.ListFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		TeamID: strings.TrimSpace(r.URL.Query().Get("team_id")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, pagedDTO{Items: items, Total: total})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	detail, err := h.queryService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	history := make([]playerHistoryDTO, 0, len(detail.History))
	for _, row := range detail.History {
		history = append(history, historyToDTO(row))
	}
	stats := make([]seasonStatsDTO, 0, len(detail.SeasonStats))
	for _, row := range detail.SeasonStats {
		stats = append(stats, seasonStatsToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"player":       playerToDTO(detail.Player),
		"history":      history,
		"season_stats": stats,
	})
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	limit, offset, err := pageQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	from, err := timeQuery(r, "from")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	to, err := timeQuery(r, "to")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	filter := game.ListFilter{
		SeasonID: strings.TrimSpace(r.URL.Query().Get("season_id")),
		TeamID:   strings.TrimSpace(r.URL.Query().Get("team_id")),
		Status:   game.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		From:     from,
		To:       to,
		Limit:    limit,
		Offset:   offset,
	}

	games, total, err := h.queryService.ListGames(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, pagedDTO{Items: items, Total: total})
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	detail, err := h.queryService.GetGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	playerStats := make([]playerGameStatsDTO, 0, len(detail.PlayerStats))
	for _, row := range detail.PlayerStats {
		playerStats = append(playerStats, playerGameStatsToDTO(row))
	}
	teamStats := make([]teamGameStatsDTO, 0, len(detail.TeamStats))
	for _, row := range detail.TeamStats {
		teamStats = append(teamStats, teamGameStatsToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"game":         gameToDTO(detail.Game),
		"home_team":    teamToDTO(detail.HomeTeam),
		"away_team":    teamToDTO(detail.AwayTeam),
		"player_stats": playerStats,
		"team_stats":   teamStats,
	})
}
