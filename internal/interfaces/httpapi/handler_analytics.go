package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/courtdata/hoopsync/internal/usecase"
)

func clutchFilterFromQuery(r *http.Request) (usecase.ClutchFilter, error) {
	filter := usecase.ClutchFilter{}
	var err error
	if filter.TimeRemainingSeconds, err = intQuery(r, "time_remaining", 0); err != nil {
		return filter, err
	}
	if filter.ScoreMargin, err = intQuery(r, "margin", 0); err != nil {
		return filter, err
	}
	if filter.MinPeriod, err = intQuery(r, "min_period", 0); err != nil {
		return filter, err
	}
	// Overtime is clutch unless the caller opts out.
	overtime, err := boolQuery(r, "include_overtime")
	if err != nil {
		return filter, err
	}
	filter.IncludeOvertime = overtime == nil || *overtime
	return filter, nil
}

func situationalFilterFromQuery(r *http.Request) (usecase.SituationalFilter, error) {
	filter := usecase.SituationalFilter{
		ShotType: strings.TrimSpace(r.URL.Query().Get("shot_type")),
	}
	var err error
	if filter.FastBreak, err = boolQuery(r, "fast_break"); err != nil {
		return filter, err
	}
	if filter.SecondChance, err = boolQuery(r, "second_chance"); err != nil {
		return filter, err
	}
	if filter.Contested, err = boolQuery(r, "contested"); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *Handler) ClutchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClutchEvents")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	filter, err := clutchFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.analyticsService.ClutchEvents(ctx, gameID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "clutch events failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(events))
}

func (h *Handler) ClutchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClutchStats")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))
	filter, err := clutchFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	line, err := h.analyticsService.ClutchStats(ctx, gameID, playerID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "clutch stats failed", "game_id", gameID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, line)
}

func (h *Handler) SituationalShots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SituationalShots")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	playerID := strings.TrimSpace(r.URL.Query().Get("player_id"))
	filter, err := situationalFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	shots, err := h.analyticsService.SituationalShots(ctx, gameID, playerID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "situational shots failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(shots))
}

func (h *Handler) SituationalStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SituationalStats")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	playerID := strings.TrimSpace(r.URL.Query().Get("player_id"))
	filter, err := situationalFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	line, err := h.analyticsService.SituationalStats(ctx, gameID, playerID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "situational stats failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, line)
}

func (h *Handler) FilterEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FilterEvents")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))

	filter := usecase.TimeFilter{}
	var err error
	if filter.Period, err = intQuery(r, "period", 0); err != nil {
		writeError(ctx, w, err)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("periods")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				writeError(ctx, w, fmt.Errorf("%w: periods must be a comma-separated list of integers", usecase.ErrInvalidInput))
				return
			}
			filter.Periods = append(filter.Periods, v)
		}
	}
	garbage, err := boolQuery(r, "exclude_garbage_time")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	filter.ExcludeGarbageTime = garbage != nil && *garbage
	if raw := strings.TrimSpace(r.URL.Query().Get("min_time_remaining")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: min_time_remaining must be an integer", usecase.ErrInvalidInput))
			return
		}
		filter.MinTimeRemaining = &v
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("max_time_remaining")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: max_time_remaining must be an integer", usecase.ErrInvalidInput))
			return
		}
		filter.MaxTimeRemaining = &v
	}

	events, err := h.analyticsService.FilterEvents(ctx, gameID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "filter events failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(events))
}

func (h *Handler) QuarterSplits(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.QuarterSplits")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))

	splits, err := h.analyticsService.QuarterSplits(ctx, gameID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "quarter splits failed", "game_id", gameID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, splits)
}

func (h *Handler) OnOffAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OnOffAnalysis")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))

	result, err := h.analyticsService.OnOffAnalysis(ctx, gameID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "on/off analysis failed", "game_id", gameID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) LineupStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LineupStats")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	raw := strings.TrimSpace(r.URL.Query().Get("players"))
	if raw == "" {
		writeError(ctx, w, fmt.Errorf("%w: players is required", usecase.ErrInvalidInput))
		return
	}
	var playerIDs []string
	for _, part := range strings.Split(raw, ",") {
		playerIDs = append(playerIDs, strings.TrimSpace(part))
	}

	result, err := h.analyticsService.LineupStats(ctx, gameID, teamID, playerIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "lineup stats failed", "game_id", gameID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) BestLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BestLineups")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	size, err := intQuery(r, "size", 5)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	minSeconds, err := intQuery(r, "min_seconds", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	lineups, err := h.analyticsService.BestLineups(ctx, gameID, teamID, size, minSeconds)
	if err != nil {
		h.logger.WarnContext(ctx, "best lineups failed", "game_id", gameID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if limit > 0 && limit < len(lineups) {
		lineups = lineups[:limit]
	}

	writeSuccess(ctx, w, http.StatusOK, lineups)
}
