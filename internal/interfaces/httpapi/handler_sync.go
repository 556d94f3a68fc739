package httpapi

import (
	"net/http"
	"strings"

	"github.com/courtdata/hoopsync/internal/domain/synclog"
)

func includePBPQuery(r *http.Request) (bool, error) {
	v, err := boolQuery(r, "include_pbp")
	if err != nil {
		return false, err
	}
	return v != nil && *v, nil
}

func (h *Handler) TriggerSeasonSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerSeasonSync")
	defer span.End()

	source := strings.TrimSpace(r.PathValue("source"))
	seasonExternalID := strings.TrimSpace(r.PathValue("seasonExternalID"))
	includePBP, err := includePBPQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.syncService.SyncSeason(ctx, source, seasonExternalID, includePBP)
	if err != nil && run.ID == "" {
		h.logger.WarnContext(ctx, "season sync rejected", "source", source, "season_external_id", seasonExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if err != nil {
		// The run opened and finished in a terminal state; the log row is
		// the authoritative answer even when that state is FAILED.
		h.logger.ErrorContext(ctx, "season sync failed", "source", source, "sync_log_id", run.ID, "error", err)
	}

	writeSuccess(ctx, w, http.StatusAccepted, syncLogToDTO(run))
}

func (h *Handler) TriggerGameSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerGameSync")
	defer span.End()

	source := strings.TrimSpace(r.PathValue("source"))
	gameExternalID := strings.TrimSpace(r.PathValue("gameExternalID"))
	includePBP, err := includePBPQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	run, err := h.syncService.SyncGame(ctx, source, gameExternalID, includePBP)
	if err != nil && run.ID == "" {
		h.logger.WarnContext(ctx, "game sync rejected", "source", source, "game_external_id", gameExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "game sync failed", "source", source, "sync_log_id", run.ID, "error", err)
	}

	writeSuccess(ctx, w, http.StatusAccepted, syncLogToDTO(run))
}

func (h *Handler) TriggerTeamsSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerTeamsSync")
	defer span.End()

	source := strings.TrimSpace(r.PathValue("source"))
	seasonExternalID := strings.TrimSpace(r.PathValue("seasonExternalID"))

	run, err := h.syncService.SyncTeams(ctx, source, seasonExternalID)
	if err != nil && run.ID == "" {
		h.logger.WarnContext(ctx, "teams sync rejected", "source", source, "season_external_id", seasonExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "teams sync failed", "source", source, "sync_log_id", run.ID, "error", err)
	}

	writeSuccess(ctx, w, http.StatusAccepted, syncLogToDTO(run))
}

func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncStatus")
	defer span.End()

	statuses, err := h.syncService.Status(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]sourceStatusDTO, 0, len(statuses))
	for _, status := range statuses {
		items = append(items, sourceStatusToDTO(status))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SyncLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncLogs")
	defer span.End()

	limit, offset, err := pageQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	since, err := timeQuery(r, "since")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logs, total, err := h.syncService.Logs(ctx, synclog.ListFilter{
		Source:     strings.TrimSpace(r.URL.Query().Get("source")),
		EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
		Status:     synclog.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Since:      since,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "sync logs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncLogDTO, 0, len(logs))
	for _, run := range logs {
		items = append(items, syncLogToDTO(run))
	}

	writeSuccess(ctx, w, http.StatusOK, pagedDTO{Items: items, Total: total})
}
