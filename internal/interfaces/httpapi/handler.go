package httpapi

import (
	"net/http"

	"github.com/courtdata/hoopsync/internal/platform/logging"
	"github.com/courtdata/hoopsync/internal/usecase"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	queryService     *usecase.QueryService
	analyticsService *usecase.AnalyticsService
	syncService      *usecase.SyncService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	queryService *usecase.QueryService,
	analyticsService *usecase.AnalyticsService,
	syncService *usecase.SyncService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		queryService:     queryService,
		analyticsService: analyticsService,
		syncService:      syncService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
