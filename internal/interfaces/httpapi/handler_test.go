package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
	"github.com/courtdata/hoopsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/hoopsync/internal/platform/id"
	"github.com/courtdata/hoopsync/internal/platform/logging"
	"github.com/courtdata/hoopsync/internal/usecase"
)

const testSyncToken = "test-sync-token"

func newTestRouter(t *testing.T) (*memory.Store, http.Handler) {
	t.Helper()

	store := memory.NewStore(id.NewSequence("test"))
	resolver := usecase.NewResolverService(store.Teams(), store.Players(), nil)
	aggregator := usecase.NewAggregationService(store.BoxScores(), store.SeasonStats(), store.Players(), usecase.AggregationConfig{}, nil)
	syncService := usecase.NewSyncService(
		map[string]usecase.SourceAdapter{}, map[string]usecase.SourceConfig{},
		store.Leagues(), store.Teams(), store.Players(), store.Games(),
		store, store.SyncLogs(), resolver, aggregator, 2, nil,
	)
	queryService := usecase.NewQueryService(
		store.Leagues(), store.Teams(), store.Players(), store.Games(),
		store.BoxScores(), store.SeasonStats(), nil,
	)
	analyticsService := usecase.NewAnalyticsService(
		store.Games(), store.BoxScores(), store.Events(), usecase.AnalyticsConfig{}, nil,
	)

	handler := NewHandler(queryService, analyticsService, syncService, logging.NewNop())
	return store, NewRouter(handler, logging.NewNop(), []string{"*"}, testSyncToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "ok" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestGetPlayer_NotFound(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	errorObj, _ := body["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "NOT_FOUND" {
		t.Fatalf("unexpected error status: %v", body)
	}
}

func TestListPlayers_SearchReturnsPagedItems(t *testing.T) {
	store, router := newTestRouter(t)

	ctx := context.Background()
	if _, err := store.Players().Create(ctx, player.Player{FirstName: "Nikola", LastName: "Jokić"}); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	if _, err := store.Players().Create(ctx, player.Player{FirstName: "Luka", LastName: "Dončić"}); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players?search=jokic", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if total, _ := data["total"].(float64); total != 1 {
		t.Fatalf("expected one hit, got %v", data["total"])
	}
	items, _ := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	first, _ := items[0].(map[string]any)
	if got, _ := first["last_name"].(string); got != "Jokić" {
		t.Fatalf("unexpected search hit: %v", first)
	}
}

func TestLeaders_EndToEnd(t *testing.T) {
	store, router := newTestRouter(t)

	err := store.SeasonStats().Upsert(context.Background(), seasonstats.PlayerSeasonStats{
		PlayerID: "p1", TeamID: "t1", SeasonID: "s1",
		GamesPlayed: 10, Points: 200, TotRebounds: 50, Assists: 30,
	})
	if err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/seasons/s1/leaders?category=points", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	entries, _ := body["data"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected one leader, got %v", body["data"])
	}
	first, _ := entries[0].(map[string]any)
	if got, _ := first["value"].(float64); got != 20 {
		t.Fatalf("unexpected leader value: %v", first)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/seasons/s1/leaders?category=dunks", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown category, got %d", rec.Code)
	}
}

func TestQuarterSplits_EndToEnd(t *testing.T) {
	store, router := newTestRouter(t)

	home, away := 80, 75
	made := true
	playerID := "pA"
	_, err := store.SaveBundle(context.Background(), game.Bundle{
		Game: game.Game{
			SeasonID: "s1", HomeTeamID: "home", AwayTeamID: "away",
			GameDate: time.Date(2026, 2, 1, 19, 0, 0, 0, time.UTC),
			Status:   game.StatusFinal, HomeScore: &home, AwayScore: &away,
			ExternalIDs: map[string]string{"winner": "g1"},
		},
		PlayerStats: []boxscore.PlayerGameStats{
			{PlayerID: playerID, TeamID: "home", IsStarter: true},
		},
		Events: []pbp.Event{
			{
				EventNumber: 1, Period: 1, Clock: "06:00",
				EventType: pbp.EventShot, TeamID: "home", PlayerID: &playerID,
				Success:    &made,
				Attributes: map[string]any{pbp.AttrPointsValue: 2},
			},
		},
	})
	if err != nil {
		t.Fatalf("seed bundle: %v", err)
	}
	item, _, _ := store.Games().GetByExternalID(context.Background(), "winner", "g1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games/"+item.ID+"/players/pA/quarters", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	splits, _ := body["data"].([]any)
	if len(splits) != 1 {
		t.Fatalf("expected one split, got %v", body["data"])
	}
	first, _ := splits[0].(map[string]any)
	line, _ := first["line"].(map[string]any)
	if got, _ := line["points"].(float64); got != 2 {
		t.Fatalf("unexpected split line: %v", first)
	}
}

func TestTriggerSeasonSync_RequiresToken(t *testing.T) {
	_, router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/sync/winner/seasons/2025", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	// A valid token reaches the service, which rejects the unknown source.
	req := httptest.NewRequest(http.MethodPost, "/v1/sync/winner/seasons/2025", nil)
	req.Header.Set("X-Sync-Token", testSyncToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown source, got %d", rec.Code)
	}
}
