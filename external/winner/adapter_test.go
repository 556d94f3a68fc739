package winner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/hoopsync/internal/platform/id"
	"github.com/courtdata/hoopsync/internal/platform/logging"
)

func newTestAdapter(t *testing.T, routes map[string]string) *Adapter {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	store := memory.NewStore(id.NewSequence("test"))
	return New(Config{
		BaseURL:               server.URL,
		Timeout:               2 * time.Second,
		APIRateLimitPerMinute: 6000,
		Cache:                 store.RawCache(),
		Logger:                logging.NewNop(),
	})
}

func TestGetSchedule_NormalizesStatus(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/seasons/2025/schedule": `{"games":[
			{"game_id":"g1","season_id":"2025","home_team_id":"mta","away_team_id":"hj",
			 "home_team":"Maccabi Tel Aviv","away_team":"Hapoel Jerusalem",
			 "date":"2026-01-15T19:05:00Z","status":"Final","home_score":88,"away_score":80,
			 "venue":"Menora Mivtachim Arena","attendance":10212},
			{"game_id":"g2","season_id":"2025","home_team_id":"hj","away_team_id":"mta",
			 "home_team":"Hapoel Jerusalem","away_team":"Maccabi Tel Aviv",
			 "date":"2026-02-01T18:00:00Z","status":"Scheduled"}
		]}`,
	})

	games, err := adapter.GetSchedule(context.Background(), "2025")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].Status != game.StatusFinal || games[1].Status != game.StatusScheduled {
		t.Fatalf("unexpected statuses: %s %s", games[0].Status, games[1].Status)
	}
	if !adapter.IsGameFinal(games[0]) || adapter.IsGameFinal(games[1]) {
		t.Fatalf("unexpected final verdicts")
	}
	if games[0].HomeScore == nil || *games[0].HomeScore != 88 {
		t.Fatalf("unexpected home score: %v", games[0].HomeScore)
	}
}

func TestGetSchedule_UnknownStatusAborts(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/seasons/2025/schedule": `{"games":[
			{"game_id":"g1","season_id":"2025","date":"2026-01-15T19:05:00Z","status":"mystery"}
		]}`,
	})

	if _, err := adapter.GetSchedule(context.Background(), "2025"); err == nil {
		t.Fatalf("expected unknown status to abort the mapping")
	}
}

func TestGetTeams_MapsRosterPositions(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/seasons/2025/teams": `{"teams":[
			{"team_id":"mta","name":"Maccabi Tel Aviv","short_name":"MTA","city":"Tel Aviv","country":"Israel",
			 "players":[
				{"player_id":"p1","full_name":"Lorenzo Brown","birth_date":"1990-08-26",
				 "nationality":"Israel","height_cm":196,"position":"G/F","jersey":3,
				 "external_refs":{"Euroleague":" EL-44 ","winner":"p1","":"x"}}
			]}
		]}`,
	})

	teams, err := adapter.GetTeams(context.Background(), "2025")
	if err != nil {
		t.Fatalf("get teams: %v", err)
	}
	if len(teams) != 1 || len(teams[0].Roster) != 1 {
		t.Fatalf("unexpected teams payload: %+v", teams)
	}

	got := teams[0].Roster[0]
	if got.FirstName != "Lorenzo" || got.LastName != "Brown" {
		t.Fatalf("expected full name split, got %q %q", got.FirstName, got.LastName)
	}
	if got.TeamExternalID != "mta" {
		t.Fatalf("expected roster team id backfill, got %q", got.TeamExternalID)
	}
	if len(got.Positions) != 2 || got.Positions[0] != player.Guard || got.Positions[1] != player.Forward {
		t.Fatalf("unexpected positions: %v", got.Positions)
	}
	// Foreign-provider refs survive normalized; the self-reference and the
	// blank key do not.
	if len(got.KnownExternalIDs) != 1 || got.KnownExternalIDs["euroleague"] != "EL-44" {
		t.Fatalf("unexpected cross-source refs: %v", got.KnownExternalIDs)
	}
}

func TestGetGameBoxScore_ChangedFlag(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/games/g1/boxscore": `{
			"game":{"game_id":"g1","season_id":"2025","home_team_id":"mta","away_team_id":"hj",
				"date":"2026-01-15T19:05:00Z","status":"Final","home_score":88,"away_score":80},
			"player_stats":[
				{"player":{"player_id":"p1","first_name":"Lorenzo","last_name":"Brown","position":"PG"},
				 "team_id":"mta","starter":true,"plus_minus":7,"efficiency":21,
				 "stats":{"minutes":"31:24","points":18,"fgm":6,"fga":12,"fg2m":4,"fg2a":7,
					"fg3m":2,"fg3a":5,"ftm":4,"fta":4,"oreb":1,"dreb":3,"reb":4,
					"ast":7,"tov":2,"stl":1,"blk":0,"pf":2}}
			],
			"team_stats":[
				{"team_id":"mta","fast_break_points":12,"biggest_lead":15,"time_leading":"28:40",
				 "stats":{"minutes":"200:00","points":88,"fgm":32,"fga":65}}
			]}`,
	})

	ctx := context.Background()
	box, changed, err := adapter.GetGameBoxScore(ctx, "g1")
	if err != nil {
		t.Fatalf("get box score: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed=true on first fetch")
	}
	if len(box.PlayerLines) != 1 || box.PlayerLines[0].Line.MinutesSeconds != 31*60+24 {
		t.Fatalf("unexpected player line: %+v", box.PlayerLines)
	}
	if len(box.TeamLines) != 1 || box.TeamLines[0].TimeLeadingSeconds != 28*60+40 {
		t.Fatalf("unexpected team line: %+v", box.TeamLines)
	}

	_, changed, err = adapter.GetGameBoxScore(ctx, "g1")
	if err != nil {
		t.Fatalf("refetch box score: %v", err)
	}
	if changed {
		t.Fatalf("expected changed=false for identical payload")
	}
}

func TestGetGamePBP_MapsAttributes(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/games/g1/playbyplay": `{"events":[
			{"number":1,"period":1,"clock":"09:45","type":"3pt","subtype":"jumpshot",
			 "player_id":"p1","team_id":"mta","made":true,"x":7.5,"y":24.0,
			 "fast_break":true,"points":3,"linked_to":[2]},
			{"number":2,"period":1,"clock":"09:45","type":"assist","player_id":"p2","team_id":"mta"},
			{"number":3,"period":2,"clock":"04:10","type":"substitution","team_id":"hj",
			 "player_in":"p9","player_out":"p8"}
		]}`,
	})

	events, err := adapter.GetGamePBP(context.Background(), "g1")
	if err != nil {
		t.Fatalf("get pbp: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	shot := events[0]
	if shot.EventType != pbp.EventShot || shot.Success == nil || !*shot.Success {
		t.Fatalf("unexpected shot mapping: %+v", shot)
	}
	if shot.Attributes[pbp.AttrPointsValue] != 3 || shot.Attributes[pbp.AttrFastBreak] != true {
		t.Fatalf("unexpected shot attributes: %v", shot.Attributes)
	}
	if len(shot.LinkedTo) != 1 || shot.LinkedTo[0] != 2 {
		t.Fatalf("unexpected linked events: %v", shot.LinkedTo)
	}

	sub := events[2]
	if sub.EventType != pbp.EventSubstitution || sub.PlayerInExternalID != "p9" || sub.PlayerOutExternalID != "p8" {
		t.Fatalf("unexpected substitution mapping: %+v", sub)
	}
}

func TestGetPlayer_NotFound(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{})

	_, found, err := adapter.GetPlayer(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if found {
		t.Fatalf("expected found=false for 404")
	}
}
