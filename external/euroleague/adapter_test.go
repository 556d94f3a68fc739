package euroleague

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
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

	return New(Config{
		BaseURL:               server.URL,
		Timeout:               2 * time.Second,
		APIRateLimitPerMinute: 6000,
		Logger:                logging.NewNop(),
	})
}

func TestGetSeasons_MapsActiveFlag(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/v2/seasons": `{"data":[
			{"code":"E2025","name":"2025-26","startDate":"2025-10-01T00:00:00Z",
			 "endDate":"2026-05-24T00:00:00Z","active":true},
			{"code":"E2024","name":"2024-25","startDate":"2024-10-03T00:00:00Z",
			 "endDate":"2025-05-25T00:00:00Z","active":false}
		]}`,
	})

	seasons, err := adapter.GetSeasons(context.Background())
	if err != nil {
		t.Fatalf("get seasons: %v", err)
	}
	if len(seasons) != 2 {
		t.Fatalf("expected 2 seasons, got %d", len(seasons))
	}
	if !seasons[0].IsCurrent || seasons[1].IsCurrent {
		t.Fatalf("unexpected current flags: %+v", seasons)
	}
	if seasons[0].ExternalID != "E2025" {
		t.Fatalf("unexpected external id: %q", seasons[0].ExternalID)
	}
}

func TestGetTeams_SplitsCommaNames(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/v2/seasons/E2025/clubs": `{"data":[
			{"code":"MAD","name":"Real Madrid","abbreviatedName":"RMB","city":"Madrid","country":"Spain",
			 "roster":[
				{"code":"002661","name":"Campazzo, Facundo","dorsal":7,"position":"Guard",
				 "height":181,"birthDate":"1991-03-23T00:00:00Z","country":"Argentina"}
			]}
		]}`,
	})

	teams, err := adapter.GetTeams(context.Background(), "E2025")
	if err != nil {
		t.Fatalf("get teams: %v", err)
	}
	if len(teams) != 1 || len(teams[0].Roster) != 1 {
		t.Fatalf("unexpected clubs payload: %+v", teams)
	}

	got := teams[0].Roster[0]
	if got.FirstName != "Facundo" || got.LastName != "Campazzo" {
		t.Fatalf("expected comma name split, got %q %q", got.FirstName, got.LastName)
	}
	if got.TeamExternalID != "MAD" {
		t.Fatalf("expected club code on roster player, got %q", got.TeamExternalID)
	}
	if len(got.Positions) != 1 || got.Positions[0] != player.Guard {
		t.Fatalf("unexpected positions: %v", got.Positions)
	}
}

func TestGetSchedule_MapsSides(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/v2/seasons/E2025/games": `{"data":[
			{"code":"E2025_101","seasonCode":"E2025",
			 "local":{"code":"MAD","name":"Real Madrid","score":85},
			 "road":{"code":"PAN","name":"Panathinaikos","score":78},
			 "date":"2026-01-10T20:45:00Z","status":"finished",
			 "venue":"WiZink Center","audience":10500}
		]}`,
	})

	games, err := adapter.GetSchedule(context.Background(), "E2025")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	got := games[0]
	if got.Status != game.StatusFinal {
		t.Fatalf("unexpected status: %s", got.Status)
	}
	if got.HomeTeamExternalID != "MAD" || got.AwayTeamExternalID != "PAN" {
		t.Fatalf("unexpected sides: %+v", got)
	}
	if got.AwayScore == nil || *got.AwayScore != 78 {
		t.Fatalf("unexpected road score: %v", got.AwayScore)
	}
}

func TestGetGameBoxScore_DerivesCombinedFieldGoals(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/v2/games/E2025_101/boxscore": `{"data":{
			"game":{"code":"E2025_101","seasonCode":"E2025",
				"local":{"code":"MAD","score":85},"road":{"code":"PAN","score":78},
				"date":"2026-01-10T20:45:00Z","status":"finished"},
			"playerStats":[
				{"player":{"code":"002661","name":"Campazzo, Facundo","position":"PG"},
				 "club":"MAD","start":true,"plusMinus":9,"valuation":24,
				 "minutes":"28:12","points":17,
				 "fieldGoalsMade2":3,"fieldGoalsAttempted2":6,
				 "fieldGoalsMade3":3,"fieldGoalsAttempted3":7,
				 "freeThrowsMade":2,"freeThrowsAttempted":2,
				 "offensiveRebounds":0,"defensiveRebounds":3,"totalRebounds":3,
				 "assistances":8,"turnovers":2,"steals":2,"blocksFavour":0,"foulsCommited":3}
			],
			"clubStats":[
				{"club":"MAD","minutes":"200:00","points":85,
				 "fieldGoalsMade2":20,"fieldGoalsAttempted2":38,
				 "fieldGoalsMade3":10,"fieldGoalsAttempted3":24,
				 "pointsFastBreak":14,"maxLead":18,"secondsLeading":1620}
			]}}`,
	})

	box, changed, err := adapter.GetGameBoxScore(context.Background(), "E2025_101")
	if err != nil {
		t.Fatalf("get box score: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed=true without a cache")
	}

	line := box.PlayerLines[0].Line
	if line.FGM != 6 || line.FGA != 13 {
		t.Fatalf("expected combined field goals 6/13, got %d/%d", line.FGM, line.FGA)
	}
	if line.MinutesSeconds != 28*60+12 {
		t.Fatalf("unexpected minutes: %d", line.MinutesSeconds)
	}
	if box.PlayerLines[0].Efficiency != 24 {
		t.Fatalf("unexpected valuation mapping: %d", box.PlayerLines[0].Efficiency)
	}
	if box.TeamLines[0].TimeLeadingSeconds != 1620 {
		t.Fatalf("unexpected seconds leading: %d", box.TeamLines[0].TimeLeadingSeconds)
	}
}

func TestGetGamePBP_ExpandsPlayCodes(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/v2/games/E2025_101/plays": `{"data":{"plays":[
			{"numberOfPlay":1,"quarter":1,"markerTime":"09:40","playType":"3FGM",
			 "playerCode":"002661","teamCode":"MAD","coordX":7.1,"coordY":23.4,"relatedPlays":[2]},
			{"numberOfPlay":2,"quarter":1,"markerTime":"09:40","playType":"AS",
			 "playerCode":"011733","teamCode":"MAD"},
			{"numberOfPlay":3,"quarter":1,"markerTime":"08:55","playType":"2FGA",
			 "playerCode":"007114","teamCode":"PAN"},
			{"numberOfPlay":4,"quarter":2,"markerTime":"05:00","playType":"SUB",
			 "teamCode":"MAD","playerIn":"004755","playerOut":"002661"}
		]}}`,
	})

	events, err := adapter.GetGamePBP(context.Background(), "E2025_101")
	if err != nil {
		t.Fatalf("get plays: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}

	made := events[0]
	if made.EventType != pbp.EventShot || made.Success == nil || !*made.Success {
		t.Fatalf("unexpected 3FGM mapping: %+v", made)
	}
	if made.Attributes[pbp.AttrPointsValue] != 3 || made.Attributes[pbp.AttrShotType] != "three_point" {
		t.Fatalf("unexpected 3FGM attributes: %v", made.Attributes)
	}

	miss := events[2]
	if miss.EventType != pbp.EventShot || miss.Success == nil || *miss.Success {
		t.Fatalf("unexpected 2FGA mapping: %+v", miss)
	}
	if _, ok := miss.Attributes[pbp.AttrPointsValue]; ok {
		t.Fatalf("missed shot must not carry a points attribute: %v", miss.Attributes)
	}

	sub := events[3]
	if sub.EventType != pbp.EventSubstitution || sub.PlayerInExternalID != "004755" || sub.PlayerOutExternalID != "002661" {
		t.Fatalf("unexpected SUB mapping: %+v", sub)
	}
}

func TestGetGamePBP_UnknownPlayCodeAborts(t *testing.T) {
	adapter := newTestAdapter(t, map[string]string{
		"/v2/games/E2025_101/plays": `{"data":{"plays":[
			{"numberOfPlay":1,"quarter":1,"markerTime":"09:40","playType":"XYZ","teamCode":"MAD"}
		]}}`,
	})

	if _, err := adapter.GetGamePBP(context.Background(), "E2025_101"); err == nil {
		t.Fatalf("expected unknown play code to abort the mapping")
	}
}
