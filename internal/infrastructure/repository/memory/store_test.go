package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/league"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/rawcache"
	"github.com/courtdata/hoopsync/internal/domain/synclog"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/platform/id"
)

func newTestStore() *Store {
	return NewStore(id.NewSequence("test"))
}

func TestUpsertSeasonResolvesExternalID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore()
	repo := store.Leagues()

	lg, err := repo.UpsertLeague(ctx, league.League{Name: "Euroleague", Code: "euroleague"})
	if err != nil {
		t.Fatalf("upsert league: %v", err)
	}

	first, err := repo.UpsertSeason(ctx, league.Season{
		LeagueID:    lg.ID,
		Name:        "2024-25",
		ExternalIDs: map[string]string{"euroleague": "E2024"},
	})
	if err != nil {
		t.Fatalf("upsert season: %v", err)
	}

	second, err := repo.UpsertSeason(ctx, league.Season{
		LeagueID:    lg.ID,
		Name:        "2024-25",
		ExternalIDs: map[string]string{"euroleague": "E2024", "winner": "W77"},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same season id, got %s and %s", first.ID, second.ID)
	}
	if second.ExternalIDs["winner"] != "W77" {
		t.Fatalf("expected winner external id retained, got %v", second.ExternalIDs)
	}

	if _, ok, _ := repo.GetSeasonByExternalID(ctx, "winner", "W77"); !ok {
		t.Fatal("expected lookup by new external id to succeed")
	}
}

func TestSetCurrentSeasonClearsSiblings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore()
	repo := store.Leagues()

	lg, _ := repo.UpsertLeague(ctx, league.League{Name: "Winner League", Code: "winner"})
	old, err := repo.UpsertSeason(ctx, league.Season{LeagueID: lg.ID, Name: "2023-24", IsCurrent: true})
	if err != nil {
		t.Fatalf("upsert old season: %v", err)
	}
	next, err := repo.UpsertSeason(ctx, league.Season{LeagueID: lg.ID, Name: "2024-25"})
	if err != nil {
		t.Fatalf("upsert next season: %v", err)
	}

	if err := repo.SetCurrentSeason(ctx, next.ID); err != nil {
		t.Fatalf("set current: %v", err)
	}

	got, _, _ := repo.GetSeason(ctx, old.ID)
	if got.IsCurrent {
		t.Fatal("expected previous current season to be cleared")
	}
	got, _, _ = repo.GetSeason(ctx, next.ID)
	if !got.IsCurrent {
		t.Fatal("expected new season to be current")
	}
}

func TestTeamMergeRetargetsForeignKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore()
	teams := store.Teams()
	games := store.Games()

	winner, _ := teams.Create(ctx, team.Team{Name: "Maccabi Tel Aviv", ExternalIDs: map[string]string{"winner": "12"}})
	loser, _ := teams.Create(ctx, team.Team{Name: "Maccabi TA", ExternalIDs: map[string]string{"euroleague": "TEL"}})
	other, _ := teams.Create(ctx, team.Team{Name: "Hapoel Jerusalem"})

	home, away := 81, 77
	g, err := games.Create(ctx, game.Game{
		SeasonID:   "season-1",
		HomeTeamID: loser.ID,
		AwayTeamID: other.ID,
		GameDate:   time.Date(2025, 1, 10, 19, 0, 0, 0, time.UTC),
		Status:     game.StatusFinal,
		HomeScore:  &home,
		AwayScore:  &away,
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if err := teams.Merge(ctx, winner.ID, loser.ID); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if _, ok, _ := teams.GetByID(ctx, loser.ID); ok {
		t.Fatal("expected loser to be deleted")
	}
	merged, _, _ := teams.GetByID(ctx, winner.ID)
	if merged.ExternalIDs["euroleague"] != "TEL" || merged.ExternalIDs["winner"] != "12" {
		t.Fatalf("expected unioned external ids, got %v", merged.ExternalIDs)
	}
	if got, _, _ := teams.GetByExternalID(ctx, "euroleague", "TEL"); got.ID != winner.ID {
		t.Fatalf("expected external id lookup to land on winner, got %s", got.ID)
	}
	gotGame, _, _ := games.GetByID(ctx, g.ID)
	if gotGame.HomeTeamID != winner.ID {
		t.Fatalf("expected game home team retargeted, got %s", gotGame.HomeTeamID)
	}
}

func TestReadsDetachExternalIDMaps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore()
	teams := store.Teams()

	created, err := teams.Create(ctx, team.Team{Name: "Maccabi Tel Aviv", ExternalIDs: map[string]string{"winner": "t1"}})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	// Writing through a read result must not touch stored state.
	got, _, _ := teams.GetByExternalID(ctx, "winner", "t1")
	got.ExternalIDs["winner"] = "t2"
	byName, _ := teams.FindByNameKey(ctx, created.NameKey())
	byName[0].ExternalIDs["winner"] = "t3"

	stored, _, _ := teams.GetByID(ctx, created.ID)
	if stored.ExternalIDs["winner"] != "t1" {
		t.Fatalf("stored external ids mutated through a read alias: %v", stored.ExternalIDs)
	}

	// With detached reads, a conflicting same-source id handed to Update is
	// caught by the union check instead of comparing a map to itself.
	got.ExternalIDs["winner"] = "t2"
	if err := teams.Update(ctx, got); !errors.Is(err, extid.ErrConflict) {
		t.Fatalf("expected external id conflict from update, got %v", err)
	}
}

func TestMergeConflictingExternalIDsFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore()
	players := store.Players()

	a, _ := players.Create(ctx, player.Player{LastName: "Cohen", ExternalIDs: map[string]string{"winner": "100"}})
	b, _ := players.Create(ctx, player.Player{LastName: "Cohen", ExternalIDs: map[string]string{"winner": "200"}})

	err := players.Merge(ctx, a.ID, b.ID)
	if !errors.Is(err, extid.ErrConflict) {
		t.Fatalf("expected external id conflict, got %v", err)
	}
	if _, ok, _ := players.GetByID(ctx, b.ID); !ok {
		t.Fatal("expected loser to survive a failed merge")
	}
}

func TestSaveBundleReplacesGameData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore()

	home, away := 90, 80
	playerID := "p-1"
	made := true
	bundle := game.Bundle{
		Game: game.Game{
			SeasonID:    "season-1",
			HomeTeamID:  "t-home",
			AwayTeamID:  "t-away",
			GameDate:    time.Date(2025, 2, 1, 20, 0, 0, 0, time.UTC),
			Status:      game.StatusFinal,
			HomeScore:   &home,
			AwayScore:   &away,
			ExternalIDs: map[string]string{"winner": "G9"},
		},
		PlayerStats: []boxscore.PlayerGameStats{{
			PlayerID: playerID, TeamID: "t-home", IsStarter: true,
			StatLine: boxscore.StatLine{
				MinutesSeconds: 1800, Points: 11,
				FGM: 4, FGA: 9, TwoPM: 3, TwoPA: 6, ThreePM: 1, ThreePA: 3,
				FTM: 1, FTA: 2,
				OffRebounds: 1, DefRebounds: 4, TotRebounds: 5,
			},
		}},
		Events: []pbp.Event{
			{EventNumber: 1, Period: 1, Clock: "10:00", EventType: pbp.EventPeriodStart, TeamID: "t-home"},
			{EventNumber: 2, Period: 1, Clock: "09:40", EventType: pbp.EventShot, PlayerID: &playerID, TeamID: "t-home", Success: &made},
		},
		Links: []pbp.Link{{EventNumber: 2, LinkedTo: 1}},
	}

	created, err := store.SaveBundle(ctx, bundle)
	if err != nil {
		t.Fatalf("save bundle: %v", err)
	}
	if !created {
		t.Fatal("expected first save to create the game")
	}

	saved, ok, _ := store.Games().GetByExternalID(ctx, "winner", "G9")
	if !ok {
		t.Fatal("expected game to be stored")
	}

	// Resync with fewer events replaces, never appends.
	bundle.Game.ID = saved.ID
	bundle.Events = bundle.Events[:1]
	bundle.Events[0].PlayerID = nil
	bundle.Links = nil
	created, err = store.SaveBundle(ctx, bundle)
	if err != nil {
		t.Fatalf("resync bundle: %v", err)
	}
	if created {
		t.Fatal("expected resync to update, not create")
	}
	events, _ := store.Events().ListByGame(ctx, saved.ID)
	if len(events) != 1 {
		t.Fatalf("expected events replaced, got %d", len(events))
	}
}

func TestSaveBundleRejectsBrokenArithmetic(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	home, away := 2, 0
	_, err := store.SaveBundle(context.Background(), game.Bundle{
		Game: game.Game{
			SeasonID: "season-1", HomeTeamID: "a", AwayTeamID: "b",
			Status: game.StatusFinal, HomeScore: &home, AwayScore: &away,
		},
		PlayerStats: []boxscore.PlayerGameStats{{
			PlayerID: "p-1", TeamID: "a",
			StatLine: boxscore.StatLine{Points: 2, FGM: 1, FGA: 1}, // missing 2pm split
		}},
	})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if _, total, _ := store.Games().List(context.Background(), game.ListFilter{}); total != 0 {
		t.Fatalf("expected no game persisted, found %d", total)
	}
}

// failingAfter yields n ids and then errors, standing in for an exhausted
// generator.
type failingAfter struct {
	gen  id.Generator
	left int
}

func (g *failingAfter) NewID() (string, error) {
	if g.left == 0 {
		return "", errors.New("id generator exhausted")
	}
	g.left--
	return g.gen.NewID()
}

func TestSaveBundleIDFailureLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(&failingAfter{gen: id.NewSequence("test"), left: 2})

	home, away := 70, 60
	playerID := "p-1"
	bundle := game.Bundle{
		Game: game.Game{
			SeasonID: "season-1", HomeTeamID: "t-home", AwayTeamID: "t-away",
			GameDate: time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC),
			Status:   game.StatusFinal, HomeScore: &home, AwayScore: &away,
			ExternalIDs: map[string]string{"winner": "G1"},
		},
		PlayerStats: []boxscore.PlayerGameStats{{
			PlayerID: playerID, TeamID: "t-home",
			StatLine: boxscore.StatLine{Points: 2, FGM: 1, FGA: 1, TwoPM: 1, TwoPA: 1},
		}},
		Events: []pbp.Event{
			{EventNumber: 1, Period: 1, Clock: "10:00", EventType: pbp.EventPeriodStart, TeamID: "t-home"},
			{EventNumber: 2, Period: 1, Clock: "09:40", EventType: pbp.EventShot, PlayerID: &playerID, TeamID: "t-home"},
		},
	}

	// Two ids cover the player line and the first event; the second event's id
	// fails mid-write.
	if _, err := store.SaveBundle(ctx, bundle); err == nil {
		t.Fatal("expected id generation failure")
	}

	if _, total, _ := store.Games().List(ctx, game.ListFilter{}); total != 0 {
		t.Fatalf("expected no game persisted, found %d", total)
	}
	if len(store.playerStats) != 0 || len(store.teamStats) != 0 || len(store.events) != 0 {
		t.Fatal("expected no partial bundle state after failed save")
	}
}

func TestSyncLogTerminalTransitionIsFinal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore()
	repo := store.SyncLogs()

	created, err := repo.Create(ctx, synclog.SyncLog{
		Source: "winner", EntityType: "games",
		Status: synclog.StatusStarted, StartedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done := time.Now()
	created.Status = synclog.StatusCompleted
	created.CompletedAt = &done
	if err := repo.Finish(ctx, created); err != nil {
		t.Fatalf("finish: %v", err)
	}

	created.Status = synclog.StatusFailed
	if err := repo.Finish(ctx, created); err == nil {
		t.Fatal("expected second terminal transition to fail")
	}

	latest, ok, _ := repo.Latest(ctx, "winner", "games")
	if !ok || latest.Status != synclog.StatusCompleted {
		t.Fatalf("expected latest completed log, got %+v ok=%v", latest, ok)
	}
}

func TestRawCachePutReportsChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestStore().RawCache()

	entry := rawcache.Entry{Source: "winner", Endpoint: "/games", ParamsKey: "season=77", Payload: []byte(`{"a":1}`)}
	changed, err := repo.Put(ctx, entry)
	if err != nil || !changed {
		t.Fatalf("expected first put to report change, changed=%v err=%v", changed, err)
	}

	changed, _ = repo.Put(ctx, entry)
	if changed {
		t.Fatal("expected identical payload to report unchanged")
	}

	entry.Payload = []byte(`{"a":2}`)
	entry.ContentHash = ""
	changed, _ = repo.Put(ctx, entry)
	if !changed {
		t.Fatal("expected new payload to report change")
	}
}
