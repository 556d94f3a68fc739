package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/hoopsync/internal/platform/id"
)

func newQueryEnv() (*memory.Store, *QueryService) {
	store := memory.NewStore(id.NewSequence("test"))
	service := NewQueryService(
		store.Leagues(), store.Teams(), store.Players(), store.Games(),
		store.BoxScores(), store.SeasonStats(), nil,
	)
	return store, service
}

func seedStatsRow(t *testing.T, store *memory.Store, playerID, teamID string, games, points, fgm, fga int) {
	t.Helper()
	err := store.SeasonStats().Upsert(context.Background(), seasonstats.PlayerSeasonStats{
		PlayerID: playerID, TeamID: teamID, SeasonID: "s1",
		GamesPlayed: games, Points: points, FGM: fgm, FGA: fga,
		TotRebounds: games * 5, Assists: games * 3,
	})
	if err != nil {
		t.Fatalf("seed stats %s/%s: %v", playerID, teamID, err)
	}
}

func TestLeadersCombineTradedPlayers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, service := newQueryEnv()

	// p1 was traded mid-season: two rows, one per team.
	seedStatsRow(t, store, "p1", "t1", 10, 200, 80, 160)
	seedStatsRow(t, store, "p1", "t2", 10, 150, 60, 150)
	seedStatsRow(t, store, "p2", "t1", 20, 340, 140, 260)
	// p3 played too few games for a qualified board.
	seedStatsRow(t, store, "p3", "t2", 4, 120, 50, 90)

	leaders, err := service.Leaders(ctx, LeadersInput{SeasonID: "s1", Category: LeaderPoints, MinGames: 10})
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("expected 2 qualified leaders, got %d", len(leaders))
	}

	// p1: 350 points over 20 combined games = 17.5, beating p2's 17.0.
	if leaders[0].PlayerID != "p1" || leaders[0].Value != 17.5 || leaders[0].GamesPlayed != 20 {
		t.Fatalf("unexpected top entry: %+v", leaders[0])
	}
	if len(leaders[0].TeamIDs) != 2 {
		t.Fatalf("expected both teams listed for the traded player, got %v", leaders[0].TeamIDs)
	}
	if leaders[1].PlayerID != "p2" || leaders[1].Value != 17.0 {
		t.Fatalf("unexpected second entry: %+v", leaders[1])
	}
}

func TestLeadersPercentagesRecomputeFromCombinedTotals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, service := newQueryEnv()

	seedStatsRow(t, store, "p1", "t1", 10, 200, 80, 160) // .5
	seedStatsRow(t, store, "p1", "t2", 10, 150, 70, 120) // combined 150/280 = .536
	seedStatsRow(t, store, "p2", "t1", 10, 100, 45, 100) // .45
	// Never attempted a shot: excluded from percentage boards.
	seedStatsRow(t, store, "p4", "t1", 10, 0, 0, 0)

	leaders, err := service.Leaders(ctx, LeadersInput{SeasonID: "s1", Category: LeaderFGPct})
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("expected zero-attempt player excluded, got %d entries", len(leaders))
	}
	if leaders[0].PlayerID != "p1" || leaders[0].Value != 0.536 {
		t.Fatalf("unexpected top pct entry: %+v", leaders[0])
	}
}

func TestLeadersTieBreakAndValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, service := newQueryEnv()

	seedStatsRow(t, store, "p2", "t1", 10, 100, 40, 80)
	seedStatsRow(t, store, "p1", "t2", 10, 100, 40, 80)

	leaders, err := service.Leaders(ctx, LeadersInput{SeasonID: "s1", Category: LeaderPoints})
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}
	if leaders[0].PlayerID != "p1" || leaders[1].PlayerID != "p2" {
		t.Fatalf("expected tie broken by player id, got %v then %v", leaders[0].PlayerID, leaders[1].PlayerID)
	}

	if _, err := service.Leaders(ctx, LeadersInput{SeasonID: "s1", Category: "dunks"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected category validation, got %v", err)
	}
	if _, err := service.Leaders(ctx, LeadersInput{Category: LeaderPoints}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected season validation, got %v", err)
	}
}

func TestListPlayersSearchFoldsAccents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, service := newQueryEnv()

	if _, err := store.Players().Create(ctx, player.Player{FirstName: "Nikola", LastName: "Jokić"}); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	if _, err := store.Players().Create(ctx, player.Player{FirstName: "Luka", LastName: "Dončić"}); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	items, total, err := service.ListPlayers(ctx, player.ListFilter{Search: "jokic"})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].LastName != "Jokić" {
		t.Fatalf("expected folded search hit, got total=%d items=%v", total, items)
	}
}

func TestTeamGamesOpponentFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, service := newQueryEnv()

	a, _ := store.Teams().Create(ctx, team.Team{Name: "Alpha"})
	b, _ := store.Teams().Create(ctx, team.Team{Name: "Beta"})
	c, _ := store.Teams().Create(ctx, team.Team{Name: "Gamma"})

	save := func(homeID, awayID string, day int) {
		t.Helper()
		home, away := 80, 70
		_, err := store.Games().Create(ctx, game.Game{
			SeasonID: "s1", HomeTeamID: homeID, AwayTeamID: awayID,
			GameDate: time.Date(2026, 1, day, 19, 0, 0, 0, time.UTC),
			Status:   game.StatusFinal, HomeScore: &home, AwayScore: &away,
		})
		if err != nil {
			t.Fatalf("seed game: %v", err)
		}
	}
	save(a.ID, b.ID, 3)
	save(b.ID, a.ID, 10)
	save(a.ID, c.ID, 17)

	all, total, err := service.TeamGames(ctx, a.ID, "s1", OpponentFilter{}, 0, 0)
	if err != nil {
		t.Fatalf("team games: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("expected all 3 games, got %d", total)
	}

	homeOnly, total, err := service.TeamGames(ctx, a.ID, "s1", OpponentFilter{HomeOnly: true}, 0, 0)
	if err != nil {
		t.Fatalf("home only: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 home games, got %d", total)
	}
	for _, item := range homeOnly {
		if item.HomeTeamID != a.ID {
			t.Fatalf("expected only home games, got %+v", item)
		}
	}

	versusB, total, err := service.TeamGames(ctx, a.ID, "s1", OpponentFilter{OpponentTeamID: b.ID}, 0, 0)
	if err != nil {
		t.Fatalf("versus filter: %v", err)
	}
	if total != 2 || len(versusB) != 2 {
		t.Fatalf("expected 2 head-to-head games, got %d", total)
	}

	if _, _, err := service.TeamGames(ctx, a.ID, "s1", OpponentFilter{HomeOnly: true, AwayOnly: true}, 0, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected exclusivity validation, got %v", err)
	}
}

func TestGetPlayerDetailEagerLoads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, service := newQueryEnv()

	created, _ := store.Players().Create(ctx, player.Player{FirstName: "Roman", LastName: "Sorkin"})
	if err := store.Players().UpsertHistory(ctx, player.History{PlayerID: created.ID, TeamID: "t1", SeasonID: "s1"}); err != nil {
		t.Fatalf("seed history: %v", err)
	}
	seedStatsRow(t, store, created.ID, "t1", 12, 180, 80, 140)

	detail, err := service.GetPlayer(ctx, created.ID)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if detail.Player.ID != created.ID || len(detail.History) != 1 || len(detail.SeasonStats) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	if _, err := service.GetPlayer(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
