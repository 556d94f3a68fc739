package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/hoopsync/internal/platform/id"
)

func TestComputeSeasonStatsFormulas(t *testing.T) {
	t.Parallel()

	tuple := StatTuple{PlayerID: "p1", TeamID: "t1", SeasonID: "s1"}
	lines := []boxscore.PlayerGameStats{
		{
			IsStarter: true,
			StatLine: boxscore.StatLine{
				MinutesSeconds: 1800, Points: 25,
				FGM: 9, FGA: 15, TwoPM: 6, TwoPA: 9, ThreePM: 3, ThreePA: 6,
				FTM: 4, FTA: 4,
				OffRebounds: 2, DefRebounds: 5, TotRebounds: 7,
				Assists: 6, Turnovers: 2,
			},
			PlusMinus: 12, Efficiency: 28,
		},
		{
			StatLine: boxscore.StatLine{
				MinutesSeconds: 1500, Points: 10,
				FGM: 4, FGA: 11, TwoPM: 4, TwoPA: 8, ThreePA: 3,
				FTM: 2, FTA: 3,
				OffRebounds: 1, DefRebounds: 3, TotRebounds: 4,
				Assists: 3, Turnovers: 3,
			},
			PlusMinus: -4, Efficiency: 9,
		},
	}

	row := computeSeasonStats(tuple, lines, time.Now().UTC())

	if row.GamesPlayed != 2 || row.GamesStarted != 1 {
		t.Fatalf("unexpected game counts: %d/%d", row.GamesPlayed, row.GamesStarted)
	}
	if row.Points != 35 || row.AvgPoints != 17.5 {
		t.Fatalf("unexpected points: total=%d avg=%v", row.Points, row.AvgPoints)
	}
	if row.AvgAssists != 4.5 || row.AvgTurnovers != 2.5 {
		t.Fatalf("unexpected avgs: ast=%v tov=%v", row.AvgAssists, row.AvgTurnovers)
	}

	if row.FGPct == nil || *row.FGPct != 0.5 { // 13/26
		t.Fatalf("unexpected fg pct: %v", row.FGPct)
	}
	if row.ThreePPct == nil || *row.ThreePPct != 0.333 { // 3/9 rounded
		t.Fatalf("unexpected 3pt pct: %v", row.ThreePPct)
	}

	// TS% = 35 / (2*(26 + 0.44*7)) = 0.602
	if row.TSPct == nil || *row.TSPct != 0.602 {
		t.Fatalf("unexpected ts pct: %v", row.TSPct)
	}
	// eFG% = (13 + 0.5*3) / 26 = 0.558
	if row.EFGPct == nil || *row.EFGPct != 0.558 {
		t.Fatalf("unexpected efg pct: %v", row.EFGPct)
	}
	// 9 assists / 5 turnovers
	if row.AstToRatio != 1.8 {
		t.Fatalf("unexpected ast/to: %v", row.AstToRatio)
	}
}

func TestComputeSeasonStatsZeroAttemptsAreNil(t *testing.T) {
	t.Parallel()

	row := computeSeasonStats(StatTuple{PlayerID: "p1", TeamID: "t1", SeasonID: "s1"}, []boxscore.PlayerGameStats{
		{StatLine: boxscore.StatLine{MinutesSeconds: 300, DefRebounds: 2, TotRebounds: 2, Assists: 3}},
	}, time.Now().UTC())

	if row.FGPct != nil || row.ThreePPct != nil || row.FTPct != nil {
		t.Fatalf("expected nil shooting pcts, got fg=%v 3p=%v ft=%v", row.FGPct, row.ThreePPct, row.FTPct)
	}
	if row.TSPct != nil || row.EFGPct != nil {
		t.Fatalf("expected nil ts/efg, got %v %v", row.TSPct, row.EFGPct)
	}
	// No turnovers: ratio degrades to raw assists.
	if row.AstToRatio != 3 {
		t.Fatalf("unexpected ast/to fallback: %v", row.AstToRatio)
	}
}

func TestRecalculateTupleIsIdempotentAndDropsStaleRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore(id.NewSequence("test"))
	service := NewAggregationService(store.BoxScores(), store.SeasonStats(), store.Players(), AggregationConfig{}, nil)

	home, away := 75, 70
	_, err := store.SaveBundle(ctx, game.Bundle{
		Game: game.Game{
			SeasonID: "s1", HomeTeamID: "t1", AwayTeamID: "t2",
			GameDate: time.Date(2025, 12, 5, 19, 0, 0, 0, time.UTC),
			Status:   game.StatusFinal, HomeScore: &home, AwayScore: &away,
			ExternalIDs: map[string]string{"winner": "g1"},
		},
		PlayerStats: []boxscore.PlayerGameStats{{
			PlayerID: "p1", TeamID: "t1", IsStarter: true,
			StatLine: boxscore.StatLine{
				MinutesSeconds: 2000, Points: 18,
				FGM: 7, FGA: 12, TwoPM: 6, TwoPA: 9, ThreePM: 1, ThreePA: 3,
				FTM: 3, FTA: 4,
				DefRebounds: 5, TotRebounds: 5, Assists: 4, Turnovers: 2,
			},
		}},
	})
	if err != nil {
		t.Fatalf("seed bundle: %v", err)
	}

	tuple := StatTuple{PlayerID: "p1", TeamID: "t1", SeasonID: "s1"}
	if err := service.RecalculateTuple(ctx, tuple); err != nil {
		t.Fatalf("first recalc: %v", err)
	}
	first, ok, _ := store.SeasonStats().Get(ctx, "p1", "t1", "s1")
	if !ok || first.GamesPlayed != 1 || first.Points != 18 {
		t.Fatalf("unexpected row: %+v", first)
	}

	if err := service.RecalculateTuple(ctx, tuple); err != nil {
		t.Fatalf("second recalc: %v", err)
	}
	second, _, _ := store.SeasonStats().Get(ctx, "p1", "t1", "s1")
	first.LastCalculated, second.LastCalculated = time.Time{}, time.Time{}
	if first.ID != second.ID || first.AvgPoints != second.AvgPoints || first.Points != second.Points {
		t.Fatalf("expected idempotent recompute, got %+v vs %+v", first, second)
	}

	// Removing the underlying game drops the derived row on the next pass.
	synced, _, _ := store.Games().GetByExternalID(ctx, "winner", "g1")
	if err := store.Games().Delete(ctx, synced.ID); err != nil {
		t.Fatalf("delete game: %v", err)
	}
	if err := service.RecalculateTuple(ctx, tuple); err != nil {
		t.Fatalf("recalc after delete: %v", err)
	}
	if _, ok, _ := store.SeasonStats().Get(ctx, "p1", "t1", "s1"); ok {
		t.Fatal("expected stale season stats row dropped")
	}
}

func TestRecalculateTuplesSplitsTradedPlayerByTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore(id.NewSequence("test"))
	service := NewAggregationService(store.BoxScores(), store.SeasonStats(), store.Players(), AggregationConfig{MaxWorkers: 2}, nil)

	saveGame := func(ext, homeID, awayID, playerTeam string, points int) {
		t.Helper()
		home, away := 80, 70
		_, err := store.SaveBundle(ctx, game.Bundle{
			Game: game.Game{
				SeasonID: "s1", HomeTeamID: homeID, AwayTeamID: awayID,
				Status: game.StatusFinal, HomeScore: &home, AwayScore: &away,
				ExternalIDs: map[string]string{"winner": ext},
			},
			PlayerStats: []boxscore.PlayerGameStats{{
				PlayerID: "p1", TeamID: playerTeam,
				StatLine: boxscore.StatLine{
					Points: points, FGM: points / 2, FGA: points / 2, TwoPM: points / 2, TwoPA: points / 2,
				},
			}},
		})
		if err != nil {
			t.Fatalf("seed game %s: %v", ext, err)
		}
	}
	saveGame("g1", "t1", "t2", "t1", 20)
	saveGame("g2", "t1", "t3", "t1", 10)
	saveGame("g3", "t3", "t1", "t3", 16)

	tuples := []StatTuple{
		{PlayerID: "p1", TeamID: "t1", SeasonID: "s1"},
		{PlayerID: "p1", TeamID: "t3", SeasonID: "s1"},
	}
	if err := service.RecalculateTuples(ctx, tuples); err != nil {
		t.Fatalf("recalc tuples: %v", err)
	}

	onT1, ok, _ := store.SeasonStats().Get(ctx, "p1", "t1", "s1")
	if !ok || onT1.GamesPlayed != 2 || onT1.Points != 30 {
		t.Fatalf("unexpected t1 row: %+v", onT1)
	}
	onT3, ok, _ := store.SeasonStats().Get(ctx, "p1", "t3", "s1")
	if !ok || onT3.GamesPlayed != 1 || onT3.Points != 16 {
		t.Fatalf("unexpected t3 row: %+v", onT3)
	}
}
