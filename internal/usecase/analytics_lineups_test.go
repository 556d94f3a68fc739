package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/hoopsync/internal/platform/id"
)

func substitution(number, period int, clock, teamID string, attrs map[string]any) pbp.Event {
	return pbp.Event{
		EventNumber: number, Period: period, Clock: clock,
		EventType: pbp.EventSubstitution, TeamID: teamID,
		Attributes: attrs,
	}
}

// lineupFixture: home starters A and B, E on the bench; away starters C and D.
// A sits from 5:00 of the first quarter; the home team scores 2 before the
// swap, the away team 3 after it.
func lineupFixture(t *testing.T, store *memory.Store, subAttrs map[string]any) string {
	t.Helper()

	events := []pbp.Event{
		{EventNumber: 1, Period: 1, Clock: "10:00", EventType: pbp.EventPeriodStart, TeamID: "home"},
		shot(2, 1, "08:00", "home", "pA", 2, true),
		substitution(3, 1, "05:00", "home", subAttrs),
		shot(4, 1, "02:00", "away", "pC", 3, true),
		{EventNumber: 5, Period: 1, Clock: "00:00", EventType: pbp.EventPeriodEnd, TeamID: "home"},
	}
	item := seedAnalyticsGame(t, store, events, []boxscore.PlayerGameStats{
		{PlayerID: "pA", TeamID: "home", IsStarter: true},
		{PlayerID: "pB", TeamID: "home", IsStarter: true},
		{PlayerID: "pE", TeamID: "home"},
		{PlayerID: "pC", TeamID: "away", IsStarter: true},
		{PlayerID: "pD", TeamID: "away", IsStarter: true},
	})
	return item.ID
}

func TestOnOffAnalysisSplitsFloorTime(t *testing.T) {
	t.Parallel()

	store := memory.NewStore(id.NewSequence("test"))
	gameID := lineupFixture(t, store, map[string]any{
		pbp.AttrPlayerOut: "pA",
		pbp.AttrPlayerIn:  "pE",
	})
	service := newAnalytics(store, LineupPolicyDrop)

	result, err := service.OnOffAnalysis(context.Background(), gameID, "pA")
	if err != nil {
		t.Fatalf("on/off: %v", err)
	}
	if result.TeamID != "home" || result.Approximate || result.DroppedSeconds != 0 {
		t.Fatalf("unexpected result envelope: %+v", result)
	}

	if result.On.Seconds != 300 || result.On.TeamPoints != 2 || result.On.OppPoints != 0 || result.On.PlusMinus != 2 {
		t.Fatalf("unexpected on bucket: %+v", result.On)
	}
	if result.Off.Seconds != 300 || result.Off.TeamPoints != 0 || result.Off.OppPoints != 3 || result.Off.PlusMinus != -3 {
		t.Fatalf("unexpected off bucket: %+v", result.Off)
	}

	// On plus off covers the whole tracked game for a clean event stream.
	if result.On.Seconds+result.Off.Seconds+result.DroppedSeconds != 600 {
		t.Fatal("expected buckets to cover the full period")
	}
}

func TestOnOffAnalysisDropPolicyPoisonsAfterBadSubstitution(t *testing.T) {
	t.Parallel()

	store := memory.NewStore(id.NewSequence("test"))
	// The substitution lost its incoming player id.
	gameID := lineupFixture(t, store, map[string]any{pbp.AttrPlayerOut: "pA"})
	service := newAnalytics(store, LineupPolicyDrop)

	result, err := service.OnOffAnalysis(context.Background(), gameID, "pA")
	if err != nil {
		t.Fatalf("on/off: %v", err)
	}
	if result.On.Seconds != 300 {
		t.Fatalf("expected clean pre-substitution time kept, got %+v", result.On)
	}
	if result.DroppedSeconds != 300 || result.Off.Seconds != 0 {
		t.Fatalf("expected post-substitution time dropped, got dropped=%d off=%+v", result.DroppedSeconds, result.Off)
	}
	if result.Approximate {
		t.Fatal("drop policy must not flag approximate")
	}
}

func TestOnOffAnalysisDegradePolicyFlagsApproximate(t *testing.T) {
	t.Parallel()

	store := memory.NewStore(id.NewSequence("test"))
	gameID := lineupFixture(t, store, map[string]any{pbp.AttrPlayerOut: "pA"})
	service := newAnalytics(store, LineupPolicyDegrade)

	result, err := service.OnOffAnalysis(context.Background(), gameID, "pA")
	if err != nil {
		t.Fatalf("on/off: %v", err)
	}
	if !result.Approximate {
		t.Fatal("expected degrade policy to flag approximate")
	}
	if result.DroppedSeconds != 0 {
		t.Fatalf("expected no dropped time under degrade, got %d", result.DroppedSeconds)
	}
	// The known part of the swap still applies: pA is off for the second half.
	if result.On.Seconds != 300 || result.Off.Seconds != 300 {
		t.Fatalf("unexpected buckets: on=%+v off=%+v", result.On, result.Off)
	}
}

func TestLineupStatsAndBestLineups(t *testing.T) {
	t.Parallel()

	store := memory.NewStore(id.NewSequence("test"))
	gameID := lineupFixture(t, store, map[string]any{
		pbp.AttrPlayerOut: "pA",
		pbp.AttrPlayerIn:  "pE",
	})
	service := newAnalytics(store, LineupPolicyDrop)
	ctx := context.Background()

	pair, err := service.LineupStats(ctx, gameID, "home", []string{"pB", "pA"})
	if err != nil {
		t.Fatalf("lineup stats: %v", err)
	}
	if pair.Seconds != 300 || pair.PlusMinus != 2 {
		t.Fatalf("unexpected pair result: %+v", pair)
	}
	// Input order never matters; ids come back sorted.
	if pair.PlayerIDs[0] != "pA" || pair.PlayerIDs[1] != "pB" {
		t.Fatalf("expected sorted ids, got %v", pair.PlayerIDs)
	}

	if _, err := service.LineupStats(ctx, gameID, "home", []string{"pA"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected size validation, got %v", err)
	}
	if _, err := service.LineupStats(ctx, gameID, "nosuch", []string{"pA", "pB"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown team rejection, got %v", err)
	}

	best, err := service.BestLineups(ctx, gameID, "home", 2, 0)
	if err != nil {
		t.Fatalf("best lineups: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("expected 2 observed pairs, got %d", len(best))
	}
	if best[0].PlayerIDs[0] != "pA" || best[0].PlayerIDs[1] != "pB" || best[0].PlusMinus != 2 {
		t.Fatalf("unexpected best pair: %+v", best[0])
	}
	if best[1].PlayerIDs[0] != "pB" || best[1].PlayerIDs[1] != "pE" || best[1].PlusMinus != -3 {
		t.Fatalf("unexpected second pair: %+v", best[1])
	}

	// A minimum-seconds floor prunes short stints.
	filtered, err := service.BestLineups(ctx, gameID, "home", 2, 301)
	if err != nil {
		t.Fatalf("best lineups with floor: %v", err)
	}
	if len(filtered) != 0 {
		t.Fatalf("expected floor to prune all pairs, got %d", len(filtered))
	}
}

func TestOnOffAnalysisUnknownPlayer(t *testing.T) {
	t.Parallel()

	store := memory.NewStore(id.NewSequence("test"))
	gameID := lineupFixture(t, store, map[string]any{
		pbp.AttrPlayerOut: "pA",
		pbp.AttrPlayerIn:  "pE",
	})
	service := newAnalytics(store, LineupPolicyDrop)

	if _, err := service.OnOffAnalysis(context.Background(), gameID, "nosuch"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for absent player, got %v", err)
	}
}
