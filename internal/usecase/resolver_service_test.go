package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/hoopsync/internal/platform/id"
)

func newResolverEnv() (*memory.Store, *ResolverService) {
	store := memory.NewStore(id.NewSequence("test"))
	return store, NewResolverService(store.Teams(), store.Players(), nil)
}

func TestResolveTeamCreatesThenReusesByExternalID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, resolver := newResolverEnv()

	raw := RawTeam{ExternalID: "12", Name: "Hapoel Jerusalem", City: "Jerusalem"}
	first, outcome, err := resolver.ResolveTeam(ctx, "winner", raw)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if !outcome.Created {
		t.Fatal("expected first resolve to create")
	}

	second, outcome, err := resolver.ResolveTeam(ctx, "winner", raw)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if outcome.Created || second.ID != first.ID {
		t.Fatalf("expected stable identity, got %s vs %s", second.ID, first.ID)
	}
}

func TestResolveTeamMatchesAcrossSourcesByName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, resolver := newResolverEnv()

	created, _, err := resolver.ResolveTeam(ctx, "winner", RawTeam{ExternalID: "12", Name: "Maccabi Tel Aviv"})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	// Same name, accents folded, different source: unions the id maps.
	matched, outcome, err := resolver.ResolveTeam(ctx, "euroleague", RawTeam{ExternalID: "TEL", Name: "Maccabi Tel Avív", Country: "Israel"})
	if err != nil {
		t.Fatalf("cross-source resolve: %v", err)
	}
	if outcome.Created || matched.ID != created.ID {
		t.Fatalf("expected name-key match onto %s, got created=%v id=%s", created.ID, outcome.Created, matched.ID)
	}

	stored, _, _ := store.Teams().GetByID(ctx, created.ID)
	if stored.ExternalIDs["winner"] != "12" || stored.ExternalIDs["euroleague"] != "TEL" {
		t.Fatalf("expected unioned external ids, got %v", stored.ExternalIDs)
	}
	if stored.Country != "Israel" {
		t.Fatal("expected blank country backfilled")
	}
}

func TestResolveTeamConflictingExternalID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, resolver := newResolverEnv()

	created, _, err := resolver.ResolveTeam(ctx, "winner", RawTeam{ExternalID: "t1", Name: "Maccabi Tel Aviv"})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	// Same source, same name, different external id: never overwrite.
	_, _, err = resolver.ResolveTeam(ctx, "winner", RawTeam{ExternalID: "t2", Name: "Maccabi Tel Aviv"})
	if !errors.Is(err, ErrIdentityConflict) {
		t.Fatalf("expected identity conflict, got %v", err)
	}

	stored, _, _ := store.Teams().GetByID(ctx, created.ID)
	if stored.ExternalIDs["winner"] != "t1" {
		t.Fatalf("stored external ids mutated by rejected resolve: %v", stored.ExternalIDs)
	}
	if _, found, _ := store.Teams().GetByExternalID(ctx, "winner", "t1"); !found {
		t.Fatal("original (winner, t1) mapping lost")
	}
	if _, found, _ := store.Teams().GetByExternalID(ctx, "winner", "t2"); found {
		t.Fatal("conflicting (winner, t2) mapping must not be indexed")
	}
}

func TestResolvePlayerBiographicalTiers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, resolver := newResolverEnv()
	birth := time.Date(1994, 6, 2, 0, 0, 0, 0, time.UTC)

	seeded, _, err := resolver.ResolvePlayer(ctx, "winner", "", RawPlayer{
		ExternalID: "100", FirstName: "Yam", LastName: "Madar", BirthDate: &birth,
	})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}

	// Same name and birth date from another source adopts the existing row.
	matched, outcome, err := resolver.ResolvePlayer(ctx, "euroleague", "", RawPlayer{
		ExternalID: "EL-7", FirstName: "Yam", LastName: "Madar", BirthDate: &birth, HeightCM: intPtr(191),
	})
	if err != nil {
		t.Fatalf("cross-source resolve: %v", err)
	}
	if outcome.Created || matched.ID != seeded.ID {
		t.Fatalf("expected biographical match, got created=%v", outcome.Created)
	}
	stored, _, _ := store.Players().GetByID(ctx, seeded.ID)
	if stored.ExternalIDs["euroleague"] != "EL-7" || stored.HeightCM == nil {
		t.Fatalf("expected id union and height backfill, got %+v", stored)
	}

	// Same name but no corroborating evidence stays a separate person.
	otherBirth := time.Date(2001, 1, 15, 0, 0, 0, 0, time.UTC)
	fresh, outcome, err := resolver.ResolvePlayer(ctx, "euroleague", "", RawPlayer{
		ExternalID: "EL-8", FirstName: "Yam", LastName: "Madar", BirthDate: &otherBirth, HeightCM: intPtr(205),
	})
	if err != nil {
		t.Fatalf("homonym resolve: %v", err)
	}
	if !outcome.Created || fresh.ID == seeded.ID {
		t.Fatal("expected a distinct player for the homonym")
	}
}

func TestResolvePlayerRosterTier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, resolver := newResolverEnv()

	teamRow, _, err := resolver.ResolveTeam(ctx, "winner", RawTeam{ExternalID: "t1", Name: "Hapoel Holon"})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}
	seeded, _, err := resolver.ResolvePlayer(ctx, "winner", teamRow.ID, RawPlayer{
		ExternalID: "100", FirstName: "Chris", LastName: "Jones",
	})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}
	if err := store.Players().UpsertHistory(ctx, player.History{
		PlayerID: seeded.ID, TeamID: teamRow.ID, SeasonID: "s1",
	}); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	// No birth date or height on either side; the shared roster carries the
	// match on its own.
	matched, outcome, err := resolver.ResolvePlayer(ctx, "euroleague", teamRow.ID, RawPlayer{
		ExternalID: "EL-1", FirstName: "Chris", LastName: "Jones",
	})
	if err != nil {
		t.Fatalf("roster resolve: %v", err)
	}
	if outcome.Created || matched.ID != seeded.ID {
		t.Fatalf("expected roster-tier match, got created=%v", outcome.Created)
	}
}

func TestResolvePlayerConflictingExternalID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, resolver := newResolverEnv()
	birth := time.Date(1990, 3, 9, 0, 0, 0, 0, time.UTC)

	if _, _, err := resolver.ResolvePlayer(ctx, "winner", "", RawPlayer{
		ExternalID: "100", FirstName: "Scottie", LastName: "Wilbekin", BirthDate: &birth,
	}); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	// Same source, same biography, different external id: never overwrite.
	_, _, err := resolver.ResolvePlayer(ctx, "winner", "", RawPlayer{
		ExternalID: "200", FirstName: "Scottie", LastName: "Wilbekin", BirthDate: &birth,
	})
	if !errors.Is(err, ErrIdentityConflict) {
		t.Fatalf("expected identity conflict, got %v", err)
	}
}

func TestResolvePlayerCrossSourceReferences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, resolver := newResolverEnv()
	birth := time.Date(1993, 7, 19, 0, 0, 0, 0, time.UTC)

	seeded, _, err := resolver.ResolvePlayer(ctx, "winner", "", RawPlayer{
		ExternalID: "p123", FirstName: "Scottie", LastName: "Wilbekin", BirthDate: &birth,
	})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}

	// A payload naming the stored winner id corroborates the match and unions
	// the maps.
	matched, outcome, err := resolver.ResolvePlayer(ctx, "euroleague", "", RawPlayer{
		ExternalID: "PWB", FirstName: "Scottie", LastName: "Wilbekin", BirthDate: &birth,
		KnownExternalIDs: map[string]string{"winner": "p123"},
	})
	if err != nil {
		t.Fatalf("cross-reference resolve: %v", err)
	}
	if outcome.Created || matched.ID != seeded.ID {
		t.Fatalf("expected match onto %s, got created=%v", seeded.ID, outcome.Created)
	}
	stored, _, _ := store.Players().GetByID(ctx, seeded.ID)
	if stored.ExternalIDs["winner"] != "p123" || stored.ExternalIDs["euroleague"] != "PWB" {
		t.Fatalf("expected unioned external ids, got %v", stored.ExternalIDs)
	}

	// A payload contradicting the stored winner mapping is an identity
	// conflict, never an overwrite.
	_, _, err = resolver.ResolvePlayer(ctx, "euroleague", "", RawPlayer{
		ExternalID: "PWB", FirstName: "Scottie", LastName: "Wilbekin", BirthDate: &birth,
		KnownExternalIDs: map[string]string{"winner": "pX"},
	})
	if !errors.Is(err, ErrIdentityConflict) {
		t.Fatalf("expected identity conflict, got %v", err)
	}
	stored, _, _ = store.Players().GetByID(ctx, seeded.ID)
	if stored.ExternalIDs["winner"] != "p123" {
		t.Fatalf("stored winner id mutated by rejected payload: %v", stored.ExternalIDs)
	}
}

func TestResolvePlayerAmbiguityCreatesNewRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, resolver := newResolverEnv()
	birth := time.Date(1997, 8, 21, 0, 0, 0, 0, time.UTC)

	a, _ := store.Players().Create(ctx, player.Player{
		FirstName: "John", LastName: "Smith", BirthDate: &birth,
		ExternalIDs: map[string]string{"winner": "1"},
	})
	b, _ := store.Players().Create(ctx, player.Player{
		FirstName: "John", LastName: "Smith", BirthDate: &birth,
		ExternalIDs: map[string]string{"winner": "2"},
	})

	resolved, outcome, err := resolver.ResolvePlayer(ctx, "euroleague", "", RawPlayer{
		ExternalID: "EL-9", FirstName: "John", LastName: "Smith", BirthDate: &birth,
	})
	if err != nil {
		t.Fatalf("ambiguous resolve: %v", err)
	}
	if !outcome.Created || !outcome.Ambiguous {
		t.Fatalf("expected ambiguous creation, got %+v", outcome)
	}
	if len(outcome.CandidateIDs) != 2 {
		t.Fatalf("expected both candidates reported, got %v", outcome.CandidateIDs)
	}
	if resolved.ID == a.ID || resolved.ID == b.ID {
		t.Fatal("expected a fresh row, not an auto-merge")
	}
}
