package game

import (
	"errors"
	"testing"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]Status{
		"Final":       StatusFinal,
		"FT":          StatusFinal,
		"after OT":    StatusFinal,
		"In Progress": StatusLive,
		"HALFTIME":    StatusLive,
		"Not Started": StatusScheduled,
		"PPD":         StatusPostponed,
		"Canceled":    StatusCancelled,
		"cancelled":   StatusCancelled,
	}
	for raw, want := range cases {
		got, err := NormalizeStatus(raw, "winner")
		if err != nil {
			t.Fatalf("NormalizeStatus(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("NormalizeStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestNormalizeStatusUnknown(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "weird"} {
		_, err := NormalizeStatus(raw, "nba")
		var unknown *normalize.UnknownValueError
		if !errors.As(err, &unknown) {
			t.Fatalf("NormalizeStatus(%q): expected UnknownValueError, got %v", raw, err)
		}
	}
}

func TestGameValidate(t *testing.T) {
	t.Parallel()

	score := func(v int) *int { return &v }

	base := Game{SeasonID: "s1", HomeTeamID: "a", AwayTeamID: "b", Status: StatusScheduled}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid scheduled game rejected: %v", err)
	}

	same := base
	same.AwayTeamID = "a"
	if err := same.Validate(); err == nil {
		t.Fatalf("same home and away team must fail")
	}

	finalNoScore := base
	finalNoScore.Status = StatusFinal
	if err := finalNoScore.Validate(); err == nil {
		t.Fatalf("final without scores must fail")
	}

	scheduledScored := base
	scheduledScored.HomeScore = score(80)
	if err := scheduledScored.Validate(); err == nil {
		t.Fatalf("scheduled with scores must fail")
	}

	final := base
	final.Status = StatusFinal
	final.HomeScore, final.AwayScore = score(92), score(88)
	if err := final.Validate(); err != nil {
		t.Fatalf("valid final game rejected: %v", err)
	}
	if final.CanTransition(StatusLive) {
		t.Fatalf("FINAL must be terminal")
	}
}
