package player

import (
	"errors"
	"testing"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

func TestNormalizePosition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want []Position
	}{
		{"PG", []Position{PointGuard}},
		{"Point Guard", []Position{PointGuard}},
		{"Meneur", []Position{PointGuard}},
		{"G/F", []Position{Guard, Forward}},
		{"PG-SG", []Position{PointGuard, ShootingGuard}},
		{"Forward-Center", []Position{Forward, Center}},
		{"Pívot", []Position{Center}},
		{"5", []Position{Center}},
		{"", nil},
	}

	for _, tc := range cases {
		got, err := NormalizePosition(tc.raw, "winner")
		if err != nil {
			t.Fatalf("NormalizePosition(%q) error: %v", tc.raw, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("NormalizePosition(%q) = %v, want %v", tc.raw, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("NormalizePosition(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		}
	}
}

func TestNormalizePositionUnknown(t *testing.T) {
	t.Parallel()

	_, err := NormalizePosition("libero", "euroleague")
	var unknown *normalize.UnknownValueError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownValueError, got %v", err)
	}
	if unknown.Source != "euroleague" || unknown.Field != "position" || unknown.Raw != "libero" {
		t.Fatalf("unexpected error fields: %+v", unknown)
	}
}

func TestPlayerNameKey(t *testing.T) {
	t.Parallel()

	a := Player{FirstName: "Scottie", LastName: "Wilbekin"}
	b := Player{FirstName: "SCOTTIE", LastName: "Wilbekín"}
	if a.NameKey() != b.NameKey() {
		t.Fatalf("keys differ: %q vs %q", a.NameKey(), b.NameKey())
	}
}

func TestPrimaryPosition(t *testing.T) {
	t.Parallel()

	p := Player{LastName: "X", Positions: []Position{ShootingGuard, SmallForward}}
	if p.PrimaryPosition() != ShootingGuard {
		t.Fatalf("primary position = %s", p.PrimaryPosition())
	}
	if (Player{LastName: "Y"}).PrimaryPosition() != "" {
		t.Fatalf("empty positions must yield empty primary")
	}
}
