package pbp

import (
	"errors"
	"testing"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

func TestNormalizeEventType(t *testing.T) {
	t.Parallel()

	cases := map[string]EventType{
		"3PT":              EventShot,
		"Jump Shot":        EventShot,
		"Free Throw":       EventFreeThrow,
		"Defensive Rebound": EventRebound,
		"SUB":              EventSubstitution,
		"End of Period":    EventPeriodEnd,
		"Blocked Shot":     EventBlock,
	}
	for raw, want := range cases {
		got, err := NormalizeEventType(raw, "euroleague")
		if err != nil {
			t.Fatalf("NormalizeEventType(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("NormalizeEventType(%q) = %s, want %s", raw, got, want)
		}
	}

	_, err := NormalizeEventType("celebration", "euroleague")
	var unknown *normalize.UnknownValueError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownValueError, got %v", err)
	}
}

func TestEventPointsValue(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	three := Event{EventType: EventShot, Success: &yes, Attributes: map[string]any{AttrPointsValue: 3}}
	if three.PointsValue() != 3 {
		t.Fatalf("made three = %d", three.PointsValue())
	}

	two := Event{EventType: EventShot, Success: &yes}
	if two.PointsValue() != 2 {
		t.Fatalf("made shot default = %d", two.PointsValue())
	}

	ft := Event{EventType: EventFreeThrow, Success: &yes}
	if ft.PointsValue() != 1 {
		t.Fatalf("made ft = %d", ft.PointsValue())
	}

	miss := Event{EventType: EventShot, Success: &no, Attributes: map[string]any{AttrPointsValue: 3}}
	if miss.PointsValue() != 0 {
		t.Fatalf("missed shot must score 0")
	}

	foul := Event{EventType: EventFoul, Success: &yes}
	if foul.PointsValue() != 0 {
		t.Fatalf("non-scoring event must score 0")
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	ok := Event{GameID: "g1", EventNumber: 4, Period: 1, Clock: "08:31", EventType: EventShot, TeamID: "t1"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	badClock := ok
	badClock.Clock = "8m31s"
	if err := badClock.Validate(); err == nil {
		t.Fatalf("bad clock must fail")
	}

	badNumber := ok
	badNumber.EventNumber = 0
	if err := badNumber.Validate(); err == nil {
		t.Fatalf("non-positive event number must fail")
	}
}
