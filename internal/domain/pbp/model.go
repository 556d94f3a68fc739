package pbp

import (
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

type EventType string

const (
	EventShot         EventType = "SHOT"
	EventFreeThrow    EventType = "FREE_THROW"
	EventRebound      EventType = "REBOUND"
	EventAssist       EventType = "ASSIST"
	EventTurnover     EventType = "TURNOVER"
	EventSteal        EventType = "STEAL"
	EventBlock        EventType = "BLOCK"
	EventFoul         EventType = "FOUL"
	EventSubstitution EventType = "SUBSTITUTION"
	EventTimeout      EventType = "TIMEOUT"
	EventJumpBall     EventType = "JUMP_BALL"
	EventPeriodStart  EventType = "PERIOD_START"
	EventPeriodEnd    EventType = "PERIOD_END"
)

// Event is one play-by-play record. (GameID, EventNumber) is unique and
// EventNumber defines the only ordering the engine trusts.
type Event struct {
	ID           string
	GameID       string
	EventNumber  int
	Period       int
	Clock        string // "MM:SS" remaining in period
	EventType    EventType
	EventSubtype string
	PlayerID     *string
	TeamID       string
	Success      *bool
	CoordX       *float64
	CoordY       *float64
	Attributes   map[string]any
}

func (e Event) Validate() error {
	if e.GameID == "" {
		return fmt.Errorf("event game id is required")
	}
	if e.EventNumber <= 0 {
		return fmt.Errorf("event number must be positive")
	}
	if e.Period <= 0 {
		return fmt.Errorf("event period must be positive")
	}
	if _, err := e.ClockSeconds(); err != nil {
		return err
	}
	return nil
}

// ClockSeconds is the remaining seconds in the event's period.
func (e Event) ClockSeconds() (int, error) {
	return normalize.ClockSeconds(e.Clock)
}

// Attribute keys the engine consumes. Everything else under Attributes is
// provider traceability only.
const (
	AttrPlayerIn     = "player_in_id"
	AttrPlayerOut    = "player_out_id"
	AttrFastBreak    = "fast_break"
	AttrSecondChance = "second_chance"
	AttrContested    = "contested"
	AttrShotType     = "shot_type"
	AttrPointsValue  = "points"
)

// PointsValue is the score delta an event contributes: made shots by their
// attribute (default 2), made free throws 1, everything else 0.
func (e Event) PointsValue() int {
	made := e.Success != nil && *e.Success
	if !made {
		return 0
	}
	switch e.EventType {
	case EventFreeThrow:
		return 1
	case EventShot:
		if raw, ok := e.Attributes[AttrPointsValue]; ok {
			if pts, ok := toInt(raw); ok && pts >= 0 {
				return pts
			}
		}
		return 2
	default:
		return 0
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Link ties two events of the same game (assist to shot, rebound to missed
// shot, block to shot, free throw to foul). The relation is symmetric at the
// query layer and many-to-many.
type Link struct {
	GameID      string
	EventNumber int
	LinkedTo    int
}
