package euroleague

import (
	"github.com/courtdata/hoopsync/internal/domain/normalize"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
)

// playCodeSpec expands a coded play type into the canonical event shape.
// Success stays nil for event kinds where made/missed has no meaning.
type playCodeSpec struct {
	eventType pbp.EventType
	subtype   string
	success   *bool
	points    int
}

var (
	madeTrue   = true
	madeFalse  = false
	playCodeTable = map[string]playCodeSpec{
		"2FGM": {eventType: pbp.EventShot, subtype: "two_point", success: &madeTrue, points: 2},
		"2FGA": {eventType: pbp.EventShot, subtype: "two_point", success: &madeFalse},
		"3FGM": {eventType: pbp.EventShot, subtype: "three_point", success: &madeTrue, points: 3},
		"3FGA": {eventType: pbp.EventShot, subtype: "three_point", success: &madeFalse},
		"FTM":  {eventType: pbp.EventFreeThrow, success: &madeTrue, points: 1},
		"FTA":  {eventType: pbp.EventFreeThrow, success: &madeFalse},
		"O":    {eventType: pbp.EventRebound, subtype: "offensive"},
		"D":    {eventType: pbp.EventRebound, subtype: "defensive"},
		"AS":   {eventType: pbp.EventAssist},
		"TO":   {eventType: pbp.EventTurnover},
		"ST":   {eventType: pbp.EventSteal},
		"FV":   {eventType: pbp.EventBlock},
		"CM":   {eventType: pbp.EventFoul},
		"SUB":  {eventType: pbp.EventSubstitution},
		"TOUT": {eventType: pbp.EventTimeout},
		"JB":   {eventType: pbp.EventJumpBall},
		"BP":   {eventType: pbp.EventPeriodStart},
		"EP":   {eventType: pbp.EventPeriodEnd},
	}
)

func expandPlayCode(raw string) (playCodeSpec, error) {
	if spec, ok := playCodeTable[raw]; ok {
		return spec, nil
	}
	return playCodeSpec{}, normalize.UnknownValue(sourceName, "play_type", raw)
}
