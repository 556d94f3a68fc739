package pbp

import (
	"strings"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

var eventTypeTable = map[string]EventType{
	"shot":           EventShot,
	"fieldgoal":      EventShot,
	"fg":             EventShot,
	"2pt":            EventShot,
	"3pt":            EventShot,
	"twopointer":     EventShot,
	"threepointer":   EventShot,
	"layup":          EventShot,
	"dunk":           EventShot,
	"jumpshot":       EventShot,
	"tiro":           EventShot, // es
	"freethrow":      EventFreeThrow,
	"ft":             EventFreeThrow,
	"foulshot":       EventFreeThrow,
	"rebound":        EventRebound,
	"reb":            EventRebound,
	"offensiverebound": EventRebound,
	"defensiverebound": EventRebound,
	"assist":         EventAssist,
	"ast":            EventAssist,
	"turnover":       EventTurnover,
	"to":             EventTurnover,
	"tov":            EventTurnover,
	"badpass":        EventTurnover,
	"travelling":     EventTurnover,
	"traveling":      EventTurnover,
	"steal":          EventSteal,
	"stl":            EventSteal,
	"block":          EventBlock,
	"blk":            EventBlock,
	"blockedshot":    EventBlock,
	"foul":           EventFoul,
	"personalfoul":   EventFoul,
	"pf":             EventFoul,
	"offensivefoul":  EventFoul,
	"technicalfoul":  EventFoul,
	"unsportsmanlike": EventFoul,
	"substitution":   EventSubstitution,
	"sub":            EventSubstitution,
	"subin":          EventSubstitution,
	"subout":         EventSubstitution,
	"timeout":        EventTimeout,
	"tvtimeout":      EventTimeout,
	"jumpball":       EventJumpBall,
	"tipoff":         EventJumpBall,
	"periodstart":    EventPeriodStart,
	"startperiod":    EventPeriodStart,
	"beginperiod":    EventPeriodStart,
	"periodend":      EventPeriodEnd,
	"endperiod":      EventPeriodEnd,
	"endofperiod":    EventPeriodEnd,
}

// NormalizeEventType maps a raw provider event type to the canonical enum.
func NormalizeEventType(raw, source string) (EventType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", normalize.UnknownValue(source, "event_type", raw)
	}
	if eventType, ok := eventTypeTable[normalize.Key(raw)]; ok {
		return eventType, nil
	}
	return "", normalize.UnknownValue(source, "event_type", raw)
}
