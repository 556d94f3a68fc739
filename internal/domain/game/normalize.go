package game

import (
	"strings"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

var statusTable = map[string]Status{
	"scheduled":    StatusScheduled,
	"sched":        StatusScheduled,
	"upcoming":     StatusScheduled,
	"notstarted":   StatusScheduled,
	"ns":           StatusScheduled,
	"pregame":      StatusScheduled,
	"pre":          StatusScheduled,
	"future":       StatusScheduled,
	"tbd":          StatusScheduled,
	"live":         StatusLive,
	"inprogress":   StatusLive,
	"inplay":       StatusLive,
	"playing":      StatusLive,
	"halftime":     StatusLive,
	"ht":           StatusLive,
	"q1":           StatusLive,
	"q2":           StatusLive,
	"q3":           StatusLive,
	"q4":           StatusLive,
	"ot":           StatusLive,
	"overtime":     StatusLive,
	"final":        StatusFinal,
	"finished":     StatusFinal,
	"ended":        StatusFinal,
	"complete":     StatusFinal,
	"completed":    StatusFinal,
	"closed":       StatusFinal,
	"ft":           StatusFinal,
	"aot":          StatusFinal,
	"afterot":      StatusFinal,
	"finalot":      StatusFinal,
	"postponed":    StatusPostponed,
	"ppd":          StatusPostponed,
	"delayed":      StatusPostponed,
	"suspended":    StatusPostponed,
	"rescheduled":  StatusPostponed,
	"cancelled":    StatusCancelled,
	"canceled":     StatusCancelled,
	"abandoned":    StatusCancelled,
	"forfeit":      StatusCancelled,
	"walkover":     StatusCancelled,
}

// NormalizeStatus maps a raw provider game state to the canonical enum.
func NormalizeStatus(raw, source string) (Status, error) {
	if strings.TrimSpace(raw) == "" {
		return "", normalize.UnknownValue(source, "game_status", raw)
	}
	if status, ok := statusTable[normalize.Key(raw)]; ok {
		return status, nil
	}
	return "", normalize.UnknownValue(source, "game_status", raw)
}
