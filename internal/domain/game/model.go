package game

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusFinal     Status = "FINAL"
	StatusPostponed Status = "POSTPONED"
	StatusCancelled Status = "CANCELLED"
)

type Game struct {
	ID          string
	SeasonID    string
	HomeTeamID  string
	AwayTeamID  string
	GameDate    time.Time
	Status      Status
	HomeScore   *int
	AwayScore   *int
	Venue       string
	Attendance  *int
	ExternalIDs map[string]string
}

func (g Game) Validate() error {
	if g.SeasonID == "" {
		return fmt.Errorf("game season id is required")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return fmt.Errorf("game requires both team ids")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("home and away team must differ")
	}

	hasScores := g.HomeScore != nil && g.AwayScore != nil
	switch g.Status {
	case StatusLive, StatusFinal:
		if !hasScores {
			return fmt.Errorf("status %s requires scores", g.Status)
		}
	case StatusScheduled, StatusPostponed, StatusCancelled:
		if g.HomeScore != nil || g.AwayScore != nil {
			return fmt.Errorf("status %s forbids scores", g.Status)
		}
	default:
		return fmt.Errorf("unknown game status %q", g.Status)
	}

	return nil
}

// CanTransition enforces the status machine: FINAL is terminal.
func (g Game) CanTransition(next Status) bool {
	if g.Status == StatusFinal {
		return next == StatusFinal
	}
	return true
}

func (g Game) IsFinal() bool {
	return g.Status == StatusFinal
}
