package boxscore

import (
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

// StatLine is the counter block shared by player and team box scores.
// Minutes are always stored as integer seconds.
type StatLine struct {
	MinutesSeconds int
	Points         int
	FGM            int
	FGA            int
	TwoPM          int
	TwoPA          int
	ThreePM        int
	ThreePA        int
	FTM            int
	FTA            int
	OffRebounds    int
	DefRebounds    int
	TotRebounds    int
	Assists        int
	Turnovers      int
	Steals         int
	Blocks         int
	PersonalFouls  int
}

// Validate enforces the box-score arithmetic invariants.
func (s StatLine) Validate() error {
	counters := []struct {
		name  string
		value int
	}{
		{"minutes_seconds", s.MinutesSeconds},
		{"points", s.Points},
		{"fgm", s.FGM}, {"fga", s.FGA},
		{"2pm", s.TwoPM}, {"2pa", s.TwoPA},
		{"3pm", s.ThreePM}, {"3pa", s.ThreePA},
		{"ftm", s.FTM}, {"fta", s.FTA},
		{"oreb", s.OffRebounds}, {"dreb", s.DefRebounds}, {"treb", s.TotRebounds},
		{"ast", s.Assists}, {"tov", s.Turnovers},
		{"stl", s.Steals}, {"blk", s.Blocks}, {"pf", s.PersonalFouls},
	}
	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("%s cannot be negative", c.name)
		}
	}

	if s.FGM > s.FGA {
		return fmt.Errorf("fgm %d exceeds fga %d", s.FGM, s.FGA)
	}
	if s.TwoPM+s.ThreePM != s.FGM {
		return fmt.Errorf("2pm+3pm=%d does not equal fgm=%d", s.TwoPM+s.ThreePM, s.FGM)
	}
	if s.OffRebounds+s.DefRebounds != s.TotRebounds {
		return fmt.Errorf("oreb+dreb=%d does not equal treb=%d", s.OffRebounds+s.DefRebounds, s.TotRebounds)
	}
	if want := 2*s.TwoPM + 3*s.ThreePM + s.FTM; s.Points != want {
		return fmt.Errorf("points=%d does not equal 2·2pm+3·3pm+ftm=%d", s.Points, want)
	}

	return nil
}

type PlayerGameStats struct {
	ID        string
	GameID    string
	PlayerID  string
	TeamID    string
	IsStarter bool
	StatLine
	PlusMinus  int
	Efficiency int
	Extra      map[string]any
}

// TeamGameStats carries the shared counters plus team-only aggregates.
type TeamGameStats struct {
	ID     string
	GameID string
	TeamID string
	StatLine
	FastBreakPoints    int
	PointsInPaint      int
	SecondChancePoints int
	BenchPoints        int
	BiggestLead        int
	TimeLeadingSeconds int
	Extra              map[string]any
}

// ParseMinutes converts a provider "MM:SS" minutes string to seconds.
func ParseMinutes(raw string) (int, error) {
	return normalize.ClockSeconds(raw)
}
