package league

import (
	"fmt"
	"time"
)

// League is a long-lived competition. Code is the business key ("winner",
// "euroleague", "nba").
type League struct {
	ID      string
	Name    string
	Code    string
	Country string
}

func (l League) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Code == "" {
		return fmt.Errorf("league code is required")
	}
	return nil
}

// Season belongs to one league. At most one season per league is current;
// the repository clears siblings atomically when a season is marked current.
type Season struct {
	ID          string
	LeagueID    string
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	IsCurrent   bool
	ExternalIDs map[string]string
}

func (s Season) Validate() error {
	if s.LeagueID == "" {
		return fmt.Errorf("season league id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("season name is required")
	}
	if !s.StartDate.IsZero() && !s.EndDate.IsZero() && s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("season %s ends before it starts", s.Name)
	}
	return nil
}
