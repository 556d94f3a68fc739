package team

import (
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

// Team is a canonical club. ExternalIDs maps source code to that provider's
// id; the pair (source, external id) is globally unique per entity type.
type Team struct {
	ID          string
	Name        string
	ShortName   string
	City        string
	Country     string
	ExternalIDs map[string]string
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

// NameKey is the folded key teams are matched on across sources.
func (t Team) NameKey() string {
	return normalize.Fold(t.Name)
}

// TeamSeason records a team's membership in a season (composite key).
type TeamSeason struct {
	TeamID   string
	SeasonID string
}
