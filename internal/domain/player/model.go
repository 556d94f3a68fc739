package player

import (
	"fmt"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/normalize"
)

// Position is the closed canonical position enum. Providers that only
// distinguish guard/forward map to the combined values.
type Position string

const (
	PointGuard    Position = "POINT_GUARD"
	ShootingGuard Position = "SHOOTING_GUARD"
	SmallForward  Position = "SMALL_FORWARD"
	PowerForward  Position = "POWER_FORWARD"
	Center        Position = "CENTER"
	Guard         Position = "GUARD"
	Forward       Position = "FORWARD"
)

var AllPositions = map[Position]struct{}{
	PointGuard:    {},
	ShootingGuard: {},
	SmallForward:  {},
	PowerForward:  {},
	Center:        {},
	Guard:         {},
	Forward:       {},
}

type Player struct {
	ID          string
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	Nationality string
	HeightCM    *int
	Positions   []Position
	ExternalIDs map[string]string
}

func (p Player) Validate() error {
	if p.LastName == "" {
		return fmt.Errorf("player last name is required")
	}
	for _, pos := range p.Positions {
		if _, ok := AllPositions[pos]; !ok {
			return fmt.Errorf("invalid player position: %s", pos)
		}
	}
	return nil
}

func (p Player) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// NameKey is the folded full name used for cross-source matching.
func (p Player) NameKey() string {
	return normalize.FullNameKey(p.FirstName, p.LastName)
}

// PrimaryPosition is the legacy single-position view: the first entry of the
// multi-position list.
func (p Player) PrimaryPosition() Position {
	if len(p.Positions) == 0 {
		return ""
	}
	return p.Positions[0]
}

// History is one player-team-season row. A traded player has several rows in
// the same season; the triple is unique.
type History struct {
	PlayerID     string
	TeamID       string
	SeasonID     string
	JerseyNumber *int
	Position     *Position
}
