package game

import (
	"context"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
)

// Bundle is everything one synced game persists atomically: the game row,
// both box scores and the ordered play-by-play with its links. Either the
// whole bundle commits or none of it does.
type Bundle struct {
	Game        Game
	PlayerStats []boxscore.PlayerGameStats
	TeamStats   []boxscore.TeamGameStats
	Events      []pbp.Event
	Links       []pbp.Link
}

type BundleWriter interface {
	SaveBundle(ctx context.Context, bundle Bundle) (created bool, err error)
}
