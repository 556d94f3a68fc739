package pbp

import "context"

type Repository interface {
	// ListByGame returns events ordered by event number ascending.
	ListByGame(ctx context.Context, gameID string) ([]Event, error)
	ListByGamePlayer(ctx context.Context, gameID, playerID string) ([]Event, error)
	ListByGameType(ctx context.Context, gameID string, eventType EventType) ([]Event, error)

	// Link records a symmetric relation between two events of one game.
	Link(ctx context.Context, link Link) error
	ListLinks(ctx context.Context, gameID string, eventNumber int) ([]Link, error)
}
