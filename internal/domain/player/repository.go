package player

import "context"

// ListFilter narrows player listings. Search is matched as a substring of the
// folded name key; zero values mean unconstrained.
type ListFilter struct {
	Search string
	TeamID string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Player, bool, error)
	GetByExternalID(ctx context.Context, source, externalID string) (Player, bool, error)
	// FindByNameKey returns every player whose folded full name equals key.
	FindByNameKey(ctx context.Context, key string) ([]Player, error)
	// ListByTeam returns players with any history row on the team, any season.
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	List(ctx context.Context, filter ListFilter) ([]Player, int, error)

	Create(ctx context.Context, item Player) (Player, error)
	Update(ctx context.Context, item Player) error
	Merge(ctx context.Context, winnerID, loserID string) error

	UpsertHistory(ctx context.Context, row History) error
	ListHistoryByPlayer(ctx context.Context, playerID string) ([]History, error)
	ListHistoryBySeason(ctx context.Context, teamID, seasonID string) ([]History, error)
}
