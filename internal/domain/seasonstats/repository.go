package seasonstats

import "context"

type Repository interface {
	Get(ctx context.Context, playerID, teamID, seasonID string) (PlayerSeasonStats, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]PlayerSeasonStats, error)
	ListByPlayer(ctx context.Context, playerID string) ([]PlayerSeasonStats, error)
	// Upsert replaces the row for the (player, team, season) tuple.
	Upsert(ctx context.Context, item PlayerSeasonStats) error
	Delete(ctx context.Context, playerID, teamID, seasonID string) error
}
