package boxscore

import "context"

type Repository interface {
	ListPlayerStatsByGame(ctx context.Context, gameID string) ([]PlayerGameStats, error)
	// ListPlayerStatsForTuple feeds the aggregator: every game line for a
	// (player, team, season) tuple.
	ListPlayerStatsForTuple(ctx context.Context, playerID, teamID, seasonID string) ([]PlayerGameStats, error)
	ListTeamStatsByGame(ctx context.Context, gameID string) ([]TeamGameStats, error)
	GetPlayerStats(ctx context.Context, gameID, playerID string) (PlayerGameStats, bool, error)
}
