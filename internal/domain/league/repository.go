package league

import "context"

type Repository interface {
	GetLeague(ctx context.Context, id string) (League, bool, error)
	GetLeagueByCode(ctx context.Context, code string) (League, bool, error)
	ListLeagues(ctx context.Context) ([]League, error)
	UpsertLeague(ctx context.Context, item League) (League, error)

	GetSeason(ctx context.Context, id string) (Season, bool, error)
	GetSeasonByExternalID(ctx context.Context, source, externalID string) (Season, bool, error)
	ListSeasonsByLeague(ctx context.Context, leagueID string) ([]Season, error)
	UpsertSeason(ctx context.Context, item Season) (Season, error)

	// SetCurrentSeason marks one season current and clears the flag on every
	// other season of the same league in the same transaction.
	SetCurrentSeason(ctx context.Context, seasonID string) error
}
