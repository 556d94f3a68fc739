package team

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Team, bool, error)
	GetByExternalID(ctx context.Context, source, externalID string) (Team, bool, error)
	// FindByNameKey returns every team whose folded name equals key.
	FindByNameKey(ctx context.Context, key string) ([]Team, error)
	List(ctx context.Context) ([]Team, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Team, error)

	Create(ctx context.Context, item Team) (Team, error)
	Update(ctx context.Context, item Team) error

	// Merge retargets every foreign key from loser to winner, unions the
	// external id maps and deletes the loser, all in one transaction.
	Merge(ctx context.Context, winnerID, loserID string) error

	UpsertTeamSeason(ctx context.Context, link TeamSeason) error
	ListTeamSeasons(ctx context.Context, seasonID string) ([]TeamSeason, error)
}
