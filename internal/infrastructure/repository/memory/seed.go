package memory

import (
	"context"

	"github.com/courtdata/hoopsync/internal/domain/league"
)

// SeedLeagues inserts the built-in competitions so a fresh store can accept
// syncs without any manual setup.
func SeedLeagues(ctx context.Context, repo league.Repository) error {
	builtin := []league.League{
		{Name: "Winner League", Code: "winner", Country: "Israel"},
		{Name: "Euroleague", Code: "euroleague", Country: "Europe"},
	}
	for _, item := range builtin {
		if _, err := repo.UpsertLeague(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
