package memory

import (
	"context"
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/game"
)

type GameRepository struct {
	s *Store
}

// cloneGame detaches the external-id map so callers can never mutate stored
// state in place; Update's Union conflict check relies on that.
func cloneGame(item game.Game) game.Game {
	item.ExternalIDs = extid.Clone(item.ExternalIDs)
	return item
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.games[id]
	return cloneGame(item), ok, nil
}

func (r *GameRepository) GetByExternalID(_ context.Context, source, externalID string) (game.Game, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.gameByExt[extid.Key(source, externalID)]
	if !ok {
		return game.Game{}, false, nil
	}
	item, ok := r.s.games[id]
	return cloneGame(item), ok, nil
}

func (r *GameRepository) List(_ context.Context, filter game.ListFilter) ([]game.Game, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []game.Game
	for _, item := range r.s.games {
		if !matchesGameFilter(item, filter) {
			continue
		}
		matched = append(matched, cloneGame(item))
	}
	sortByKey(matched, func(g game.Game) string {
		return g.GameDate.UTC().Format("2006-01-02T15:04:05") + "\x1f" + g.ID
	})

	total := len(matched)
	matched = paginate(matched, filter.Limit, filter.Offset)
	return matched, total, nil
}

func (r *GameRepository) ListBySeason(_ context.Context, seasonID string) ([]game.Game, error) {
	items, _, err := r.List(context.Background(), game.ListFilter{SeasonID: seasonID})
	return items, err
}

func (r *GameRepository) Create(_ context.Context, item game.Game) (game.Game, error) {
	if err := item.Validate(); err != nil {
		return game.Game{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created, err := r.createLocked(item)
	if err != nil {
		return game.Game{}, err
	}
	return created, nil
}

func (r *GameRepository) createLocked(item game.Game) (game.Game, error) {
	if item.ID == "" {
		newID, err := r.s.nextID()
		if err != nil {
			return game.Game{}, err
		}
		item.ID = newID
	}
	for source, externalID := range item.ExternalIDs {
		key := extid.Key(source, externalID)
		if owner, ok := r.s.gameByExt[key]; ok && owner != item.ID {
			return game.Game{}, fmt.Errorf("%w: game %s already owns %s/%s", extid.ErrConflict, owner, source, externalID)
		}
	}

	item.ExternalIDs = extid.Clone(item.ExternalIDs)
	r.s.games[item.ID] = item
	for source, externalID := range item.ExternalIDs {
		r.s.gameByExt[extid.Key(source, externalID)] = item.ID
	}
	return cloneGame(item), nil
}

func (r *GameRepository) Update(_ context.Context, item game.Game) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.updateLocked(item)
}

func (r *GameRepository) updateLocked(item game.Game) error {
	existing, ok := r.s.games[item.ID]
	if !ok {
		return fmt.Errorf("game %s not found", item.ID)
	}
	if !existing.CanTransition(item.Status) {
		return fmt.Errorf("game %s cannot leave status %s", item.ID, existing.Status)
	}
	merged, err := extid.Union(existing.ExternalIDs, item.ExternalIDs)
	if err != nil {
		return err
	}
	for source, externalID := range merged {
		key := extid.Key(source, externalID)
		if owner, ok := r.s.gameByExt[key]; ok && owner != item.ID {
			return fmt.Errorf("%w: game %s already owns %s/%s", extid.ErrConflict, owner, source, externalID)
		}
	}

	item.ExternalIDs = merged
	r.s.games[item.ID] = item
	for source, externalID := range merged {
		r.s.gameByExt[extid.Key(source, externalID)] = item.ID
	}
	return nil
}

// Delete removes the game together with its box scores, play-by-play and
// links, mirroring the cascading foreign keys in the SQL schema.
func (r *GameRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.games[id]
	if !ok {
		return fmt.Errorf("game %s not found", id)
	}

	for source, externalID := range item.ExternalIDs {
		delete(r.s.gameByExt, extid.Key(source, externalID))
	}
	for key, ps := range r.s.playerStats {
		if ps.GameID == id {
			delete(r.s.playerStats, key)
		}
	}
	for key, ts := range r.s.teamStats {
		if ts.GameID == id {
			delete(r.s.teamStats, key)
		}
	}
	delete(r.s.events, id)
	delete(r.s.links, id)
	delete(r.s.games, id)
	return nil
}

func matchesGameFilter(item game.Game, filter game.ListFilter) bool {
	if filter.SeasonID != "" && item.SeasonID != filter.SeasonID {
		return false
	}
	if filter.TeamID != "" && item.HomeTeamID != filter.TeamID && item.AwayTeamID != filter.TeamID {
		return false
	}
	if filter.Status != "" && item.Status != filter.Status {
		return false
	}
	if !filter.From.IsZero() && item.GameDate.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && item.GameDate.After(filter.To) {
		return false
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
