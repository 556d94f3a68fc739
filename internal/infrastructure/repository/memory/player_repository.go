package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/normalize"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
)

type PlayerRepository struct {
	s *Store
}

// clonePlayer detaches the external-id map so callers can never mutate stored
// state in place; Update's Union conflict check relies on that.
func clonePlayer(item player.Player) player.Player {
	item.ExternalIDs = extid.Clone(item.ExternalIDs)
	return item
}

func (r *PlayerRepository) GetByID(_ context.Context, id string) (player.Player, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.players[id]
	return clonePlayer(item), ok, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, source, externalID string) (player.Player, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.playerByExt[extid.Key(source, externalID)]
	if !ok {
		return player.Player{}, false, nil
	}
	item, ok := r.s.players[id]
	return clonePlayer(item), ok, nil
}

func (r *PlayerRepository) FindByNameKey(_ context.Context, key string) ([]player.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []player.Player
	for _, item := range r.s.players {
		if item.NameKey() == key {
			out = append(out, clonePlayer(item))
		}
	}
	sortByKey(out, func(p player.Player) string { return p.ID })
	return out, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []player.Player
	for _, row := range r.s.histories {
		if row.TeamID != teamID {
			continue
		}
		if _, dup := seen[row.PlayerID]; dup {
			continue
		}
		seen[row.PlayerID] = struct{}{}
		if item, ok := r.s.players[row.PlayerID]; ok {
			out = append(out, clonePlayer(item))
		}
	}
	sortByKey(out, func(p player.Player) string { return p.LastName + "\x1f" + p.FirstName + "\x1f" + p.ID })
	return out, nil
}

func (r *PlayerRepository) List(_ context.Context, filter player.ListFilter) ([]player.Player, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var onTeam map[string]struct{}
	if filter.TeamID != "" {
		onTeam = make(map[string]struct{})
		for _, row := range r.s.histories {
			if row.TeamID == filter.TeamID {
				onTeam[row.PlayerID] = struct{}{}
			}
		}
	}

	search := normalize.Fold(filter.Search)
	var out []player.Player
	for _, item := range r.s.players {
		if onTeam != nil {
			if _, ok := onTeam[item.ID]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(item.NameKey(), search) {
			continue
		}
		out = append(out, clonePlayer(item))
	}
	sortByKey(out, func(p player.Player) string { return p.LastName + "\x1f" + p.FirstName + "\x1f" + p.ID })

	total := len(out)
	return paginate(out, filter.Limit, filter.Offset), total, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) (player.Player, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID == "" {
		newID, err := r.s.nextID()
		if err != nil {
			return player.Player{}, err
		}
		item.ID = newID
	}
	for source, externalID := range item.ExternalIDs {
		key := extid.Key(source, externalID)
		if owner, ok := r.s.playerByExt[key]; ok && owner != item.ID {
			return player.Player{}, fmt.Errorf("%w: player %s already owns %s/%s", extid.ErrConflict, owner, source, externalID)
		}
	}

	item.ExternalIDs = extid.Clone(item.ExternalIDs)
	r.s.players[item.ID] = item
	for source, externalID := range item.ExternalIDs {
		r.s.playerByExt[extid.Key(source, externalID)] = item.ID
	}
	return clonePlayer(item), nil
}

func (r *PlayerRepository) Update(_ context.Context, item player.Player) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.players[item.ID]
	if !ok {
		return fmt.Errorf("player %s not found", item.ID)
	}
	merged, err := extid.Union(existing.ExternalIDs, item.ExternalIDs)
	if err != nil {
		return err
	}
	for source, externalID := range merged {
		key := extid.Key(source, externalID)
		if owner, ok := r.s.playerByExt[key]; ok && owner != item.ID {
			return fmt.Errorf("%w: player %s already owns %s/%s", extid.ErrConflict, owner, source, externalID)
		}
	}

	item.ExternalIDs = merged
	r.s.players[item.ID] = item
	for source, externalID := range merged {
		r.s.playerByExt[extid.Key(source, externalID)] = item.ID
	}
	return nil
}

func (r *PlayerRepository) Merge(_ context.Context, winnerID, loserID string) error {
	if winnerID == loserID {
		return fmt.Errorf("cannot merge player %s into itself", winnerID)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	winner, ok := r.s.players[winnerID]
	if !ok {
		return fmt.Errorf("merge winner %s not found", winnerID)
	}
	loser, ok := r.s.players[loserID]
	if !ok {
		return fmt.Errorf("merge loser %s not found", loserID)
	}

	merged, err := extid.Union(winner.ExternalIDs, loser.ExternalIDs)
	if err != nil {
		return err
	}
	winner.ExternalIDs = merged
	r.s.players[winnerID] = winner
	for source, externalID := range merged {
		r.s.playerByExt[extid.Key(source, externalID)] = winnerID
	}

	for key, row := range r.s.histories {
		if row.PlayerID != loserID {
			continue
		}
		delete(r.s.histories, key)
		row.PlayerID = winnerID
		// The winner's own row for the same (team, season) wins.
		winnerKey := tupleKey(row.PlayerID, row.TeamID, row.SeasonID)
		if _, exists := r.s.histories[winnerKey]; !exists {
			r.s.histories[winnerKey] = row
		}
	}

	for key, ps := range r.s.playerStats {
		if ps.PlayerID != loserID {
			continue
		}
		delete(r.s.playerStats, key)
		ps.PlayerID = winnerID
		r.s.playerStats[tupleKey(ps.GameID, ps.PlayerID)] = ps
	}

	for gameID, events := range r.s.events {
		changed := false
		for i := range events {
			if events[i].PlayerID != nil && *events[i].PlayerID == loserID {
				id := winnerID
				events[i].PlayerID = &id
				changed = true
			}
			for _, attr := range []string{pbp.AttrPlayerIn, pbp.AttrPlayerOut} {
				if raw, ok := events[i].Attributes[attr]; ok {
					if ref, ok := raw.(string); ok && ref == loserID {
						events[i].Attributes[attr] = winnerID
						changed = true
					}
				}
			}
		}
		if changed {
			r.s.events[gameID] = events
		}
	}

	for key, agg := range r.s.seasonStats {
		if agg.PlayerID != loserID {
			continue
		}
		delete(r.s.seasonStats, key)
		agg.PlayerID = winnerID
		winnerKey := tupleKey(agg.PlayerID, agg.TeamID, agg.SeasonID)
		if _, exists := r.s.seasonStats[winnerKey]; !exists {
			r.s.seasonStats[winnerKey] = agg
		}
	}

	delete(r.s.players, loserID)
	return nil
}

func (r *PlayerRepository) UpsertHistory(_ context.Context, row player.History) error {
	if row.PlayerID == "" || row.TeamID == "" || row.SeasonID == "" {
		return fmt.Errorf("player history requires player, team and season ids")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.histories[tupleKey(row.PlayerID, row.TeamID, row.SeasonID)] = row
	return nil
}

func (r *PlayerRepository) ListHistoryByPlayer(_ context.Context, playerID string) ([]player.History, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []player.History
	for _, row := range r.s.histories {
		if row.PlayerID == playerID {
			out = append(out, row)
		}
	}
	sortByKey(out, func(h player.History) string { return h.SeasonID + "\x1f" + h.TeamID })
	return out, nil
}

func (r *PlayerRepository) ListHistoryBySeason(_ context.Context, teamID, seasonID string) ([]player.History, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []player.History
	for _, row := range r.s.histories {
		if row.TeamID == teamID && row.SeasonID == seasonID {
			out = append(out, row)
		}
	}
	sortByKey(out, func(h player.History) string { return h.PlayerID })
	return out, nil
}
