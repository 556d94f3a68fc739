package memory

import (
	"context"
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/team"
)

type TeamRepository struct {
	s *Store
}

// cloneTeam detaches the external-id map so callers can never mutate stored
// state in place; Update's Union conflict check relies on that.
func cloneTeam(item team.Team) team.Team {
	item.ExternalIDs = extid.Clone(item.ExternalIDs)
	return item
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.teams[id]
	return cloneTeam(item), ok, nil
}

func (r *TeamRepository) GetByExternalID(_ context.Context, source, externalID string) (team.Team, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.teamByExt[extid.Key(source, externalID)]
	if !ok {
		return team.Team{}, false, nil
	}
	item, ok := r.s.teams[id]
	return cloneTeam(item), ok, nil
}

func (r *TeamRepository) FindByNameKey(_ context.Context, key string) ([]team.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []team.Team
	for _, item := range r.s.teams {
		if item.NameKey() == key {
			out = append(out, cloneTeam(item))
		}
	}
	sortByKey(out, func(t team.Team) string { return t.ID })
	return out, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]team.Team, 0, len(r.s.teams))
	for _, item := range r.s.teams {
		out = append(out, cloneTeam(item))
	}
	sortByKey(out, func(t team.Team) string { return t.Name + "\x1f" + t.ID })
	return out, nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID string) ([]team.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []team.Team
	for _, link := range r.s.teamSeasons {
		if link.SeasonID != seasonID {
			continue
		}
		if item, ok := r.s.teams[link.TeamID]; ok {
			out = append(out, cloneTeam(item))
		}
	}
	sortByKey(out, func(t team.Team) string { return t.Name + "\x1f" + t.ID })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) (team.Team, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID == "" {
		newID, err := r.s.nextID()
		if err != nil {
			return team.Team{}, err
		}
		item.ID = newID
	}
	for source, externalID := range item.ExternalIDs {
		key := extid.Key(source, externalID)
		if owner, ok := r.s.teamByExt[key]; ok && owner != item.ID {
			return team.Team{}, fmt.Errorf("%w: team %s already owns %s/%s", extid.ErrConflict, owner, source, externalID)
		}
	}

	item.ExternalIDs = extid.Clone(item.ExternalIDs)
	r.s.teams[item.ID] = item
	for source, externalID := range item.ExternalIDs {
		r.s.teamByExt[extid.Key(source, externalID)] = item.ID
	}
	return cloneTeam(item), nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.teams[item.ID]
	if !ok {
		return fmt.Errorf("team %s not found", item.ID)
	}
	merged, err := extid.Union(existing.ExternalIDs, item.ExternalIDs)
	if err != nil {
		return err
	}
	for source, externalID := range merged {
		key := extid.Key(source, externalID)
		if owner, ok := r.s.teamByExt[key]; ok && owner != item.ID {
			return fmt.Errorf("%w: team %s already owns %s/%s", extid.ErrConflict, owner, source, externalID)
		}
	}

	item.ExternalIDs = merged
	r.s.teams[item.ID] = item
	for source, externalID := range merged {
		r.s.teamByExt[extid.Key(source, externalID)] = item.ID
	}
	return nil
}

// Merge folds loser into winner: external ids union, every foreign key
// pointing at the loser is retargeted, then the loser row is removed.
func (r *TeamRepository) Merge(_ context.Context, winnerID, loserID string) error {
	if winnerID == loserID {
		return fmt.Errorf("cannot merge team %s into itself", winnerID)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	winner, ok := r.s.teams[winnerID]
	if !ok {
		return fmt.Errorf("merge winner %s not found", winnerID)
	}
	loser, ok := r.s.teams[loserID]
	if !ok {
		return fmt.Errorf("merge loser %s not found", loserID)
	}

	merged, err := extid.Union(winner.ExternalIDs, loser.ExternalIDs)
	if err != nil {
		return err
	}
	winner.ExternalIDs = merged
	r.s.teams[winnerID] = winner
	for source, externalID := range merged {
		r.s.teamByExt[extid.Key(source, externalID)] = winnerID
	}

	for id, g := range r.s.games {
		changed := false
		if g.HomeTeamID == loserID {
			g.HomeTeamID = winnerID
			changed = true
		}
		if g.AwayTeamID == loserID {
			g.AwayTeamID = winnerID
			changed = true
		}
		if changed {
			r.s.games[id] = g
		}
	}

	for key, link := range r.s.teamSeasons {
		if link.TeamID != loserID {
			continue
		}
		delete(r.s.teamSeasons, key)
		link.TeamID = winnerID
		r.s.teamSeasons[tupleKey(link.TeamID, link.SeasonID)] = link
	}

	for key, row := range r.s.histories {
		if row.TeamID != loserID {
			continue
		}
		delete(r.s.histories, key)
		row.TeamID = winnerID
		r.s.histories[tupleKey(row.PlayerID, row.TeamID, row.SeasonID)] = row
	}

	for key, ps := range r.s.playerStats {
		if ps.TeamID == loserID {
			ps.TeamID = winnerID
			r.s.playerStats[key] = ps
		}
	}
	for key, ts := range r.s.teamStats {
		if ts.TeamID != loserID {
			continue
		}
		delete(r.s.teamStats, key)
		ts.TeamID = winnerID
		r.s.teamStats[tupleKey(ts.GameID, ts.TeamID)] = ts
	}

	for gameID, events := range r.s.events {
		changed := false
		for i := range events {
			if events[i].TeamID == loserID {
				events[i].TeamID = winnerID
				changed = true
			}
		}
		if changed {
			r.s.events[gameID] = events
		}
	}

	for key, agg := range r.s.seasonStats {
		if agg.TeamID != loserID {
			continue
		}
		delete(r.s.seasonStats, key)
		agg.TeamID = winnerID
		r.s.seasonStats[tupleKey(agg.PlayerID, agg.TeamID, agg.SeasonID)] = agg
	}

	delete(r.s.teams, loserID)
	return nil
}

func (r *TeamRepository) UpsertTeamSeason(_ context.Context, link team.TeamSeason) error {
	if link.TeamID == "" || link.SeasonID == "" {
		return fmt.Errorf("team season link requires both ids")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.teamSeasons[tupleKey(link.TeamID, link.SeasonID)] = link
	return nil
}

func (r *TeamRepository) ListTeamSeasons(_ context.Context, seasonID string) ([]team.TeamSeason, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []team.TeamSeason
	for _, link := range r.s.teamSeasons {
		if link.SeasonID == seasonID {
			out = append(out, link)
		}
	}
	sortByKey(out, func(l team.TeamSeason) string { return l.TeamID })
	return out, nil
}
