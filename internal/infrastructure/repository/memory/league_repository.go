package memory

import (
	"context"
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/league"
)

type LeagueRepository struct {
	s *Store
}

func (r *LeagueRepository) GetLeague(_ context.Context, id string) (league.League, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.leagues[id]
	return item, ok, nil
}

func (r *LeagueRepository) GetLeagueByCode(_ context.Context, code string) (league.League, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.leagueByCode[code]
	if !ok {
		return league.League{}, false, nil
	}
	item, ok := r.s.leagues[id]
	return item, ok, nil
}

func (r *LeagueRepository) ListLeagues(_ context.Context) ([]league.League, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]league.League, 0, len(r.s.leagues))
	for _, item := range r.s.leagues {
		out = append(out, item)
	}
	sortByKey(out, func(l league.League) string { return l.Code })
	return out, nil
}

func (r *LeagueRepository) UpsertLeague(_ context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existingID, ok := r.s.leagueByCode[item.Code]; ok {
		item.ID = existingID
	} else if item.ID == "" {
		newID, err := r.s.nextID()
		if err != nil {
			return league.League{}, err
		}
		item.ID = newID
	}

	r.s.leagues[item.ID] = item
	r.s.leagueByCode[item.Code] = item.ID
	return item, nil
}

// cloneSeason detaches the external-id map so callers can never mutate stored
// state in place; UpsertSeason's Union conflict check relies on that.
func cloneSeason(item league.Season) league.Season {
	item.ExternalIDs = extid.Clone(item.ExternalIDs)
	return item
}

func (r *LeagueRepository) GetSeason(_ context.Context, id string) (league.Season, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.seasons[id]
	return cloneSeason(item), ok, nil
}

func (r *LeagueRepository) GetSeasonByExternalID(_ context.Context, source, externalID string) (league.Season, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.seasonByExt[extid.Key(source, externalID)]
	if !ok {
		return league.Season{}, false, nil
	}
	item, ok := r.s.seasons[id]
	return cloneSeason(item), ok, nil
}

func (r *LeagueRepository) ListSeasonsByLeague(_ context.Context, leagueID string) ([]league.Season, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []league.Season
	for _, item := range r.s.seasons {
		if item.LeagueID == leagueID {
			out = append(out, cloneSeason(item))
		}
	}
	sortByKey(out, func(s league.Season) string { return s.StartDate.Format("2006-01-02") + "\x1f" + s.ID })
	return out, nil
}

func (r *LeagueRepository) UpsertSeason(_ context.Context, item league.Season) (league.Season, error) {
	if err := item.Validate(); err != nil {
		return league.Season{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Resolve through any known external id before minting a new row.
	for source, externalID := range item.ExternalIDs {
		if existingID, ok := r.s.seasonByExt[extid.Key(source, externalID)]; ok {
			if item.ID != "" && item.ID != existingID {
				return league.Season{}, fmt.Errorf("%w: season %s already owns %s/%s", extid.ErrConflict, existingID, source, externalID)
			}
			item.ID = existingID
			break
		}
	}
	if item.ID == "" {
		newID, err := r.s.nextID()
		if err != nil {
			return league.Season{}, err
		}
		item.ID = newID
	}

	if existing, ok := r.s.seasons[item.ID]; ok {
		merged, err := extid.Union(existing.ExternalIDs, item.ExternalIDs)
		if err != nil {
			return league.Season{}, err
		}
		item.ExternalIDs = merged
		item.IsCurrent = existing.IsCurrent || item.IsCurrent
	}

	item.ExternalIDs = extid.Clone(item.ExternalIDs)
	r.s.seasons[item.ID] = item
	for source, externalID := range item.ExternalIDs {
		r.s.seasonByExt[extid.Key(source, externalID)] = item.ID
	}
	if item.IsCurrent {
		r.clearSiblingCurrentLocked(item)
	}
	return cloneSeason(item), nil
}

func (r *LeagueRepository) SetCurrentSeason(_ context.Context, seasonID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.seasons[seasonID]
	if !ok {
		return fmt.Errorf("season %s not found", seasonID)
	}
	item.IsCurrent = true
	r.s.seasons[seasonID] = item
	r.clearSiblingCurrentLocked(item)
	return nil
}

func (r *LeagueRepository) clearSiblingCurrentLocked(current league.Season) {
	for id, other := range r.s.seasons {
		if id == current.ID || other.LeagueID != current.LeagueID || !other.IsCurrent {
			continue
		}
		other.IsCurrent = false
		r.s.seasons[id] = other
	}
}
