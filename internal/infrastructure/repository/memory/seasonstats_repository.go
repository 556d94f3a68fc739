package memory

import (
	"context"
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
)

type SeasonStatsRepository struct {
	s *Store
}

func (r *SeasonStatsRepository) Get(_ context.Context, playerID, teamID, seasonID string) (seasonstats.PlayerSeasonStats, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.seasonStats[tupleKey(playerID, teamID, seasonID)]
	return item, ok, nil
}

func (r *SeasonStatsRepository) ListBySeason(_ context.Context, seasonID string) ([]seasonstats.PlayerSeasonStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []seasonstats.PlayerSeasonStats
	for _, item := range r.s.seasonStats {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sortByKey(out, func(s seasonstats.PlayerSeasonStats) string { return s.PlayerID + "\x1f" + s.TeamID })
	return out, nil
}

func (r *SeasonStatsRepository) ListByPlayer(_ context.Context, playerID string) ([]seasonstats.PlayerSeasonStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []seasonstats.PlayerSeasonStats
	for _, item := range r.s.seasonStats {
		if item.PlayerID == playerID {
			out = append(out, item)
		}
	}
	sortByKey(out, func(s seasonstats.PlayerSeasonStats) string { return s.SeasonID + "\x1f" + s.TeamID })
	return out, nil
}

func (r *SeasonStatsRepository) Upsert(_ context.Context, item seasonstats.PlayerSeasonStats) error {
	if item.PlayerID == "" || item.TeamID == "" || item.SeasonID == "" {
		return fmt.Errorf("season stats require player, team and season ids")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := tupleKey(item.PlayerID, item.TeamID, item.SeasonID)
	if existing, ok := r.s.seasonStats[key]; ok {
		item.ID = existing.ID
	} else if item.ID == "" {
		newID, err := r.s.nextID()
		if err != nil {
			return err
		}
		item.ID = newID
	}
	r.s.seasonStats[key] = item
	return nil
}

func (r *SeasonStatsRepository) Delete(_ context.Context, playerID, teamID, seasonID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.seasonStats, tupleKey(playerID, teamID, seasonID))
	return nil
}
