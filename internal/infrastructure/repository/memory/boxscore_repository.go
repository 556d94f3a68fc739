package memory

import (
	"context"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
)

type BoxScoreRepository struct {
	s *Store
}

func (r *BoxScoreRepository) ListPlayerStatsByGame(_ context.Context, gameID string) ([]boxscore.PlayerGameStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []boxscore.PlayerGameStats
	for _, item := range r.s.playerStats {
		if item.GameID == gameID {
			out = append(out, item)
		}
	}
	sortByKey(out, func(s boxscore.PlayerGameStats) string { return s.TeamID + "\x1f" + s.PlayerID })
	return out, nil
}

func (r *BoxScoreRepository) ListPlayerStatsForTuple(_ context.Context, playerID, teamID, seasonID string) ([]boxscore.PlayerGameStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []boxscore.PlayerGameStats
	for _, item := range r.s.playerStats {
		if item.PlayerID != playerID || item.TeamID != teamID {
			continue
		}
		g, ok := r.s.games[item.GameID]
		if !ok || g.SeasonID != seasonID {
			continue
		}
		out = append(out, item)
	}
	sortByKey(out, func(s boxscore.PlayerGameStats) string { return s.GameID })
	return out, nil
}

func (r *BoxScoreRepository) ListTeamStatsByGame(_ context.Context, gameID string) ([]boxscore.TeamGameStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []boxscore.TeamGameStats
	for _, item := range r.s.teamStats {
		if item.GameID == gameID {
			out = append(out, item)
		}
	}
	sortByKey(out, func(s boxscore.TeamGameStats) string { return s.TeamID })
	return out, nil
}

func (r *BoxScoreRepository) GetPlayerStats(_ context.Context, gameID, playerID string) (boxscore.PlayerGameStats, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.playerStats[tupleKey(gameID, playerID)]
	return item, ok, nil
}
