package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/courtdata/hoopsync/internal/domain/game"
)

// SaveBundle writes one game's full payload under a single lock: either the
// whole bundle lands or the store is untouched. Existing stats and
// play-by-play for the game are replaced, not merged.
func (s *Store) SaveBundle(_ context.Context, bundle game.Bundle) (bool, error) {
	if err := bundle.Game.Validate(); err != nil {
		return false, err
	}
	for _, ps := range bundle.PlayerStats {
		if err := ps.Validate(); err != nil {
			return false, fmt.Errorf("player stats %s: %w", ps.PlayerID, err)
		}
	}
	for _, ts := range bundle.TeamStats {
		if err := ts.Validate(); err != nil {
			return false, fmt.Errorf("team stats %s: %w", ts.TeamID, err)
		}
	}
	seenEvents := make(map[int]struct{}, len(bundle.Events))
	for _, e := range bundle.Events {
		if err := e.Validate(); err != nil {
			return false, fmt.Errorf("event %d: %w", e.EventNumber, err)
		}
		if _, dup := seenEvents[e.EventNumber]; dup {
			return false, fmt.Errorf("duplicate event number %d", e.EventNumber)
		}
		seenEvents[e.EventNumber] = struct{}{}
	}
	for _, link := range bundle.Links {
		if _, ok := seenEvents[link.EventNumber]; !ok {
			return false, fmt.Errorf("link references unknown event %d", link.EventNumber)
		}
		if _, ok := seenEvents[link.LinkedTo]; !ok {
			return false, fmt.Errorf("link references unknown event %d", link.LinkedTo)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage everything that can still fail before touching store state, so a
	// mid-write error cannot leave a half-written game behind.
	playerStats := append(bundle.PlayerStats[:0:0], bundle.PlayerStats...)
	for i := range playerStats {
		if playerStats[i].ID == "" {
			newID, err := s.nextID()
			if err != nil {
				return false, err
			}
			playerStats[i].ID = newID
		}
	}
	teamStats := append(bundle.TeamStats[:0:0], bundle.TeamStats...)
	for i := range teamStats {
		if teamStats[i].ID == "" {
			newID, err := s.nextID()
			if err != nil {
				return false, err
			}
			teamStats[i].ID = newID
		}
	}
	events := append(bundle.Events[:0:0], bundle.Events...)
	for i := range events {
		if events[i].ID == "" {
			newID, err := s.nextID()
			if err != nil {
				return false, err
			}
			events[i].ID = newID
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].EventNumber < events[j].EventNumber })

	games := &GameRepository{s: s}
	item := bundle.Game
	created := false
	if _, exists := s.games[item.ID]; item.ID != "" && exists {
		if err := games.updateLocked(item); err != nil {
			return false, err
		}
	} else {
		saved, err := games.createLocked(item)
		if err != nil {
			return false, err
		}
		item = saved
		created = true
	}
	gameID := item.ID

	// Commit. Nothing below can fail.
	for key, ps := range s.playerStats {
		if ps.GameID == gameID {
			delete(s.playerStats, key)
		}
	}
	for key, ts := range s.teamStats {
		if ts.GameID == gameID {
			delete(s.teamStats, key)
		}
	}
	for _, ps := range playerStats {
		ps.GameID = gameID
		s.playerStats[tupleKey(gameID, ps.PlayerID)] = ps
	}
	for _, ts := range teamStats {
		ts.GameID = gameID
		s.teamStats[tupleKey(gameID, ts.TeamID)] = ts
	}

	for i := range events {
		events[i].GameID = gameID
	}
	if len(events) > 0 {
		s.events[gameID] = events
	} else {
		delete(s.events, gameID)
	}

	links := append(bundle.Links[:0:0], bundle.Links...)
	for i := range links {
		links[i].GameID = gameID
	}
	if len(links) > 0 {
		s.links[gameID] = links
	} else {
		delete(s.links, gameID)
	}

	return created, nil
}
