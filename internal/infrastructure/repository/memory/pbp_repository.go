package memory

import (
	"context"
	"fmt"

	"github.com/courtdata/hoopsync/internal/domain/pbp"
)

type PBPRepository struct {
	s *Store
}

func (r *PBPRepository) ListByGame(_ context.Context, gameID string) ([]pbp.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	events := r.s.events[gameID]
	out := make([]pbp.Event, len(events))
	copy(out, events)
	return out, nil
}

func (r *PBPRepository) ListByGamePlayer(_ context.Context, gameID, playerID string) ([]pbp.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []pbp.Event
	for _, e := range r.s.events[gameID] {
		if e.PlayerID != nil && *e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *PBPRepository) ListByGameType(_ context.Context, gameID string, eventType pbp.EventType) ([]pbp.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []pbp.Event
	for _, e := range r.s.events[gameID] {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *PBPRepository) Link(_ context.Context, link pbp.Link) error {
	if link.GameID == "" {
		return fmt.Errorf("event link requires a game id")
	}
	if link.EventNumber == link.LinkedTo {
		return fmt.Errorf("event %d cannot link to itself", link.EventNumber)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.links[link.GameID] {
		if existing.EventNumber == link.EventNumber && existing.LinkedTo == link.LinkedTo {
			return nil
		}
	}
	r.s.links[link.GameID] = append(r.s.links[link.GameID], link)
	return nil
}

// ListLinks is symmetric: links recorded in either direction match.
func (r *PBPRepository) ListLinks(_ context.Context, gameID string, eventNumber int) ([]pbp.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []pbp.Link
	for _, link := range r.s.links[gameID] {
		switch eventNumber {
		case link.EventNumber:
			out = append(out, link)
		case link.LinkedTo:
			out = append(out, pbp.Link{GameID: gameID, EventNumber: link.LinkedTo, LinkedTo: link.EventNumber})
		}
	}
	sortByKey(out, func(l pbp.Link) string { return fmt.Sprintf("%08d", l.LinkedTo) })
	return out, nil
}
