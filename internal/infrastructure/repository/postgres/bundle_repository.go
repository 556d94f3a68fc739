package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/platform/id"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

// BundleRepository persists one game's full payload in a single transaction:
// game row, both box scores, play-by-play and links. Stats and events are
// replaced wholesale so a resync can never leave a stale remainder.
type BundleRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewBundleRepository(db *sqlx.DB, ids id.Generator) *BundleRepository {
	return &BundleRepository{db: db, ids: ids}
}

func (r *BundleRepository) SaveBundle(ctx context.Context, bundle game.Bundle) (bool, error) {
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
	for _, e := range bundle.Events {
		if err := e.Validate(); err != nil {
			return false, fmt.Errorf("event %d: %w", e.EventNumber, err)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx save game bundle: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	item := bundle.Game
	created := false
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return false, fmt.Errorf("mint game id: %w", err)
		}
		item.ID = newID

		query, args, err := qb.InsertModel("games", newGameInsertModel(item), "")
		if err != nil {
			return false, fmt.Errorf("build insert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert game: %w", err)
		}
		created = true
	} else {
		if err := updateGameTx(ctx, tx, item); err != nil {
			return false, err
		}
	}
	gameID := item.ID

	for _, table := range []string{"player_game_stats", "team_game_stats", "pbp_events", "pbp_event_links"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE game_id = $1", table), gameID); err != nil {
			return false, fmt.Errorf("clear %s for game: %w", table, err)
		}
	}

	for _, ps := range bundle.PlayerStats {
		ps.GameID = gameID
		if ps.ID == "" {
			newID, err := r.ids.NewID()
			if err != nil {
				return false, fmt.Errorf("mint player stats id: %w", err)
			}
			ps.ID = newID
		}
		query, args, err := qb.InsertModel("player_game_stats", newPlayerStatsInsertModel(ps), "")
		if err != nil {
			return false, fmt.Errorf("build insert player stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert player stats player=%s: %w", ps.PlayerID, err)
		}
	}

	for _, ts := range bundle.TeamStats {
		ts.GameID = gameID
		if ts.ID == "" {
			newID, err := r.ids.NewID()
			if err != nil {
				return false, fmt.Errorf("mint team stats id: %w", err)
			}
			ts.ID = newID
		}
		query, args, err := qb.InsertModel("team_game_stats", newTeamStatsInsertModel(ts), "")
		if err != nil {
			return false, fmt.Errorf("build insert team stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert team stats team=%s: %w", ts.TeamID, err)
		}
	}

	for _, e := range bundle.Events {
		e.GameID = gameID
		if e.ID == "" {
			newID, err := r.ids.NewID()
			if err != nil {
				return false, fmt.Errorf("mint event id: %w", err)
			}
			e.ID = newID
		}
		query, args, err := qb.InsertModel("pbp_events", newPBPEventInsertModel(e), "")
		if err != nil {
			return false, fmt.Errorf("build insert event query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert event %d: %w", e.EventNumber, err)
		}
	}

	for _, link := range bundle.Links {
		link.GameID = gameID
		type model struct {
			GameID      string `db:"game_id"`
			EventNumber int    `db:"event_number"`
			LinkedTo    int    `db:"linked_to"`
		}
		query, args, err := qb.InsertModel("pbp_event_links", model(link), "ON CONFLICT DO NOTHING")
		if err != nil {
			return false, fmt.Errorf("build insert event link query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert event link %d->%d: %w", link.EventNumber, link.LinkedTo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit save game bundle tx: %w", err)
	}
	return created, nil
}
