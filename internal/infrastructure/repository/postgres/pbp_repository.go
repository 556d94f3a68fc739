package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/pbp"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type PBPRepository struct {
	db *sqlx.DB
}

func NewPBPRepository(db *sqlx.DB) *PBPRepository {
	return &PBPRepository{db: db}
}

func (r *PBPRepository) ListByGame(ctx context.Context, gameID string) ([]pbp.Event, error) {
	query, args, err := qb.Select(pbpEventSelectColumns()...).From("pbp_events").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("event_number").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select events query: %w", err)
	}
	return r.selectEvents(ctx, query, args)
}

func (r *PBPRepository) ListByGamePlayer(ctx context.Context, gameID, playerID string) ([]pbp.Event, error) {
	query, args, err := qb.Select(pbpEventSelectColumns()...).From("pbp_events").
		Where(qb.Eq("game_id", gameID), qb.Eq("player_id", playerID)).
		OrderBy("event_number").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select events by player query: %w", err)
	}
	return r.selectEvents(ctx, query, args)
}

func (r *PBPRepository) ListByGameType(ctx context.Context, gameID string, eventType pbp.EventType) ([]pbp.Event, error) {
	query, args, err := qb.Select(pbpEventSelectColumns()...).From("pbp_events").
		Where(qb.Eq("game_id", gameID), qb.Eq("event_type", string(eventType))).
		OrderBy("event_number").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select events by type query: %w", err)
	}
	return r.selectEvents(ctx, query, args)
}

func (r *PBPRepository) selectEvents(ctx context.Context, query string, args []any) ([]pbp.Event, error) {
	var rows []pbpEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	out := make([]pbp.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PBPRepository) Link(ctx context.Context, link pbp.Link) error {
	if link.GameID == "" {
		return fmt.Errorf("event link requires a game id")
	}
	if link.EventNumber == link.LinkedTo {
		return fmt.Errorf("event %d cannot link to itself", link.EventNumber)
	}

	type model struct {
		GameID      string `db:"game_id"`
		EventNumber int    `db:"event_number"`
		LinkedTo    int    `db:"linked_to"`
	}
	query, args, err := qb.InsertModel("pbp_event_links", model(link), "ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert event link query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert event link: %w", err)
	}
	return nil
}

// ListLinks is symmetric: a link recorded in either direction matches, and
// rows are normalized so EventNumber is always the queried event.
func (r *PBPRepository) ListLinks(ctx context.Context, gameID string, eventNumber int) ([]pbp.Link, error) {
	stmt := `SELECT game_id,
       CASE WHEN event_number = $2 THEN event_number ELSE linked_to END AS event_number,
       CASE WHEN event_number = $2 THEN linked_to ELSE event_number END AS linked_to
  FROM pbp_event_links
 WHERE game_id = $1 AND (event_number = $2 OR linked_to = $2)
 ORDER BY linked_to`

	var rows []struct {
		GameID      string `db:"game_id"`
		EventNumber int    `db:"event_number"`
		LinkedTo    int    `db:"linked_to"`
	}
	if err := r.db.SelectContext(ctx, &rows, stmt, gameID, eventNumber); err != nil {
		return nil, fmt.Errorf("select event links: %w", err)
	}

	out := make([]pbp.Link, 0, len(rows))
	for _, row := range rows {
		out = append(out, pbp.Link{GameID: row.GameID, EventNumber: row.EventNumber, LinkedTo: row.LinkedTo})
	}
	return out, nil
}
