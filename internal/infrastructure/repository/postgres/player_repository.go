package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/normalize"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/platform/id"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewPlayerRepository(db *sqlx.DB, ids id.Generator) *PlayerRepository {
	return &PlayerRepository{db: db, ids: ids}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns()...).From("players").
		Where(qb.Eq("id", playerID)).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}
	return r.getPlayer(ctx, query, args)
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, source, externalID string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns()...).From("players").
		Where(externalIDCondition(source, externalID)).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by external id query: %w", err)
	}
	return r.getPlayer(ctx, query, args)
}

func (r *PlayerRepository) getPlayer(ctx context.Context, query string, args []any) (player.Player, bool, error) {
	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) FindByNameKey(ctx context.Context, key string) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns()...).From("players").
		Where(qb.Eq("name_key", key)).OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by name key query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	query, args, err := qb.Select(
		"DISTINCT p.id", "p.first_name", "p.last_name", "p.birth_date",
		"p.nationality", "p.height_cm", "p.positions", "p.external_ids",
	).From("players p JOIN player_team_history h ON h.player_id = p.id").
		Where(qb.Eq("h.team_id", teamID)).
		OrderBy("p.last_name", "p.first_name", "p.id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, int, error) {
	from := "players p"
	var conditions []qb.Condition
	if filter.TeamID != "" {
		from = "players p JOIN player_team_history h ON h.player_id = p.id"
		conditions = append(conditions, qb.Eq("h.team_id", filter.TeamID))
	}
	if filter.Search != "" {
		conditions = append(conditions, qb.ILike("p.name_key", "%"+normalize.Fold(filter.Search)+"%"))
	}

	countQuery, countArgs, err := qb.Select("COUNT(DISTINCT p.id)").From(from).Where(conditions...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count players query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count players: %w", err)
	}

	builder := qb.Select(
		"DISTINCT p.id", "p.first_name", "p.last_name", "p.birth_date",
		"p.nationality", "p.height_cm", "p.positions", "p.external_ids",
	).From(from).Where(conditions...).
		OrderBy("p.last_name", "p.first_name", "p.id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build list players query: %w", err)
	}

	items, err := r.selectPlayers(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (player.Player, error) {
	if err := item.Validate(); err != nil {
		return player.Player{}, err
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return player.Player{}, fmt.Errorf("mint player id: %w", err)
		}
		item.ID = newID
	}

	query, args, err := qb.InsertModel("players", newPlayerInsertModel(item), "")
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return player.Player{}, fmt.Errorf("insert player %s: %w", item.FullName(), err)
	}
	return item, nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	if err := item.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update player: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	merged, err := mergeExternalIDsTx(ctx, tx, "players", item.ID, item.ExternalIDs)
	if err != nil {
		return err
	}
	item.ExternalIDs = merged

	model := newPlayerInsertModel(item)
	query, args, err := qb.Update("players").
		Set("first_name", model.FirstName).
		Set("last_name", model.LastName).
		Set("birth_date", model.BirthDate).
		Set("nationality", model.Nationality).
		Set("height_cm", model.HeightCM).
		Set("positions", model.Positions).
		Set("name_key", model.NameKey).
		Set("external_ids", model.ExternalIDs).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player %s: %w", item.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update player tx: %w", err)
	}
	return nil
}

func (r *PlayerRepository) Merge(ctx context.Context, winnerID, loserID string) error {
	if winnerID == loserID {
		return fmt.Errorf("cannot merge player %s into itself", winnerID)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx merge players: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var winnerExt, loserExt string
	if err := tx.GetContext(ctx, &winnerExt, "SELECT external_ids FROM players WHERE id = $1 FOR UPDATE", winnerID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("merge winner %s not found", winnerID)
		}
		return fmt.Errorf("lock merge winner: %w", err)
	}
	if err := tx.GetContext(ctx, &loserExt, "SELECT external_ids FROM players WHERE id = $1 FOR UPDATE", loserID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("merge loser %s not found", loserID)
		}
		return fmt.Errorf("lock merge loser: %w", err)
	}

	merged, err := extid.Union(decodeExternalIDs(winnerExt), decodeExternalIDs(loserExt))
	if err != nil {
		return err
	}

	retargets := []struct {
		stmt string
		args []any
	}{
		{`INSERT INTO player_team_history (player_id, team_id, season_id, jersey_number, position)
            SELECT $1, team_id, season_id, jersey_number, position FROM player_team_history WHERE player_id = $2
            ON CONFLICT DO NOTHING`, []any{winnerID, loserID}},
		{"DELETE FROM player_team_history WHERE player_id = $1", []any{loserID}},
		{"UPDATE player_game_stats SET player_id = $1 WHERE player_id = $2", []any{winnerID, loserID}},
		{"UPDATE pbp_events SET player_id = $1 WHERE player_id = $2", []any{winnerID, loserID}},
		{`UPDATE pbp_events SET attributes = jsonb_set(attributes, '{player_in_id}', to_jsonb($1::text))
            WHERE attributes->>'player_in_id' = $2`, []any{winnerID, loserID}},
		{`UPDATE pbp_events SET attributes = jsonb_set(attributes, '{player_out_id}', to_jsonb($1::text))
            WHERE attributes->>'player_out_id' = $2`, []any{winnerID, loserID}},
		{`DELETE FROM player_season_stats old WHERE old.player_id = $2 AND EXISTS (
            SELECT 1 FROM player_season_stats keep
            WHERE keep.player_id = $1 AND keep.team_id = old.team_id AND keep.season_id = old.season_id)`, []any{winnerID, loserID}},
		{"UPDATE player_season_stats SET player_id = $1 WHERE player_id = $2", []any{winnerID, loserID}},
	}
	for _, step := range retargets {
		if _, err := tx.ExecContext(ctx, step.stmt, step.args...); err != nil {
			return fmt.Errorf("retarget player references: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE players SET external_ids = $1, updated_at = NOW() WHERE id = $2",
		encodeExternalIDs(merged), winnerID); err != nil {
		return fmt.Errorf("union merged external ids: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM players WHERE id = $1", loserID); err != nil {
		return fmt.Errorf("delete merged player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge players tx: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpsertHistory(ctx context.Context, row player.History) error {
	if row.PlayerID == "" || row.TeamID == "" || row.SeasonID == "" {
		return fmt.Errorf("player history requires player, team and season ids")
	}

	model := historyTableModel{
		PlayerID:     row.PlayerID,
		TeamID:       row.TeamID,
		SeasonID:     row.SeasonID,
		JerseyNumber: nullableInt(row.JerseyNumber),
	}
	if row.Position != nil {
		model.Position = sql.NullString{String: string(*row.Position), Valid: true}
	}

	query, args, err := qb.InsertModel("player_team_history", model, `ON CONFLICT (player_id, team_id, season_id)
DO UPDATE SET
    jersey_number = EXCLUDED.jersey_number,
    position = EXCLUDED.position`)
	if err != nil {
		return fmt.Errorf("build upsert player history query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player history: %w", err)
	}
	return nil
}

func (r *PlayerRepository) ListHistoryByPlayer(ctx context.Context, playerID string) ([]player.History, error) {
	query, args, err := qb.Select("player_id", "team_id", "season_id", "jersey_number", "position").
		From("player_team_history").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("season_id", "team_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player history query: %w", err)
	}
	return r.selectHistory(ctx, query, args)
}

func (r *PlayerRepository) ListHistoryBySeason(ctx context.Context, teamID, seasonID string) ([]player.History, error) {
	query, args, err := qb.Select("player_id", "team_id", "season_id", "jersey_number", "position").
		From("player_team_history").
		Where(qb.Eq("team_id", teamID), qb.Eq("season_id", seasonID)).
		OrderBy("player_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season history query: %w", err)
	}
	return r.selectHistory(ctx, query, args)
}

func (r *PlayerRepository) selectHistory(ctx context.Context, query string, args []any) ([]player.History, error) {
	var rows []historyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player history: %w", err)
	}
	out := make([]player.History, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
