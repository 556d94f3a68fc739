package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/platform/id"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type GameRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewGameRepository(db *sqlx.DB, ids id.Generator) *GameRepository {
	return &GameRepository{db: db, ids: ids}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select(gameSelectColumns()...).From("games").
		Where(qb.Eq("id", gameID)).ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}
	return r.getGame(ctx, query, args)
}

func (r *GameRepository) GetByExternalID(ctx context.Context, source, externalID string) (game.Game, bool, error) {
	query, args, err := qb.Select(gameSelectColumns()...).From("games").
		Where(externalIDCondition(source, externalID)).ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game by external id query: %w", err)
	}
	return r.getGame(ctx, query, args)
}

func (r *GameRepository) getGame(ctx context.Context, query string, args []any) (game.Game, bool, error) {
	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GameRepository) List(ctx context.Context, filter game.ListFilter) ([]game.Game, int, error) {
	conditions := gameFilterConditions(filter)

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("games").Where(conditions...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count games query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	builder := qb.Select(gameSelectColumns()...).From("games").
		Where(conditions...).
		OrderBy("game_date", "id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonID string) ([]game.Game, error) {
	items, _, err := r.List(ctx, game.ListFilter{SeasonID: seasonID})
	return items, err
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) (game.Game, error) {
	if err := item.Validate(); err != nil {
		return game.Game{}, err
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return game.Game{}, fmt.Errorf("mint game id: %w", err)
		}
		item.ID = newID
	}

	query, args, err := qb.InsertModel("games", newGameInsertModel(item), "")
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return item, nil
}

func (r *GameRepository) Update(ctx context.Context, item game.Game) error {
	if err := item.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update game: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := updateGameTx(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update game tx: %w", err)
	}
	return nil
}

// updateGameTx enforces the status machine and external id union while the
// row is locked; SaveBundle reuses it inside the bundle transaction.
func updateGameTx(ctx context.Context, tx *sqlx.Tx, item game.Game) error {
	var current gameTableModel
	query, args, err := qb.Select(gameSelectColumns()...).From("games").
		Where(qb.Eq("id", item.ID)).Suffix("FOR UPDATE").ToSQL()
	if err != nil {
		return fmt.Errorf("build lock game query: %w", err)
	}
	if err := tx.GetContext(ctx, &current, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("game %s not found", item.ID)
		}
		return fmt.Errorf("lock game: %w", err)
	}

	existing := current.toDomain()
	if !existing.CanTransition(item.Status) {
		return fmt.Errorf("game %s cannot leave status %s", item.ID, existing.Status)
	}
	merged, err := extid.Union(existing.ExternalIDs, item.ExternalIDs)
	if err != nil {
		return err
	}
	item.ExternalIDs = merged

	model := newGameInsertModel(item)
	query, args, err = qb.Update("games").
		Set("season_id", model.SeasonID).
		Set("home_team_id", model.HomeTeamID).
		Set("away_team_id", model.AwayTeamID).
		Set("game_date", model.GameDate).
		Set("status", model.Status).
		Set("home_score", model.HomeScore).
		Set("away_score", model.AwayScore).
		Set("venue", model.Venue).
		Set("attendance", model.Attendance).
		Set("external_ids", model.ExternalIDs).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game %s: %w", item.ID, err)
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for stats, play-by-play and links.
func (r *GameRepository) Delete(ctx context.Context, gameID string) error {
	query, args, err := qb.DeleteFrom("games").Where(qb.Eq("id", gameID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete game query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("game %s not found", gameID)
	}
	return nil
}

func gameFilterConditions(filter game.ListFilter) []qb.Condition {
	var conditions []qb.Condition
	if filter.SeasonID != "" {
		conditions = append(conditions, qb.Eq("season_id", filter.SeasonID))
	}
	if filter.TeamID != "" {
		conditions = append(conditions, qb.Expr("(home_team_id = ? OR away_team_id = ?)", filter.TeamID, filter.TeamID))
	}
	if filter.Status != "" {
		conditions = append(conditions, qb.Eq("status", string(filter.Status)))
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, qb.Gte("game_date", filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, qb.Lte("game_date", filter.To))
	}
	return conditions
}
