package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/platform/id"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewTeamRepository(db *sqlx.DB, ids id.Generator) *TeamRepository {
	return &TeamRepository{db: db, ids: ids}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns()...).From("teams").
		Where(qb.Eq("id", teamID)).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}
	return r.getTeam(ctx, query, args)
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, source, externalID string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns()...).From("teams").
		Where(externalIDCondition(source, externalID)).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by external id query: %w", err)
	}
	return r.getTeam(ctx, query, args)
}

func (r *TeamRepository) getTeam(ctx context.Context, query string, args []any) (team.Team, bool, error) {
	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) FindByNameKey(ctx context.Context, key string) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns()...).From("teams").
		Where(qb.Eq("name_key", key)).OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by name key query: %w", err)
	}
	return r.selectTeams(ctx, query, args)
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns()...).From("teams").
		OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}
	return r.selectTeams(ctx, query, args)
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID string) ([]team.Team, error) {
	query, args, err := qb.Select(
		"t.id", "t.name", "t.short_name", "t.city", "t.country", "t.external_ids",
	).From("teams t JOIN team_seasons ts ON ts.team_id = t.id").
		Where(qb.Eq("ts.season_id", seasonID)).
		OrderBy("t.name", "t.id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by season query: %w", err)
	}
	return r.selectTeams(ctx, query, args)
}

func (r *TeamRepository) selectTeams(ctx context.Context, query string, args []any) ([]team.Team, error) {
	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return team.Team{}, fmt.Errorf("mint team id: %w", err)
		}
		item.ID = newID
	}

	query, args, err := qb.InsertModel("teams", newTeamInsertModel(item), "")
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("insert team %s: %w", item.Name, err)
	}
	return item, nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update team: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	merged, err := mergeExternalIDsTx(ctx, tx, "teams", item.ID, item.ExternalIDs)
	if err != nil {
		return err
	}
	item.ExternalIDs = merged

	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("short_name", item.ShortName).
		Set("city", item.City).
		Set("country", item.Country).
		Set("name_key", item.NameKey()).
		Set("external_ids", encodeExternalIDs(item.ExternalIDs)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team %s: %w", item.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update team tx: %w", err)
	}
	return nil
}

// Merge folds loser into winner inside one transaction: external ids union,
// foreign keys retargeted, loser row deleted.
func (r *TeamRepository) Merge(ctx context.Context, winnerID, loserID string) error {
	if winnerID == loserID {
		return fmt.Errorf("cannot merge team %s into itself", winnerID)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx merge teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var winnerExt, loserExt string
	if err := tx.GetContext(ctx, &winnerExt, "SELECT external_ids FROM teams WHERE id = $1 FOR UPDATE", winnerID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("merge winner %s not found", winnerID)
		}
		return fmt.Errorf("lock merge winner: %w", err)
	}
	if err := tx.GetContext(ctx, &loserExt, "SELECT external_ids FROM teams WHERE id = $1 FOR UPDATE", loserID); err != nil {
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
		{"UPDATE games SET home_team_id = $1 WHERE home_team_id = $2", []any{winnerID, loserID}},
		{"UPDATE games SET away_team_id = $1 WHERE away_team_id = $2", []any{winnerID, loserID}},
		{`INSERT INTO team_seasons (team_id, season_id)
            SELECT $1, season_id FROM team_seasons WHERE team_id = $2
            ON CONFLICT DO NOTHING`, []any{winnerID, loserID}},
		{"DELETE FROM team_seasons WHERE team_id = $1", []any{loserID}},
		{`INSERT INTO player_team_history (player_id, team_id, season_id, jersey_number, position)
            SELECT player_id, $1, season_id, jersey_number, position FROM player_team_history WHERE team_id = $2
            ON CONFLICT DO NOTHING`, []any{winnerID, loserID}},
		{"DELETE FROM player_team_history WHERE team_id = $1", []any{loserID}},
		{"UPDATE player_game_stats SET team_id = $1 WHERE team_id = $2", []any{winnerID, loserID}},
		{"UPDATE team_game_stats SET team_id = $1 WHERE team_id = $2", []any{winnerID, loserID}},
		{"UPDATE pbp_events SET team_id = $1 WHERE team_id = $2", []any{winnerID, loserID}},
		{`DELETE FROM player_season_stats old WHERE old.team_id = $2 AND EXISTS (
            SELECT 1 FROM player_season_stats keep
            WHERE keep.team_id = $1 AND keep.player_id = old.player_id AND keep.season_id = old.season_id)`, []any{winnerID, loserID}},
		{"UPDATE player_season_stats SET team_id = $1 WHERE team_id = $2", []any{winnerID, loserID}},
	}
	for _, step := range retargets {
		if _, err := tx.ExecContext(ctx, step.stmt, step.args...); err != nil {
			return fmt.Errorf("retarget team references: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE teams SET external_ids = $1, updated_at = NOW() WHERE id = $2",
		encodeExternalIDs(merged), winnerID); err != nil {
		return fmt.Errorf("union merged external ids: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM teams WHERE id = $1", loserID); err != nil {
		return fmt.Errorf("delete merged team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge teams tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) UpsertTeamSeason(ctx context.Context, link team.TeamSeason) error {
	if link.TeamID == "" || link.SeasonID == "" {
		return fmt.Errorf("team season link requires both ids")
	}

	type model struct {
		TeamID   string `db:"team_id"`
		SeasonID string `db:"season_id"`
	}
	query, args, err := qb.InsertModel("team_seasons", model(link), "ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("build upsert team season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team season: %w", err)
	}
	return nil
}

func (r *TeamRepository) ListTeamSeasons(ctx context.Context, seasonID string) ([]team.TeamSeason, error) {
	query, args, err := qb.Select("team_id", "season_id").From("team_seasons").
		Where(qb.Eq("season_id", seasonID)).OrderBy("team_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team seasons query: %w", err)
	}

	var rows []struct {
		TeamID   string `db:"team_id"`
		SeasonID string `db:"season_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team seasons: %w", err)
	}

	out := make([]team.TeamSeason, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.TeamSeason{TeamID: row.TeamID, SeasonID: row.SeasonID})
	}
	return out, nil
}

// mergeExternalIDsTx unions the stored external id map with incoming keys
// while the row is locked, so concurrent syncs cannot drop mappings.
func mergeExternalIDsTx(ctx context.Context, tx *sqlx.Tx, table, rowID string, incoming map[string]string) (map[string]string, error) {
	var stored string
	query := fmt.Sprintf("SELECT external_ids FROM %s WHERE id = $1 FOR UPDATE", table)
	if err := tx.GetContext(ctx, &stored, query, rowID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s row %s not found", table, rowID)
		}
		return nil, fmt.Errorf("lock %s external ids: %w", table, err)
	}
	merged, err := extid.Union(decodeExternalIDs(stored), incoming)
	if err != nil {
		return nil, err
	}
	return merged, nil
}
