package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/extid"
	"github.com/courtdata/hoopsync/internal/domain/league"
	"github.com/courtdata/hoopsync/internal/platform/id"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewLeagueRepository(db *sqlx.DB, ids id.Generator) *LeagueRepository {
	return &LeagueRepository{db: db, ids: ids}
}

func (r *LeagueRepository) GetLeague(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("id", "name", "code", "country").From("leagues").
		Where(qb.Eq("id", leagueID)).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) GetLeagueByCode(ctx context.Context, code string) (league.League, bool, error) {
	query, args, err := qb.Select("id", "name", "code", "country").From("leagues").
		Where(qb.Eq("code", code)).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league by code query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league by code: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) ListLeagues(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("id", "name", "code", "country").From("leagues").
		OrderBy("code").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) UpsertLeague(ctx context.Context, item league.League) (league.League, error) {
	if err := item.Validate(); err != nil {
		return league.League{}, err
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return league.League{}, fmt.Errorf("mint league id: %w", err)
		}
		item.ID = newID
	}

	type model struct {
		ID      string `db:"id"`
		Name    string `db:"name"`
		Code    string `db:"code"`
		Country string `db:"country"`
	}
	query, args, err := qb.InsertModel("leagues", model(item), `ON CONFLICT (code)
DO UPDATE SET
    name = EXCLUDED.name,
    country = EXCLUDED.country,
    updated_at = NOW()
RETURNING id`)
	if err != nil {
		return league.League{}, fmt.Errorf("build upsert league query: %w", err)
	}
	if err := r.db.GetContext(ctx, &item.ID, query, args...); err != nil {
		return league.League{}, fmt.Errorf("upsert league %s: %w", item.Code, err)
	}
	return item, nil
}

func (r *LeagueRepository) GetSeason(ctx context.Context, seasonID string) (league.Season, bool, error) {
	query, args, err := seasonSelect().Where(qb.Eq("id", seasonID)).ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build select season query: %w", err)
	}
	return r.getSeason(ctx, query, args)
}

func (r *LeagueRepository) GetSeasonByExternalID(ctx context.Context, source, externalID string) (league.Season, bool, error) {
	query, args, err := seasonSelect().Where(externalIDCondition(source, externalID)).ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build select season by external id query: %w", err)
	}
	return r.getSeason(ctx, query, args)
}

func (r *LeagueRepository) getSeason(ctx context.Context, query string, args []any) (league.Season, bool, error) {
	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Season{}, false, nil
		}
		return league.Season{}, false, fmt.Errorf("select season: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *LeagueRepository) ListSeasonsByLeague(ctx context.Context, leagueID string) ([]league.Season, error) {
	query, args, err := seasonSelect().Where(qb.Eq("league_id", leagueID)).
		OrderBy("start_date", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons by league: %w", err)
	}

	out := make([]league.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) UpsertSeason(ctx context.Context, item league.Season) (league.Season, error) {
	if err := item.Validate(); err != nil {
		return league.Season{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return league.Season{}, fmt.Errorf("begin tx upsert season: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Resolve through any known external id before minting a new row.
	var existing seasonTableModel
	found := false
	for source, externalID := range item.ExternalIDs {
		query, args, err := seasonSelect().Where(externalIDCondition(source, externalID)).Suffix("FOR UPDATE").ToSQL()
		if err != nil {
			return league.Season{}, fmt.Errorf("build season lookup query: %w", err)
		}
		err = tx.GetContext(ctx, &existing, query, args...)
		if err == nil {
			found = true
			break
		}
		if !isNotFound(err) {
			return league.Season{}, fmt.Errorf("lookup season by external id: %w", err)
		}
	}

	if found {
		if item.ID != "" && item.ID != existing.ID {
			return league.Season{}, fmt.Errorf("%w: season %s already owns one of %v", extid.ErrConflict, existing.ID, item.ExternalIDs)
		}
		item.ID = existing.ID
		merged, err := extid.Union(decodeExternalIDs(existing.ExternalIDs), item.ExternalIDs)
		if err != nil {
			return league.Season{}, err
		}
		item.ExternalIDs = merged
		item.IsCurrent = existing.IsCurrent || item.IsCurrent
	} else if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return league.Season{}, fmt.Errorf("mint season id: %w", err)
		}
		item.ID = newID
	}

	if item.IsCurrent {
		if err := clearCurrentSeasonTx(ctx, tx, item.LeagueID, item.ID); err != nil {
			return league.Season{}, err
		}
	}

	query, args, err := qb.InsertModel("seasons", seasonInsertModel(item), `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    is_current = EXCLUDED.is_current,
    external_ids = EXCLUDED.external_ids,
    updated_at = NOW()`)
	if err != nil {
		return league.Season{}, fmt.Errorf("build upsert season query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return league.Season{}, fmt.Errorf("upsert season %s: %w", item.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return league.Season{}, fmt.Errorf("commit upsert season tx: %w", err)
	}
	return item, nil
}

func (r *LeagueRepository) SetCurrentSeason(ctx context.Context, seasonID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx set current season: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var leagueID string
	if err := tx.GetContext(ctx, &leagueID, "SELECT league_id FROM seasons WHERE id = $1 FOR UPDATE", seasonID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("season %s not found", seasonID)
		}
		return fmt.Errorf("select season league: %w", err)
	}

	if err := clearCurrentSeasonTx(ctx, tx, leagueID, seasonID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE seasons SET is_current = TRUE, updated_at = NOW() WHERE id = $1", seasonID); err != nil {
		return fmt.Errorf("mark season current: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set current season tx: %w", err)
	}
	return nil
}

func clearCurrentSeasonTx(ctx context.Context, tx *sqlx.Tx, leagueID, keepSeasonID string) error {
	query, args, err := qb.Update("seasons").
		Set("is_current", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Neq("id", keepSeasonID),
			qb.Eq("is_current", true),
		).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear current season query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear sibling current seasons: %w", err)
	}
	return nil
}

func seasonSelect() *qb.SelectBuilder {
	return qb.Select("id", "league_id", "name", "start_date", "end_date", "is_current", "external_ids").
		From("seasons")
}
