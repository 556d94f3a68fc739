package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
	"github.com/courtdata/hoopsync/internal/platform/id"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type SeasonStatsRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewSeasonStatsRepository(db *sqlx.DB, ids id.Generator) *SeasonStatsRepository {
	return &SeasonStatsRepository{db: db, ids: ids}
}

func (r *SeasonStatsRepository) Get(ctx context.Context, playerID, teamID, seasonID string) (seasonstats.PlayerSeasonStats, bool, error) {
	query, args, err := qb.Select(seasonStatsSelectColumns()...).From("player_season_stats").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("team_id", teamID),
			qb.Eq("season_id", seasonID),
		).ToSQL()
	if err != nil {
		return seasonstats.PlayerSeasonStats{}, false, fmt.Errorf("build select season stats query: %w", err)
	}

	var row seasonStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return seasonstats.PlayerSeasonStats{}, false, nil
		}
		return seasonstats.PlayerSeasonStats{}, false, fmt.Errorf("select season stats: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SeasonStatsRepository) ListBySeason(ctx context.Context, seasonID string) ([]seasonstats.PlayerSeasonStats, error) {
	query, args, err := qb.Select(seasonStatsSelectColumns()...).From("player_season_stats").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("player_id", "team_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season stats by season query: %w", err)
	}
	return r.selectStats(ctx, query, args)
}

func (r *SeasonStatsRepository) ListByPlayer(ctx context.Context, playerID string) ([]seasonstats.PlayerSeasonStats, error) {
	query, args, err := qb.Select(seasonStatsSelectColumns()...).From("player_season_stats").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("season_id", "team_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season stats by player query: %w", err)
	}
	return r.selectStats(ctx, query, args)
}

func (r *SeasonStatsRepository) selectStats(ctx context.Context, query string, args []any) ([]seasonstats.PlayerSeasonStats, error) {
	var rows []seasonStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select season stats: %w", err)
	}
	out := make([]seasonstats.PlayerSeasonStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SeasonStatsRepository) Upsert(ctx context.Context, item seasonstats.PlayerSeasonStats) error {
	if item.PlayerID == "" || item.TeamID == "" || item.SeasonID == "" {
		return fmt.Errorf("season stats require player, team and season ids")
	}
	if item.ID == "" {
		newID, err := r.ids.NewID()
		if err != nil {
			return fmt.Errorf("mint season stats id: %w", err)
		}
		item.ID = newID
	}

	query, args, err := qb.InsertModel("player_season_stats", newSeasonStatsInsertModel(item), `ON CONFLICT (player_id, team_id, season_id)
DO UPDATE SET
    games_played = EXCLUDED.games_played,
    games_started = EXCLUDED.games_started,
    minutes_seconds = EXCLUDED.minutes_seconds,
    points = EXCLUDED.points,
    fgm = EXCLUDED.fgm,
    fga = EXCLUDED.fga,
    two_pm = EXCLUDED.two_pm,
    two_pa = EXCLUDED.two_pa,
    three_pm = EXCLUDED.three_pm,
    three_pa = EXCLUDED.three_pa,
    ftm = EXCLUDED.ftm,
    fta = EXCLUDED.fta,
    off_rebounds = EXCLUDED.off_rebounds,
    def_rebounds = EXCLUDED.def_rebounds,
    tot_rebounds = EXCLUDED.tot_rebounds,
    assists = EXCLUDED.assists,
    turnovers = EXCLUDED.turnovers,
    steals = EXCLUDED.steals,
    blocks = EXCLUDED.blocks,
    personal_fouls = EXCLUDED.personal_fouls,
    plus_minus = EXCLUDED.plus_minus,
    efficiency = EXCLUDED.efficiency,
    avg_minutes_seconds = EXCLUDED.avg_minutes_seconds,
    avg_points = EXCLUDED.avg_points,
    avg_rebounds = EXCLUDED.avg_rebounds,
    avg_assists = EXCLUDED.avg_assists,
    avg_steals = EXCLUDED.avg_steals,
    avg_blocks = EXCLUDED.avg_blocks,
    avg_turnovers = EXCLUDED.avg_turnovers,
    avg_efficiency = EXCLUDED.avg_efficiency,
    fg_pct = EXCLUDED.fg_pct,
    two_p_pct = EXCLUDED.two_p_pct,
    three_p_pct = EXCLUDED.three_p_pct,
    ft_pct = EXCLUDED.ft_pct,
    ts_pct = EXCLUDED.ts_pct,
    efg_pct = EXCLUDED.efg_pct,
    ast_to_ratio = EXCLUDED.ast_to_ratio,
    last_calculated = EXCLUDED.last_calculated`)
	if err != nil {
		return fmt.Errorf("build upsert season stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season stats player=%s team=%s season=%s: %w", item.PlayerID, item.TeamID, item.SeasonID, err)
	}
	return nil
}

func (r *SeasonStatsRepository) Delete(ctx context.Context, playerID, teamID, seasonID string) error {
	query, args, err := qb.DeleteFrom("player_season_stats").
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("team_id", teamID),
			qb.Eq("season_id", seasonID),
		).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete season stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete season stats: %w", err)
	}
	return nil
}
