package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	qb "github.com/courtdata/hoopsync/internal/platform/querybuilder"
)

type BoxScoreRepository struct {
	db *sqlx.DB
}

func NewBoxScoreRepository(db *sqlx.DB) *BoxScoreRepository {
	return &BoxScoreRepository{db: db}
}

func (r *BoxScoreRepository) ListPlayerStatsByGame(ctx context.Context, gameID string) ([]boxscore.PlayerGameStats, error) {
	query, args, err := qb.Select(playerStatsSelectColumns()...).From("player_game_stats").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("team_id", "player_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player game stats query: %w", err)
	}
	return r.selectPlayerStats(ctx, query, args)
}

func (r *BoxScoreRepository) ListPlayerStatsForTuple(ctx context.Context, playerID, teamID, seasonID string) ([]boxscore.PlayerGameStats, error) {
	cols := make([]string, 0, len(playerStatsSelectColumns()))
	for _, col := range playerStatsSelectColumns() {
		cols = append(cols, "s."+col)
	}
	query, args, err := qb.Select(cols...).
		From("player_game_stats s JOIN games g ON g.id = s.game_id").
		Where(
			qb.Eq("s.player_id", playerID),
			qb.Eq("s.team_id", teamID),
			qb.Eq("g.season_id", seasonID),
		).
		OrderBy("g.game_date", "s.game_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player tuple stats query: %w", err)
	}
	return r.selectPlayerStats(ctx, query, args)
}

func (r *BoxScoreRepository) selectPlayerStats(ctx context.Context, query string, args []any) ([]boxscore.PlayerGameStats, error) {
	var rows []playerStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player game stats: %w", err)
	}
	out := make([]boxscore.PlayerGameStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BoxScoreRepository) ListTeamStatsByGame(ctx context.Context, gameID string) ([]boxscore.TeamGameStats, error) {
	query, args, err := qb.Select(teamStatsSelectColumns()...).From("team_game_stats").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("team_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team game stats query: %w", err)
	}

	var rows []teamStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team game stats: %w", err)
	}
	out := make([]boxscore.TeamGameStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BoxScoreRepository) GetPlayerStats(ctx context.Context, gameID, playerID string) (boxscore.PlayerGameStats, bool, error) {
	query, args, err := qb.Select(playerStatsSelectColumns()...).From("player_game_stats").
		Where(qb.Eq("game_id", gameID), qb.Eq("player_id", playerID)).ToSQL()
	if err != nil {
		return boxscore.PlayerGameStats{}, false, fmt.Errorf("build select player stats query: %w", err)
	}

	var row playerStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return boxscore.PlayerGameStats{}, false, nil
		}
		return boxscore.PlayerGameStats{}, false, fmt.Errorf("select player stats: %w", err)
	}
	return row.toDomain(), true, nil
}
