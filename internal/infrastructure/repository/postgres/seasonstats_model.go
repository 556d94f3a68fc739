package postgres

import (
	"database/sql"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
)

type seasonStatsTableModel struct {
	ID             string `db:"id"`
	PlayerID       string `db:"player_id"`
	TeamID         string `db:"team_id"`
	SeasonID       string `db:"season_id"`
	GamesPlayed    int    `db:"games_played"`
	GamesStarted   int    `db:"games_started"`
	MinutesSeconds int    `db:"minutes_seconds"`
	Points         int    `db:"points"`
	FGM            int    `db:"fgm"`
	FGA            int    `db:"fga"`
	TwoPM          int    `db:"two_pm"`
	TwoPA          int    `db:"two_pa"`
	ThreePM        int    `db:"three_pm"`
	ThreePA        int    `db:"three_pa"`
	FTM            int    `db:"ftm"`
	FTA            int    `db:"fta"`
	OffRebounds    int    `db:"off_rebounds"`
	DefRebounds    int    `db:"def_rebounds"`
	TotRebounds    int    `db:"tot_rebounds"`
	Assists        int    `db:"assists"`
	Turnovers      int    `db:"turnovers"`
	Steals         int    `db:"steals"`
	Blocks         int    `db:"blocks"`
	PersonalFouls  int    `db:"personal_fouls"`
	PlusMinus      int    `db:"plus_minus"`
	Efficiency     int    `db:"efficiency"`

	AvgMinutesSeconds float64 `db:"avg_minutes_seconds"`
	AvgPoints         float64 `db:"avg_points"`
	AvgRebounds       float64 `db:"avg_rebounds"`
	AvgAssists        float64 `db:"avg_assists"`
	AvgSteals         float64 `db:"avg_steals"`
	AvgBlocks         float64 `db:"avg_blocks"`
	AvgTurnovers      float64 `db:"avg_turnovers"`
	AvgEfficiency     float64 `db:"avg_efficiency"`

	FGPct     sql.NullFloat64 `db:"fg_pct"`
	TwoPPct   sql.NullFloat64 `db:"two_p_pct"`
	ThreePPct sql.NullFloat64 `db:"three_p_pct"`
	FTPct     sql.NullFloat64 `db:"ft_pct"`
	TSPct     sql.NullFloat64 `db:"ts_pct"`
	EFGPct    sql.NullFloat64 `db:"efg_pct"`

	AstToRatio     float64   `db:"ast_to_ratio"`
	LastCalculated time.Time `db:"last_calculated"`
}

func (m seasonStatsTableModel) toDomain() seasonstats.PlayerSeasonStats {
	return seasonstats.PlayerSeasonStats{
		ID:             m.ID,
		PlayerID:       m.PlayerID,
		TeamID:         m.TeamID,
		SeasonID:       m.SeasonID,
		GamesPlayed:    m.GamesPlayed,
		GamesStarted:   m.GamesStarted,
		MinutesSeconds: m.MinutesSeconds,
		Points:         m.Points,
		FGM:            m.FGM, FGA: m.FGA,
		TwoPM: m.TwoPM, TwoPA: m.TwoPA,
		ThreePM: m.ThreePM, ThreePA: m.ThreePA,
		FTM: m.FTM, FTA: m.FTA,
		OffRebounds: m.OffRebounds, DefRebounds: m.DefRebounds, TotRebounds: m.TotRebounds,
		Assists: m.Assists, Turnovers: m.Turnovers,
		Steals: m.Steals, Blocks: m.Blocks, PersonalFouls: m.PersonalFouls,
		PlusMinus:  m.PlusMinus,
		Efficiency: m.Efficiency,

		AvgMinutesSeconds: m.AvgMinutesSeconds,
		AvgPoints:         m.AvgPoints,
		AvgRebounds:       m.AvgRebounds,
		AvgAssists:        m.AvgAssists,
		AvgSteals:         m.AvgSteals,
		AvgBlocks:         m.AvgBlocks,
		AvgTurnovers:      m.AvgTurnovers,
		AvgEfficiency:     m.AvgEfficiency,

		FGPct:     nullFloatToPtr(m.FGPct),
		TwoPPct:   nullFloatToPtr(m.TwoPPct),
		ThreePPct: nullFloatToPtr(m.ThreePPct),
		FTPct:     nullFloatToPtr(m.FTPct),
		TSPct:     nullFloatToPtr(m.TSPct),
		EFGPct:    nullFloatToPtr(m.EFGPct),

		AstToRatio:     m.AstToRatio,
		LastCalculated: m.LastCalculated,
	}
}

func newSeasonStatsInsertModel(item seasonstats.PlayerSeasonStats) seasonStatsTableModel {
	return seasonStatsTableModel{
		ID:             item.ID,
		PlayerID:       item.PlayerID,
		TeamID:         item.TeamID,
		SeasonID:       item.SeasonID,
		GamesPlayed:    item.GamesPlayed,
		GamesStarted:   item.GamesStarted,
		MinutesSeconds: item.MinutesSeconds,
		Points:         item.Points,
		FGM:            item.FGM, FGA: item.FGA,
		TwoPM: item.TwoPM, TwoPA: item.TwoPA,
		ThreePM: item.ThreePM, ThreePA: item.ThreePA,
		FTM: item.FTM, FTA: item.FTA,
		OffRebounds: item.OffRebounds, DefRebounds: item.DefRebounds, TotRebounds: item.TotRebounds,
		Assists: item.Assists, Turnovers: item.Turnovers,
		Steals: item.Steals, Blocks: item.Blocks, PersonalFouls: item.PersonalFouls,
		PlusMinus:  item.PlusMinus,
		Efficiency: item.Efficiency,

		AvgMinutesSeconds: item.AvgMinutesSeconds,
		AvgPoints:         item.AvgPoints,
		AvgRebounds:       item.AvgRebounds,
		AvgAssists:        item.AvgAssists,
		AvgSteals:         item.AvgSteals,
		AvgBlocks:         item.AvgBlocks,
		AvgTurnovers:      item.AvgTurnovers,
		AvgEfficiency:     item.AvgEfficiency,

		FGPct:     nullableFloat(item.FGPct),
		TwoPPct:   nullableFloat(item.TwoPPct),
		ThreePPct: nullableFloat(item.ThreePPct),
		FTPct:     nullableFloat(item.FTPct),
		TSPct:     nullableFloat(item.TSPct),
		EFGPct:    nullableFloat(item.EFGPct),

		AstToRatio:     item.AstToRatio,
		LastCalculated: item.LastCalculated,
	}
}

func seasonStatsSelectColumns() []string {
	return []string{
		"id", "player_id", "team_id", "season_id", "games_played", "games_started",
		"minutes_seconds", "points", "fgm", "fga", "two_pm", "two_pa",
		"three_pm", "three_pa", "ftm", "fta", "off_rebounds", "def_rebounds",
		"tot_rebounds", "assists", "turnovers", "steals", "blocks",
		"personal_fouls", "plus_minus", "efficiency",
		"avg_minutes_seconds", "avg_points", "avg_rebounds", "avg_assists",
		"avg_steals", "avg_blocks", "avg_turnovers", "avg_efficiency",
		"fg_pct", "two_p_pct", "three_p_pct", "ft_pct", "ts_pct", "efg_pct",
		"ast_to_ratio", "last_calculated",
	}
}
