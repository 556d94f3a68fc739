package postgres

import "github.com/courtdata/hoopsync/internal/domain/boxscore"

type playerStatsTableModel struct {
	ID             string `db:"id"`
	GameID         string `db:"game_id"`
	PlayerID       string `db:"player_id"`
	TeamID         string `db:"team_id"`
	IsStarter      bool   `db:"is_starter"`
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
	Extra          string `db:"extra"`
}

func (m playerStatsTableModel) toDomain() boxscore.PlayerGameStats {
	return boxscore.PlayerGameStats{
		ID:        m.ID,
		GameID:    m.GameID,
		PlayerID:  m.PlayerID,
		TeamID:    m.TeamID,
		IsStarter: m.IsStarter,
		StatLine: boxscore.StatLine{
			MinutesSeconds: m.MinutesSeconds,
			Points:         m.Points,
			FGM:            m.FGM, FGA: m.FGA,
			TwoPM: m.TwoPM, TwoPA: m.TwoPA,
			ThreePM: m.ThreePM, ThreePA: m.ThreePA,
			FTM: m.FTM, FTA: m.FTA,
			OffRebounds: m.OffRebounds, DefRebounds: m.DefRebounds, TotRebounds: m.TotRebounds,
			Assists: m.Assists, Turnovers: m.Turnovers,
			Steals: m.Steals, Blocks: m.Blocks, PersonalFouls: m.PersonalFouls,
		},
		PlusMinus:  m.PlusMinus,
		Efficiency: m.Efficiency,
		Extra:      decodeJSONMap(m.Extra),
	}
}

func newPlayerStatsInsertModel(item boxscore.PlayerGameStats) playerStatsTableModel {
	return playerStatsTableModel{
		ID:             item.ID,
		GameID:         item.GameID,
		PlayerID:       item.PlayerID,
		TeamID:         item.TeamID,
		IsStarter:      item.IsStarter,
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
		Extra:      encodeJSONMap(item.Extra),
	}
}

type teamStatsTableModel struct {
	ID                 string `db:"id"`
	GameID             string `db:"game_id"`
	TeamID             string `db:"team_id"`
	MinutesSeconds     int    `db:"minutes_seconds"`
	Points             int    `db:"points"`
	FGM                int    `db:"fgm"`
	FGA                int    `db:"fga"`
	TwoPM              int    `db:"two_pm"`
	TwoPA              int    `db:"two_pa"`
	ThreePM            int    `db:"three_pm"`
	ThreePA            int    `db:"three_pa"`
	FTM                int    `db:"ftm"`
	FTA                int    `db:"fta"`
	OffRebounds        int    `db:"off_rebounds"`
	DefRebounds        int    `db:"def_rebounds"`
	TotRebounds        int    `db:"tot_rebounds"`
	Assists            int    `db:"assists"`
	Turnovers          int    `db:"turnovers"`
	Steals             int    `db:"steals"`
	Blocks             int    `db:"blocks"`
	PersonalFouls      int    `db:"personal_fouls"`
	FastBreakPoints    int    `db:"fast_break_points"`
	PointsInPaint      int    `db:"points_in_paint"`
	SecondChancePoints int    `db:"second_chance_points"`
	BenchPoints        int    `db:"bench_points"`
	BiggestLead        int    `db:"biggest_lead"`
	TimeLeadingSeconds int    `db:"time_leading_seconds"`
	Extra              string `db:"extra"`
}

func (m teamStatsTableModel) toDomain() boxscore.TeamGameStats {
	return boxscore.TeamGameStats{
		ID:     m.ID,
		GameID: m.GameID,
		TeamID: m.TeamID,
		StatLine: boxscore.StatLine{
			MinutesSeconds: m.MinutesSeconds,
			Points:         m.Points,
			FGM:            m.FGM, FGA: m.FGA,
			TwoPM: m.TwoPM, TwoPA: m.TwoPA,
			ThreePM: m.ThreePM, ThreePA: m.ThreePA,
			FTM: m.FTM, FTA: m.FTA,
			OffRebounds: m.OffRebounds, DefRebounds: m.DefRebounds, TotRebounds: m.TotRebounds,
			Assists: m.Assists, Turnovers: m.Turnovers,
			Steals: m.Steals, Blocks: m.Blocks, PersonalFouls: m.PersonalFouls,
		},
		FastBreakPoints:    m.FastBreakPoints,
		PointsInPaint:      m.PointsInPaint,
		SecondChancePoints: m.SecondChancePoints,
		BenchPoints:        m.BenchPoints,
		BiggestLead:        m.BiggestLead,
		TimeLeadingSeconds: m.TimeLeadingSeconds,
		Extra:              decodeJSONMap(m.Extra),
	}
}

func newTeamStatsInsertModel(item boxscore.TeamGameStats) teamStatsTableModel {
	return teamStatsTableModel{
		ID:             item.ID,
		GameID:         item.GameID,
		TeamID:         item.TeamID,
		MinutesSeconds: item.MinutesSeconds,
		Points:         item.Points,
		FGM:            item.FGM, FGA: item.FGA,
		TwoPM: item.TwoPM, TwoPA: item.TwoPA,
		ThreePM: item.ThreePM, ThreePA: item.ThreePA,
		FTM: item.FTM, FTA: item.FTA,
		OffRebounds: item.OffRebounds, DefRebounds: item.DefRebounds, TotRebounds: item.TotRebounds,
		Assists: item.Assists, Turnovers: item.Turnovers,
		Steals: item.Steals, Blocks: item.Blocks, PersonalFouls: item.PersonalFouls,
		FastBreakPoints:    item.FastBreakPoints,
		PointsInPaint:      item.PointsInPaint,
		SecondChancePoints: item.SecondChancePoints,
		BenchPoints:        item.BenchPoints,
		BiggestLead:        item.BiggestLead,
		TimeLeadingSeconds: item.TimeLeadingSeconds,
		Extra:              encodeJSONMap(item.Extra),
	}
}

func playerStatsSelectColumns() []string {
	return []string{
		"id", "game_id", "player_id", "team_id", "is_starter",
		"minutes_seconds", "points", "fgm", "fga", "two_pm", "two_pa",
		"three_pm", "three_pa", "ftm", "fta", "off_rebounds", "def_rebounds",
		"tot_rebounds", "assists", "turnovers", "steals", "blocks",
		"personal_fouls", "plus_minus", "efficiency", "extra",
	}
}

func teamStatsSelectColumns() []string {
	return []string{
		"id", "game_id", "team_id",
		"minutes_seconds", "points", "fgm", "fga", "two_pm", "two_pa",
		"three_pm", "three_pa", "ftm", "fta", "off_rebounds", "def_rebounds",
		"tot_rebounds", "assists", "turnovers", "steals", "blocks", "personal_fouls",
		"fast_break_points", "points_in_paint", "second_chance_points",
		"bench_points", "biggest_lead", "time_leading_seconds", "extra",
	}
}
