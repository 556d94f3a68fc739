package postgres

import (
	"database/sql"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/game"
)

type gameTableModel struct {
	ID          string        `db:"id"`
	SeasonID    string        `db:"season_id"`
	HomeTeamID  string        `db:"home_team_id"`
	AwayTeamID  string        `db:"away_team_id"`
	GameDate    time.Time     `db:"game_date"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	Venue       string        `db:"venue"`
	Attendance  sql.NullInt64 `db:"attendance"`
	ExternalIDs string        `db:"external_ids"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:          m.ID,
		SeasonID:    m.SeasonID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		GameDate:    m.GameDate,
		Status:      game.Status(m.Status),
		HomeScore:   nullIntToPtr(m.HomeScore),
		AwayScore:   nullIntToPtr(m.AwayScore),
		Venue:       m.Venue,
		Attendance:  nullIntToPtr(m.Attendance),
		ExternalIDs: decodeExternalIDs(m.ExternalIDs),
	}
}

func newGameInsertModel(item game.Game) gameTableModel {
	return gameTableModel{
		ID:          item.ID,
		SeasonID:    item.SeasonID,
		HomeTeamID:  item.HomeTeamID,
		AwayTeamID:  item.AwayTeamID,
		GameDate:    item.GameDate,
		Status:      string(item.Status),
		HomeScore:   nullableInt(item.HomeScore),
		AwayScore:   nullableInt(item.AwayScore),
		Venue:       item.Venue,
		Attendance:  nullableInt(item.Attendance),
		ExternalIDs: encodeExternalIDs(item.ExternalIDs),
	}
}

func gameSelectColumns() []string {
	return []string{
		"id", "season_id", "home_team_id", "away_team_id", "game_date",
		"status", "home_score", "away_score", "venue", "attendance", "external_ids",
	}
}
