package postgres

import (
	"database/sql"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/league"
)

type leagueTableModel struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Code    string `db:"code"`
	Country string `db:"country"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{ID: m.ID, Name: m.Name, Code: m.Code, Country: m.Country}
}

type seasonTableModel struct {
	ID          string       `db:"id"`
	LeagueID    string       `db:"league_id"`
	Name        string       `db:"name"`
	StartDate   sql.NullTime `db:"start_date"`
	EndDate     sql.NullTime `db:"end_date"`
	IsCurrent   bool         `db:"is_current"`
	ExternalIDs string       `db:"external_ids"`
}

func (m seasonTableModel) toDomain() league.Season {
	out := league.Season{
		ID:          m.ID,
		LeagueID:    m.LeagueID,
		Name:        m.Name,
		IsCurrent:   m.IsCurrent,
		ExternalIDs: decodeExternalIDs(m.ExternalIDs),
	}
	if m.StartDate.Valid {
		out.StartDate = m.StartDate.Time
	}
	if m.EndDate.Valid {
		out.EndDate = m.EndDate.Time
	}
	return out
}

func seasonInsertModel(item league.Season) any {
	type model struct {
		ID          string       `db:"id"`
		LeagueID    string       `db:"league_id"`
		Name        string       `db:"name"`
		StartDate   sql.NullTime `db:"start_date"`
		EndDate     sql.NullTime `db:"end_date"`
		IsCurrent   bool         `db:"is_current"`
		ExternalIDs string       `db:"external_ids"`
	}
	return model{
		ID:          item.ID,
		LeagueID:    item.LeagueID,
		Name:        item.Name,
		StartDate:   nullableTime(item.StartDate),
		EndDate:     nullableTime(item.EndDate),
		IsCurrent:   item.IsCurrent,
		ExternalIDs: encodeExternalIDs(item.ExternalIDs),
	}
}

func nullableTime(value time.Time) sql.NullTime {
	if value.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value, Valid: true}
}
