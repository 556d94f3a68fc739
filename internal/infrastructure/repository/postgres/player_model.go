package postgres

import (
	"database/sql"

	"github.com/bytedance/sonic"

	"github.com/courtdata/hoopsync/internal/domain/player"
)

type playerTableModel struct {
	ID          string        `db:"id"`
	FirstName   string        `db:"first_name"`
	LastName    string        `db:"last_name"`
	BirthDate   sql.NullTime  `db:"birth_date"`
	Nationality string        `db:"nationality"`
	HeightCM    sql.NullInt64 `db:"height_cm"`
	Positions   string        `db:"positions"`
	ExternalIDs string        `db:"external_ids"`
}

func (m playerTableModel) toDomain() player.Player {
	out := player.Player{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Nationality: m.Nationality,
		HeightCM:    nullIntToPtr(m.HeightCM),
		Positions:   decodePositions(m.Positions),
		ExternalIDs: decodeExternalIDs(m.ExternalIDs),
	}
	if m.BirthDate.Valid {
		t := m.BirthDate.Time
		out.BirthDate = &t
	}
	return out
}

type playerInsertModel struct {
	ID          string        `db:"id"`
	FirstName   string        `db:"first_name"`
	LastName    string        `db:"last_name"`
	BirthDate   sql.NullTime  `db:"birth_date"`
	Nationality string        `db:"nationality"`
	HeightCM    sql.NullInt64 `db:"height_cm"`
	Positions   string        `db:"positions"`
	NameKey     string        `db:"name_key"`
	ExternalIDs string        `db:"external_ids"`
}

func newPlayerInsertModel(item player.Player) playerInsertModel {
	out := playerInsertModel{
		ID:          item.ID,
		FirstName:   item.FirstName,
		LastName:    item.LastName,
		Nationality: item.Nationality,
		HeightCM:    nullableInt(item.HeightCM),
		Positions:   encodePositions(item.Positions),
		NameKey:     item.NameKey(),
		ExternalIDs: encodeExternalIDs(item.ExternalIDs),
	}
	if item.BirthDate != nil {
		out.BirthDate = sql.NullTime{Time: *item.BirthDate, Valid: true}
	}
	return out
}

func encodePositions(positions []player.Position) string {
	if len(positions) == 0 {
		return "[]"
	}
	encoded, err := sonic.Marshal(positions)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func decodePositions(raw string) []player.Position {
	if raw == "" || raw == "[]" {
		return nil
	}
	var out []player.Position
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func playerSelectColumns() []string {
	return []string{"id", "first_name", "last_name", "birth_date", "nationality", "height_cm", "positions", "external_ids"}
}

type historyTableModel struct {
	PlayerID     string         `db:"player_id"`
	TeamID       string         `db:"team_id"`
	SeasonID     string         `db:"season_id"`
	JerseyNumber sql.NullInt64  `db:"jersey_number"`
	Position     sql.NullString `db:"position"`
}

func (m historyTableModel) toDomain() player.History {
	out := player.History{
		PlayerID:     m.PlayerID,
		TeamID:       m.TeamID,
		SeasonID:     m.SeasonID,
		JerseyNumber: nullIntToPtr(m.JerseyNumber),
	}
	if m.Position.Valid && m.Position.String != "" {
		pos := player.Position(m.Position.String)
		out.Position = &pos
	}
	return out
}
