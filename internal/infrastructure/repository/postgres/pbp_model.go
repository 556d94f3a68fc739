package postgres

import (
	"database/sql"

	"github.com/courtdata/hoopsync/internal/domain/pbp"
)

type pbpEventTableModel struct {
	ID           string          `db:"id"`
	GameID       string          `db:"game_id"`
	EventNumber  int             `db:"event_number"`
	Period       int             `db:"period"`
	Clock        string          `db:"clock"`
	EventType    string          `db:"event_type"`
	EventSubtype string          `db:"event_subtype"`
	PlayerID     sql.NullString  `db:"player_id"`
	TeamID       string          `db:"team_id"`
	Success      sql.NullBool    `db:"success"`
	CoordX       sql.NullFloat64 `db:"coord_x"`
	CoordY       sql.NullFloat64 `db:"coord_y"`
	Attributes   string          `db:"attributes"`
}

func (m pbpEventTableModel) toDomain() pbp.Event {
	out := pbp.Event{
		ID:           m.ID,
		GameID:       m.GameID,
		EventNumber:  m.EventNumber,
		Period:       m.Period,
		Clock:        m.Clock,
		EventType:    pbp.EventType(m.EventType),
		EventSubtype: m.EventSubtype,
		TeamID:       m.TeamID,
		CoordX:       nullFloatToPtr(m.CoordX),
		CoordY:       nullFloatToPtr(m.CoordY),
		Attributes:   decodeJSONMap(m.Attributes),
	}
	if m.PlayerID.Valid {
		v := m.PlayerID.String
		out.PlayerID = &v
	}
	if m.Success.Valid {
		v := m.Success.Bool
		out.Success = &v
	}
	return out
}

func newPBPEventInsertModel(item pbp.Event) pbpEventTableModel {
	out := pbpEventTableModel{
		ID:           item.ID,
		GameID:       item.GameID,
		EventNumber:  item.EventNumber,
		Period:       item.Period,
		Clock:        item.Clock,
		EventType:    string(item.EventType),
		EventSubtype: item.EventSubtype,
		TeamID:       item.TeamID,
		CoordX:       nullableFloat(item.CoordX),
		CoordY:       nullableFloat(item.CoordY),
		Attributes:   encodeJSONMap(item.Attributes),
	}
	if item.PlayerID != nil {
		out.PlayerID = sql.NullString{String: *item.PlayerID, Valid: true}
	}
	if item.Success != nil {
		out.Success = sql.NullBool{Bool: *item.Success, Valid: true}
	}
	return out
}

func pbpEventSelectColumns() []string {
	return []string{
		"id", "game_id", "event_number", "period", "clock", "event_type",
		"event_subtype", "player_id", "team_id", "success", "coord_x", "coord_y", "attributes",
	}
}
