package postgres

import "github.com/courtdata/hoopsync/internal/domain/team"

type teamTableModel struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	ShortName   string `db:"short_name"`
	City        string `db:"city"`
	Country     string `db:"country"`
	ExternalIDs string `db:"external_ids"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:          m.ID,
		Name:        m.Name,
		ShortName:   m.ShortName,
		City:        m.City,
		Country:     m.Country,
		ExternalIDs: decodeExternalIDs(m.ExternalIDs),
	}
}

type teamInsertModel struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	ShortName   string `db:"short_name"`
	City        string `db:"city"`
	Country     string `db:"country"`
	NameKey     string `db:"name_key"`
	ExternalIDs string `db:"external_ids"`
}

func newTeamInsertModel(item team.Team) teamInsertModel {
	return teamInsertModel{
		ID:          item.ID,
		Name:        item.Name,
		ShortName:   item.ShortName,
		City:        item.City,
		Country:     item.Country,
		NameKey:     item.NameKey(),
		ExternalIDs: encodeExternalIDs(item.ExternalIDs),
	}
}

func teamSelectColumns() []string {
	return []string{"id", "name", "short_name", "city", "country", "external_ids"}
}
