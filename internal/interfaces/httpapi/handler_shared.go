package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/league"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
	"github.com/courtdata/hoopsync/internal/domain/synclog"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/usecase"
)

// pagedDTO wraps list payloads with the pre-pagination total.
type pagedDTO struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

type leagueDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country,omitempty"`
}

type seasonDTO struct {
	ID          string            `json:"id"`
	LeagueID    string            `json:"league_id"`
	Name        string            `json:"name"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty"`
	IsCurrent   bool              `json:"is_current"`
	ExternalIDs map[string]string `json:"external_ids,omitempty"`
}

type teamDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ShortName   string            `json:"short_name,omitempty"`
	City        string            `json:"city,omitempty"`
	Country     string            `json:"country,omitempty"`
	ExternalIDs map[string]string `json:"external_ids,omitempty"`
}

type playerDTO struct {
	ID          string            `json:"id"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name"`
	FullName    string            `json:"full_name"`
	BirthDate   *time.Time        `json:"birth_date,omitempty"`
	Nationality string            `json:"nationality,omitempty"`
	HeightCM    *int              `json:"height_cm,omitempty"`
	Positions   []string          `json:"positions,omitempty"`
	ExternalIDs map[string]string `json:"external_ids,omitempty"`
}

type playerHistoryDTO struct {
	TeamID       string  `json:"team_id"`
	SeasonID     string  `json:"season_id"`
	JerseyNumber *int    `json:"jersey_number,omitempty"`
	Position     *string `json:"position,omitempty"`
}

type gameDTO struct {
	ID          string            `json:"id"`
	SeasonID    string            `json:"season_id"`
	HomeTeamID  string            `json:"home_team_id"`
	AwayTeamID  string            `json:"away_team_id"`
	GameDate    time.Time         `json:"game_date"`
	Status      string            `json:"status"`
	HomeScore   *int              `json:"home_score,omitempty"`
	AwayScore   *int              `json:"away_score,omitempty"`
	Venue       string            `json:"venue,omitempty"`
	Attendance  *int              `json:"attendance,omitempty"`
	ExternalIDs map[string]string `json:"external_ids,omitempty"`
}

type statLineDTO struct {
	MinutesSeconds int `json:"minutes_seconds"`
	Points         int `json:"points"`
	FGM            int `json:"fgm"`
	FGA            int `json:"fga"`
	TwoPM          int `json:"two_pm"`
	TwoPA          int `json:"two_pa"`
	ThreePM        int `json:"three_pm"`
	ThreePA        int `json:"three_pa"`
	FTM            int `json:"ftm"`
	FTA            int `json:"fta"`
	OffRebounds    int `json:"off_rebounds"`
	DefRebounds    int `json:"def_rebounds"`
	TotRebounds    int `json:"tot_rebounds"`
	Assists        int `json:"assists"`
	Turnovers      int `json:"turnovers"`
	Steals         int `json:"steals"`
	Blocks         int `json:"blocks"`
	PersonalFouls  int `json:"personal_fouls"`
}

type playerGameStatsDTO struct {
	PlayerID  string `json:"player_id"`
	TeamID    string `json:"team_id"`
	IsStarter bool   `json:"is_starter"`
	statLineDTO
	PlusMinus  int `json:"plus_minus"`
	Efficiency int `json:"efficiency"`
}

type teamGameStatsDTO struct {
	TeamID string `json:"team_id"`
	statLineDTO
	FastBreakPoints    int `json:"fast_break_points"`
	PointsInPaint      int `json:"points_in_paint"`
	SecondChancePoints int `json:"second_chance_points"`
	BenchPoints        int `json:"bench_points"`
	BiggestLead        int `json:"biggest_lead"`
	TimeLeadingSeconds int `json:"time_leading_seconds"`
}

type seasonStatsDTO struct {
	PlayerID     string `json:"player_id"`
	TeamID       string `json:"team_id"`
	SeasonID     string `json:"season_id"`
	GamesPlayed  int    `json:"games_played"`
	GamesStarted int    `json:"games_started"`

	MinutesSeconds int `json:"minutes_seconds"`
	Points         int `json:"points"`
	FGM            int `json:"fgm"`
	FGA            int `json:"fga"`
	TwoPM          int `json:"two_pm"`
	TwoPA          int `json:"two_pa"`
	ThreePM        int `json:"three_pm"`
	ThreePA        int `json:"three_pa"`
	FTM            int `json:"ftm"`
	FTA            int `json:"fta"`
	OffRebounds    int `json:"off_rebounds"`
	DefRebounds    int `json:"def_rebounds"`
	TotRebounds    int `json:"tot_rebounds"`
	Assists        int `json:"assists"`
	Turnovers      int `json:"turnovers"`
	Steals         int `json:"steals"`
	Blocks         int `json:"blocks"`
	PersonalFouls  int `json:"personal_fouls"`
	PlusMinus      int `json:"plus_minus"`
	Efficiency     int `json:"efficiency"`

	AvgMinutesSeconds float64 `json:"avg_minutes_seconds"`
	AvgPoints         float64 `json:"avg_points"`
	AvgRebounds       float64 `json:"avg_rebounds"`
	AvgAssists        float64 `json:"avg_assists"`
	AvgSteals         float64 `json:"avg_steals"`
	AvgBlocks         float64 `json:"avg_blocks"`
	AvgTurnovers      float64 `json:"avg_turnovers"`
	AvgEfficiency     float64 `json:"avg_efficiency"`

	FGPct     *float64 `json:"fg_pct"`
	TwoPPct   *float64 `json:"two_p_pct"`
	ThreePPct *float64 `json:"three_p_pct"`
	FTPct     *float64 `json:"ft_pct"`
	TSPct     *float64 `json:"ts_pct"`
	EFGPct    *float64 `json:"efg_pct"`

	AstToRatio float64 `json:"ast_to_ratio"`

	LastCalculated time.Time `json:"last_calculated"`
}

type eventDTO struct {
	EventNumber  int            `json:"event_number"`
	Period       int            `json:"period"`
	Clock        string         `json:"clock"`
	EventType    string         `json:"event_type"`
	EventSubtype string         `json:"event_subtype,omitempty"`
	PlayerID     *string        `json:"player_id,omitempty"`
	TeamID       string         `json:"team_id"`
	Success      *bool          `json:"success,omitempty"`
	CoordX       *float64       `json:"coord_x,omitempty"`
	CoordY       *float64       `json:"coord_y,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

type syncLogDTO struct {
	ID               string         `json:"id"`
	Source           string         `json:"source"`
	EntityType       string         `json:"entity_type"`
	Status           string         `json:"status"`
	SeasonID         *string        `json:"season_id,omitempty"`
	GameID           *string        `json:"game_id,omitempty"`
	RecordsProcessed int            `json:"records_processed"`
	RecordsCreated   int            `json:"records_created"`
	RecordsUpdated   int            `json:"records_updated"`
	RecordsSkipped   int            `json:"records_skipped"`
	ErrorMessage     string         `json:"error_message,omitempty"`
	ErrorDetails     map[string]any `json:"error_details,omitempty"`
	StartedAt        time.Time      `json:"started_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

type sourceStatusDTO struct {
	Name                string      `json:"name"`
	Enabled             bool        `json:"enabled"`
	AutoSyncEnabled     bool        `json:"auto_sync_enabled"`
	SyncIntervalMinutes int         `json:"sync_interval_minutes"`
	RunningSyncs        int         `json:"running_syncs"`
	LatestSeasonSync    *syncLogDTO `json:"latest_season_sync,omitempty"`
	LatestGameSync      *syncLogDTO `json:"latest_game_sync,omitempty"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:      v.ID,
		Name:    v.Name,
		Code:    v.Code,
		Country: v.Country,
	}
}

func seasonToDTO(v league.Season) seasonDTO {
	out := seasonDTO{
		ID:          v.ID,
		LeagueID:    v.LeagueID,
		Name:        v.Name,
		IsCurrent:   v.IsCurrent,
		ExternalIDs: v.ExternalIDs,
	}
	if !v.StartDate.IsZero() {
		start := v.StartDate
		out.StartDate = &start
	}
	if !v.EndDate.IsZero() {
		end := v.EndDate
		out.EndDate = &end
	}
	return out
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:          v.ID,
		Name:        v.Name,
		ShortName:   v.ShortName,
		City:        v.City,
		Country:     v.Country,
		ExternalIDs: v.ExternalIDs,
	}
}

func playerToDTO(v player.Player) playerDTO {
	positions := make([]string, 0, len(v.Positions))
	for _, p := range v.Positions {
		positions = append(positions, string(p))
	}
	return playerDTO{
		ID:          v.ID,
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		FullName:    v.FullName(),
		BirthDate:   v.BirthDate,
		Nationality: v.Nationality,
		HeightCM:    v.HeightCM,
		Positions:   positions,
		ExternalIDs: v.ExternalIDs,
	}
}

func historyToDTO(v player.History) playerHistoryDTO {
	out := playerHistoryDTO{
		TeamID:       v.TeamID,
		SeasonID:     v.SeasonID,
		JerseyNumber: v.JerseyNumber,
	}
	if v.Position != nil {
		position := string(*v.Position)
		out.Position = &position
	}
	return out
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		ID:          v.ID,
		SeasonID:    v.SeasonID,
		HomeTeamID:  v.HomeTeamID,
		AwayTeamID:  v.AwayTeamID,
		GameDate:    v.GameDate,
		Status:      string(v.Status),
		HomeScore:   v.HomeScore,
		AwayScore:   v.AwayScore,
		Venue:       v.Venue,
		Attendance:  v.Attendance,
		ExternalIDs: v.ExternalIDs,
	}
}

func statLineToDTO(v boxscore.StatLine) statLineDTO {
	return statLineDTO{
		MinutesSeconds: v.MinutesSeconds,
		Points:         v.Points,
		FGM:            v.FGM,
		FGA:            v.FGA,
		TwoPM:          v.TwoPM,
		TwoPA:          v.TwoPA,
		ThreePM:        v.ThreePM,
		ThreePA:        v.ThreePA,
		FTM:            v.FTM,
		FTA:            v.FTA,
		OffRebounds:    v.OffRebounds,
		DefRebounds:    v.DefRebounds,
		TotRebounds:    v.TotRebounds,
		Assists:        v.Assists,
		Turnovers:      v.Turnovers,
		Steals:         v.Steals,
		Blocks:         v.Blocks,
		PersonalFouls:  v.PersonalFouls,
	}
}

func playerGameStatsToDTO(v boxscore.PlayerGameStats) playerGameStatsDTO {
	return playerGameStatsDTO{
		PlayerID:    v.PlayerID,
		TeamID:      v.TeamID,
		IsStarter:   v.IsStarter,
		statLineDTO: statLineToDTO(v.StatLine),
		PlusMinus:   v.PlusMinus,
		Efficiency:  v.Efficiency,
	}
}

func teamGameStatsToDTO(v boxscore.TeamGameStats) teamGameStatsDTO {
	return teamGameStatsDTO{
		TeamID:             v.TeamID,
		statLineDTO:        statLineToDTO(v.StatLine),
		FastBreakPoints:    v.FastBreakPoints,
		PointsInPaint:      v.PointsInPaint,
		SecondChancePoints: v.SecondChancePoints,
		BenchPoints:        v.BenchPoints,
		BiggestLead:        v.BiggestLead,
		TimeLeadingSeconds: v.TimeLeadingSeconds,
	}
}

func seasonStatsToDTO(v seasonstats.PlayerSeasonStats) seasonStatsDTO {
	return seasonStatsDTO{
		PlayerID:     v.PlayerID,
		TeamID:       v.TeamID,
		SeasonID:     v.SeasonID,
		GamesPlayed:  v.GamesPlayed,
		GamesStarted: v.GamesStarted,

		MinutesSeconds: v.MinutesSeconds,
		Points:         v.Points,
		FGM:            v.FGM,
		FGA:            v.FGA,
		TwoPM:          v.TwoPM,
		TwoPA:          v.TwoPA,
		ThreePM:        v.ThreePM,
		ThreePA:        v.ThreePA,
		FTM:            v.FTM,
		FTA:            v.FTA,
		OffRebounds:    v.OffRebounds,
		DefRebounds:    v.DefRebounds,
		TotRebounds:    v.TotRebounds,
		Assists:        v.Assists,
		Turnovers:      v.Turnovers,
		Steals:         v.Steals,
		Blocks:         v.Blocks,
		PersonalFouls:  v.PersonalFouls,
		PlusMinus:      v.PlusMinus,
		Efficiency:     v.Efficiency,

		AvgMinutesSeconds: v.AvgMinutesSeconds,
		AvgPoints:         v.AvgPoints,
		AvgRebounds:       v.AvgRebounds,
		AvgAssists:        v.AvgAssists,
		AvgSteals:         v.AvgSteals,
		AvgBlocks:         v.AvgBlocks,
		AvgTurnovers:      v.AvgTurnovers,
		AvgEfficiency:     v.AvgEfficiency,

		FGPct:     v.FGPct,
		TwoPPct:   v.TwoPPct,
		ThreePPct: v.ThreePPct,
		FTPct:     v.FTPct,
		TSPct:     v.TSPct,
		EFGPct:    v.EFGPct,

		AstToRatio: v.AstToRatio,

		LastCalculated: v.LastCalculated,
	}
}

func eventToDTO(v pbp.Event) eventDTO {
	return eventDTO{
		EventNumber:  v.EventNumber,
		Period:       v.Period,
		Clock:        v.Clock,
		EventType:    string(v.EventType),
		EventSubtype: v.EventSubtype,
		PlayerID:     v.PlayerID,
		TeamID:       v.TeamID,
		Success:      v.Success,
		CoordX:       v.CoordX,
		CoordY:       v.CoordY,
		Attributes:   v.Attributes,
	}
}

func eventsToDTO(items []pbp.Event) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventToDTO(item))
	}
	return out
}

func syncLogToDTO(v synclog.SyncLog) syncLogDTO {
	return syncLogDTO{
		ID:               v.ID,
		Source:           v.Source,
		EntityType:       v.EntityType,
		Status:           string(v.Status),
		SeasonID:         v.SeasonID,
		GameID:           v.GameID,
		RecordsProcessed: v.RecordsProcessed,
		RecordsCreated:   v.RecordsCreated,
		RecordsUpdated:   v.RecordsUpdated,
		RecordsSkipped:   v.RecordsSkipped,
		ErrorMessage:     v.ErrorMessage,
		ErrorDetails:     v.ErrorDetails,
		StartedAt:        v.StartedAt,
		CompletedAt:      v.CompletedAt,
	}
}

func sourceStatusToDTO(v usecase.SourceStatus) sourceStatusDTO {
	out := sourceStatusDTO{
		Name:                v.Name,
		Enabled:             v.Enabled,
		AutoSyncEnabled:     v.AutoSyncEnabled,
		SyncIntervalMinutes: v.SyncIntervalMinutes,
		RunningSyncs:        v.RunningSyncs,
	}
	if v.LatestSeasonSync != nil {
		latest := syncLogToDTO(*v.LatestSeasonSync)
		out.LatestSeasonSync = &latest
	}
	if v.LatestGameSync != nil {
		latest := syncLogToDTO(*v.LatestGameSync)
		out.LatestGameSync = &latest
	}
	return out
}

// intQuery parses an optional integer query parameter. A missing or blank
// value yields the fallback.
func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}

// boolQuery parses an optional boolean query parameter; nil means absent.
func boolQuery(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, name)
	}
	return &v, nil
}

// timeQuery parses an optional timestamp, accepting RFC 3339 or a bare date.
func timeQuery(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if v, err := time.Parse(time.RFC3339, raw); err == nil {
		return v, nil
	}
	if v, err := time.Parse("2006-01-02", raw); err == nil {
		return v, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339 or YYYY-MM-DD", usecase.ErrInvalidInput, name)
}

// pageQuery reads the shared limit/offset pair.
func pageQuery(r *http.Request) (limit, offset int, err error) {
	if limit, err = intQuery(r, "limit", 0); err != nil {
		return 0, 0, err
	}
	if limit < 0 {
		return 0, 0, fmt.Errorf("%w: limit cannot be negative", usecase.ErrInvalidInput)
	}
	if offset, err = intQuery(r, "offset", 0); err != nil {
		return 0, 0, err
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset cannot be negative", usecase.ErrInvalidInput)
	}
	return limit, offset, nil
}
