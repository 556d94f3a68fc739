package winner

// Wire types for the Winner League stats API. Field names follow the
// provider's snake_case JSON; everything is mapped into canonical raw
// records before leaving this package.

type seasonsEnvelope struct {
	Seasons []seasonItem `json:"seasons"`
}

type seasonItem struct {
	ID        string `json:"season_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsCurrent bool   `json:"is_current"`
}

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	ID        string       `json:"team_id"`
	Name      string       `json:"name"`
	ShortName string       `json:"short_name"`
	City      string       `json:"city"`
	Country   string       `json:"country"`
	Players   []playerItem `json:"players"`
}

type playerItem struct {
	ID          string `json:"player_id"`
	TeamID      string `json:"team_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	BirthDate   string `json:"birth_date"`
	Nationality string `json:"nationality"`
	HeightCM    *int   `json:"height_cm"`
	Position    string `json:"position"`
	Jersey      *int   `json:"jersey"`

	// Ids the feed reports for other stat providers, keyed by provider name.
	ExternalRefs map[string]string `json:"external_refs"`
}

type playersEnvelope struct {
	Players []playerItem `json:"players"`
}

type playerEnvelope struct {
	Player playerItem `json:"player"`
}

type scheduleEnvelope struct {
	Games []gameItem `json:"games"`
}

type gameItem struct {
	ID           string `json:"game_id"`
	SeasonID     string `json:"season_id"`
	HomeTeamID   string `json:"home_team_id"`
	AwayTeamID   string `json:"away_team_id"`
	HomeTeamName string `json:"home_team"`
	AwayTeamName string `json:"away_team"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	HomeScore    *int   `json:"home_score"`
	AwayScore    *int   `json:"away_score"`
	Venue        string `json:"venue"`
	Attendance   *int   `json:"attendance"`
}

type boxScoreEnvelope struct {
	Game        gameItem         `json:"game"`
	PlayerStats []playerLineItem `json:"player_stats"`
	TeamStats   []teamLineItem   `json:"team_stats"`
}

type statBlock struct {
	Minutes       string `json:"minutes"`
	Points        int    `json:"points"`
	FGM           int    `json:"fgm"`
	FGA           int    `json:"fga"`
	TwoPM         int    `json:"fg2m"`
	TwoPA         int    `json:"fg2a"`
	ThreePM       int    `json:"fg3m"`
	ThreePA       int    `json:"fg3a"`
	FTM           int    `json:"ftm"`
	FTA           int    `json:"fta"`
	OffRebounds   int    `json:"oreb"`
	DefRebounds   int    `json:"dreb"`
	TotRebounds   int    `json:"reb"`
	Assists       int    `json:"ast"`
	Turnovers     int    `json:"tov"`
	Steals        int    `json:"stl"`
	Blocks        int    `json:"blk"`
	PersonalFouls int    `json:"pf"`
}

type playerLineItem struct {
	Player     playerItem     `json:"player"`
	TeamID     string         `json:"team_id"`
	Starter    bool           `json:"starter"`
	Stats      statBlock      `json:"stats"`
	PlusMinus  int            `json:"plus_minus"`
	Efficiency int            `json:"efficiency"`
	Extra      map[string]any `json:"extra"`
}

type teamLineItem struct {
	TeamID             string         `json:"team_id"`
	Stats              statBlock      `json:"stats"`
	FastBreakPoints    int            `json:"fast_break_points"`
	PointsInPaint      int            `json:"points_in_paint"`
	SecondChancePoints int            `json:"second_chance_points"`
	BenchPoints        int            `json:"bench_points"`
	BiggestLead        int            `json:"biggest_lead"`
	TimeLeading        string         `json:"time_leading"`
	Extra              map[string]any `json:"extra"`
}

type pbpEnvelope struct {
	Events []eventItem `json:"events"`
}

type eventItem struct {
	Number       int      `json:"number"`
	Period       int      `json:"period"`
	Clock        string   `json:"clock"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
	PlayerID     string   `json:"player_id"`
	TeamID       string   `json:"team_id"`
	Made         *bool    `json:"made"`
	X            *float64 `json:"x"`
	Y            *float64 `json:"y"`
	PlayerIn     string   `json:"player_in"`
	PlayerOut    string   `json:"player_out"`
	FastBreak    bool     `json:"fast_break"`
	SecondChance bool     `json:"second_chance"`
	Contested    bool     `json:"contested"`
	Points       int      `json:"points"`
	LinkedTo     []int    `json:"linked_to"`
}
