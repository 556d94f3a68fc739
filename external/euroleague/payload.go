package euroleague

// Wire types for the Euroleague live API. The feed is code-based: clubs and
// players are identified by short codes, play-by-play rows carry coded play
// types ("3FGM", "AS", "TO") that the mapper expands into canonical events.

type seasonsEnvelope struct {
	Data []seasonItem `json:"data"`
}

type seasonItem struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Active    bool   `json:"active"`
}

type clubsEnvelope struct {
	Data []clubItem `json:"data"`
}

type clubItem struct {
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	AbbreviatedName string       `json:"abbreviatedName"`
	City            string       `json:"city"`
	Country         string       `json:"country"`
	Roster          []rosterItem `json:"roster"`
}

type rosterItem struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Dorsal    *int   `json:"dorsal"`
	Position  string `json:"position"`
	Height    *int   `json:"height"`
	BirthDate string `json:"birthDate"`
	Country   string `json:"country"`
}

type gamesEnvelope struct {
	Data []gameRow `json:"data"`
}

type gameRow struct {
	Code       string   `json:"code"`
	SeasonCode string   `json:"seasonCode"`
	Local      gameSide `json:"local"`
	Road       gameSide `json:"road"`
	Date       string   `json:"date"`
	Status     string   `json:"status"`
	Venue      string   `json:"venue"`
	Audience   *int     `json:"audience"`
}

type gameSide struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Score *int   `json:"score"`
}

type boxScoreEnvelope struct {
	Data boxScoreData `json:"data"`
}

type boxScoreData struct {
	Game        gameRow       `json:"game"`
	PlayerStats []playerBox   `json:"playerStats"`
	ClubStats   []clubBoxStat `json:"clubStats"`
}

type playerBox struct {
	Player    rosterItem `json:"player"`
	ClubCode  string     `json:"club"`
	Start     bool       `json:"start"`
	PlusMinus int        `json:"plusMinus"`
	Valuation int        `json:"valuation"`
	boxLine
}

type clubBoxStat struct {
	ClubCode string `json:"club"`
	boxLine
	PointsFastBreak    int `json:"pointsFastBreak"`
	PointsInPaint      int `json:"pointsInPaint"`
	PointsSecondChance int `json:"pointsSecondChance"`
	PointsBench        int `json:"pointsBench"`
	MaxLead            int `json:"maxLead"`
	SecondsLeading     int `json:"secondsLeading"`
}

type boxLine struct {
	Minutes             string `json:"minutes"`
	Points              int    `json:"points"`
	FieldGoalsMade2     int    `json:"fieldGoalsMade2"`
	FieldGoalsAttempt2  int    `json:"fieldGoalsAttempted2"`
	FieldGoalsMade3     int    `json:"fieldGoalsMade3"`
	FieldGoalsAttempt3  int    `json:"fieldGoalsAttempted3"`
	FreeThrowsMade      int    `json:"freeThrowsMade"`
	FreeThrowsAttempted int    `json:"freeThrowsAttempted"`
	OffensiveRebounds   int    `json:"offensiveRebounds"`
	DefensiveRebounds   int    `json:"defensiveRebounds"`
	TotalRebounds       int    `json:"totalRebounds"`
	Assistances         int    `json:"assistances"`
	Turnovers           int    `json:"turnovers"`
	Steals              int    `json:"steals"`
	BlocksFavour        int    `json:"blocksFavour"`
	FoulsCommited       int    `json:"foulsCommited"`
}

type playsEnvelope struct {
	Data struct {
		Plays []playRow `json:"plays"`
	} `json:"data"`
}

type playRow struct {
	NumberOfPlay int      `json:"numberOfPlay"`
	Quarter      int      `json:"quarter"`
	MarkerTime   string   `json:"markerTime"`
	PlayType     string   `json:"playType"`
	PlayerCode   string   `json:"playerCode"`
	TeamCode     string   `json:"teamCode"`
	PlayerIn     string   `json:"playerIn"`
	PlayerOut    string   `json:"playerOut"`
	CoordX       *float64 `json:"coordX"`
	CoordY       *float64 `json:"coordY"`
	FastBreak    bool     `json:"fastBreak"`
	SecondChance bool     `json:"secondChance"`
	RelatedPlays []int    `json:"relatedPlays"`
}
