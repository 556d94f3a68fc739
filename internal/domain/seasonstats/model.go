package seasonstats

import "time"

// PlayerSeasonStats is a derived row keyed by (player, team, season). A
// traded player gets one row per team. Totals are the source of truth here;
// averages and percentages are always recomputed, never edited.
type PlayerSeasonStats struct {
	ID           string
	PlayerID     string
	TeamID       string
	SeasonID     string
	GamesPlayed  int
	GamesStarted int

	// Totals.
	MinutesSeconds int
	Points         int
	FGM            int
	FGA            int
	TwoPM          int
	TwoPA          int
	ThreePM        int
	ThreePA        int
	FTM            int
	FTA            int
	OffRebounds    int
	DefRebounds    int
	TotRebounds    int
	Assists        int
	Turnovers      int
	Steals         int
	Blocks         int
	PersonalFouls  int
	PlusMinus      int
	Efficiency     int

	// Per-game averages.
	AvgMinutesSeconds float64
	AvgPoints         float64
	AvgRebounds       float64
	AvgAssists        float64
	AvgSteals         float64
	AvgBlocks         float64
	AvgTurnovers      float64
	AvgEfficiency     float64

	// Percentages as decimals in [0,1]; nil when attempts are zero.
	FGPct    *float64
	TwoPPct  *float64
	ThreePPct *float64
	FTPct    *float64

	TSPct      *float64
	EFGPct     *float64
	AstToRatio float64

	LastCalculated time.Time
}
