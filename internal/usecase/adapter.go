package usecase

import (
	"context"
	"time"

	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
)

// SourceAdapter is what every provider integration implements. Adapters own
// their transport (rate limiting, retries, caching) and return canonical raw
// records: enums are already normalized, names are split, clocks are "MM:SS".
// Anything a provider sends that does not map aborts that record with a
// schema error before it reaches the orchestrator.
type SourceAdapter interface {
	// SourceName is the stable key used in external id maps.
	SourceName() string

	GetSeasons(ctx context.Context) ([]RawSeason, error)
	GetTeams(ctx context.Context, seasonExternalID string) ([]RawTeam, error)
	GetSchedule(ctx context.Context, seasonExternalID string) ([]RawGame, error)
	// GetGameBoxScore reports changed=false when the provider payload hashes
	// identically to the cached copy, letting the caller short-circuit.
	GetGameBoxScore(ctx context.Context, gameExternalID string) (RawBoxScore, bool, error)
	GetGamePBP(ctx context.Context, gameExternalID string) ([]RawPBPEvent, error)
	IsGameFinal(item RawGame) bool
}

// PlayerInfoProvider is the optional biographical lookup used by the entity
// resolver. Adapters that cannot serve it simply do not implement it.
type PlayerInfoProvider interface {
	GetPlayer(ctx context.Context, externalID string) (RawPlayer, bool, error)
	SearchPlayer(ctx context.Context, query, teamExternalID string) ([]RawPlayer, error)
}

type RawSeason struct {
	ExternalID string
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	IsCurrent  bool
}

type RawTeam struct {
	ExternalID string
	Name       string
	ShortName  string
	City       string
	Country    string
	Roster     []RawPlayer
}

type RawPlayer struct {
	ExternalID     string
	TeamExternalID string
	FirstName      string
	LastName       string
	BirthDate      *time.Time
	Nationality    string
	HeightCM       *int
	Positions      []player.Position
	JerseyNumber   *int

	// KnownExternalIDs carries identifiers the payload asserts for other
	// sources, keyed by source name. The resolver unions them into the
	// canonical row and rejects any that contradict a stored mapping.
	KnownExternalIDs map[string]string
}

type RawGame struct {
	ExternalID         string
	SeasonExternalID   string
	HomeTeamExternalID string
	AwayTeamExternalID string
	HomeTeamName       string
	AwayTeamName       string
	GameDate           time.Time
	Status             game.Status
	HomeScore          *int
	AwayScore          *int
	Venue              string
	Attendance         *int
}

type RawBoxScore struct {
	Game        RawGame
	PlayerLines []RawPlayerLine
	TeamLines   []RawTeamLine
}

type RawPlayerLine struct {
	Player         RawPlayer
	TeamExternalID string
	IsStarter      bool
	Line           RawStatLine
	PlusMinus      int
	Efficiency     int
	Extra          map[string]any
}

type RawTeamLine struct {
	TeamExternalID     string
	Line               RawStatLine
	FastBreakPoints    int
	PointsInPaint      int
	SecondChancePoints int
	BenchPoints        int
	BiggestLead        int
	TimeLeadingSeconds int
	Extra              map[string]any
}

// RawStatLine mirrors the canonical counter block; minutes already in seconds.
type RawStatLine struct {
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
}

type RawPBPEvent struct {
	EventNumber      int
	Period           int
	Clock            string
	EventType        pbp.EventType
	EventSubtype     string
	PlayerExternalID string
	TeamExternalID   string
	Success          *bool
	CoordX           *float64
	CoordY           *float64
	// Substitution ids stay in the provider namespace until the orchestrator
	// resolves them to canonical player ids.
	PlayerInExternalID  string
	PlayerOutExternalID string
	Attributes          map[string]any
	// LinkedTo lists event numbers this event relates to (assist to shot,
	// rebound to miss, free throw to foul).
	LinkedTo []int
}

// SourceConfig is the per-source runtime switchboard. Transport tuning lives
// with the adapter; the orchestrator only consults these.
type SourceConfig struct {
	Enabled         bool
	AutoSyncEnabled bool
	SyncInterval    time.Duration
	AutoSyncPBP     bool
}
