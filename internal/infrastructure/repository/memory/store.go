// Package memory backs every repository interface with one process-local
// store. All repositories share a single mutex so that cross-entity
// operations (merges, bundle saves, cascading deletes) stay atomic, the
// same guarantee the postgres implementations get from transactions.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/courtdata/hoopsync/internal/domain/boxscore"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/league"
	"github.com/courtdata/hoopsync/internal/domain/pbp"
	"github.com/courtdata/hoopsync/internal/domain/player"
	"github.com/courtdata/hoopsync/internal/domain/rawcache"
	"github.com/courtdata/hoopsync/internal/domain/seasonstats"
	"github.com/courtdata/hoopsync/internal/domain/synclog"
	"github.com/courtdata/hoopsync/internal/domain/team"
	"github.com/courtdata/hoopsync/internal/platform/id"
)

type Store struct {
	mu  sync.RWMutex
	ids id.Generator

	leagues      map[string]league.League
	leagueByCode map[string]string

	seasons     map[string]league.Season
	seasonByExt map[string]string

	teams       map[string]team.Team
	teamByExt   map[string]string
	teamSeasons map[string]team.TeamSeason

	players     map[string]player.Player
	playerByExt map[string]string
	histories   map[string]player.History

	games     map[string]game.Game
	gameByExt map[string]string

	playerStats map[string]boxscore.PlayerGameStats
	teamStats   map[string]boxscore.TeamGameStats

	events map[string][]pbp.Event
	links  map[string][]pbp.Link

	seasonStats map[string]seasonstats.PlayerSeasonStats

	syncLogs     map[string]synclog.SyncLog
	syncLogOrder []string

	raw map[string]rawcache.Entry
}

func NewStore(ids id.Generator) *Store {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	return &Store{
		ids:          ids,
		leagues:      make(map[string]league.League),
		leagueByCode: make(map[string]string),
		seasons:      make(map[string]league.Season),
		seasonByExt:  make(map[string]string),
		teams:        make(map[string]team.Team),
		teamByExt:    make(map[string]string),
		teamSeasons:  make(map[string]team.TeamSeason),
		players:      make(map[string]player.Player),
		playerByExt:  make(map[string]string),
		histories:    make(map[string]player.History),
		games:        make(map[string]game.Game),
		gameByExt:    make(map[string]string),
		playerStats:  make(map[string]boxscore.PlayerGameStats),
		teamStats:    make(map[string]boxscore.TeamGameStats),
		events:       make(map[string][]pbp.Event),
		links:        make(map[string][]pbp.Link),
		seasonStats:  make(map[string]seasonstats.PlayerSeasonStats),
		syncLogs:     make(map[string]synclog.SyncLog),
		raw:          make(map[string]rawcache.Entry),
	}
}

func (s *Store) Leagues() *LeagueRepository         { return &LeagueRepository{s: s} }
func (s *Store) Teams() *TeamRepository             { return &TeamRepository{s: s} }
func (s *Store) Players() *PlayerRepository         { return &PlayerRepository{s: s} }
func (s *Store) Games() *GameRepository             { return &GameRepository{s: s} }
func (s *Store) BoxScores() *BoxScoreRepository     { return &BoxScoreRepository{s: s} }
func (s *Store) Events() *PBPRepository             { return &PBPRepository{s: s} }
func (s *Store) SeasonStats() *SeasonStatsRepository {
	return &SeasonStatsRepository{s: s}
}
func (s *Store) SyncLogs() *SyncLogRepository { return &SyncLogRepository{s: s} }
func (s *Store) RawCache() *RawCacheRepository {
	return &RawCacheRepository{s: s}
}

func (s *Store) nextID() (string, error) {
	return s.ids.NewID()
}

// tupleKey joins composite-key parts with a separator none of the parts
// can contain.
func tupleKey(parts ...string) string {
	return strings.Join(parts, "\x1f")
}

// sortByKey gives map-backed listings a stable order.
func sortByKey[T any](items []T, key func(T) string) {
	sort.Slice(items, func(i, j int) bool { return key(items[i]) < key(items[j]) })
}
