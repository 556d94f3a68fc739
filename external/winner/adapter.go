// Package winner integrates the Israeli Winner League stats API. It exposes
// full seasons, rosters, schedules, box scores and play-by-play, plus the
// biographical lookup used by the entity resolver.
package winner

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/courtdata/hoopsync/external/adapterkit"
	"github.com/courtdata/hoopsync/internal/domain/game"
	"github.com/courtdata/hoopsync/internal/domain/rawcache"
	"github.com/courtdata/hoopsync/internal/platform/logging"
	"github.com/courtdata/hoopsync/internal/platform/resilience"
	"github.com/courtdata/hoopsync/internal/usecase"
)

const sourceName = "winner"

type Config struct {
	BaseURL                  string
	APIKey                   string
	HTTPClient               *http.Client
	Timeout                  time.Duration
	MaxRetries               int
	APIRateLimitPerMinute    int
	ScrapeRateLimitPerMinute int
	CircuitBreaker           resilience.CircuitBreakerConfig
	Cache                    rawcache.Repository
	Logger                   *logging.Logger
}

type Adapter struct {
	client *adapterkit.Client
}

var (
	_ usecase.SourceAdapter      = (*Adapter)(nil)
	_ usecase.PlayerInfoProvider = (*Adapter)(nil)
)

func New(cfg Config) *Adapter {
	return &Adapter{
		client: adapterkit.New(adapterkit.Config{
			Source:                  sourceName,
			BaseURL:                 cfg.BaseURL,
			APIKey:                  cfg.APIKey,
			HTTPClient:              cfg.HTTPClient,
			Timeout:                 cfg.Timeout,
			MaxRetries:              cfg.MaxRetries,
			APIRequestsPerMinute:    cfg.APIRateLimitPerMinute,
			ScrapeRequestsPerMinute: cfg.ScrapeRateLimitPerMinute,
			CircuitBreaker:          cfg.CircuitBreaker,
			Cache:                   cfg.Cache,
			Logger:                  cfg.Logger,
		}),
	}
}

func (a *Adapter) SourceName() string { return sourceName }

func (a *Adapter) GetSeasons(ctx context.Context) ([]usecase.RawSeason, error) {
	var envelope seasonsEnvelope
	if _, err := a.client.GetJSON(ctx, "/seasons", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch winner seasons: %w", err)
	}

	out := make([]usecase.RawSeason, 0, len(envelope.Seasons))
	for _, item := range envelope.Seasons {
		season, err := mapSeason(item)
		if err != nil {
			return nil, err
		}
		out = append(out, season)
	}
	return out, nil
}

func (a *Adapter) GetTeams(ctx context.Context, seasonExternalID string) ([]usecase.RawTeam, error) {
	if strings.TrimSpace(seasonExternalID) == "" {
		return nil, fmt.Errorf("%w: season external id is required", usecase.ErrInvalidInput)
	}

	var envelope teamsEnvelope
	path := "/seasons/" + url.PathEscape(seasonExternalID) + "/teams"
	if _, err := a.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch winner teams season=%s: %w", seasonExternalID, err)
	}

	out := make([]usecase.RawTeam, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		team, err := mapTeam(item)
		if err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	return out, nil
}

func (a *Adapter) GetSchedule(ctx context.Context, seasonExternalID string) ([]usecase.RawGame, error) {
	if strings.TrimSpace(seasonExternalID) == "" {
		return nil, fmt.Errorf("%w: season external id is required", usecase.ErrInvalidInput)
	}

	var envelope scheduleEnvelope
	path := "/seasons/" + url.PathEscape(seasonExternalID) + "/schedule"
	if _, err := a.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch winner schedule season=%s: %w", seasonExternalID, err)
	}

	out := make([]usecase.RawGame, 0, len(envelope.Games))
	for _, item := range envelope.Games {
		mapped, err := mapGame(item)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (a *Adapter) GetGameBoxScore(ctx context.Context, gameExternalID string) (usecase.RawBoxScore, bool, error) {
	if strings.TrimSpace(gameExternalID) == "" {
		return usecase.RawBoxScore{}, false, fmt.Errorf("%w: game external id is required", usecase.ErrInvalidInput)
	}

	var envelope boxScoreEnvelope
	path := "/games/" + url.PathEscape(gameExternalID) + "/boxscore"
	res, err := a.client.GetJSON(ctx, path, nil, &envelope)
	if err != nil {
		return usecase.RawBoxScore{}, false, fmt.Errorf("fetch winner box score game=%s: %w", gameExternalID, err)
	}

	box, err := mapBoxScore(envelope)
	if err != nil {
		return usecase.RawBoxScore{}, false, err
	}
	return box, res.Changed, nil
}

func (a *Adapter) GetGamePBP(ctx context.Context, gameExternalID string) ([]usecase.RawPBPEvent, error) {
	if strings.TrimSpace(gameExternalID) == "" {
		return nil, fmt.Errorf("%w: game external id is required", usecase.ErrInvalidInput)
	}

	var envelope pbpEnvelope
	path := "/games/" + url.PathEscape(gameExternalID) + "/playbyplay"
	if _, err := a.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch winner play-by-play game=%s: %w", gameExternalID, err)
	}

	out := make([]usecase.RawPBPEvent, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		mapped, err := mapEvent(item)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (a *Adapter) IsGameFinal(item usecase.RawGame) bool {
	return item.Status == game.StatusFinal
}

func (a *Adapter) GetPlayer(ctx context.Context, externalID string) (usecase.RawPlayer, bool, error) {
	if strings.TrimSpace(externalID) == "" {
		return usecase.RawPlayer{}, false, fmt.Errorf("%w: player external id is required", usecase.ErrInvalidInput)
	}

	var envelope playerEnvelope
	path := "/players/" + url.PathEscape(externalID)
	if _, err := a.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		if adapterkit.IsStatus(err, http.StatusNotFound) {
			return usecase.RawPlayer{}, false, nil
		}
		return usecase.RawPlayer{}, false, fmt.Errorf("fetch winner player=%s: %w", externalID, err)
	}

	mapped, err := mapPlayer(envelope.Player)
	if err != nil {
		return usecase.RawPlayer{}, false, err
	}
	return mapped, true, nil
}

func (a *Adapter) SearchPlayer(ctx context.Context, query, teamExternalID string) ([]usecase.RawPlayer, error) {
	params := url.Values{}
	params.Set("q", query)
	if teamExternalID != "" {
		params.Set("team", teamExternalID)
	}

	var envelope playersEnvelope
	if _, err := a.client.GetJSON(ctx, "/players/search", params, &envelope); err != nil {
		return nil, fmt.Errorf("search winner players q=%q: %w", query, err)
	}

	out := make([]usecase.RawPlayer, 0, len(envelope.Players))
	for _, item := range envelope.Players {
		mapped, err := mapPlayer(item)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}
