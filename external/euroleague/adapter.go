// Package euroleague integrates the Euroleague live feed. The feed identifies
// everything by short codes and has no standalone player lookup, so this
// adapter serves the sync pipeline only.
package euroleague

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

const sourceName = "euroleague"

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

var _ usecase.SourceAdapter = (*Adapter)(nil)

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
	if _, err := a.client.GetJSON(ctx, "/v2/seasons", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch euroleague seasons: %w", err)
	}

	out := make([]usecase.RawSeason, 0, len(envelope.Data))
	for _, item := range envelope.Data {
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

	var envelope clubsEnvelope
	path := "/v2/seasons/" + url.PathEscape(seasonExternalID) + "/clubs"
	if _, err := a.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch euroleague clubs season=%s: %w", seasonExternalID, err)
	}

	out := make([]usecase.RawTeam, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		team, err := mapClub(item)
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

	var envelope gamesEnvelope
	path := "/v2/seasons/" + url.PathEscape(seasonExternalID) + "/games"
	if _, err := a.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch euroleague games season=%s: %w", seasonExternalID, err)
	}

	out := make([]usecase.RawGame, 0, len(envelope.Data))
	for _, item := range envelope.Data {
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
	path := "/v2/games/" + url.PathEscape(gameExternalID) + "/boxscore"
	res, err := a.client.GetJSON(ctx, path, nil, &envelope)
	if err != nil {
		return usecase.RawBoxScore{}, false, fmt.Errorf("fetch euroleague box score game=%s: %w", gameExternalID, err)
	}

	box, err := mapBoxScore(envelope.Data)
	if err != nil {
		return usecase.RawBoxScore{}, false, err
	}
	return box, res.Changed, nil
}

func (a *Adapter) GetGamePBP(ctx context.Context, gameExternalID string) ([]usecase.RawPBPEvent, error) {
	if strings.TrimSpace(gameExternalID) == "" {
		return nil, fmt.Errorf("%w: game external id is required", usecase.ErrInvalidInput)
	}

	var envelope playsEnvelope
	path := "/v2/games/" + url.PathEscape(gameExternalID) + "/plays"
	if _, err := a.client.GetJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch euroleague plays game=%s: %w", gameExternalID, err)
	}

	out := make([]usecase.RawPBPEvent, 0, len(envelope.Data.Plays))
	for _, item := range envelope.Data.Plays {
		mapped, err := mapPlay(item)
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
