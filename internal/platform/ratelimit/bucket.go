// Package ratelimit wraps golang.org/x/time/rate with the two-channel model
// providers need: a faster budget for JSON APIs and a slower one for HTML
// scraping. Acquire blocks until a token is available; requests are never
// dropped.
package ratelimit

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"
)

type Channel string

const (
	ChannelAPI    Channel = "api"
	ChannelScrape Channel = "scrape"
)

type Config struct {
	APIRequestsPerSecond    float64
	ScrapeRequestsPerSecond float64
}

// Bucket holds one token bucket per channel. Burst equals the bucket size,
// which is the ceiling of the per-second rate (minimum 1).
type Bucket struct {
	api    *rate.Limiter
	scrape *rate.Limiter
}

func New(cfg Config) *Bucket {
	if cfg.APIRequestsPerSecond <= 0 {
		cfg.APIRequestsPerSecond = 2
	}
	if cfg.ScrapeRequestsPerSecond <= 0 {
		cfg.ScrapeRequestsPerSecond = 0.5
	}
	return &Bucket{
		api:    rate.NewLimiter(rate.Limit(cfg.APIRequestsPerSecond), burstFor(cfg.APIRequestsPerSecond)),
		scrape: rate.NewLimiter(rate.Limit(cfg.ScrapeRequestsPerSecond), burstFor(cfg.ScrapeRequestsPerSecond)),
	}
}

func burstFor(rps float64) int {
	burst := int(math.Ceil(rps))
	if burst < 1 {
		burst = 1
	}
	return burst
}

// Acquire blocks until the channel's bucket yields a token or ctx is done.
func (b *Bucket) Acquire(ctx context.Context, channel Channel) error {
	limiter := b.limiterFor(channel)
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("acquire %s token: %w", channel, err)
	}
	return nil
}

func (b *Bucket) Burst(channel Channel) int {
	return b.limiterFor(channel).Burst()
}

func (b *Bucket) limiterFor(channel Channel) *rate.Limiter {
	if channel == ChannelScrape {
		return b.scrape
	}
	return b.api
}
