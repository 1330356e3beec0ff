package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pipeline"
)

// Batch is one run's market input.
type Batch struct {
	Snapshots []model.MarketSnapshot
	Series    map[string]*model.PriceSeries
	Status    pipeline.ProviderStatus
}

// Lookup serves the fetched series to the pipeline.
func (b *Batch) Lookup() pipeline.SeriesLookup {
	return pipeline.MapLookup(b.Series)
}

// Options bounds what one Collect call fetches.
type Options struct {
	TopN         int
	HistoryDays  int
	HistoryLimit int // how many of the top assets get a historical series
	MinMarketCap float64
}

// Collector orchestrates data fetching for one pipeline run.
type Collector struct {
	Fetcher Fetcher
	Opts    Options
	log     *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, opts Options, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Nop()
	}
	if opts.TopN <= 0 {
		opts.TopN = 20
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 90
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 8
	}
	return &Collector{Fetcher: fetcher, Opts: opts, log: log.With("provider", fetcher.Name())}
}

type rateLimitReporter interface {
	RateLimitedUntil() time.Time
}

// Collect fetches the top assets and, for the first HistoryLimit of them, their history.
// A failed series fetch only affects that asset. The returned Batch is never nil; the error
// is non-nil when the provider could not list assets.
func (c *Collector) Collect(ctx context.Context) (*Batch, error) {
	b := &Batch{Series: map[string]*model.PriceSeries{}, Status: pipeline.Available()}

	if err := c.Fetcher.Ping(ctx); err != nil {
		b.Status = c.statusFor(err)
		c.log.Warnw("provider ping failed", "error", err)
		return b, fmt.Errorf("ping %s: %w", c.Fetcher.Name(), err)
	}

	assets, err := c.Fetcher.FetchTopAssets(ctx, c.Opts.TopN)
	if err != nil {
		b.Status = c.statusFor(err)
		c.log.Errorw("fetch top assets failed", "error", err)
		return b, fmt.Errorf("fetch top assets: %w", err)
	}
	for _, a := range assets {
		if c.Opts.MinMarketCap > 0 && a.MarketCap < c.Opts.MinMarketCap {
			continue
		}
		b.Snapshots = append(b.Snapshots, a)
	}

	for i, a := range b.Snapshots {
		if i >= c.Opts.HistoryLimit {
			break
		}
		if ctx.Err() != nil {
			c.log.Warnw("collection cancelled", "fetched", len(b.Series))
			break
		}
		if !a.Valid() {
			continue
		}
		series, err := c.Fetcher.FetchHistoricalSeries(ctx, a.ID, c.Opts.HistoryDays)
		if err != nil {
			c.log.Warnw("historical series unavailable, asset uses simple rule", "asset", a.ID, "error", err)
			if errors.Is(err, ErrRateLimited) {
				b.Status.RateLimitedUntil = c.rateLimitedUntil()
				b.Status.Reason = "rate_limited"
				break
			}
			continue
		}
		if series.Len() > 0 {
			b.Series[a.ID] = series
		}
	}

	c.log.Infow("market data collected", "assets", len(b.Snapshots), "series", len(b.Series))
	return b, nil
}

func (c *Collector) statusFor(err error) pipeline.ProviderStatus {
	if errors.Is(err, ErrRateLimited) {
		return pipeline.RateLimited(c.rateLimitedUntil())
	}
	return pipeline.Unavailable(err.Error())
}

func (c *Collector) rateLimitedUntil() time.Time {
	if r, ok := c.Fetcher.(rateLimitReporter); ok {
		return r.RateLimitedUntil()
	}
	return time.Time{}
}
