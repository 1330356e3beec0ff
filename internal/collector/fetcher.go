package collector

import (
	"context"
	"errors"

	"SignalSentinel/internal/model"
)

var (
	// ErrRateLimited is returned while the provider is backing off after HTTP 429.
	ErrRateLimited = errors.New("provider rate limited")
	// ErrProviderUnavailable is returned when the provider cannot serve requests.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	Ping(ctx context.Context) error
	FetchTopAssets(ctx context.Context, limit int) ([]model.MarketSnapshot, error)
	// FetchHistoricalSeries returns daily closes and volumes, oldest first.
	FetchHistoricalSeries(ctx context.Context, assetID string, days int) (*model.PriceSeries, error)
	Name() string
}
