package pipeline

import (
	"time"

	"SignalSentinel/internal/model"
)

// ProviderStatus describes market data availability for one run.
type ProviderStatus struct {
	Available        bool
	RateLimitedUntil time.Time
	Reason           string
}

// Available is the status of a healthy provider.
func Available() ProviderStatus { return ProviderStatus{Available: true} }

// Unavailable marks the provider down for the given reason.
func Unavailable(reason string) ProviderStatus {
	return ProviderStatus{Reason: reason}
}

// RateLimited marks the provider down until the given time.
func RateLimited(until time.Time) ProviderStatus {
	return ProviderStatus{RateLimitedUntil: until, Reason: "rate_limited"}
}

// SeriesLookup returns the historical series for an asset, or nil.
type SeriesLookup func(assetID string) *model.PriceSeries

// MapLookup serves series from a map keyed by asset id.
func MapLookup(m map[string]*model.PriceSeries) SeriesLookup {
	return func(id string) *model.PriceSeries { return m[id] }
}
