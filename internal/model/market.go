package model

import (
	"math"
	"strings"
	"time"
)

// MarketSnapshot is the per-asset quote returned by the market data provider.
type MarketSnapshot struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	CurrentPrice      float64 `json:"current_price"`
	PriceChange24hPct float64 `json:"price_change_percentage_24h"`
	MarketCap         float64 `json:"market_cap"`
	Volume            float64 `json:"total_volume"`
}

// Pair returns the quoted trading pair, e.g. "BTC/USDT".
func (s MarketSnapshot) Pair() string {
	return strings.ToUpper(s.Symbol) + "/USDT"
}

// VolumeToMarketCap returns volume/marketCap, or 0 when market cap is unknown.
func (s MarketSnapshot) VolumeToMarketCap() float64 {
	if s.MarketCap <= 0 {
		return 0
	}
	return s.Volume / s.MarketCap
}

// Valid reports whether the snapshot carries a usable price.
func (s MarketSnapshot) Valid() bool {
	p := s.CurrentPrice
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p) &&
		!math.IsNaN(s.PriceChange24hPct) && !math.IsInf(s.PriceChange24hPct, 0)
}

// PriceSeries holds chronological closes (oldest first) and optional volumes.
type PriceSeries struct {
	AssetID   string
	Prices    []float64
	Volumes   []float64 // empty or len(Prices)
	FetchedAt time.Time
}

// Len returns the number of closes, treating a nil series as empty.
func (p *PriceSeries) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Prices)
}

// HasVolumes reports whether volumes are paired one-to-one with prices.
func (p *PriceSeries) HasVolumes() bool {
	return p != nil && len(p.Volumes) > 0 && len(p.Volumes) == len(p.Prices)
}
