package collector

import (
	"context"
	"math"
	"time"

	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Assets    []model.MarketSnapshot
	Series    map[string]*model.PriceSeries
	PingErr   error
	AssetsErr error
	SeriesErr map[string]error
	Calls     int // historical series requests served
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Ping(_ context.Context) error { return m.PingErr }

func (m *MockFetcher) FetchTopAssets(_ context.Context, limit int) ([]model.MarketSnapshot, error) {
	if m.AssetsErr != nil {
		return nil, m.AssetsErr
	}
	assets := m.Assets
	if assets == nil {
		assets = generateMockAssets(limit)
	}
	if limit > 0 && len(assets) > limit {
		assets = assets[:limit]
	}
	return assets, nil
}

func (m *MockFetcher) FetchHistoricalSeries(_ context.Context, assetID string, days int) (*model.PriceSeries, error) {
	m.Calls++
	if err := m.SeriesErr[assetID]; err != nil {
		return nil, err
	}
	if m.Series != nil {
		return m.Series[assetID], nil
	}
	return generateMockSeries(assetID, 100, days), nil
}

var mockCoins = []struct{ id, symbol, name string }{
	{"bitcoin", "btc", "Bitcoin"},
	{"ethereum", "eth", "Ethereum"},
	{"solana", "sol", "Solana"},
	{"ripple", "xrp", "XRP"},
	{"cardano", "ada", "Cardano"},
	{"dogecoin", "doge", "Dogecoin"},
	{"polkadot", "dot", "Polkadot"},
	{"chainlink", "link", "Chainlink"},
}

func generateMockAssets(count int) []model.MarketSnapshot {
	if count <= 0 || count > len(mockCoins) {
		count = len(mockCoins)
	}
	out := make([]model.MarketSnapshot, count)
	for i := 0; i < count; i++ {
		c := mockCoins[i]
		out[i] = model.MarketSnapshot{
			ID:                c.id,
			Symbol:            c.symbol,
			Name:              c.name,
			CurrentPrice:      100 * (1 + float64(i)*0.1),
			PriceChange24hPct: float64(i%5)*3 - 6,
			MarketCap:         1e9 / float64(i+1),
			Volume:            1e6,
		}
	}
	return out
}

// generateMockSeries builds a deterministic oscillating series so the full indicator path has data.
func generateMockSeries(assetID string, basePrice float64, count int) *model.PriceSeries {
	if count <= 0 {
		count = 90
	}
	phase := float64(len(assetID))
	s := &model.PriceSeries{
		AssetID:   assetID,
		Prices:    make([]float64, count),
		Volumes:   make([]float64, count),
		FetchedAt: time.Now(),
	}
	for i := 0; i < count; i++ {
		x := float64(i)
		s.Prices[i] = basePrice * (1 + 0.05*math.Sin(x/6+phase) + 0.001*x)
		s.Volumes[i] = 1e6 * (1 + 0.3*math.Cos(x/4))
	}
	return s
}
