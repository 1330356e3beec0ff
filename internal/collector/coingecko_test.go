package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T, h http.HandlerFunc) *CoinGeckoFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCoinGeckoFetcher(CoinGeckoOptions{BaseURL: srv.URL, APIKey: "k", RateLimitPause: time.Minute})
}

func TestCoinGecko_FetchTopAssets(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "market_cap_desc", r.URL.Query().Get("order"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		assert.Equal(t, "k", r.Header.Get("x-cg-demo-api-key"))
		w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":65000.5,"price_change_percentage_24h":2.5,"market_cap":1.2e12,"total_volume":3.1e10},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3100,"price_change_percentage_24h":null,"market_cap":3.7e11,"total_volume":1.5e10}
		]`))
	})

	assets, err := f.FetchTopAssets(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "bitcoin", assets[0].ID)
	assert.Equal(t, "BTC/USDT", assets[0].Pair())
	assert.Equal(t, 65000.5, assets[0].CurrentPrice)
	assert.Equal(t, 2.5, assets[0].PriceChange24hPct)
	assert.Zero(t, assets[1].PriceChange24hPct)
}

func TestCoinGecko_FetchHistoricalSeries(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		w.Write([]byte(`{"prices":[[1,100],[2,101.5],[3,99]],"total_volumes":[[1,10],[2,11],[3,12]],"market_caps":[]}`))
	})

	s, err := f.FetchHistoricalSeries(context.Background(), "bitcoin", 30)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101.5, 99}, s.Prices)
	assert.Equal(t, []float64{10, 11, 12}, s.Volumes)
	assert.True(t, s.HasVolumes())
}

func TestCoinGecko_MismatchedVolumesDropped(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"prices":[[1,100],[2,101]],"total_volumes":[[1,10]]}`))
	})
	s, err := f.FetchHistoricalSeries(context.Background(), "x", 2)
	require.NoError(t, err)
	assert.False(t, s.HasVolumes())
}

func TestCoinGecko_RateLimitBackoff(t *testing.T) {
	hits := 0
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
	})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	err := f.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.Equal(t, now.Add(time.Minute), f.RateLimitedUntil())

	// backing off: no request reaches the server
	_, err = f.FetchTopAssets(context.Background(), 5)
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.Equal(t, 1, hits)

	now = now.Add(61 * time.Second)
	assert.True(t, f.RateLimitedUntil().IsZero())
}

func TestCoinGecko_ServerError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := f.FetchHistoricalSeries(context.Background(), "bitcoin", 90)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestCoinGecko_RequestSpacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
	}))
	defer srv.Close()
	f := NewCoinGeckoFetcher(CoinGeckoOptions{BaseURL: srv.URL, RequestDelay: 50 * time.Millisecond})

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, f.Ping(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestCoinGecko_ContextCancelled(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, f.Ping(ctx))
}
