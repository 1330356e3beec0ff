package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func TestCollect_FetchesHistoryForLeaders(t *testing.T) {
	m := &MockFetcher{SeriesErr: map[string]error{"ethereum": errors.New("timeout")}}
	c := NewCollector(m, Options{TopN: 5, HistoryDays: 40, HistoryLimit: 3}, nil)

	b, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, b.Snapshots, 5)
	assert.True(t, b.Status.Available)
	assert.Equal(t, 3, m.Calls)
	assert.Contains(t, b.Series, "bitcoin")
	assert.NotContains(t, b.Series, "ethereum")
	assert.Contains(t, b.Series, "solana")
	assert.Equal(t, 40, b.Series["bitcoin"].Len())
	assert.NotNil(t, b.Lookup()("solana"))
	assert.Nil(t, b.Lookup()("cardano"))
}

func TestCollect_PingFailure(t *testing.T) {
	m := &MockFetcher{PingErr: fmt.Errorf("dial: %w", ErrProviderUnavailable)}
	b, err := NewCollector(m, Options{}, nil).Collect(context.Background())
	require.Error(t, err)
	require.NotNil(t, b)
	assert.False(t, b.Status.Available)
	assert.Empty(t, b.Snapshots)
	assert.Zero(t, m.Calls)
}

func TestCollect_RateLimitStopsHistory(t *testing.T) {
	m := &MockFetcher{SeriesErr: map[string]error{"ethereum": ErrRateLimited}}
	b, err := NewCollector(m, Options{HistoryLimit: 8}, nil).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.Calls)
	assert.Equal(t, "rate_limited", b.Status.Reason)
	assert.True(t, b.Status.Available)
	assert.Len(t, b.Series, 1)
}

func TestCollect_MinMarketCapAndMalformed(t *testing.T) {
	m := &MockFetcher{
		Assets: []model.MarketSnapshot{
			{ID: "big", CurrentPrice: 10, MarketCap: 5e9},
			{ID: "broken", CurrentPrice: 0, MarketCap: 4e9},
			{ID: "tiny", CurrentPrice: 1, MarketCap: 1e3},
		},
	}
	b, err := NewCollector(m, Options{MinMarketCap: 1e6}, nil).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, b.Snapshots, 2)
	assert.Equal(t, "big", b.Snapshots[0].ID)
	assert.Equal(t, 1, m.Calls)
}

func TestCollect_AssetsError(t *testing.T) {
	m := &MockFetcher{AssetsErr: ErrRateLimited}
	b, err := NewCollector(m, Options{}, nil).Collect(context.Background())
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.False(t, b.Status.Available)
	assert.Equal(t, "rate_limited", b.Status.Reason)
}
