package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
)

// CoinGecko defaults.
const (
	DefaultCoinGeckoURL   = "https://api.coingecko.com/api/v3"
	DefaultRequestDelay   = 1500 * time.Millisecond
	DefaultRateLimitPause = 65 * time.Second
	DefaultTimeout        = 15 * time.Second
)

// CoinGeckoOptions configures a CoinGeckoFetcher.
type CoinGeckoOptions struct {
	BaseURL        string
	APIKey         string
	VsCurrency     string
	ProxyURL       string
	Timeout        time.Duration
	RequestDelay   time.Duration // minimum spacing between requests
	RateLimitPause time.Duration // back-off after HTTP 429
}

// CoinGeckoFetcher implements Fetcher using the CoinGecko public API.
type CoinGeckoFetcher struct {
	BaseURL    string
	APIKey     string
	VsCurrency string
	Client     *http.Client

	limiter *rate.Limiter
	pause   time.Duration
	now     func() time.Time

	mu           sync.Mutex
	limitedUntil time.Time
}

// NewCoinGeckoFetcher creates a new fetcher with optional proxy support.
func NewCoinGeckoFetcher(opts CoinGeckoOptions) *CoinGeckoFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultCoinGeckoURL
	}
	if opts.VsCurrency == "" {
		opts.VsCurrency = "usd"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RateLimitPause <= 0 {
		opts.RateLimitPause = DefaultRateLimitPause
	}
	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}

	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		if u, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoFetcher{
		BaseURL:    strings.TrimRight(opts.BaseURL, "/"),
		APIKey:     opts.APIKey,
		VsCurrency: opts.VsCurrency,
		Client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, 1),
		pause:   opts.RateLimitPause,
		now:     time.Now,
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// RateLimitedUntil returns the end of the current back-off, or the zero time.
func (f *CoinGeckoFetcher) RateLimitedUntil() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.now().Before(f.limitedUntil) {
		return f.limitedUntil
	}
	return time.Time{}
}

// Ping checks that the API answers.
func (f *CoinGeckoFetcher) Ping(ctx context.Context) error {
	var out struct {
		GeckoSays string `json:"gecko_says"`
	}
	if err := f.get(ctx, "ping", "/ping", nil, &out); err != nil {
		return err
	}
	return nil
}

// cgMarket is the JSON shape of one /coins/markets entry.
type cgMarket struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
}

// FetchTopAssets returns the largest assets by market cap, largest first.
func (f *CoinGeckoFetcher) FetchTopAssets(ctx context.Context, limit int) ([]model.MarketSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("vs_currency", f.VsCurrency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", fmt.Sprint(limit))
	q.Set("page", "1")
	q.Set("sparkline", "false")

	var markets []cgMarket
	if err := f.get(ctx, "markets", "/coins/markets", q, &markets); err != nil {
		return nil, err
	}
	out := make([]model.MarketSnapshot, 0, len(markets))
	for _, m := range markets {
		out = append(out, model.MarketSnapshot{
			ID:                m.ID,
			Symbol:            m.Symbol,
			Name:              m.Name,
			CurrentPrice:      m.CurrentPrice,
			PriceChange24hPct: m.PriceChangePercentage24h,
			MarketCap:         m.MarketCap,
			Volume:            m.TotalVolume,
		})
	}
	return out, nil
}

// cgChart is the JSON shape of /coins/{id}/market_chart: [timestamp_ms, value] pairs.
type cgChart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// FetchHistoricalSeries returns `days` of history for assetID.
func (f *CoinGeckoFetcher) FetchHistoricalSeries(ctx context.Context, assetID string, days int) (*model.PriceSeries, error) {
	if days <= 0 {
		days = 90
	}
	q := url.Values{}
	q.Set("vs_currency", f.VsCurrency)
	q.Set("days", fmt.Sprint(days))

	var chart cgChart
	if err := f.get(ctx, "market_chart", "/coins/"+url.PathEscape(assetID)+"/market_chart", q, &chart); err != nil {
		return nil, err
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("coingecko: no prices for %s", assetID)
	}

	series := &model.PriceSeries{
		AssetID:   assetID,
		Prices:    make([]float64, len(chart.Prices)),
		FetchedAt: f.now(),
	}
	for i, p := range chart.Prices {
		series.Prices[i] = p[1]
	}
	if len(chart.TotalVolumes) == len(chart.Prices) {
		series.Volumes = make([]float64, len(chart.TotalVolumes))
		for i, v := range chart.TotalVolumes {
			series.Volumes[i] = v[1]
		}
	}
	return series, nil
}

func (f *CoinGeckoFetcher) get(ctx context.Context, endpoint, path string, q url.Values, out any) error {
	if until := f.RateLimitedUntil(); !until.IsZero() {
		metrics.RecordProviderRequest(endpoint, "rate_limited")
		return fmt.Errorf("coingecko %s: %w until %s", endpoint, ErrRateLimited, until.Format(time.RFC3339))
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("coingecko %s: %w", endpoint, err)
	}

	u := f.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "error")
		return fmt.Errorf("coingecko %s: %w: %v", endpoint, ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "error")
		return fmt.Errorf("coingecko read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		f.mu.Lock()
		f.limitedUntil = f.now().Add(f.pause)
		f.mu.Unlock()
		metrics.RecordProviderRequest(endpoint, "rate_limited")
		return fmt.Errorf("coingecko %s: %w", endpoint, ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		metrics.RecordProviderRequest(endpoint, "error")
		return fmt.Errorf("coingecko %s: %w: status %d, body: %s", endpoint, ErrProviderUnavailable, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.RecordProviderRequest(endpoint, "error")
		return fmt.Errorf("coingecko decode %s: %w", endpoint, err)
	}
	metrics.RecordProviderRequest(endpoint, "success")
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
