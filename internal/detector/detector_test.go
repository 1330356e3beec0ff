package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func TestDetectCross(t *testing.T) {
	tests := []struct {
		name          string
		short, long   []float64
		golden, death bool
	}{
		{"golden", []float64{9, 11}, []float64{10, 10}, true, false},
		{"death", []float64{11, 9}, []float64{10, 10}, false, true},
		{"touch then above is not golden", []float64{10, 11}, []float64{10, 10}, false, false},
		{"stays above", []float64{11, 12}, []float64{10, 10}, false, false},
		{"too short", []float64{11}, []float64{10, 10}, false, false},
		{"uses tail of unequal lengths", []float64{1, 2, 3, 9, 11}, []float64{10, 10}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, d := DetectCross(tt.short, tt.long)
			assert.Equal(t, tt.golden, g)
			assert.Equal(t, tt.death, d)
		})
	}
}

func TestMACDCrossover(t *testing.T) {
	assert.Equal(t, model.CrossoverBullish, MACDCrossover([]float64{-0.5, 0.2}))
	assert.Equal(t, model.CrossoverBullish, MACDCrossover([]float64{0, 0.2}))
	assert.Equal(t, model.CrossoverBearish, MACDCrossover([]float64{1, 0.3, -0.1}))
	assert.Equal(t, model.CrossoverNone, MACDCrossover([]float64{0.1, 0.2}))
	assert.Equal(t, model.CrossoverNone, MACDCrossover([]float64{0.1}))
	assert.Equal(t, model.CrossoverNone, MACDCrossover(nil))
}

func flatBands(n int, width float64) model.BollingerBands {
	b := model.BollingerBands{Upper: make([]float64, n), Middle: make([]float64, n), Lower: make([]float64, n)}
	for i := 0; i < n; i++ {
		b.Middle[i] = 100
		b.Upper[i] = 100 + width/2
		b.Lower[i] = 100 - width/2
	}
	return b
}

func TestBollingerSqueeze(t *testing.T) {
	b := flatBands(20, 10)
	assert.False(t, BollingerSqueeze(b, 20))

	b.Upper[19], b.Lower[19] = 101, 99 // width 2 against mean (19*10+2)/20 = 9.6
	assert.True(t, BollingerSqueeze(b, 20))

	assert.False(t, BollingerSqueeze(flatBands(5, 10), 20))
}

func TestBollingerBreakout(t *testing.T) {
	b := flatBands(3, 10) // upper 105, lower 95
	assert.Equal(t, model.BreakoutUp, BollingerBreakout([]float64{50, 104, 106}, b))
	assert.Equal(t, model.BreakoutDown, BollingerBreakout([]float64{96, 94}, b))
	assert.Equal(t, model.BreakoutNone, BollingerBreakout([]float64{106, 107}, b))
	assert.Equal(t, model.BreakoutNone, BollingerBreakout([]float64{100}, b))
	assert.Equal(t, model.BreakoutNone, BollingerBreakout([]float64{100, 110}, model.BollingerBands{}))
}

func TestRSIDivergence(t *testing.T) {
	// price lows 95 then 90, RSI lows 30 then 35
	prices := []float64{100, 95, 100, 98, 90, 97}
	rsi := []float64{50, 30, 50, 45, 35, 48}
	assert.Equal(t, model.CrossoverBullish, RSIDivergence(prices, rsi))

	// price highs 105 then 110, RSI highs 70 then 65
	prices = []float64{100, 105, 100, 102, 110, 101}
	rsi = []float64{50, 70, 50, 55, 65, 52}
	assert.Equal(t, model.CrossoverBearish, RSIDivergence(prices, rsi))

	// confirming lows: no divergence
	prices = []float64{100, 95, 100, 98, 90, 97}
	rsi = []float64{50, 35, 50, 45, 30, 48}
	assert.Equal(t, model.CrossoverNone, RSIDivergence(prices, rsi))

	assert.Equal(t, model.CrossoverNone, RSIDivergence([]float64{1, 2}, []float64{1, 2}))
}

func TestRSIDivergence_OnlyTrailingWindow(t *testing.T) {
	// the divergent lows sit before the 14-pair window
	prices := []float64{100, 95, 100, 98, 90, 97}
	rsi := []float64{50, 30, 50, 45, 35, 48}
	for i := 0; i < 14; i++ {
		prices = append(prices, 97+float64(i))
		rsi = append(rsi, 48+float64(i))
	}
	assert.Equal(t, model.CrossoverNone, RSIDivergence(prices, rsi))
}

func TestCandlePatterns(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   []model.CandlePattern
	}{
		{"hammer and bullish engulfing", []float64{100, 95, 101}, []model.CandlePattern{model.PatternHammer, model.PatternBullishEngulfing}},
		{"hammer only", []float64{100, 95, 98}, []model.CandlePattern{model.PatternHammer}},
		{"shooting star and bearish engulfing", []float64{100, 105, 99}, []model.CandlePattern{model.PatternShootingStar, model.PatternBearishEngulfing}},
		{"shooting star only", []float64{100, 105, 102}, []model.CandlePattern{model.PatternShootingStar}},
		{"steady rise", []float64{100, 102, 104}, nil},
		{"too short", []float64{100, 90}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandlePatterns(tt.closes))
		})
	}
}

func TestTrendStrength(t *testing.T) {
	up := TrendStrength([]float64{12}, []float64{11}, []float64{10}, 100)
	assert.InDelta(t, 1.0, up, 1e-12)

	down := TrendStrength([]float64{10}, []float64{11}, []float64{12}, 0)
	assert.InDelta(t, -1.0, down, 1e-12)

	rsiOnly := TrendStrength(nil, nil, nil, 75)
	assert.InDelta(t, 0.1, rsiOnly, 1e-12)

	mixed := TrendStrength([]float64{12}, []float64{11}, []float64{13}, 50)
	assert.InDelta(t, -0.2, mixed, 1e-12)
}

func TestVolumeRatio(t *testing.T) {
	v := make([]float64, 20)
	for i := range v {
		v[i] = 10
	}
	v[19] = 29 // mean (19*10+29)/20 = 10.95
	assert.InDelta(t, 29/10.95, VolumeRatio(v, 20), 1e-12)
	assert.Equal(t, 1.0, VolumeRatio(v[:5], 20))
	assert.Equal(t, 1.0, VolumeRatio(make([]float64, 20), 20))
}

func TestSwingExtractor(t *testing.T) {
	prices := []float64{
		10, 11, 12, 15, 12, 11, 10, 8, 9, 10,
		11, 14, 11, 10, 9, 7, 9, 10, 11, 12,
	}
	var x SwingExtractor
	sw := x.Extract(prices, 2)
	assert.Equal(t, []float64{15, 14}, sw.Highs)
	assert.Equal(t, []float64{8, 7}, sw.Lows)

	// buffers are reused without leaking state between calls
	again := x.Extract(prices, 2)
	assert.Equal(t, sw, again)
}

func TestSwingExtractor_StrictAndFallback(t *testing.T) {
	var x SwingExtractor

	// equal neighbours are not strict extrema; falls back to trailing range
	flat := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	sw := x.Extract(flat, 5)
	assert.Equal(t, []float64{5}, sw.Highs)
	assert.Equal(t, []float64{5}, sw.Lows)

	// window shrinks to len/5 = 0: no pivots at all
	short := []float64{3, 1, 4, 1}
	sw = x.Extract(short, 5)
	assert.Equal(t, []float64{4}, sw.Highs)
	assert.Equal(t, []float64{1}, sw.Lows)

	// two highs but one low: both sides use the trailing range
	oneLow := []float64{
		10, 11, 12, 15, 12, 11, 10, 8, 9, 10,
		11, 14, 11, 12, 13, 14, 15, 16, 17, 18,
	}
	sw = x.Extract(oneLow, 2)
	assert.Equal(t, []float64{18}, sw.Highs)
	assert.Equal(t, []float64{8}, sw.Lows)

	assert.Empty(t, x.Extract(nil, 5).Highs)
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestAnalyze_Uptrend(t *testing.T) {
	d := New(nil, 0)
	a := d.Analyze(&model.PriceSeries{AssetID: "up", Prices: ramp(30, 100, 2)})

	assert.Equal(t, 100.0, a.Indicators.RSI)
	h, ok := a.Indicators.LastHistogram()
	require.True(t, ok)
	assert.Greater(t, h, 0.0)
	assert.False(t, a.Events.GoldenCross)
	assert.Equal(t, model.CrossoverNone, a.Events.MACDCrossover)
	assert.Equal(t, model.BreakoutNone, a.Events.BBBreakout)
	assert.Empty(t, a.Events.CandlePatterns)
	assert.InDelta(t, 0.2, a.Events.TrendStrength, 1e-12)
	assert.Equal(t, 1.0, a.Events.VolumeRatio)
}

func TestAnalyze_EmptyAndTinySeries(t *testing.T) {
	d := New(nil, 5)
	a := d.Analyze(nil)
	assert.Equal(t, model.NeutralEvents(), a.Events)

	a = d.Analyze(&model.PriceSeries{Prices: []float64{42}})
	assert.Equal(t, model.CrossoverNone, a.Events.MACDCrossover)
	assert.Equal(t, model.BreakoutNone, a.Events.BBBreakout)
	assert.Equal(t, []float64{42}, a.Events.Swings.Highs)
}
