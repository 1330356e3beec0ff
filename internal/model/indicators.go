package model

// BollingerBands holds SMA-aligned envelope sequences.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// MACD holds the line/signal/histogram triple, all aligned to the signal line's length.
type MACD struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// IndicatorSet bundles the derived sequences for one price series.
// A nil slice means the indicator could not be computed for the available history.
type IndicatorSet struct {
	SMA20  []float64
	SMA50  []float64
	SMA200 []float64
	EMA20  []float64
	EMA50  []float64

	RSI       float64 // trailing RSI-14, 50 when unavailable
	RSIOK     bool
	RSISeries []float64 // aligned to price index: RSISeries[k] belongs to Prices[RSIOffset+k]
	RSIOffset int

	MACD      MACD
	Bollinger BollingerBands
	StdDev20  []float64
}

// LastHistogram returns the latest MACD histogram value.
func (s *IndicatorSet) LastHistogram() (float64, bool) {
	h := s.MACD.Histogram
	if len(h) == 0 {
		return 0, false
	}
	return h[len(h)-1], true
}
