package calculator

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Default MACD periods.
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// MACD computes line = EMA(fast) − EMA(slow), signal = EMA(line, signalPeriod)
// and histogram = line − signal. Requires at least slow values.
func MACD(series []float64, fast, slow, signalPeriod int) (model.MACD, error) {
	if fast >= slow {
		return model.MACD{}, fmt.Errorf("MACD: %w: fast period %d must be below slow period %d", ErrComputationFailure, fast, slow)
	}
	if err := requireLength("MACD", series, slow, slow); err != nil {
		return model.MACD{}, err
	}
	emaFast, err := EMA(series, fast)
	if err != nil {
		return model.MACD{}, err
	}
	emaSlow, err := EMA(series, slow)
	if err != nil {
		return model.MACD{}, err
	}
	emaFast, emaSlow = alignTail(emaFast, emaSlow)

	line := make([]float64, len(emaFast))
	for i := range line {
		line[i] = emaFast[i] - emaSlow[i]
	}
	signal, err := EMA(line, signalPeriod)
	if err != nil {
		return model.MACD{}, err
	}
	line, signal = alignTail(line, signal)

	hist := make([]float64, len(signal))
	for i := range hist {
		hist[i] = line[i] - signal[i]
	}
	return model.MACD{Line: line, Signal: signal, Histogram: hist}, nil
}

// alignTail trims the leading excess of the longer slice so both end on the same index.
func alignTail(a, b []float64) ([]float64, []float64) {
	switch {
	case len(a) > len(b):
		return a[len(a)-len(b):], b
	case len(b) > len(a):
		return a, b[len(b)-len(a):]
	default:
		return a, b
	}
}
