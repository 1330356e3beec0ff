package calculator

import "fmt"

// RSI averages gains and losses over the first `period` changes of series.
// This is a single-pass simple average, not Wilder smoothing. Requires period+1 values.
func RSI(series []float64, period int) (float64, error) {
	if err := requireLength("RSI", series, period+1, period); err != nil {
		return 0, err
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	if rsi < 0 || rsi > 100 {
		return 0, fmt.Errorf("RSI: %w: value %f out of range", ErrComputationFailure, rsi)
	}
	return rsi, nil
}

// TrailingRSI computes RSI over the last period+1 values of series.
func TrailingRSI(series []float64, period int) (float64, error) {
	if period > 0 && len(series) > period+1 {
		series = series[len(series)-period-1:]
	}
	return RSI(series, period)
}

// RSISeries returns RSI(series[i-period : i+1]) for every i >= period.
// result[0] belongs to series[period].
func RSISeries(series []float64, period int) ([]float64, error) {
	if err := requireLength("RSISeries", series, period+1, period); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(series)-period)
	for i := period; i < len(series); i++ {
		v, err := RSI(series[i-period:i+1], period)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
