package calculator

import (
	"fmt"
	"math"
)

// TrailingRange scans the most recent `window` values and returns their high and low.
func TrailingRange(series []float64, window int) (high, low float64, err error) {
	if len(series) == 0 {
		return 0, 0, fmt.Errorf("TrailingRange: %w: empty series", ErrInsufficientData)
	}
	n := len(series)
	start := n - window
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if series[i] > high {
			high = series[i]
		}
		if series[i] < low {
			low = series[i]
		}
	}
	return high, low, nil
}
