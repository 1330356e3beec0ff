package detector

import (
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// Swing defaults.
const (
	DefaultSwingPeriod  = 5
	swingFallbackWindow = 20
)

// SwingExtractor finds local highs and lows with O(n) sliding-window extrema.
// Its buffers are reused across calls; an extractor must not be shared between goroutines.
type SwingExtractor struct {
	deque []int
	maxes []float64
	mins  []float64
}

// Extract returns swing highs and lows in chronological order. A point qualifies when it
// strictly exceeds (or is strictly exceeded by) every point within w on both sides, where
// w = min(period, len/5). With fewer than two highs or two lows, both sides fall back to
// the single max and min of the trailing 20 points.
func (x *SwingExtractor) Extract(prices []float64, period int) model.SwingPoints {
	var out model.SwingPoints
	n := len(prices)
	if n == 0 {
		return out
	}

	w := period
	if n/5 < w {
		w = n / 5
	}
	if w >= 1 && n > 2*w {
		x.maxes = x.window(prices, w, x.maxes, func(a, b float64) bool { return a >= b })
		x.mins = x.window(prices, w, x.mins, func(a, b float64) bool { return a <= b })
		for i := w; i < n-w; i++ {
			p := prices[i]
			if p > x.maxes[i-1] && p > x.maxes[i+w] {
				out.Highs = append(out.Highs, p)
			}
			if p < x.mins[i-1] && p < x.mins[i+w] {
				out.Lows = append(out.Lows, p)
			}
		}
	}

	// too few pivots on either side replaces both with the trailing range
	if len(out.Highs) < 2 || len(out.Lows) < 2 {
		out.Highs, out.Lows = nil, nil
		if high, low, err := calculator.TrailingRange(prices, swingFallbackWindow); err == nil {
			out.Highs = []float64{high}
			out.Lows = []float64{low}
		}
	}
	return out
}

// window fills buf[j] with the extreme of prices[j-w+1..j] for j >= w-1 using a monotonic
// deque. dominates(a, b) reports whether a evicts b from the back of the deque.
func (x *SwingExtractor) window(prices []float64, w int, buf []float64, dominates func(a, b float64) bool) []float64 {
	if cap(buf) < len(prices) {
		buf = make([]float64, len(prices))
	}
	buf = buf[:len(prices)]
	dq := x.deque[:0]
	head := 0
	for j, p := range prices {
		for len(dq) > head && dominates(p, prices[dq[len(dq)-1]]) {
			dq = dq[:len(dq)-1]
		}
		dq = append(dq, j)
		if dq[head] <= j-w {
			head++
		}
		if j >= w-1 {
			buf[j] = prices[dq[head]]
		}
	}
	x.deque = dq
	return buf
}
