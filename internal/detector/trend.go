package detector

// Trend strength weights.
const (
	shortMidWeight = 0.3
	midLongWeight  = 0.5
	rsiWeight      = 0.2
)

// TrendStrength combines MA alignment and RSI momentum into [-1, 1].
// A missing moving average contributes nothing.
func TrendStrength(short, mid, long []float64, rsi float64) float64 {
	score := 0.0
	if s, m, ok := lastPair(short, mid); ok {
		score += shortMidWeight * sign(s-m)
	}
	if m, l, ok := lastPair(mid, long); ok {
		score += midLongWeight * sign(m-l)
	}
	score += rsiWeight * (rsi - 50) / 50

	switch {
	case score > 1:
		return 1
	case score < -1:
		return -1
	}
	return score
}

func lastPair(a, b []float64) (float64, float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, false
	}
	return a[len(a)-1], b[len(b)-1], true
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
