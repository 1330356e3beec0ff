package detector

import "SignalSentinel/internal/model"

// SqueezeRatio is the fraction of the mean band width under which bands count as squeezed.
const SqueezeRatio = 0.8

// BollingerSqueeze reports whether the current band width is below 0.8 × the mean width
// of the trailing `period` samples (current sample included).
func BollingerSqueeze(bands model.BollingerBands, period int) bool {
	n := len(bands.Upper)
	if period <= 0 || n < period || len(bands.Lower) != n {
		return false
	}
	sum := 0.0
	for i := n - period; i < n; i++ {
		sum += bands.Upper[i] - bands.Lower[i]
	}
	mean := sum / float64(period)
	current := bands.Upper[n-1] - bands.Lower[n-1]
	return current < SqueezeRatio*mean
}

// BollingerBreakout reports a price moving from inside the bands to outside between
// the last two samples. Bands are aligned to the tail of prices.
func BollingerBreakout(prices []float64, bands model.BollingerBands) model.BreakoutKind {
	n, b := len(prices), len(bands.Upper)
	if n < 2 || b < 2 || len(bands.Lower) != b {
		return model.BreakoutNone
	}
	pPrev, pCur := prices[n-2], prices[n-1]
	uPrev, uCur := bands.Upper[b-2], bands.Upper[b-1]
	lPrev, lCur := bands.Lower[b-2], bands.Lower[b-1]

	switch {
	case pPrev <= uPrev && pCur > uCur:
		return model.BreakoutUp
	case pPrev >= lPrev && pCur < lCur:
		return model.BreakoutDown
	default:
		return model.BreakoutNone
	}
}
