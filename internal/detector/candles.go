package detector

import "SignalSentinel/internal/model"

// CandlePatterns approximates candlestick patterns from the last three closes
// (prev, middle, current). Tags are returned in detection order.
func CandlePatterns(prices []float64) []model.CandlePattern {
	n := len(prices)
	if n < 3 {
		return nil
	}
	prev, middle, current := prices[n-3], prices[n-2], prices[n-1]

	var tags []model.CandlePattern
	if prev > middle && current > 1.02*middle {
		tags = append(tags, model.PatternHammer)
	}
	if prev < middle && current < 0.98*middle {
		tags = append(tags, model.PatternShootingStar)
	}
	if prev > middle && current > prev {
		tags = append(tags, model.PatternBullishEngulfing)
	}
	if prev < middle && current < prev {
		tags = append(tags, model.PatternBearishEngulfing)
	}
	return tags
}
