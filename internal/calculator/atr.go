package calculator

import (
	"math"

	"SignalSentinel/internal/model"
)

// ATRProxy approximates a true-range fraction from the 24h change alone:
// |priceChange24hPct| / 100 / 5. No high/low data is available, so this is not classic ATR.
func ATRProxy(asset model.MarketSnapshot) float64 {
	return math.Abs(asset.PriceChange24hPct) / 100 / 5
}
