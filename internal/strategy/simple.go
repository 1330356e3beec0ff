package strategy

import (
	"math"

	"SignalSentinel/internal/model"
)

// Simple rule constants.
const (
	MinVolumeToMarketCap = 0.0005
	SimpleMultiplier     = 3.0
	SimpleMaxConfidence  = 95
)

// Simple judges an asset from its 24h move alone. A move beyond ±5% needs
// volume/marketCap above 0.0005 to count.
func Simple(snap model.MarketSnapshot) Verdict {
	chg := snap.PriceChange24hPct
	liquid := snap.VolumeToMarketCap() > MinVolumeToMarketCap

	v := Verdict{Type: model.SignalNeutral, Pattern: model.PatternNone}
	switch {
	case chg > BaselineMovePct && liquid:
		v.Type = model.SignalBuy
	case chg < -BaselineMovePct && liquid:
		v.Type = model.SignalSell
	}
	v.Confidence = clampConfidence(math.Min(math.Abs(chg)*SimpleMultiplier, SimpleMaxConfidence), 0, 100)
	return v
}

// Degenerate rule constants.
const (
	degenerateBase = 65.0
	degenerateMult = 2.0
	degenerateMin  = 50
	degenerateMax  = 90
)

// Degenerate always commits to a direction: BUY when the 24h move is non-negative, SELL otherwise.
func Degenerate(snap model.MarketSnapshot) Verdict {
	chg := snap.PriceChange24hPct
	v := Verdict{Type: model.SignalBuy, Pattern: model.PatternNone}
	if chg < 0 {
		v.Type = model.SignalSell
	}
	v.Confidence = clampConfidence(degenerateBase+math.Abs(chg)*degenerateMult, degenerateMin, degenerateMax)
	return v
}
