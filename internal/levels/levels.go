// Package levels derives entry, target, stop and support/resistance prices for a verdict.
package levels

import (
	"math"
	"sort"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// Target and stop parameters.
const (
	baseTarget         = 0.05
	baseMultiplier     = 1.0
	highTarget         = 0.08
	highMultiplier     = 1.5
	HighConfidence     = 80
	minStopDistance    = 0.02
	stopATRMultiple    = 1.5
	minVolatility      = 0.02
	priceFloorFraction = 0.01
)

var fallbackSteps = [3]float64{0.5, 1.0, 1.5}

// Levels are the prices attached to one signal.
type Levels struct {
	Entry            float64
	Target           float64
	Stop             float64
	Support          [3]float64
	Resistance       [3]float64
	PotentialGainPct float64
	RiskReward       string
}

// Compute derives every level for a verdict on snap. NEUTRAL pins target and stop to entry.
func Compute(t model.SignalType, snap model.MarketSnapshot, confidence int, swings model.SwingPoints) Levels {
	entry := snap.CurrentPrice
	l := Levels{
		Entry:  entry,
		Target: Target(t, entry, snap.PriceChange24hPct, confidence),
		Stop:   StopLoss(t, entry, snap),
	}
	l.Support, l.Resistance = SupportResistance(entry, snap.PriceChange24hPct, swings)
	l.RiskReward = RiskReward(entry, l.Target, l.Stop)
	if entry > 0 {
		l.PotentialGainPct = math.Abs(l.Target-entry) / entry * 100
	}
	return l
}

// Target projects entry by base + volatility×multiplier in the signal direction.
func Target(t model.SignalType, entry, changePct float64, confidence int) float64 {
	base, mult := baseTarget, baseMultiplier
	if confidence >= HighConfidence {
		base, mult = highTarget, highMultiplier
	}
	move := base + math.Abs(changePct)/100*mult
	switch t {
	case model.SignalBuy:
		return entry * (1 + move)
	case model.SignalSell:
		return floorPrice(entry*(1-move), entry)
	}
	return entry
}

// StopLoss places the stop max(2%, 1.5×ATR proxy) against the signal direction.
func StopLoss(t model.SignalType, entry float64, snap model.MarketSnapshot) float64 {
	dist := math.Max(minStopDistance, stopATRMultiple*calculator.ATRProxy(snap))
	switch t {
	case model.SignalBuy:
		return floorPrice(entry*(1-dist), entry)
	case model.SignalSell:
		return entry * (1 + dist)
	}
	return entry
}

// RiskReward formats reward/risk as "1:x.xx". Zero risk reports "1:1".
func RiskReward(entry, target, stop float64) string {
	reward := math.Abs(target - entry)
	risk := math.Abs(entry - stop)
	if risk == 0 || math.IsNaN(risk) {
		return "1:1"
	}
	return "1:" + model.FormatFixed(reward/risk, 2)
}

// SupportResistance returns up to three swing levels per side ordered nearest first.
// A side with fewer than three swing candidates uses entry×(1∓f×{0.5,1,1.5}) instead,
// with f = max(|change|/100, 0.02).
func SupportResistance(entry, changePct float64, swings model.SwingPoints) (support, resistance [3]float64) {
	var below, above []float64
	for _, p := range swings.Lows {
		if p < entry {
			below = append(below, p)
		}
	}
	for _, p := range swings.Highs {
		if p > entry {
			above = append(above, p)
		}
	}
	sort.Float64s(below)
	sort.Float64s(above)

	f := math.Max(math.Abs(changePct)/100, minVolatility)
	if len(below) >= 3 {
		for i := range support {
			support[i] = below[len(below)-1-i]
		}
	} else {
		for i, step := range fallbackSteps {
			support[i] = floorPrice(entry*(1-f*step), entry)
		}
	}
	if len(above) >= 3 {
		copy(resistance[:], above[:3])
	} else {
		for i, step := range fallbackSteps {
			resistance[i] = entry * (1 + f*step)
		}
	}
	return support, resistance
}

// floorPrice keeps a derived price strictly positive.
func floorPrice(p, entry float64) float64 {
	if lowest := entry * priceFloorFraction; p < lowest {
		return lowest
	}
	return p
}
