package strategy

import (
	"fmt"

	"SignalSentinel/internal/detector"
	"SignalSentinel/internal/model"
)

// Confidence bonuses. Trigger evidence carries the bonus of its event as weight.
const (
	weightExtremeRSI = 5
	weightDivergence = 10
	weightCross      = 10
	weightMACD       = 10
	weightBreakout   = 5
	weightCandle     = 10
	weightTrend      = 5
	weightBaseline   = 5
)

// RSI thresholds.
const (
	OversoldRSI   = 30.0
	OverboughtRSI = 70.0
)

// BaselineMovePct is the 24h move beyond which the baseline leans in that direction.
const BaselineMovePct = 5.0

// Evidence is one directional observation backing a verdict. Trigger evidence sets the
// direction; the 24h baseline only holds when no trigger fired.
type Evidence struct {
	Name       string
	Direction  model.SignalType
	Weight     int
	Trigger    bool
	Commentary string
}

func trigger(name string, dir model.SignalType, weight int, commentary string) Evidence {
	return Evidence{Name: name, Direction: dir, Weight: weight, Trigger: true, Commentary: commentary}
}

// evidenceBaseline leans with a 24h move beyond ±5%.
func evidenceBaseline(snap model.MarketSnapshot) []Evidence {
	chg := snap.PriceChange24hPct
	var dir model.SignalType
	switch {
	case chg > BaselineMovePct:
		dir = model.SignalBuy
	case chg < -BaselineMovePct:
		dir = model.SignalSell
	default:
		return nil
	}
	return []Evidence{{Name: "baseline", Direction: dir, Weight: weightBaseline, Commentary: fmt.Sprintf("24h %+.2f%%", chg)}}
}

// evidenceRSI reports oversold and overbought readings. An unavailable RSI says nothing.
func evidenceRSI(ind *model.IndicatorSet) []Evidence {
	if !ind.RSIOK {
		return nil
	}
	switch {
	case ind.RSI < OversoldRSI:
		return []Evidence{trigger("oversold", model.SignalBuy, weightExtremeRSI, fmt.Sprintf("RSI=%.0f", ind.RSI))}
	case ind.RSI > OverboughtRSI:
		return []Evidence{trigger("overbought", model.SignalSell, weightExtremeRSI, fmt.Sprintf("RSI=%.0f", ind.RSI))}
	}
	return nil
}

func evidenceCross(ev *model.StructuralEvents) []Evidence {
	var out []Evidence
	if ev.GoldenCross {
		out = append(out, trigger("golden_cross", model.SignalBuy, weightCross, "SMA20 above SMA50"))
	}
	if ev.DeathCross {
		out = append(out, trigger("death_cross", model.SignalSell, weightCross, "SMA20 below SMA50"))
	}
	return out
}

func evidenceMACD(ev *model.StructuralEvents) []Evidence {
	if d, ok := crossoverDirection(ev.MACDCrossover); ok {
		return []Evidence{trigger("macd_crossover", d, weightMACD, string(ev.MACDCrossover))}
	}
	return nil
}

func evidenceBreakout(ev *model.StructuralEvents) []Evidence {
	switch ev.BBBreakout {
	case model.BreakoutUp:
		return []Evidence{trigger("bb_breakout", model.SignalBuy, weightBreakout, "above upper band")}
	case model.BreakoutDown:
		return []Evidence{trigger("bb_breakout", model.SignalSell, weightBreakout, "below lower band")}
	}
	return nil
}

// evidenceCandle counts at most one bullish and one bearish pattern.
func evidenceCandle(ev *model.StructuralEvents) []Evidence {
	var out []Evidence
	var bull, bear bool
	for _, p := range ev.CandlePatterns {
		switch {
		case p.Bullish() && !bull:
			bull = true
			out = append(out, trigger("candle", model.SignalBuy, weightCandle, string(p)))
		case p.Bearish() && !bear:
			bear = true
			out = append(out, trigger("candle", model.SignalSell, weightCandle, string(p)))
		}
	}
	return out
}

// CollectEvidence gathers the direction-setting observations for one asset: the
// 24h baseline plus the RSI extreme, cross, MACD, breakout and candle triggers.
// Divergence, volume and trend only add confidence once a direction is chosen.
func CollectEvidence(snap model.MarketSnapshot, a *detector.Analysis) []Evidence {
	var out []Evidence
	out = append(out, evidenceBaseline(snap)...)
	out = append(out, evidenceRSI(&a.Indicators)...)
	out = append(out, evidenceCross(&a.Events)...)
	out = append(out, evidenceMACD(&a.Events)...)
	out = append(out, evidenceBreakout(&a.Events)...)
	out = append(out, evidenceCandle(&a.Events)...)
	return out
}

func crossoverDirection(k model.CrossoverKind) (model.SignalType, bool) {
	switch k {
	case model.CrossoverBullish:
		return model.SignalBuy, true
	case model.CrossoverBearish:
		return model.SignalSell, true
	}
	return model.SignalNeutral, false
}
