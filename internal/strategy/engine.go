package strategy

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"SignalSentinel/internal/detector"
	"SignalSentinel/internal/model"
)

// Confidence bounds.
const (
	BaseConfidence    = 60
	NeutralConfidence = 50
	MaxConfidence     = 98
	HighVolumeRatio   = 1.5
)

// TieBreakPolicy decides which direction is checked first when triggers fire for both.
type TieBreakPolicy string

const (
	TieBreakBuy     TieBreakPolicy = "BUY"
	TieBreakSell    TieBreakPolicy = "SELL"
	TieBreakNeutral TieBreakPolicy = "NEUTRAL" // conflicting triggers yield NEUTRAL
)

// ParseTieBreak parses a policy name, case-insensitively. Empty selects BUY.
func ParseTieBreak(s string) (TieBreakPolicy, error) {
	switch TieBreakPolicy(strings.ToUpper(strings.TrimSpace(s))) {
	case "", TieBreakBuy:
		return TieBreakBuy, nil
	case TieBreakSell:
		return TieBreakSell, nil
	case TieBreakNeutral:
		return TieBreakNeutral, nil
	}
	return "", fmt.Errorf("unknown tie-break policy %q", s)
}

// Ranked is the evidence for one direction.
type Ranked struct {
	Direction model.SignalType
	Score     int  // summed weight, informational
	Triggered bool // at least one trigger fired for this direction
	Evidence  []Evidence
}

// Rank groups evidence per direction in priority order: triggered directions first,
// the policy's direction ahead of the other, then a baseline-only direction.
func Rank(items []Evidence, policy TieBreakPolicy) []Ranked {
	byDir := map[model.SignalType]*Ranked{}
	var order []model.SignalType
	for _, e := range items {
		r, ok := byDir[e.Direction]
		if !ok {
			r = &Ranked{Direction: e.Direction}
			byDir[e.Direction] = r
			order = append(order, e.Direction)
		}
		r.Score += e.Weight
		r.Triggered = r.Triggered || e.Trigger
		r.Evidence = append(r.Evidence, e)
	}
	out := make([]Ranked, 0, len(order))
	for _, d := range order {
		out = append(out, *byDir[d])
	}
	first := model.SignalBuy
	if policy == TieBreakSell {
		first = model.SignalSell
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Triggered != out[j].Triggered {
			return out[i].Triggered
		}
		return out[i].Direction == first && out[j].Direction != first
	})
	return out
}

// Verdict is the synthesized direction, confidence and primary pattern for one asset.
type Verdict struct {
	Type       model.SignalType
	Confidence int
	Pattern    model.CandlePattern
	Ranking    []Ranked
}

// Synthesizer turns an analysis into a verdict.
type Synthesizer struct {
	TieBreak TieBreakPolicy
}

// Evaluate picks the first satisfied direction and accumulates confidence for it.
func (s Synthesizer) Evaluate(snap model.MarketSnapshot, a *detector.Analysis) Verdict {
	ranking := Rank(CollectEvidence(snap, a), s.TieBreak)
	v := Verdict{
		Type:       s.pick(ranking),
		Confidence: NeutralConfidence,
		Pattern:    a.Events.PrimaryPattern(),
		Ranking:    ranking,
	}
	if v.Type != model.SignalNeutral {
		v.Confidence = accumulate(v.Type, a)
	}
	return v
}

func (s Synthesizer) pick(ranking []Ranked) model.SignalType {
	if len(ranking) == 0 {
		return model.SignalNeutral
	}
	if s.TieBreak == TieBreakNeutral && len(ranking) > 1 && ranking[1].Triggered {
		return model.SignalNeutral
	}
	return ranking[0].Direction
}

// accumulate starts at BaseConfidence and adds a bonus per confirming event, capped at MaxConfidence.
func accumulate(dir model.SignalType, a *detector.Analysis) int {
	ind, ev := &a.Indicators, &a.Events
	conf := BaseConfidence

	if ind.RSIOK {
		if (dir == model.SignalBuy && ind.RSI < OversoldRSI) || (dir == model.SignalSell && ind.RSI > OverboughtRSI) {
			conf += weightExtremeRSI
		}
	}
	if d, ok := crossoverDirection(ev.RSIDivergence); ok && d == dir {
		conf += weightDivergence
	}
	if (dir == model.SignalBuy && ev.GoldenCross) || (dir == model.SignalSell && ev.DeathCross) {
		conf += weightCross
	}
	if d, ok := crossoverDirection(ev.MACDCrossover); ok && d == dir {
		conf += weightMACD
	}
	if ev.VolumeRatio > HighVolumeRatio {
		conf += 5
	}
	if len(ev.CandlePatterns) > 0 {
		conf += weightCandle
	}
	if (dir == model.SignalBuy && ev.BBBreakout == model.BreakoutUp) || (dir == model.SignalSell && ev.BBBreakout == model.BreakoutDown) {
		conf += weightBreakout
	}
	if ev.TrendStrength*dir.Sign() > 0 {
		conf += weightTrend
	}
	return clampConfidence(float64(conf), 0, MaxConfidence)
}

// Indicators builds the indicator echo from an analysis.
func Indicators(a *detector.Analysis, pattern model.CandlePattern) model.SignalIndicators {
	echo := model.DefaultIndicators()
	if a.Indicators.RSIOK {
		echo.RSI = int(math.Round(a.Indicators.RSI))
	}
	if h, ok := a.Indicators.LastHistogram(); ok {
		echo.MACD = model.FormatFixed(h, 4)
	}
	echo.TrendStrength = model.FormatFixed(a.Events.TrendStrength, 2)
	if pattern != "" {
		echo.PatternDetected = string(pattern)
	}
	return echo
}

// clampConfidence floors v into [lo, hi]. NaN maps to lo.
func clampConfidence(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	v = math.Floor(v)
	switch {
	case v < float64(lo):
		return lo
	case v > float64(hi):
		return hi
	}
	return int(v)
}
