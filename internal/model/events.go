package model

// CrossoverKind is a directional crossover verdict.
type CrossoverKind string

const (
	CrossoverBullish CrossoverKind = "BULLISH"
	CrossoverBearish CrossoverKind = "BEARISH"
	CrossoverNone    CrossoverKind = "NONE"
)

// BreakoutKind reports a Bollinger band exit.
type BreakoutKind string

const (
	BreakoutUp   BreakoutKind = "UP"
	BreakoutDown BreakoutKind = "DOWN"
	BreakoutNone BreakoutKind = "NONE"
)

// CandlePattern is a close-only candlestick approximation tag.
type CandlePattern string

const (
	PatternHammer           CandlePattern = "HAMMER"
	PatternShootingStar     CandlePattern = "SHOOTING_STAR"
	PatternBullishEngulfing CandlePattern = "BULLISH_ENGULFING"
	PatternBearishEngulfing CandlePattern = "BEARISH_ENGULFING"
	PatternNone             CandlePattern = "NONE"
)

// Bullish reports whether the pattern supports a BUY.
func (p CandlePattern) Bullish() bool {
	return p == PatternHammer || p == PatternBullishEngulfing
}

// Bearish reports whether the pattern supports a SELL.
func (p CandlePattern) Bearish() bool {
	return p == PatternShootingStar || p == PatternBearishEngulfing
}

// SwingPoints are local extrema extracted from a price series.
type SwingPoints struct {
	Highs []float64
	Lows  []float64
}

// StructuralEvents are the discrete flags derived once per asset per run.
type StructuralEvents struct {
	GoldenCross    bool
	DeathCross     bool
	MACDCrossover  CrossoverKind
	BBSqueeze      bool
	BBBreakout     BreakoutKind
	RSIDivergence  CrossoverKind
	CandlePatterns []CandlePattern // detection order; first is primary
	TrendStrength  float64         // [-1, 1]
	VolumeRatio    float64
	Swings         SwingPoints
}

// NeutralEvents returns the all-default event set.
func NeutralEvents() StructuralEvents {
	return StructuralEvents{
		MACDCrossover: CrossoverNone,
		BBBreakout:    BreakoutNone,
		RSIDivergence: CrossoverNone,
		VolumeRatio:   1,
	}
}

// PrimaryPattern returns the first detected pattern, or PatternNone.
func (e StructuralEvents) PrimaryPattern() CandlePattern {
	if len(e.CandlePatterns) == 0 {
		return PatternNone
	}
	return e.CandlePatterns[0]
}
