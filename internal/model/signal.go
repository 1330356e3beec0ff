package model

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// SignalType is the directional verdict.
type SignalType string

const (
	SignalBuy     SignalType = "BUY"
	SignalSell    SignalType = "SELL"
	SignalNeutral SignalType = "NEUTRAL"
)

// Sign returns +1 for BUY, -1 for SELL and 0 for NEUTRAL.
func (t SignalType) Sign() float64 {
	switch t {
	case SignalBuy:
		return 1
	case SignalSell:
		return -1
	default:
		return 0
	}
}

// SignalSource names the pipeline stage that produced a signal.
type SignalSource string

const (
	SourceAdvanced   SignalSource = "advanced"
	SourceSimple     SignalSource = "simple"
	SourceDegenerate SignalSource = "degenerate"
	SourceStatic     SignalSource = "static"
)

// SignalIndicators is the indicator echo attached to each signal.
type SignalIndicators struct {
	RSI             int    `json:"rsi"`
	MACD            string `json:"macd"`
	TrendStrength   string `json:"trendStrength"`
	PatternDetected string `json:"patternDetected"`
}

// DefaultIndicators is the echo used when no history was analysed.
func DefaultIndicators() SignalIndicators {
	return SignalIndicators{
		RSI:             50,
		MACD:            "0.0000",
		TrendStrength:   "0.00",
		PatternDetected: string(PatternNone),
	}
}

// Signal is the output unit of one pipeline run for one asset.
// Values are kept at full precision; MarshalJSON applies the display contract.
type Signal struct {
	ID                string
	Pair              string
	Name              string
	Type              SignalType
	EntryPrice        float64
	TargetPrice       float64
	StopLoss          float64
	Support           [3]float64 // nearest first
	Resistance        [3]float64 // nearest first
	PotentialGainPct  float64
	RiskReward        string
	Confidence        int
	PriceChange24hPct float64
	Indicators        SignalIndicators
	Source            SignalSource
}

type signalJSON struct {
	ID             string           `json:"id"`
	Pair           string           `json:"pair"`
	Name           string           `json:"name"`
	SignalType     SignalType       `json:"signalType"`
	EntryPrice     string           `json:"entryPrice"`
	TargetPrice    string           `json:"targetPrice"`
	StopLoss       string           `json:"stopLoss"`
	Support        []string         `json:"support"`
	Resistance     []string         `json:"resistance"`
	PotentialGain  string           `json:"potentialGain"`
	RiskReward     string           `json:"riskReward"`
	Confidence     int              `json:"confidence"`
	PriceChange24h string           `json:"priceChange24h"`
	Indicators     SignalIndicators `json:"indicators"`
	Source         SignalSource     `json:"source"`
}

// MarshalJSON renders prices with 4 decimals and percentages with 2.
func (s Signal) MarshalJSON() ([]byte, error) {
	out := signalJSON{
		ID:             s.ID,
		Pair:           s.Pair,
		Name:           s.Name,
		SignalType:     s.Type,
		EntryPrice:     FormatPrice(s.EntryPrice),
		TargetPrice:    FormatPrice(s.TargetPrice),
		StopLoss:       FormatPrice(s.StopLoss),
		Support:        make([]string, len(s.Support)),
		Resistance:     make([]string, len(s.Resistance)),
		PotentialGain:  FormatPercent(s.PotentialGainPct),
		RiskReward:     s.RiskReward,
		Confidence:     s.Confidence,
		PriceChange24h: FormatPercent(s.PriceChange24hPct),
		Indicators:     s.Indicators,
		Source:         s.Source,
	}
	for i, v := range s.Support {
		out.Support[i] = FormatPrice(v)
	}
	for i, v := range s.Resistance {
		out.Resistance[i] = FormatPrice(v)
	}
	return json.Marshal(out)
}

// FormatPrice renders v with 4 decimals.
func FormatPrice(v float64) string { return FormatFixed(v, 4) }

// FormatPercent renders v with 2 decimals.
func FormatPercent(v float64) string { return FormatFixed(v, 2) }

// FormatFixed renders v with the given number of decimals; non-finite values render as zero.
func FormatFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
