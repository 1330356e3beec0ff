package detector

import "SignalSentinel/internal/model"

// MACDCrossover reports a histogram sign flip between the last two samples.
func MACDCrossover(histogram []float64) model.CrossoverKind {
	if len(histogram) < 2 {
		return model.CrossoverNone
	}
	prev, cur := histogram[len(histogram)-2], histogram[len(histogram)-1]
	switch {
	case prev <= 0 && cur > 0:
		return model.CrossoverBullish
	case prev >= 0 && cur < 0:
		return model.CrossoverBearish
	default:
		return model.CrossoverNone
	}
}
