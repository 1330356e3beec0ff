package calculator

import (
	"math"

	"SignalSentinel/internal/model"
)

// StdDev returns the trailing population standard deviation, aligned like SMA.
func StdDev(series []float64, period int) ([]float64, error) {
	mean, err := SMA(series, period)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(mean))
	for k, m := range mean {
		i := k + period - 1
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := series[j] - m
			sum += d * d
		}
		out[k] = math.Sqrt(sum / float64(period))
	}
	return out, nil
}

// BollingerBands returns middle = SMA and upper/lower = middle ± k·StdDev.
func BollingerBands(series []float64, period int, k float64) (model.BollingerBands, error) {
	middle, err := SMA(series, period)
	if err != nil {
		return model.BollingerBands{}, err
	}
	sd, err := StdDev(series, period)
	if err != nil {
		return model.BollingerBands{}, err
	}
	bands := model.BollingerBands{
		Upper:  make([]float64, len(middle)),
		Middle: middle,
		Lower:  make([]float64, len(middle)),
	}
	for i, m := range middle {
		bands.Upper[i] = m + k*sd[i]
		bands.Lower[i] = m - k*sd[i]
	}
	return bands, nil
}
