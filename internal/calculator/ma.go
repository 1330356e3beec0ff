package calculator

// SMA returns the trailing simple moving average for every index >= period-1.
// The result has len(series)-period+1 values; result[0] belongs to series[period-1].
func SMA(series []float64, period int) ([]float64, error) {
	if err := requireLength("SMA", series, period, period); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(series)-period+1)
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= period {
			sum -= series[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out, nil
}

// EMA returns one value per input index, seeded with series[0] rather than an SMA.
func EMA(series []float64, period int) ([]float64, error) {
	if err := requireLength("EMA", series, 1, period); err != nil {
		return nil, err
	}
	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(series))
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = (series[i]-out[i-1])*alpha + out[i-1]
	}
	return out, nil
}
