package detector

// VolumePeriod is the trailing window for the volume ratio.
const VolumePeriod = 20

// VolumeRatio returns the last volume divided by the mean of the trailing `period`
// volumes. Missing data or a zero mean yields the neutral ratio 1.
func VolumeRatio(volumes []float64, period int) float64 {
	n := len(volumes)
	if period <= 0 || n < period {
		return 1
	}
	sum := 0.0
	for i := n - period; i < n; i++ {
		sum += volumes[i]
	}
	mean := sum / float64(period)
	if mean <= 0 {
		return 1
	}
	return volumes[n-1] / mean
}
