package calculator

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInsufficientData means the input is shorter than the indicator's minimum window.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrComputationFailure means an unexpected numeric fault (bad period, non-finite input or output).
	ErrComputationFailure = errors.New("computation failure")
)

func requireLength(name string, series []float64, min, period int) error {
	if period <= 0 {
		return fmt.Errorf("%s: %w: period must be positive, got %d", name, ErrComputationFailure, period)
	}
	if len(series) < min {
		return fmt.Errorf("%s(%d): %w: need %d values, got %d", name, period, ErrInsufficientData, min, len(series))
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: %w: non-finite value at index %d", name, ErrComputationFailure, i)
		}
	}
	return nil
}
