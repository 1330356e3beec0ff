package detector

import "SignalSentinel/internal/model"

// DivergenceWindow is the number of trailing price/RSI pairs inspected.
const DivergenceWindow = 14

// RSIDivergence compares the last two strict 3-point pivots of price and RSI over the
// trailing window. rsi must be aligned to the tail of prices.
func RSIDivergence(prices, rsi []float64) model.CrossoverKind {
	m := DivergenceWindow
	if len(rsi) < m {
		m = len(rsi)
	}
	if len(prices) < m || m < 3 {
		return model.CrossoverNone
	}
	pw := prices[len(prices)-m:]
	rw := rsi[len(rsi)-m:]

	priceLows, priceHighs := pivots(pw)
	rsiLows, rsiHighs := pivots(rw)

	if len(priceLows) >= 2 && len(rsiLows) >= 2 {
		p1, p2 := priceLows[len(priceLows)-2], priceLows[len(priceLows)-1]
		r1, r2 := rsiLows[len(rsiLows)-2], rsiLows[len(rsiLows)-1]
		if pw[p2] < pw[p1] && rw[r2] > rw[r1] {
			return model.CrossoverBullish
		}
	}
	if len(priceHighs) >= 2 && len(rsiHighs) >= 2 {
		p1, p2 := priceHighs[len(priceHighs)-2], priceHighs[len(priceHighs)-1]
		r1, r2 := rsiHighs[len(rsiHighs)-2], rsiHighs[len(rsiHighs)-1]
		if pw[p2] > pw[p1] && rw[r2] < rw[r1] {
			return model.CrossoverBearish
		}
	}
	return model.CrossoverNone
}

// pivots returns indices of strict 3-point lows and highs.
func pivots(x []float64) (lows, highs []int) {
	for i := 1; i < len(x)-1; i++ {
		if x[i] < x[i-1] && x[i] < x[i+1] {
			lows = append(lows, i)
		}
		if x[i] > x[i-1] && x[i] > x[i+1] {
			highs = append(highs, i)
		}
	}
	return lows, highs
}
