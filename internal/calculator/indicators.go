package calculator

import "SignalSentinel/internal/model"

// Standard windows used by the signal engine.
const (
	RSIPeriod       = 14
	BollingerPeriod = 20
	BollingerK      = 2.0
)

// ComputeIndicatorSet derives every indicator for closes. Each indicator is guarded on its
// own: a failure leaves its field nil (or RSI at 50) and is returned in the error list.
func ComputeIndicatorSet(closes []float64) (model.IndicatorSet, []error) {
	var (
		set  = model.IndicatorSet{RSI: 50}
		errs []error
		err  error
	)
	keep := func(e error) {
		if e != nil {
			errs = append(errs, e)
		}
	}

	set.SMA20, err = SMA(closes, 20)
	keep(err)
	set.SMA50, err = SMA(closes, 50)
	keep(err)
	set.SMA200, err = SMA(closes, 200)
	keep(err)
	set.EMA20, err = EMA(closes, 20)
	keep(err)
	set.EMA50, err = EMA(closes, 50)
	keep(err)

	if rsi, err := TrailingRSI(closes, RSIPeriod); err != nil {
		keep(err)
	} else {
		set.RSI, set.RSIOK = rsi, true
	}
	if series, err := RSISeries(closes, RSIPeriod); err != nil {
		keep(err)
	} else {
		set.RSISeries, set.RSIOffset = series, RSIPeriod
	}

	set.MACD, err = MACD(closes, MACDFast, MACDSlow, MACDSignal)
	keep(err)
	set.Bollinger, err = BollingerBands(closes, BollingerPeriod, BollingerK)
	keep(err)
	set.StdDev20, err = StdDev(closes, BollingerPeriod)
	keep(err)

	return set, errs
}
