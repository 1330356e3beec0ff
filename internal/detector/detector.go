package detector

import (
	"fmt"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/model"
)

// Analysis is the detector output for one series.
type Analysis struct {
	Indicators model.IndicatorSet
	Events     model.StructuralEvents
	Errs       []error // indicators that could not be computed
}

// Detector derives structural events from a price series.
type Detector struct {
	log         *logger.Logger
	swingPeriod int
	swings      SwingExtractor
}

// New creates a Detector. swingPeriod <= 0 selects DefaultSwingPeriod.
func New(log *logger.Logger, swingPeriod int) *Detector {
	if log == nil {
		log = logger.Nop()
	}
	if swingPeriod <= 0 {
		swingPeriod = DefaultSwingPeriod
	}
	return &Detector{log: log, swingPeriod: swingPeriod}
}

// Analyze computes indicators and every structural event. Each detector is isolated:
// a failure leaves its neutral default in place and never aborts the others.
func (d *Detector) Analyze(series *model.PriceSeries) Analysis {
	ev := model.NeutralEvents()
	if series.Len() == 0 {
		return Analysis{Indicators: model.IndicatorSet{RSI: 50}, Events: ev}
	}
	prices := series.Prices

	ind, errs := calculator.ComputeIndicatorSet(prices)
	for _, err := range errs {
		d.log.Debugw("indicator unavailable", "asset", series.AssetID, "reason", err)
	}

	d.guard(series.AssetID, "cross", func() {
		ev.GoldenCross, ev.DeathCross = DetectCross(ind.SMA20, ind.SMA50)
	})
	d.guard(series.AssetID, "macd_crossover", func() {
		ev.MACDCrossover = MACDCrossover(ind.MACD.Histogram)
	})
	d.guard(series.AssetID, "bb_squeeze", func() {
		ev.BBSqueeze = BollingerSqueeze(ind.Bollinger, calculator.BollingerPeriod)
	})
	d.guard(series.AssetID, "bb_breakout", func() {
		ev.BBBreakout = BollingerBreakout(prices, ind.Bollinger)
	})
	d.guard(series.AssetID, "rsi_divergence", func() {
		ev.RSIDivergence = RSIDivergence(prices, ind.RSISeries)
	})
	d.guard(series.AssetID, "candles", func() {
		ev.CandlePatterns = CandlePatterns(prices)
	})
	d.guard(series.AssetID, "trend", func() {
		ev.TrendStrength = TrendStrength(ind.SMA20, ind.SMA50, ind.SMA200, ind.RSI)
	})
	d.guard(series.AssetID, "volume", func() {
		if series.HasVolumes() {
			ev.VolumeRatio = VolumeRatio(series.Volumes, VolumePeriod)
		}
	})
	d.guard(series.AssetID, "swings", func() {
		ev.Swings = d.swings.Extract(prices, d.swingPeriod)
	})

	return Analysis{Indicators: ind, Events: ev, Errs: errs}
}

func (d *Detector) guard(asset, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warnw("detector failed, using neutral default",
				"asset", asset, "detector", name, "reason", fmt.Sprint(r))
		}
	}()
	fn()
}
