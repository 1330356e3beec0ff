// Package pipeline turns market snapshots and optional price history into ranked signals.
package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/detector"
	"SignalSentinel/internal/levels"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

// Options bound the work done per batch.
type Options struct {
	AdvancedLimit int // candidates given the full indicator path
	MinAdvanced   int // list size below which simple signals are appended
	MaxSignals    int
	MinHistory    int // closes needed for the full path
	SwingPeriod   int
	TieBreak      strategy.TieBreakPolicy
}

// DefaultOptions returns the production limits.
func DefaultOptions() Options {
	return Options{
		AdvancedLimit: 8,
		MinAdvanced:   3,
		MaxSignals:    8,
		MinHistory:    calculator.MACDSlow,
		SwingPeriod:   detector.DefaultSwingPeriod,
		TieBreak:      strategy.TieBreakBuy,
	}
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithStaticSignals sets the last-resort signals returned when nothing else can be produced.
func WithStaticSignals(signals []model.Signal) Option {
	return func(e *Engine) { e.static = append([]model.Signal(nil), signals...) }
}

// Engine computes signals. It holds no per-run state and is safe for concurrent use.
type Engine struct {
	opts   Options
	synth  strategy.Synthesizer
	log    *logger.Logger
	static []model.Signal
}

// New creates an Engine. Zero-valued limits take their defaults.
func New(opts Options, options ...Option) *Engine {
	def := DefaultOptions()
	if opts.AdvancedLimit <= 0 {
		opts.AdvancedLimit = def.AdvancedLimit
	}
	if opts.MinAdvanced <= 0 {
		opts.MinAdvanced = def.MinAdvanced
	}
	if opts.MaxSignals <= 0 {
		opts.MaxSignals = def.MaxSignals
	}
	if opts.MinHistory < def.MinHistory {
		opts.MinHistory = def.MinHistory
	}
	if opts.SwingPeriod <= 0 {
		opts.SwingPeriod = def.SwingPeriod
	}
	if opts.TieBreak == "" {
		opts.TieBreak = def.TieBreak
	}
	e := &Engine{
		opts:  opts,
		synth: strategy.Synthesizer{TieBreak: opts.TieBreak},
		log:   logger.Nop(),
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// Options returns the effective limits.
func (e *Engine) Options() Options { return e.opts }

// Evaluate runs the single-asset chain advanced → simple and reports how the signal was produced.
// A malformed snapshot is only served by a matching static signal.
func (e *Engine) Evaluate(snap model.MarketSnapshot, series *model.PriceSeries) Result {
	if !snap.Valid() {
		if r := e.staticStage().Run(snap, series, nil); r.OK() {
			return r
		}
		return Result{Signal: placeholder(snap), Reason: ReasonMalformed}
	}
	det := detector.New(e.log, e.opts.SwingPeriod)
	chain := e.advancedStage(det).OrElse(e.simpleStage())
	return chain.Run(snap, series, e.onFallback)
}

// ComputeSignal returns the signal for one asset. It never fails. A malformed snapshot
// without a static signal yields a NEUTRAL placeholder whose entry, target and stop are 0;
// use Evaluate to tell it apart (Reason is ReasonMalformed).
func (e *Engine) ComputeSignal(snap model.MarketSnapshot, series *model.PriceSeries) model.Signal {
	return e.Evaluate(snap, series).Signal
}

// ComputeSignalBatch ranks signals for a batch of snapshots, ordered by market cap.
// The full path runs for the first AdvancedLimit well-formed snapshots, NEUTRAL verdicts are
// dropped, simple signals top the list up to MinAdvanced, and an empty list falls back to
// degenerate and then static signals. The result is sorted by confidence and truncated to
// MaxSignals. A failure on one asset drops that asset only.
func (e *Engine) ComputeSignalBatch(snaps []model.MarketSnapshot, lookup SeriesLookup, status ProviderStatus) []model.Signal {
	start := time.Now()
	defer func() { metrics.RecordBatch(time.Since(start)) }()

	valid := make([]model.MarketSnapshot, 0, len(snaps))
	for _, s := range snaps {
		if s.Valid() {
			valid = append(valid, s)
			continue
		}
		e.log.Warnw("skipping malformed snapshot", "asset", s.ID, "price", s.CurrentPrice)
	}

	det := detector.New(e.log, e.opts.SwingPeriod)
	advanced := e.advancedStage(det).OrElse(e.simpleStage())
	simple := e.simpleStage()

	var out []model.Signal
	seen := make(map[string]bool, len(valid))
	keep := func(r Result) bool {
		if !r.OK() || r.Signal.Type == model.SignalNeutral || seen[r.Signal.ID] {
			return false
		}
		seen[r.Signal.ID] = true
		out = append(out, r.Signal)
		return true
	}

	limit := min(e.opts.AdvancedLimit, len(valid))
	for _, snap := range valid[:limit] {
		var series *model.PriceSeries
		if status.Available && lookup != nil {
			series = e.lookup(lookup, snap.ID)
		}
		onFail := e.onFallback
		if !status.Available {
			onFail = e.onUnavailable(status)
		}
		keep(e.runGuarded(advanced, snap, series, onFail))
	}

	if len(out) < e.opts.MinAdvanced {
		for _, snap := range valid {
			if len(out) >= e.opts.MinAdvanced {
				break
			}
			if seen[snap.ID] {
				continue
			}
			keep(e.runGuarded(simple, snap, nil, nil))
		}
	}

	if len(out) == 0 {
		degenerate := e.degenerateStage()
		for _, snap := range valid {
			keep(e.runGuarded(degenerate, snap, nil, nil))
		}
		if len(out) > 0 {
			e.log.Warnw("no directional signals, using degenerate fallback", "count", len(out))
		}
	}

	if len(out) == 0 && len(e.static) > 0 {
		e.log.Warnw("no market signals, serving static signals", "count", len(e.static))
		for _, sig := range e.static {
			sig.Source = model.SourceStatic
			out = append(out, sig)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if len(out) > e.opts.MaxSignals {
		out = out[:e.opts.MaxSignals]
	}
	for _, sig := range out {
		metrics.RecordSignal(string(sig.Source), string(sig.Type))
	}
	e.log.Infow("signal batch computed",
		"candidates", len(snaps), "valid", len(valid), "signals", len(out),
		"provider_available", status.Available, "duration", time.Since(start))
	return out
}

// runGuarded isolates one asset; a panic outside the stage guards drops the asset.
func (e *Engine) runGuarded(chain *Stage, snap model.MarketSnapshot, series *model.PriceSeries, onFail FailureFunc) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			metrics.AssetFailuresTotal.Inc()
			e.log.Errorw("asset failed", "asset", snap.ID, "reason", fmt.Sprint(r))
			res = fail(ReasonPanic, fmt.Errorf("%w: %v", calculator.ErrComputationFailure, r))
		}
	}()
	return chain.Run(snap, series, onFail)
}

func (e *Engine) lookup(lookup SeriesLookup, id string) (series *model.PriceSeries) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warnw("series lookup failed", "asset", id, "reason", fmt.Sprint(r))
			series = nil
		}
	}()
	return lookup(id)
}

func (e *Engine) onFallback(source model.SignalSource, r Result) {
	metrics.RecordFallback(string(r.Reason))
	if source == model.SourceAdvanced {
		level := e.log.Debugw
		if r.Reason == ReasonPanic || r.Reason == ReasonComputationFailure {
			level = e.log.Warnw
		}
		level("advanced path unavailable, using simple rule",
			"asset", r.Signal.ID, "path", "simple_fallback", "reason", r.Reason, "error", r.Err)
		return
	}
	e.log.Warnw("stage failed", "stage", source, "reason", r.Reason, "error", r.Err)
}

func (e *Engine) onUnavailable(status ProviderStatus) FailureFunc {
	return func(source model.SignalSource, r Result) {
		if source == model.SourceAdvanced && r.Reason == ReasonNoSeries {
			r.Reason = ReasonProviderUnavailable
			r.Err = fmt.Errorf("provider unavailable: %s", status.Reason)
		}
		e.onFallback(source, r)
	}
}

func (e *Engine) advancedStage(det *detector.Detector) *Stage {
	return NewStage(model.SourceAdvanced, func(snap model.MarketSnapshot, series *model.PriceSeries) Result {
		var r Result
		switch n := series.Len(); {
		case series == nil:
			r = fail(ReasonNoSeries, nil)
		case n < e.opts.MinHistory:
			r = fail(ReasonInsufficientHistory,
				fmt.Errorf("%w: %d closes, need %d", calculator.ErrInsufficientData, n, e.opts.MinHistory))
		default:
			a := det.Analyze(series)
			for _, err := range a.Errs {
				if errors.Is(err, calculator.ErrComputationFailure) {
					r = fail(ReasonComputationFailure, err)
					break
				}
			}
			if r.Reason == ReasonNone {
				v := e.synth.Evaluate(snap, &a)
				return ok(build(snap, v, strategy.Indicators(&a, v.Pattern), a.Events.Swings))
			}
		}
		r.Signal.ID = snap.ID
		return r
	})
}

func (e *Engine) simpleStage() *Stage {
	return NewStage(model.SourceSimple, func(snap model.MarketSnapshot, _ *model.PriceSeries) Result {
		return ok(build(snap, strategy.Simple(snap), model.DefaultIndicators(), model.SwingPoints{}))
	})
}

func (e *Engine) degenerateStage() *Stage {
	return NewStage(model.SourceDegenerate, func(snap model.MarketSnapshot, _ *model.PriceSeries) Result {
		return ok(build(snap, strategy.Degenerate(snap), model.DefaultIndicators(), model.SwingPoints{}))
	})
}

func (e *Engine) staticStage() *Stage {
	return NewStage(model.SourceStatic, func(snap model.MarketSnapshot, _ *model.PriceSeries) Result {
		for _, sig := range e.static {
			if sig.ID == snap.ID {
				return ok(sig)
			}
		}
		return fail(ReasonNoStatic, nil)
	})
}

func build(snap model.MarketSnapshot, v strategy.Verdict, echo model.SignalIndicators, swings model.SwingPoints) model.Signal {
	l := levels.Compute(v.Type, snap, v.Confidence, swings)
	return model.Signal{
		ID:                snap.ID,
		Pair:              snap.Pair(),
		Name:              snap.Name,
		Type:              v.Type,
		EntryPrice:        l.Entry,
		TargetPrice:       l.Target,
		StopLoss:          l.Stop,
		Support:           l.Support,
		Resistance:        l.Resistance,
		PotentialGainPct:  l.PotentialGainPct,
		RiskReward:        l.RiskReward,
		Confidence:        v.Confidence,
		PriceChange24hPct: snap.PriceChange24hPct,
		Indicators:        echo,
	}
}

func placeholder(snap model.MarketSnapshot) model.Signal {
	return model.Signal{
		ID:         snap.ID,
		Pair:       snap.Pair(),
		Name:       snap.Name,
		Type:       model.SignalNeutral,
		RiskReward: "1:1",
		Confidence: strategy.NeutralConfidence,
		Indicators: model.DefaultIndicators(),
	}
}
