package pipeline

import (
	"fmt"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// Reason explains why a stage produced no signal.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonInsufficientHistory Reason = "insufficient_history"
	ReasonComputationFailure  Reason = "computation_failure"
	ReasonProviderUnavailable Reason = "provider_unavailable"
	ReasonNoSeries            Reason = "no_series"
	ReasonPanic               Reason = "panic"
	ReasonNeutral             Reason = "neutral"
	ReasonMalformed           Reason = "malformed_snapshot"
	ReasonNoStatic            Reason = "no_static_signal"
)

// Result is a stage outcome: a signal, or the reason there is none.
type Result struct {
	Signal model.Signal
	Reason Reason
	Err    error
}

// OK reports whether the stage produced a signal.
func (r Result) OK() bool { return r.Reason == ReasonNone }

func ok(sig model.Signal) Result { return Result{Signal: sig} }

func fail(reason Reason, err error) Result { return Result{Reason: reason, Err: err} }

// StageFunc computes a signal for one asset. series may be nil.
type StageFunc func(snap model.MarketSnapshot, series *model.PriceSeries) Result

// Stage is one link of a fallback chain.
type Stage struct {
	Source   model.SignalSource
	run      StageFunc
	fallback *Stage
}

// NewStage wraps run as a chain link producing signals from source.
func NewStage(source model.SignalSource, run StageFunc) *Stage {
	return &Stage{Source: source, run: run}
}

// OrElse appends next to the end of the chain and returns the head, so
// chains read in order: advanced.OrElse(simple).OrElse(degenerate).
func (s *Stage) OrElse(next *Stage) *Stage {
	tail := s
	for tail.fallback != nil {
		tail = tail.fallback
	}
	tail.fallback = next
	return s
}

// Sources lists the chain in fallback order.
func (s *Stage) Sources() []model.SignalSource {
	var out []model.SignalSource
	for st := s; st != nil; st = st.fallback {
		out = append(out, st.Source)
	}
	return out
}

// FailureFunc observes a stage that handed over to its fallback.
type FailureFunc func(source model.SignalSource, r Result)

// Run tries each stage in order and returns the first success, or the last failure.
func (s *Stage) Run(snap model.MarketSnapshot, series *model.PriceSeries, onFail FailureFunc) Result {
	var last Result
	for st := s; st != nil; st = st.fallback {
		last = st.call(snap, series)
		if last.OK() {
			last.Signal.Source = st.Source
			return last
		}
		if onFail != nil {
			onFail(st.Source, last)
		}
	}
	return last
}

func (s *Stage) call(snap model.MarketSnapshot, series *model.PriceSeries) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = fail(ReasonPanic, fmt.Errorf("%s stage: %w: %v", s.Source, calculator.ErrComputationFailure, r))
		}
	}()
	return s.run(snap, series)
}
