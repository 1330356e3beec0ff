package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

func constStage(source model.SignalSource, r Result) *Stage {
	return NewStage(source, func(model.MarketSnapshot, *model.PriceSeries) Result { return r })
}

func TestStage_OrElseOrder(t *testing.T) {
	chain := constStage(model.SourceAdvanced, fail(ReasonNoSeries, nil)).
		OrElse(constStage(model.SourceSimple, fail(ReasonNeutral, nil))).
		OrElse(constStage(model.SourceDegenerate, ok(model.Signal{ID: "x"})))

	assert.Equal(t, []model.SignalSource{model.SourceAdvanced, model.SourceSimple, model.SourceDegenerate}, chain.Sources())

	var failed []Reason
	r := chain.Run(model.MarketSnapshot{}, nil, func(_ model.SignalSource, r Result) { failed = append(failed, r.Reason) })
	require.True(t, r.OK())
	assert.Equal(t, model.SourceDegenerate, r.Signal.Source)
	assert.Equal(t, []Reason{ReasonNoSeries, ReasonNeutral}, failed)
}

func TestStage_PanicFallsThrough(t *testing.T) {
	chain := NewStage(model.SourceAdvanced, func(model.MarketSnapshot, *model.PriceSeries) Result {
		var s []float64
		_ = s[3]
		return Result{}
	}).OrElse(constStage(model.SourceSimple, ok(model.Signal{ID: "y"})))

	var cause error
	r := chain.Run(model.MarketSnapshot{}, nil, func(_ model.SignalSource, r Result) { cause = r.Err })
	require.True(t, r.OK())
	assert.Equal(t, model.SourceSimple, r.Signal.Source)
	assert.True(t, errors.Is(cause, calculator.ErrComputationFailure))
}

func TestStage_AllFail(t *testing.T) {
	chain := constStage(model.SourceStatic, fail(ReasonNoStatic, nil))
	r := chain.Run(model.MarketSnapshot{}, nil, nil)
	assert.False(t, r.OK())
	assert.Equal(t, ReasonNoStatic, r.Reason)
}
