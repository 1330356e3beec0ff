package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalSentinel/internal/model"
)

func TestSimple(t *testing.T) {
	tests := []struct {
		name     string
		chg      float64
		volume   float64
		wantType model.SignalType
		wantConf int
	}{
		{"strong up, liquid", 6.0, 1000, model.SignalBuy, 18},
		{"strong down, liquid", -7.0, 1000, model.SignalSell, 21},
		{"strong up, illiquid", 6.0, 100, model.SignalNeutral, 18},
		{"quiet", 3.0, 1000, model.SignalNeutral, 9},
		{"huge move capped", 40.0, 1000, model.SignalBuy, 95},
		{"fractional floors", 5.5, 1000, model.SignalBuy, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Simple(snapshot(tt.chg, tt.volume, 1_000_000))
			assert.Equal(t, tt.wantType, v.Type)
			assert.Equal(t, tt.wantConf, v.Confidence)
			assert.Equal(t, model.PatternNone, v.Pattern)
		})
	}
}

func TestSimple_UnknownMarketCapIsNeutral(t *testing.T) {
	v := Simple(snapshot(9, 1000, 0))
	assert.Equal(t, model.SignalNeutral, v.Type)
}

func TestDegenerate(t *testing.T) {
	tests := []struct {
		chg      float64
		wantType model.SignalType
		wantConf int
	}{
		{0, model.SignalBuy, 65},
		{1.7, model.SignalBuy, 68},
		{-3, model.SignalSell, 71},
		{20, model.SignalBuy, 90},
		{-50, model.SignalSell, 90},
	}
	for _, tt := range tests {
		v := Degenerate(snapshot(tt.chg, 0, 0))
		assert.Equal(t, tt.wantType, v.Type, "chg=%v", tt.chg)
		assert.Equal(t, tt.wantConf, v.Confidence, "chg=%v", tt.chg)
	}
}
