package recorder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pipeline"
)

func TestJSONLRecorder_WritesOneLinePerBatch(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONLRecorder(&buf)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	sig := model.Signal{ID: "bitcoin", Pair: "BTC/USDT", Type: model.SignalBuy, EntryPrice: 65000.123456, TargetPrice: 68250, StopLoss: 63700, RiskReward: "1:2.50", Confidence: 72, Indicators: model.DefaultIndicators(), Source: model.SourceAdvanced}
	require.NoError(t, r.RecordBatch(&BatchRecord{At: at, Status: pipeline.Available(), Signals: []model.Signal{sig}}))
	require.NoError(t, r.RecordBatch(&BatchRecord{At: at, Status: pipeline.RateLimited(at.Add(time.Minute))}))
	require.NoError(t, r.Close())

	sc := bufio.NewScanner(&buf)
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, true, lines[0]["providerAvailable"])
	signals := lines[0]["signals"].([]any)
	require.Len(t, signals, 1)
	first := signals[0].(map[string]any)
	assert.Equal(t, "65000.1235", first["entryPrice"])
	assert.Equal(t, "BUY", first["signalType"])

	assert.Equal(t, false, lines[1]["providerAvailable"])
	assert.Equal(t, "rate_limited", lines[1]["providerReason"])
	assert.Equal(t, "2024-05-01T12:01:00Z", lines[1]["rateLimitedUntil"])
	assert.Empty(t, lines[1]["signals"])
}

func TestOpenJSONLRecorder_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "signals.jsonl")
	for i := 0; i < 2; i++ {
		r, err := OpenJSONLRecorder(path)
		require.NoError(t, err)
		require.NoError(t, r.RecordBatch(&BatchRecord{At: time.Now(), Status: pipeline.Available()}))
		require.NoError(t, r.Close())
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordBatch(&BatchRecord{}))
	assert.NoError(t, r.Close())
}
