package recorder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"SignalSentinel/internal/model"
)

// JSONLRecorder writes one JSON object per batch, newline terminated.
type JSONLRecorder struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLRecorder writes to w. w is not closed by Close.
func NewJSONLRecorder(w io.Writer) *JSONLRecorder {
	return &JSONLRecorder{enc: json.NewEncoder(w)}
}

// OpenJSONLRecorder appends to the file at path, creating it and its directory if needed.
func OpenJSONLRecorder(path string) (*JSONLRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open jsonl sink: %w", err)
	}
	r := NewJSONLRecorder(f)
	r.closer = f
	return r, nil
}

type batchJSON struct {
	At               time.Time      `json:"at"`
	ProviderOK       bool           `json:"providerAvailable"`
	ProviderReason   string         `json:"providerReason,omitempty"`
	RateLimitedUntil *time.Time     `json:"rateLimitedUntil,omitempty"`
	Signals          []model.Signal `json:"signals"`
}

func (r *JSONLRecorder) RecordBatch(rec *BatchRecord) error {
	out := batchJSON{
		At:             rec.At.UTC(),
		ProviderOK:     rec.Status.Available,
		ProviderReason: rec.Status.Reason,
		Signals:        rec.Signals,
	}
	if out.Signals == nil {
		out.Signals = []model.Signal{}
	}
	if !rec.Status.RateLimitedUntil.IsZero() {
		until := rec.Status.RateLimitedUntil.UTC()
		out.RateLimitedUntil = &until
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(out); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

func (r *JSONLRecorder) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
