package recorder

import (
	"time"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pipeline"
)

// BatchRecord is the output of one pipeline run.
type BatchRecord struct {
	At      time.Time
	Status  pipeline.ProviderStatus
	Signals []model.Signal
}

// Recorder writes batch records to a sink. Nothing is ever read back.
type Recorder interface {
	RecordBatch(rec *BatchRecord) error
	Close() error
}
