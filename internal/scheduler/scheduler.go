package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/pipeline"
	"SignalSentinel/internal/recorder"
)

// ErrRunInProgress is returned when a refresh is requested while one is running.
var ErrRunInProgress = errors.New("signal refresh already running")

// Scheduler manages the cron-driven signal refresh.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *pipeline.Engine
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Ctx       context.Context

	log   *logger.Logger
	now   func() time.Time
	runMu sync.Mutex

	mu      sync.RWMutex
	last    *recorder.BatchRecord
	lastErr error
}

// NewScheduler creates a new Scheduler. A nil notifier or recorder becomes a no-op.
func NewScheduler(ctx context.Context, col *collector.Collector, engine *pipeline.Engine, n notifier.Notifier, rec recorder.Recorder, log *logger.Logger) *Scheduler {
	if n == nil {
		n = notifier.NoopNotifier{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Engine:    engine,
		Notifier:  n,
		Recorder:  rec,
		Ctx:       ctx,
		log:       log.With("component", "scheduler"),
		now:       time.Now,
	}
}

// Register adds the signal refresh task.
func (s *Scheduler) Register(signalsCron string) error {
	if _, err := s.Cron.AddFunc(signalsCron, s.refreshTask); err != nil {
		return fmt.Errorf("register signals task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	rec, err := s.Refresh(s.Ctx)
	if errors.Is(err, ErrRunInProgress) {
		return
	}
	if rec != nil {
		s.trySend(notifier.FormatSignalReport(rec.Signals, rec.Status, rec.At))
	}
}

// Refresh collects market data, computes a signal batch and records it.
// The returned record is nil only when another refresh is running.
func (s *Scheduler) Refresh(ctx context.Context) (*recorder.BatchRecord, error) {
	if !s.runMu.TryLock() {
		s.log.Warn("refresh skipped, previous run still in progress")
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	start := s.now()
	s.log.Infow("running signal refresh")

	batch, collectErr := s.Collector.Collect(ctx)
	if collectErr != nil {
		s.log.Errorw("collect failed, computing from fallbacks", "error", collectErr)
	}

	signals := s.Engine.ComputeSignalBatch(batch.Snapshots, batch.Lookup(), batch.Status)
	rec := &recorder.BatchRecord{At: start, Status: batch.Status, Signals: signals}

	if err := s.Recorder.RecordBatch(rec); err != nil {
		s.log.Errorw("record batch failed", "error", err)
	}

	s.mu.Lock()
	s.last, s.lastErr = rec, collectErr
	s.mu.Unlock()

	metrics.RecordRun(collectErr)
	s.log.Infow("signal refresh finished", "signals", len(signals), "duration", s.now().Sub(start))
	return rec, collectErr
}

// Last returns the most recent batch, or nil before the first run.
func (s *Scheduler) Last() (*recorder.BatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastErr
}

const helpText = "Available commands:\n" +
	"• /signals - latest ranked signals\n" +
	"• /refresh - recompute now\n" +
	"• /signal SYMBOL - levels for one pair\n" +
	"• /status - provider and run status"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i] // "/signals@SomeBot"
	}

	switch name {
	case "/signals":
		rec, _ := s.Last()
		if rec == nil {
			var err error
			if rec, err = s.Refresh(ctx); rec == nil {
				return fmt.Sprintf("⏳ %v", err)
			}
		}
		return notifier.FormatSignalReport(rec.Signals, rec.Status, rec.At)
	case "/refresh":
		rec, err := s.Refresh(ctx)
		if rec == nil {
			return fmt.Sprintf("⏳ %v", err)
		}
		return notifier.FormatSignalReport(rec.Signals, rec.Status, rec.At)
	case "/signal":
		if len(fields) < 2 {
			return "Usage: /signal SYMBOL"
		}
		rec, _ := s.Last()
		if rec == nil {
			return "No signals yet, try /refresh"
		}
		if sig, ok := findSignal(rec.Signals, fields[1]); ok {
			return notifier.FormatSignalDetail(sig)
		}
		return fmt.Sprintf("No signal for %s in the latest run", strings.ToUpper(fields[1]))
	case "/status":
		rec, err := s.Last()
		if rec == nil {
			return notifier.FormatStatus(time.Time{}, 0, pipeline.ProviderStatus{Reason: "no run yet"}, err)
		}
		return notifier.FormatStatus(rec.At, len(rec.Signals), rec.Status, err)
	default:
		return helpText
	}
}

// findSignal matches a pair ("BTC/USDT"), a symbol ("btc") or an asset id ("bitcoin").
func findSignal(signals []model.Signal, query string) (model.Signal, bool) {
	q := strings.ToUpper(query)
	for _, sig := range signals {
		if sig.Pair == q || strings.TrimSuffix(sig.Pair, "/USDT") == q || strings.ToUpper(sig.ID) == q {
			return sig, true
		}
	}
	return model.Signal{}, false
}

type retrySender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

func (s *Scheduler) trySend(text string) {
	var err error
	if rs, ok := s.Notifier.(retrySender); ok {
		err = rs.SendWithRetry(s.Ctx, text, 3)
	} else {
		err = s.Notifier.Send(s.Ctx, text)
	}
	if err != nil {
		s.log.Errorw("send notification failed", "error", err)
	}
}
