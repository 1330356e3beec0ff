package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/pipeline"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/strategy"
)

func main() {
	once := flag.Bool("once", false, "compute one signal batch, print it as JSON and exit")
	flag.Parse()

	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	col := collector.NewCollector(newFetcher(cfg), collector.Options{
		TopN:         cfg.DataSource.TopN,
		HistoryDays:  cfg.DataSource.HistoryDays,
		HistoryLimit: cfg.Pipeline.AdvancedLimit,
		MinMarketCap: cfg.Pipeline.MinMarketCap,
	}, log)
	engine := pipeline.New(pipelineOptions(cfg), pipeline.WithLogger(log))

	if *once {
		if err := runOnce(ctx, col, engine); err != nil {
			log.Errorw("single run finished with provider error", "error", err)
		}
		return
	}

	log.Infow("SignalSentinel starting", "name", cfg.App.Name, "env", cfg.App.Env, "provider", col.Fetcher.Name())

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Output.JSONLPath != "" {
		jr, err := recorder.OpenJSONLRecorder(cfg.Output.JSONLPath)
		if err != nil {
			log.Warnw("open jsonl sink failed, using noop", "path", cfg.Output.JSONLPath, "error", err)
		} else {
			rec = jr
		}
	}
	defer rec.Close()

	var n notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.Enabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		n = tn
	} else {
		log.Warn("telegram disabled, reports are only logged and recorded")
	}

	sched := scheduler.NewScheduler(ctx, col, engine, n, rec, log)
	if err := sched.Register(cfg.Schedule.SignalsCron); err != nil {
		log.Fatalf("register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	var srv *http.Server
	if cfg.Metrics.Enabled() {
		srv = serveMetrics(cfg.Metrics.Addr, log)
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, refreshing signals now")
		go func() {
			if batch, err := sched.Refresh(ctx); batch != nil {
				if sendErr := n.Send(ctx, notifier.FormatSignalReport(batch.Signals, batch.Status, batch.At)); sendErr != nil {
					log.Errorw("send startup report failed", "error", sendErr)
				}
			} else if err != nil {
				log.Warnw("startup refresh skipped", "error", err)
			}
		}()
	}

	log.Infow("SignalSentinel is running", "cron", cfg.Schedule.SignalsCron)
	<-ctx.Done()
	log.Info("shutdown signal received, stopping")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("metrics server shutdown", "error", err)
		}
	}
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	if strings.EqualFold(cfg.DataSource.Provider, "mock") {
		return &collector.MockFetcher{}
	}
	return collector.NewCoinGeckoFetcher(collector.CoinGeckoOptions{
		BaseURL:        cfg.DataSource.BaseURL,
		APIKey:         cfg.DataSource.APIKey,
		VsCurrency:     cfg.DataSource.VsCurrency,
		ProxyURL:       cfg.Proxy,
		Timeout:        cfg.DataSource.Timeout,
		RequestDelay:   cfg.DataSource.RequestDelay,
		RateLimitPause: cfg.DataSource.RateLimitPause,
	})
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.AdvancedLimit = cfg.Pipeline.AdvancedLimit
	opts.MinAdvanced = cfg.Pipeline.MinAdvanced
	opts.MaxSignals = cfg.Pipeline.MaxSignals
	opts.SwingPeriod = cfg.Pipeline.SwingPeriod
	// already validated
	opts.TieBreak, _ = strategy.ParseTieBreak(cfg.Pipeline.TieBreak)
	return opts
}

// runOnce computes one batch and writes it to stdout as a single JSON line.
func runOnce(ctx context.Context, col *collector.Collector, engine *pipeline.Engine) error {
	batch, collectErr := col.Collect(ctx)
	signals := engine.ComputeSignalBatch(batch.Snapshots, batch.Lookup(), batch.Status)

	out := recorder.NewJSONLRecorder(os.Stdout)
	if err := out.RecordBatch(&recorder.BatchRecord{At: time.Now(), Status: batch.Status, Signals: signals}); err != nil {
		return err
	}
	metrics.RecordRun(collectErr)
	return collectErr
}

func serveMetrics(addr string, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("metrics server stopped", "error", err)
		}
	}()
	log.Infow("metrics endpoint listening", "addr", addr)
	return srv
}
