package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"SetupScanner/internal/collector"
	"SetupScanner/internal/config"
	"SetupScanner/internal/exporter"
	"SetupScanner/internal/logger"
	"SetupScanner/internal/metrics"
	"SetupScanner/internal/notifier"
	"SetupScanner/internal/recorder"
	"SetupScanner/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single scan pass and exit")
	flag.Parse()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		log.Fatal("config validation", zap.Error(err))
	}
	log.Info("SetupScanner starting", zap.String("config", cfgPath), zap.Int("instruments", len(cfg.Instruments)))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := collector.NewBybitFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	log.Info("data source", zap.String("fetcher", fetcher.Name()), zap.String("base_url", fetcher.BaseURL))
	col := collector.NewCollector(fetcher, cfg.DataSource.Limit)

	var tn *notifier.TelegramNotifier
	var n notifier.Notifier = notifier.NewLogNotifier(log)
	if cfg.Telegram.BotToken != "" {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		if err != nil {
			log.Warn("init telegram notifier failed, alerts go to the log", zap.Error(err))
		} else {
			n = tn
		}
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, recorder.Options{
			Precision:     cfg.Strategy.TriggerPrecision,
			IntegrityBars: cfg.Export.IntegrityBars,
			FastSpan:      cfg.Strategy.FastSpan,
			SlowWindow:    cfg.Strategy.SlowWindow,
		}, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	ex := exporter.New(exporter.Options{
		XLSXPath:      cfg.Export.XLSXPath,
		CSVPath:       cfg.Export.CSVPath,
		ChartCandles:  cfg.Export.ChartCandles,
		IntegrityBars: cfg.Export.IntegrityBars,
		Precision:     cfg.Strategy.TriggerPrecision,
		Params:        cfg.Strategy,
	})

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, reg, log)
		srv.Start()
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			srv.Stop(stopCtx)
		}()
	}

	sched := scheduler.NewScheduler(ctx, scheduler.Deps{
		Collector:   col,
		Instruments: cfg.Instruments,
		Params:      cfg.Strategy,
		Window:      cfg.Schedule.Window,
		Notifier:    n,
		Recorder:    rec,
		Exporter:    ex,
		Metrics:     m,
		Log:         log,
	})

	if *once {
		r := sched.RunPass("once")
		fmt.Println(notifier.FormatStatus(r, cfg.Strategy.TriggerPrecision))
		return
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal("register scan task", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, scanning now")
		go sched.RunPass("startup")
	}

	log.Info("SetupScanner is running", zap.String("cron", cfg.Schedule.Cron))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
}
