package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"SetupScanner/internal/collector"
	"SetupScanner/internal/metrics"
	"SetupScanner/internal/model"
	"SetupScanner/internal/notifier"
	"SetupScanner/internal/recorder"
	"SetupScanner/internal/strategy"
)

// Exporter writes the files of a finished pass.
type Exporter interface {
	Export(r *model.PassReport) error
}

// Deps are the components a Scheduler drives.
type Deps struct {
	Collector   *collector.Collector
	Instruments []model.Instrument
	Params      strategy.Params
	Window      Window
	Notifier    notifier.Notifier
	Recorder    recorder.Recorder
	// Exporter may be nil.
	Exporter Exporter
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	// Concurrency bounds parallel fetches; 0 means 4.
	Concurrency int
}

// Scheduler runs scan passes on a cron schedule and on demand.
type Scheduler struct {
	Cron *cron.Cron
	Ctx  context.Context
	deps Deps
	log  *zap.Logger
	now  func() time.Time

	running sync.Mutex
	mu      sync.RWMutex
	last    *model.PassReport
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, deps Deps) *Scheduler {
	if deps.Concurrency <= 0 {
		deps.Concurrency = 4
	}
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Ctx:  ctx,
		deps: deps,
		log:  deps.Log,
		now:  time.Now,
	}
}

// Register schedules the scan pass on spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started", zap.Int("instruments", len(s.deps.Instruments)))
}

// Stop stops the cron scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) tick() {
	now := s.now()
	if !s.deps.Window.Allows(now) {
		s.deps.Metrics.SkippedTicks.Inc()
		s.log.Info("outside scan window, skipping", zap.Time("tick", now))
		return
	}
	s.RunPass("cron")
}

// Last returns the most recent finished pass, or nil.
func (s *Scheduler) Last() *model.PassReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// RunPass evaluates every instrument once, then alerts, records and exports the
// results. It returns nil when another pass is still running.
func (s *Scheduler) RunPass(trigger string) *model.PassReport {
	if !s.running.TryLock() {
		s.log.Warn("previous pass still running, skipping", zap.String("trigger", trigger))
		return nil
	}
	defer s.running.Unlock()

	report := &model.PassReport{
		RunID:   uuid.NewString(),
		Trigger: trigger,
		Started: s.now(),
		Items:   make([]model.Evaluated, len(s.deps.Instruments)),
	}
	log := s.log.With(zap.String("run_id", report.RunID), zap.String("trigger", trigger))
	log.Info("scan pass started", zap.Int("instruments", len(report.Items)))

	var g errgroup.Group
	g.SetLimit(s.deps.Concurrency)
	for i, inst := range s.deps.Instruments {
		i, inst := i, inst
		g.Go(func() error {
			report.Items[i] = s.evaluate(inst, log)
			return nil
		})
	}
	_ = g.Wait()
	report.Finished = s.now()

	s.alert(report, log)
	if err := s.deps.Recorder.RecordPass(report); err != nil {
		log.Error("record pass", zap.Error(err))
	}
	if s.deps.Exporter != nil {
		if err := s.deps.Exporter.Export(report); err != nil {
			log.Error("export pass", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()
	s.deps.Metrics.PassDone(trigger, report.Started)
	log.Info("scan pass finished",
		zap.Int("signals", report.Count(model.Signal)),
		zap.Int("errors", report.Count(model.DataError)),
		zap.Duration("took", report.Finished.Sub(report.Started)))
	return report
}

func (s *Scheduler) evaluate(inst model.Instrument, log *zap.Logger) model.Evaluated {
	log = log.With(zap.String("symbol", inst.Pair), zap.String("timeframe", inst.Timeframe))
	it := model.Evaluated{Instrument: inst}

	start := time.Now()
	series, err := s.deps.Collector.Collect(s.Ctx, inst)
	s.deps.Metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if series == nil {
		s.deps.Metrics.FetchErrors.WithLabelValues(inst.Pair).Inc()
		log.Error("fetch candles", zap.Error(err))
		it.Outcome = model.Outcome{Kind: model.DataError, Err: err}
		s.deps.Metrics.ObserveOutcome(inst, it.Outcome)
		return it
	}
	it.Series = series

	it.Outcome = strategy.Evaluate(series, s.deps.Params)
	for _, d := range it.Outcome.Diagnostics {
		log.Warn("evaluator fault", zap.String("detail", d))
	}
	s.deps.Metrics.ObserveOutcome(inst, it.Outcome)

	fields := []zap.Field{zap.String("outcome", it.Outcome.Label())}
	if r := it.Outcome.Result; r != nil {
		fields = append(fields,
			zap.String("trigger", model.FormatPrice(r.Trigger, s.deps.Params.TriggerPrecision)),
			zap.String("origin", r.Origin),
			zap.Strings("trail", r.Trail))
	}
	if it.Outcome.Err != nil {
		fields = append(fields, zap.Error(it.Outcome.Err))
	}
	log.Info("instrument evaluated", fields...)
	return it
}

// alert sends one message per armed or fired setup.
func (s *Scheduler) alert(r *model.PassReport, log *zap.Logger) {
	for _, it := range r.Signals() {
		text := notifier.FormatAlert(it, s.deps.Params.TriggerPrecision)
		if err := notifier.SendWithRetry(s.Ctx, s.deps.Notifier, text, 3, log); err != nil {
			s.deps.Metrics.NotifyErrors.Inc()
			log.Error("send alert", zap.String("symbol", it.Instrument.Pair), zap.Error(err))
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		r := s.RunPass("command")
		if r == nil {
			return "A scan is already running."
		}
		return notifier.FormatStatus(r, s.deps.Params.TriggerPrecision)
	case "/status":
		if r := s.Last(); r != nil {
			return notifier.FormatStatus(r, s.deps.Params.TriggerPrecision)
		}
		return s.storedStatus()
	default:
		return "Available commands:\n/scan - run a scan now\n/status - last scan results"
	}
}

// storedStatus summarises the recorder's latest rows, used after a restart
// before the first pass.
func (s *Scheduler) storedStatus() string {
	rows, err := s.deps.Recorder.LatestSetups()
	if err != nil {
		s.log.Error("read latest setups", zap.Error(err))
	}
	if len(rows) == 0 {
		return notifier.FormatStatus(nil, s.deps.Params.TriggerPrecision)
	}
	var b strings.Builder
	b.WriteString("📋 Stored results\n")
	for _, r := range rows {
		line := r.Label
		if r.Trigger != "" {
			line += " (trigger: " + r.Trigger + ")"
		}
		b.WriteString(fmt.Sprintf("\n%s: %s (%s)", r.Instrument, line, r.UpdatedAt.Format("02/01/2006 15:04:05")))
	}
	return b.String()
}
