package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"SetupScanner/internal/model"
)

// Metrics holds the Prometheus collectors of the scanner.
type Metrics struct {
	PassesTotal   *prometheus.CounterVec // labels: trigger=cron|command|startup|once
	PassDuration  prometheus.Histogram
	SkippedTicks  prometheus.Counter
	OutcomesTotal *prometheus.CounterVec // labels: kind
	SignalsTotal  *prometheus.CounterVec // labels: setup, direction, state
	FetchErrors   *prometheus.CounterVec // labels: pair
	FetchDuration prometheus.Histogram
	EvalFaults    *prometheus.CounterVec // labels: instrument
	NotifyErrors  prometheus.Counter
	LastPassTime  prometheus.Gauge
}

// New registers the collectors on reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		PassesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "setupscanner_passes_total",
			Help: "Scan passes run, by what triggered them",
		}, []string{"trigger"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "setupscanner_pass_duration_seconds",
			Help:    "Wall time of one scan pass over every instrument",
			Buckets: prometheus.DefBuckets,
		}),
		SkippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "setupscanner_skipped_ticks_total",
			Help: "Cron ticks outside the configured time window",
		}),
		OutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "setupscanner_outcomes_total",
			Help: "Per-instrument evaluation outcomes",
		}, []string{"kind"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "setupscanner_signals_total",
			Help: "Detected setups",
		}, []string{"setup", "direction", "state"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "setupscanner_fetch_errors_total",
			Help: "Candle fetch failures",
		}, []string{"pair"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "setupscanner_fetch_duration_seconds",
			Help:    "Candle fetch latency per instrument",
			Buckets: prometheus.DefBuckets,
		}),
		EvalFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "setupscanner_evaluator_faults_total",
			Help: "Evaluator errors and recovered panics",
		}, []string{"instrument"}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "setupscanner_notify_errors_total",
			Help: "Alerts that failed after all retries",
		}),
		LastPassTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "setupscanner_last_pass_timestamp_seconds",
			Help: "Unix time of the last completed pass",
		}),
	}

	reg.MustRegister(
		m.PassesTotal,
		m.PassDuration,
		m.SkippedTicks,
		m.OutcomesTotal,
		m.SignalsTotal,
		m.FetchErrors,
		m.FetchDuration,
		m.EvalFaults,
		m.NotifyErrors,
		m.LastPassTime,
	)
	return m
}

// ObserveOutcome counts one instrument's outcome.
func (m *Metrics) ObserveOutcome(inst model.Instrument, o model.Outcome) {
	m.OutcomesTotal.WithLabelValues(o.Kind.String()).Inc()
	if len(o.Diagnostics) > 0 {
		m.EvalFaults.WithLabelValues(inst.String()).Add(float64(len(o.Diagnostics)))
	}
	if o.Kind == model.Signal {
		r := o.Result
		m.SignalsTotal.WithLabelValues(string(r.Setup), string(r.Direction), string(r.State)).Inc()
	}
}

// PassDone records a finished pass.
func (m *Metrics) PassDone(trigger string, started time.Time) {
	m.PassesTotal.WithLabelValues(trigger).Inc()
	m.PassDuration.Observe(time.Since(started).Seconds())
	m.LastPassTime.SetToCurrentTime()
}

// Server exposes /metrics over HTTP.
type Server struct {
	addr string
	srv  *http.Server
	log  *zap.Logger
}

// NewServer serves the collectors gathered by g on addr.
func NewServer(addr string, g prometheus.Gatherer, log *zap.Logger) *Server {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &Server{
		addr: addr,
		log:  log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info("metrics server listening", zap.String("addr", s.addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	_ = s.srv.Shutdown(ctx)
}
