package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"SetupScanner/internal/model"
)

func TestObserveOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())
	inst := model.Instrument{Pair: "ETHUSDT", Timeframe: "15", Market: "linear"}

	m.ObserveOutcome(inst, model.Outcome{Kind: model.NoSignal, Diagnostics: []string{"setup 9.2: boom"}})
	m.ObserveOutcome(inst, model.Outcome{Kind: model.Signal, Result: &model.SetupResult{
		Setup: model.Setup93, Direction: model.Sell, State: model.Fired,
	}})
	m.ObserveOutcome(inst, model.Outcome{Kind: model.DataError, Err: errors.New("bad bar")})

	if got := testutil.ToFloat64(m.OutcomesTotal.WithLabelValues("NO_SIGNAL")); got != 1 {
		t.Errorf("expected 1 no-signal outcome, got %v", got)
	}
	if got := testutil.ToFloat64(m.SignalsTotal.WithLabelValues("9.3", "SELL", "FIRED")); got != 1 {
		t.Errorf("expected 1 fired 9.3 sell, got %v", got)
	}
	if got := testutil.ToFloat64(m.EvalFaults.WithLabelValues(inst.String())); got != 1 {
		t.Errorf("expected 1 evaluator fault, got %v", got)
	}
}

func TestPassDone(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.PassDone("cron", time.Now().Add(-time.Second))
	if got := testutil.ToFloat64(m.PassesTotal.WithLabelValues("cron")); got != 1 {
		t.Errorf("expected 1 pass, got %v", got)
	}
	if testutil.ToFloat64(m.LastPassTime) == 0 {
		t.Error("expected last pass time to be set")
	}
}
