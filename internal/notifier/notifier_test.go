package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"SetupScanner/internal/model"
)

type flakyNotifier struct {
	failures int
	calls    int
	sent     []string
}

func (f *flakyNotifier) Name() string { return "flaky" }

func (f *flakyNotifier) Send(text string) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("429 too many requests")
	}
	f.sent = append(f.sent, text)
	return nil
}

func TestSendWithRetry(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	defer func() { retryBase = old }()

	n := &flakyNotifier{failures: 2}
	if err := SendWithRetry(context.Background(), n, "hello", 3, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.calls != 3 || len(n.sent) != 1 {
		t.Errorf("expected 3 calls and 1 delivery, got %d and %d", n.calls, len(n.sent))
	}

	n = &flakyNotifier{failures: 10}
	err := SendWithRetry(context.Background(), n, "hello", 2, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "all 3 retries exhausted") {
		t.Errorf("expected exhausted error, got %v", err)
	}
}

func TestSendWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SendWithRetry(ctx, &flakyNotifier{failures: 1}, "hello", 3, zap.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func signalled() model.Evaluated {
	t0 := time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC)
	inst := model.Instrument{Pair: "BTCUSDT", Timeframe: "60", Market: "linear"}
	return model.Evaluated{
		Instrument: inst,
		Series: &model.CandleSeries{Instrument: inst, Bars: []model.OHLCV{
			{Time: t0, Open: 97, High: 100, Low: 96.8, Close: 99.5},
			{Time: t0.Add(time.Hour), Open: 99.5, High: 100.5, Low: 99.2, Close: 100.2},
		}},
		Outcome: model.Outcome{Kind: model.Signal, LastClosed: t0, Result: &model.SetupResult{
			Setup: model.Setup91, Direction: model.Buy, State: model.Fired, Trigger: 100,
		}},
	}
}

func TestFormatAlert(t *testing.T) {
	got := FormatAlert(signalled(), 7)
	want := "🚨 BTCUSDT | FIRED BUY 9.1 (trigger: 100.0000000 | h: 100.5000000 | l: 99.2000000) (01/03/2024 04:00:00)"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}

	none := signalled()
	none.Outcome = model.Outcome{Kind: model.NoSignal, LastClosed: none.Outcome.LastClosed}
	if got := FormatAlert(none, 7); got != "" {
		t.Errorf("no-signal outcomes are not alerted, got %q", got)
	}
	if got := FormatResult(none, 7); got != "NONE (01/03/2024 04:00:00)" {
		t.Errorf("unexpected no-signal line %q", got)
	}
}

func TestFormatStatus(t *testing.T) {
	if got := FormatStatus(nil, 7); !strings.Contains(got, "No scan") {
		t.Errorf("unexpected empty status %q", got)
	}
	start := time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)
	failed := model.Evaluated{
		Instrument: model.Instrument{Pair: "XRPUSDT", Timeframe: "60", Market: "linear"},
		Outcome:    model.Outcome{Kind: model.DataError, Err: errors.New("timeout")},
	}
	r := &model.PassReport{
		RunID: "0f8fad5b-d9cb-469f-a165-70867728950e", Trigger: "command",
		Started: start, Finished: start.Add(1500 * time.Millisecond),
		Items: []model.Evaluated{signalled(), failed},
	}
	got := FormatStatus(r, 7)
	for _, want := range []string{
		"Scan 0f8fad5b (command)",
		"signals: 1",
		"errors: 1",
		"BTCUSDT (60 - linear): FIRED BUY 9.1",
		"XRPUSDT (60 - linear): DATA ERROR: timeout",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("status missing %q:\n%s", want, got)
		}
	}
}
