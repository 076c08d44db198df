package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"SetupScanner/internal/model"
)

func testSeries(inst model.Instrument, n int) *model.CandleSeries {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.OHLCV{Time: t0.Add(time.Duration(i) * time.Hour), Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 5}
	}
	return &model.CandleSeries{Instrument: inst, Bars: bars}
}

func openTest(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"),
		Options{Precision: 7, IntegrityBars: 10, FastSpan: 9, SlowWindow: 21}, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordPass(t *testing.T) {
	r := openTest(t)
	btc := model.Instrument{Pair: "BTCUSDT", Timeframe: "60", Market: "linear"}
	eth := model.Instrument{Pair: "ETHUSDT", Timeframe: "60", Market: "linear"}
	btcSeries := testSeries(btc, 40)

	first := &model.PassReport{
		RunID: "run-1", Finished: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Items: []model.Evaluated{
			{Instrument: btc, Series: btcSeries, Outcome: model.Outcome{
				Kind:       model.Signal,
				LastClosed: btcSeries.LastClosed().Time,
				Result: &model.SetupResult{
					Setup: model.Setup92, Direction: model.Buy, State: model.Armed,
					Trigger: 138.5, Origin: "BUY-SLIP-ARM-i-3", Trail: []string{"fast smoothed up", "slipped to [-3]"},
				},
			}},
			{Instrument: eth, Outcome: model.Outcome{Kind: model.DataError, Err: errors.New("timeout")}},
		},
	}
	if err := r.RecordPass(first); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := r.LatestSetups()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	b := got[0]
	if b.Instrument != btc || b.Label != "ARMED BUY 9.2" || b.Trigger != "138.5000000" {
		t.Errorf("unexpected btc row %+v", b)
	}
	if b.Origin != "BUY-SLIP-ARM-i-3" || b.Trail != "fast smoothed up; slipped to [-3]" {
		t.Errorf("unexpected diagnostics %q %q", b.Origin, b.Trail)
	}
	if !b.LastClosed.Equal(btcSeries.LastClosed().Time) {
		t.Errorf("unexpected last closed %v", b.LastClosed)
	}
	if got[1].Kind != "DATA_ERROR" || got[1].Error != "timeout" || got[1].Setup != "" {
		t.Errorf("unexpected eth row %+v", got[1])
	}

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM candle_integrity WHERE pair='BTCUSDT'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Errorf("expected 10 integrity rows, got %d", n)
	}

	// a second pass replaces rather than appends
	second := &model.PassReport{
		RunID: "run-2", Finished: first.Finished.Add(time.Hour),
		Items: []model.Evaluated{{Instrument: btc, Series: btcSeries, Outcome: model.Outcome{Kind: model.NoSignal}}},
	}
	if err := r.RecordPass(second); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, _ = r.LatestSetups()
	if len(got) != 2 || got[0].RunID != "run-2" || got[0].Label != "NONE" || got[0].Trigger != "" {
		t.Errorf("expected btc row replaced, got %+v", got[0])
	}
	if got[1].RunID != "run-1" {
		t.Errorf("eth row should be untouched, got %+v", got[1])
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM candle_integrity WHERE pair='BTCUSDT'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Errorf("expected integrity rows replaced, got %d", n)
	}
	var label string
	if err := r.db.QueryRow(`SELECT label FROM candle_integrity WHERE pair='BTCUSDT' AND idx=-1`).Scan(&label); err != nil {
		t.Fatal(err)
	}
	if label != "NONE" {
		t.Errorf("expected label on newest row, got %q", label)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordPass(&model.PassReport{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got, err := r.LatestSetups(); got != nil || err != nil {
		t.Errorf("unexpected %v, %v", got, err)
	}
}
