package strategy

import (
	"fmt"

	"SetupScanner/internal/calculator"
	"SetupScanner/internal/model"
)

// evaluation is the read-only view shared by all detectors for one instrument.
// Positions are counted back from the newest closed bar: back=1 is the last closed
// bar, back=2 the one before it.
type evaluation struct {
	closed  []model.OHLCV
	forming model.OHLCV
	ind     *calculator.Indicators
	params  Params
}

func (e *evaluation) has(back int) bool { return back >= 1 && back <= len(e.closed) }

func (e *evaluation) bar(back int) model.OHLCV { return e.closed[len(e.closed)-back] }

func (e *evaluation) fast(back int) float64 { return e.ind.Fast[len(e.ind.Fast)-back] }

func (e *evaluation) slow(back int) float64 { return e.ind.Slow[len(e.ind.Slow)-back] }

func (e *evaluation) require(back int) error {
	if !e.has(back) {
		return fmt.Errorf("need %d closed bars, have %d", back, len(e.closed))
	}
	return nil
}

func (e *evaluation) smoothed(points []float64, t calculator.Trend) bool {
	return calculator.SmoothedTrend(points, t, e.params.SmoothedStep, e.params.SmoothedWindow)
}

// signal builds an armed result whose trigger is the last closed bar's high (buy)
// or low (sell). slip is the scan offset that qualified the pattern, 0 for the
// direct case. The forming bar is left to promote.
func (e *evaluation) signal(setup model.SetupID, dir model.Direction, b model.Breakout, slip int, trail []string) *model.SetupResult {
	src := model.FieldHigh
	if dir == model.Sell {
		src = model.FieldLow
	}
	r := &model.SetupResult{
		Setup:     setup,
		Direction: dir,
		State:     model.Armed,
		Trigger:   src.Of(e.bar(1)),
		Source:    src,
		Breakout:  b,
		Trail:     trail,
	}
	r.Origin = origin(dir, slip)
	return r
}

// origin tags an armed result; promote rewrites ARM to FIRE.
func origin(dir model.Direction, slip int) string {
	if slip == 0 {
		return string(dir) + "-ARM"
	}
	return fmt.Sprintf("%s-SLIP-ARM-i%d", dir, slip)
}

// trendFor maps a signal direction onto the trend it continues.
func trendFor(dir model.Direction) calculator.Trend {
	if dir == model.Sell {
		return calculator.Down
	}
	return calculator.Up
}
