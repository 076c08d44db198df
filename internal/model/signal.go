package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetupID names one of the detected patterns.
type SetupID string

const (
	Setup91 SetupID = "9.1"
	Setup92 SetupID = "9.2"
	Setup93 SetupID = "9.3"
	Setup94 SetupID = "9.4"
	SetupPC SetupID = "PC"
)

// Direction is the side of a signal.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// State is the lifecycle stage of a signal.
type State string

const (
	Armed State = "ARMED"
	Fired State = "FIRED"
)

// PriceField is the bar column a trigger is taken from and compared against.
type PriceField string

const (
	FieldHigh PriceField = "high"
	FieldLow  PriceField = "low"
)

// Of returns the field's value on bar c.
func (f PriceField) Of(c OHLCV) float64 {
	if f == FieldLow {
		return c.Low
	}
	return c.High
}

// Breakout describes when the forming bar fires an armed trigger.
type Breakout struct {
	// Inclusive accepts touching the trigger (>= for buy, <= for sell).
	Inclusive bool
	// RequireDownForming additionally requires the forming bar to be a down bar.
	RequireDownForming bool
}

// SetupResult is one detected setup for one instrument.
type SetupResult struct {
	Setup     SetupID
	Direction Direction
	State     State
	Trigger   float64
	Source    PriceField
	Breakout  Breakout
	// Origin tags the branch that produced the result, e.g. "BUY-SLIP-ARM-i-3".
	Origin string
	// Trail lists the checks passed on the way to the result.
	Trail []string
}

// Crossed reports whether the forming bar breaks the trigger under the result's breakout rule.
func (r *SetupResult) Crossed(forming OHLCV) bool {
	price := r.Source.Of(forming)
	var crossed bool
	switch r.Direction {
	case Buy:
		crossed = price > r.Trigger || (r.Breakout.Inclusive && price == r.Trigger)
	case Sell:
		crossed = price < r.Trigger || (r.Breakout.Inclusive && price == r.Trigger)
	}
	if crossed && r.Breakout.RequireDownForming {
		crossed = forming.IsDown()
	}
	return crossed
}

// FormatPrice renders p with exactly precision decimals, rounding half away from zero.
func FormatPrice(p float64, precision int) string {
	return decimal.NewFromFloat(p).StringFixed(int32(precision))
}

// OutcomeKind tags the result of evaluating one instrument.
type OutcomeKind int

const (
	NoSignal OutcomeKind = iota
	InsufficientData
	DataError
	Signal
)

func (k OutcomeKind) String() string {
	switch k {
	case NoSignal:
		return "NO_SIGNAL"
	case InsufficientData:
		return "INSUFFICIENT_DATA"
	case DataError:
		return "DATA_ERROR"
	case Signal:
		return "SIGNAL"
	}
	return "UNKNOWN"
}

// Outcome is the per-instrument output of one evaluation pass.
type Outcome struct {
	Kind OutcomeKind
	// Result is set only when Kind == Signal.
	Result *SetupResult
	// Err is set when Kind is DataError or InsufficientData.
	Err error
	// LastClosed is the open time of the most recent closed bar, zero if unknown.
	LastClosed time.Time
	// Diagnostics lists evaluator faults that were skipped over.
	Diagnostics []string
}

// Label is the short status used in alerts and exports, e.g. "FIRED BUY 9.1".
func (o *Outcome) Label() string {
	switch o.Kind {
	case Signal:
		return string(o.Result.State) + " " + string(o.Result.Direction) + " " + string(o.Result.Setup)
	case InsufficientData:
		return "NO DATA"
	case DataError:
		return "DATA ERROR"
	}
	return "NONE"
}
