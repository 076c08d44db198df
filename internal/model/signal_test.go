package model

import (
	"errors"
	"testing"
	"time"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		prec int
		want string
	}{
		{0.00012345, 7, "0.0001235"},
		{100, 7, "100.0000000"},
		{64250.5, 2, "64250.50"},
		{1.23456789, 7, "1.2345679"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in, tt.prec); got != tt.want {
			t.Errorf("FormatPrice(%v, %d) = %q, want %q", tt.in, tt.prec, got, tt.want)
		}
	}
}

func TestCrossed(t *testing.T) {
	forming := OHLCV{Open: 10, High: 11, Low: 9, Close: 10.5}
	tests := []struct {
		name string
		r    SetupResult
		want bool
	}{
		{"buy above", SetupResult{Direction: Buy, Source: FieldHigh, Trigger: 10.9}, true},
		{"buy equal strict", SetupResult{Direction: Buy, Source: FieldHigh, Trigger: 11}, false},
		{"buy equal inclusive", SetupResult{Direction: Buy, Source: FieldHigh, Trigger: 11, Breakout: Breakout{Inclusive: true}}, true},
		{"sell below", SetupResult{Direction: Sell, Source: FieldLow, Trigger: 9.1}, true},
		{"sell equal strict", SetupResult{Direction: Sell, Source: FieldLow, Trigger: 9}, false},
		{"sell equal inclusive", SetupResult{Direction: Sell, Source: FieldLow, Trigger: 9, Breakout: Breakout{Inclusive: true}}, true},
		{"sell needs down bar", SetupResult{Direction: Sell, Source: FieldLow, Trigger: 9.5, Breakout: Breakout{RequireDownForming: true}}, false},
	}
	for _, tt := range tests {
		if got := tt.r.Crossed(forming); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}

	down := OHLCV{Open: 10.5, High: 11, Low: 9, Close: 10}
	r := SetupResult{Direction: Sell, Source: FieldLow, Trigger: 9.5, Breakout: Breakout{RequireDownForming: true}}
	if !r.Crossed(down) {
		t.Error("down forming bar below trigger should cross")
	}
}

func TestCandleSeries_Validate(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &CandleSeries{Bars: []OHLCV{
		{Time: t0, Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: t0.Add(time.Hour), Open: 1.5, High: 2, Low: 1, Close: 1.2},
	}}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LastClosed() != s.Bars[0] || s.Forming() != s.Bars[1] || len(s.Closed()) != 1 {
		t.Error("closed/forming split is wrong")
	}

	s.Bars[1].Time = t0
	if err := s.Validate(); !errors.Is(err, ErrDataQuality) {
		t.Errorf("expected ErrDataQuality for duplicate time, got %v", err)
	}
}

func TestOutcomeLabel(t *testing.T) {
	o := Outcome{Kind: Signal, Result: &SetupResult{Setup: SetupPC, Direction: Sell, State: Fired}}
	if got := o.Label(); got != "FIRED SELL PC" {
		t.Errorf("unexpected label %q", got)
	}
	o = Outcome{Kind: DataError}
	if got := o.Label(); got != "DATA ERROR" {
		t.Errorf("unexpected label %q", got)
	}
}
