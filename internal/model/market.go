package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrDataQuality marks bars that cannot be evaluated (non-numeric, negative, out of order).
	ErrDataQuality = errors.New("data quality")
	// ErrInsufficientData marks series shorter than the configured minimum.
	ErrInsufficientData = errors.New("insufficient data")
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// IsUp reports whether the bar closed above its open.
func (c OHLCV) IsUp() bool { return c.Open < c.Close }

// IsDown reports whether the bar closed below its open.
func (c OHLCV) IsDown() bool { return c.Open > c.Close }

// Instrument identifies one traded pair on one timeframe.
type Instrument struct {
	Pair      string `yaml:"pair"`
	Timeframe string `yaml:"timeframe"`
	Market    string `yaml:"market"`
}

func (i Instrument) String() string {
	return fmt.Sprintf("%s (%s - %s)", i.Pair, i.Timeframe, i.Market)
}

// CandleSeries is the chronological bar history of one instrument for one pass.
// The last bar is still forming.
type CandleSeries struct {
	Instrument Instrument
	Bars       []OHLCV
}

// Len returns the number of bars including the forming one.
func (s *CandleSeries) Len() int { return len(s.Bars) }

// Closed returns every bar except the forming one.
func (s *CandleSeries) Closed() []OHLCV {
	if len(s.Bars) == 0 {
		return nil
	}
	return s.Bars[:len(s.Bars)-1]
}

// Forming returns the newest, not yet closed bar.
func (s *CandleSeries) Forming() OHLCV {
	if len(s.Bars) == 0 {
		return OHLCV{}
	}
	return s.Bars[len(s.Bars)-1]
}

// LastClosed returns the most recent closed bar.
func (s *CandleSeries) LastClosed() OHLCV {
	if len(s.Bars) < 2 {
		return OHLCV{}
	}
	return s.Bars[len(s.Bars)-2]
}

// Validate checks ordering and numeric sanity of every bar.
func (s *CandleSeries) Validate() error {
	for i, b := range s.Bars {
		for _, f := range []struct {
			name string
			v    float64
		}{{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}, {"volume", b.Volume}} {
			if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
				return fmt.Errorf("%w: bar %d: %s is not a number", ErrDataQuality, i, f.name)
			}
			if f.v < 0 {
				return fmt.Errorf("%w: bar %d: negative %s %v", ErrDataQuality, i, f.name, f.v)
			}
		}
		if i > 0 && !b.Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("%w: bar %d: timestamp %s not after %s",
				ErrDataQuality, i, b.Time.Format(time.RFC3339), s.Bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}
