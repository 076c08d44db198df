package strategy

import "fmt"

// Params holds every tunable the detectors read. A zero field is filled from
// DefaultParams by ApplyDefaults.
type Params struct {
	FastSpan            int `yaml:"fast_span"`
	SlowWindow          int `yaml:"slow_window"`
	SequentialLookback  int `yaml:"sequential_lookback"`
	PredominantLookback int `yaml:"predominant_lookback"`
	SmoothedWindow      int `yaml:"smoothed_window"`
	SmoothedStep        int `yaml:"smoothed_step"`
	SlippageDepth       int `yaml:"slippage_depth"`
	MinCandles          int `yaml:"min_candles"`
	TriggerPrecision    int `yaml:"trigger_precision"`
}

// DefaultParams returns the classic settings: EMA 9, SMA 21, 10-bar sequence,
// 6-bar smoothed window with step 2, 5-bar slippage and 30 bars minimum.
func DefaultParams() Params {
	return Params{
		FastSpan:            9,
		SlowWindow:          21,
		SequentialLookback:  10,
		PredominantLookback: 10,
		SmoothedWindow:      6,
		SmoothedStep:        2,
		SlippageDepth:       5,
		MinCandles:          30,
		TriggerPrecision:    7,
	}
}

// ApplyDefaults fills zero fields.
func (p *Params) ApplyDefaults() {
	d := DefaultParams()
	fill := func(v *int, def int) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&p.FastSpan, d.FastSpan)
	fill(&p.SlowWindow, d.SlowWindow)
	fill(&p.SequentialLookback, d.SequentialLookback)
	fill(&p.PredominantLookback, d.PredominantLookback)
	fill(&p.SmoothedWindow, d.SmoothedWindow)
	fill(&p.SmoothedStep, d.SmoothedStep)
	fill(&p.SlippageDepth, d.SlippageDepth)
	fill(&p.MinCandles, d.MinCandles)
	fill(&p.TriggerPrecision, d.TriggerPrecision)
}

// Validate rejects settings the detectors cannot work with.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"fast_span", p.FastSpan},
		{"slow_window", p.SlowWindow},
		{"sequential_lookback", p.SequentialLookback},
		{"predominant_lookback", p.PredominantLookback},
		{"smoothed_window", p.SmoothedWindow},
		{"smoothed_step", p.SmoothedStep},
		{"slippage_depth", p.SlippageDepth},
		{"trigger_precision", p.TriggerPrecision},
	} {
		if f.v <= 0 {
			return fmt.Errorf("strategy.%s must be positive", f.name)
		}
	}
	// three closed bars plus the forming one
	if p.MinCandles < 4 {
		return fmt.Errorf("strategy.min_candles must be at least 4, got %d", p.MinCandles)
	}
	return nil
}
