package strategy

import (
	"fmt"

	"SetupScanner/internal/calculator"
	"SetupScanner/internal/model"
)

// setup91 is the strict reversal: the fast average falls (rises) bar after bar over
// the sequential lookback and then turns on the last closed bar.
func setup91(e *evaluation) (*model.SetupResult, error) {
	if err := e.require(2); err != nil {
		return nil, err
	}
	lookback := e.params.SequentialLookback

	if calculator.SequentialTrend(e.ind.Fast, calculator.Down, lookback) && e.fast(2) < e.fast(1) {
		return e.signal(model.Setup91, model.Buy, model.Breakout{}, 0, []string{
			fmt.Sprintf("fast falling for %d bars", lookback),
			"fast turned up on [-1]",
		}), nil
	}

	if calculator.SequentialTrend(e.ind.Fast, calculator.Up, lookback) && e.fast(2) > e.fast(1) {
		return e.signal(model.Setup91, model.Sell, model.Breakout{}, 0, []string{
			fmt.Sprintf("fast rising for %d bars", lookback),
			"fast turned down on [-1]",
		}), nil
	}
	return nil, nil
}
