package strategy

import (
	"fmt"

	"SetupScanner/internal/model"
)

// setup94 is the S-curve: within a smoothed trend the fast average dips (peaks) two
// bars back and resumes, while [-1] holds above [-2]'s low (below [-2]'s high).
// Touching the trigger fires.
func setup94(e *evaluation) (*model.SetupResult, error) {
	if err := e.require(3); err != nil {
		return nil, err
	}
	b := model.Breakout{Inclusive: true}
	f3, f2, f1 := e.fast(3), e.fast(2), e.fast(1)

	if e.smoothed(e.ind.Fast, trendFor(model.Buy)) && f3 > f2 && f2 < f1 && e.bar(1).Low > e.bar(2).Low {
		return e.signal(model.Setup94, model.Buy, b, 0, []string{
			"fast smoothed up",
			fmt.Sprintf("fast dip %.7f > %.7f < %.7f", f3, f2, f1),
			"[-1] held [-2] low",
		}), nil
	}

	if e.smoothed(e.ind.Fast, trendFor(model.Sell)) && f3 < f2 && f2 > f1 && e.bar(1).High < e.bar(2).High {
		return e.signal(model.Setup94, model.Sell, b, 0, []string{
			"fast smoothed down",
			fmt.Sprintf("fast peak %.7f < %.7f > %.7f", f3, f2, f1),
			"[-1] held [-2] high",
		}), nil
	}
	return nil, nil
}
