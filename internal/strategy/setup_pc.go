package strategy

import (
	"fmt"

	"SetupScanner/internal/model"
)

// setupPC is the continuation point: in a smoothed trend of the slow average, a
// counter-trend bar opens on the trend side of the average and touches it. The
// scan may find that bar further back; a bar whose high (low) breaks the stepping
// pattern ends the setup entirely. Sell signals also need a down forming bar to fire.
func setupPC(e *evaluation) (*model.SetupResult, error) {
	if err := e.require(2); err != nil {
		return nil, err
	}
	for _, dir := range []model.Direction{model.Buy, model.Sell} {
		if !e.smoothed(e.ind.Slow, trendFor(dir)) {
			continue
		}
		b := model.Breakout{RequireDownForming: dir == model.Sell}
		trail := []string{fmt.Sprintf("slow smoothed %s", trendFor(dir))}
		if touchPC(dir, e.bar(1), e.slow(1)) {
			return e.signal(model.SetupPC, dir, b, 0,
				append(trail, fmt.Sprintf("[-1] touched slow %.7f", e.slow(1)))), nil
		}
		if !stepping(dir, e.bar(1), e.bar(2)) {
			continue
		}
		off, v := scanBack(-2, e.params.SlippageDepth, func(off int) scanVerdict {
			back := -off
			if !e.has(back + 1) {
				return scanStop
			}
			cur := e.bar(back)
			if touchPC(dir, cur, e.slow(back)) {
				return scanMatch
			}
			if breaksPC(dir, cur, e.bar(back+1)) {
				return scanAbort
			}
			return scanNext
		})
		switch v {
		case scanMatch:
			return e.signal(model.SetupPC, dir, b, off,
				append(trail, fmt.Sprintf("slipped to [%d]", off))), nil
		case scanAbort:
			return nil, nil
		}
	}
	return nil, nil
}

// touchPC reports whether c is a counter-trend bar that opened on the trend side of
// avg and reached it.
func touchPC(dir model.Direction, c model.OHLCV, avg float64) bool {
	if dir == model.Buy {
		return c.IsDown() && c.Open > avg && c.Low <= avg
	}
	return c.IsUp() && c.Open < avg && c.High >= avg
}

// breaksPC reports whether older sits beyond cur against the stepping pattern:
// a lower high for buys, a higher low for sells.
func breaksPC(dir model.Direction, cur, older model.OHLCV) bool {
	if dir == model.Buy {
		return older.High < cur.High
	}
	return older.Low > cur.Low
}
