package strategy

import (
	"fmt"

	"SetupScanner/internal/model"
)

// setup92 is a close beyond the previous bar's extreme against the smoothed trend,
// where the previous bar went with the trend. When [-1] does not qualify, the scan
// looks for an older qualifying pair while the highs (lows) keep stepping down (up)
// towards the present.
func setup92(e *evaluation) (*model.SetupResult, error) {
	if err := e.require(2); err != nil {
		return nil, err
	}
	for _, dir := range []model.Direction{model.Buy, model.Sell} {
		if !e.smoothed(e.ind.Fast, trendFor(dir)) {
			continue
		}
		trail := []string{fmt.Sprintf("fast smoothed %s", trendFor(dir))}
		if engulf92(dir, e.bar(1), e.bar(2)) {
			return e.signal(model.Setup92, dir, model.Breakout{}, 0,
				append(trail, "[-1] closed beyond [-2]")), nil
		}
		if !stepping(dir, e.bar(1), e.bar(2)) {
			continue
		}
		off, v := scanBack(-2, e.params.SlippageDepth, func(off int) scanVerdict {
			back := -off
			if !e.has(back + 1) {
				return scanStop
			}
			cur, prev := e.bar(back), e.bar(back+1)
			if engulf92(dir, cur, prev) {
				return scanMatch
			}
			if !stepping(dir, cur, prev) {
				return scanStop
			}
			return scanNext
		})
		if v == scanMatch {
			return e.signal(model.Setup92, dir, model.Breakout{}, off,
				append(trail, fmt.Sprintf("slipped to [%d]", off))), nil
		}
	}
	return nil, nil
}

// engulf92 reports whether cur closed beyond prev's opposite extreme while prev was
// a with-trend bar.
func engulf92(dir model.Direction, cur, prev model.OHLCV) bool {
	if dir == model.Buy {
		return cur.Close < prev.Low && prev.IsUp()
	}
	return cur.Close > prev.High && prev.IsDown()
}

// stepping reports whether newer keeps the descending highs (buy) or ascending
// lows (sell) relative to older.
func stepping(dir model.Direction, newer, older model.OHLCV) bool {
	if dir == model.Buy {
		return newer.High < older.High
	}
	return newer.Low > older.Low
}
