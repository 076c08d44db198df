package strategy

import (
	"fmt"

	"SetupScanner/internal/model"
)

// setup93 is a with-trend bar followed by two bars closing back inside it. The scan
// walks older triples while highs (lows) keep stepping towards the present.
func setup93(e *evaluation) (*model.SetupResult, error) {
	if err := e.require(3); err != nil {
		return nil, err
	}
	for _, dir := range []model.Direction{model.Buy, model.Sell} {
		if !e.smoothed(e.ind.Fast, trendFor(dir)) {
			continue
		}
		trail := []string{fmt.Sprintf("fast smoothed %s", trendFor(dir))}
		if pullback93(dir, e.bar(3), e.bar(2), e.bar(1)) {
			return e.signal(model.Setup93, dir, model.Breakout{}, 0,
				append(trail, "[-2] and [-1] closed inside [-3]")), nil
		}
		if !stepping(dir, e.bar(2), e.bar(3)) || !stepping(dir, e.bar(1), e.bar(2)) {
			continue
		}
		off, v := scanBack(-3, e.params.SlippageDepth, func(off int) scanVerdict {
			back := -off
			if !e.has(back) {
				return scanStop
			}
			cur, next, next2 := e.bar(back), e.bar(back-1), e.bar(back-2)
			if pullback93(dir, cur, next, next2) {
				return scanMatch
			}
			if !stepping(dir, next, cur) || !stepping(dir, next2, next) {
				return scanStop
			}
			return scanNext
		})
		if v == scanMatch {
			return e.signal(model.Setup93, dir, model.Breakout{}, off,
				append(trail, fmt.Sprintf("slipped to [%d]", off))), nil
		}
	}
	return nil, nil
}

// pullback93 reports whether anchor is a with-trend bar and both following bars
// closed back past its close.
func pullback93(dir model.Direction, anchor, next, next2 model.OHLCV) bool {
	if dir == model.Buy {
		return anchor.IsUp() && next.Close < anchor.Close && next2.Close < anchor.Close
	}
	return anchor.IsDown() && next.Close > anchor.Close && next2.Close > anchor.Close
}
