package calculator

// Trend is the direction a moving average is tested for.
type Trend int

const (
	Up Trend = iota + 1
	Down
)

func (t Trend) String() string {
	if t == Down {
		return "down"
	}
	return "up"
}

// ordered reports whether newer continues older in direction t.
// NaN on either side is never ordered.
func ordered(older, newer float64, t Trend) bool {
	switch t {
	case Up:
		return older < newer
	case Down:
		return older > newer
	}
	return false
}

// SequentialTrend reports whether the lookback points ending one before the most
// recent point move strictly in direction t, pair by pair. The most recent point is
// left out so a caller can test it separately for a turn.
func SequentialTrend(points []float64, t Trend, lookback int) bool {
	n := len(points)
	if lookback < 2 || n < lookback+1 {
		return false
	}
	for i := n - lookback - 1; i < n-2; i++ {
		if !ordered(points[i], points[i+1], t) {
			return false
		}
	}
	return true
}

// PredominantTrend compares the point lookback+2 positions back with the point
// two positions back.
func PredominantTrend(points []float64, t Trend, lookback int) bool {
	n := len(points)
	if lookback < 1 || n < lookback+2 {
		return false
	}
	return ordered(points[n-lookback-2], points[n-2], t)
}

// SmoothedTrend compares each of the last window+step-1 points with the point
// step positions before it; all comparisons must hold in direction t. Alternating
// single-bar corrections pass where SequentialTrend would fail.
// Short series fail closed.
func SmoothedTrend(points []float64, t Trend, step, window int) bool {
	n := len(points)
	if step < 1 || window < 1 || n < window+step {
		return false
	}
	first := n - (window + step) + 1
	if first-step < 0 {
		return false
	}
	for i := first; i < n; i++ {
		if !ordered(points[i-step], points[i], t) {
			return false
		}
	}
	return true
}
