package calculator

import "SetupScanner/internal/model"

// Indicators holds the averages derived from the closed bars of one series.
// Each slice is aligned 1:1 with the closed bars it was computed from.
type Indicators struct {
	Fast     []float64
	Slow     []float64
	VolumeMA []float64
}

// Derive computes the fast EMA and slow SMA of closes, plus a volume SMA over the
// slow window. Callers pass closed bars only; the forming bar never feeds a trend.
func Derive(closed []model.OHLCV, fastSpan, slowWindow int) *Indicators {
	closes := extractCloses(closed)
	return &Indicators{
		Fast:     EMASeries(closes, fastSpan),
		Slow:     SMASeries(closes, slowWindow),
		VolumeMA: SMASeries(extractVolumes(closed), slowWindow),
	}
}
