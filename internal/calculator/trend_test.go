package calculator

import (
	"math"
	"testing"
)

func TestSequentialTrend(t *testing.T) {
	points := []float64{10, 9, 8, 7, 6, 5, 6}
	tests := []struct {
		lookback int
		trend    Trend
		want     bool
	}{
		{5, Down, true},
		{6, Down, true},
		{6, Up, false},
		{7, Down, false},
		{1, Down, false},
	}
	for _, tt := range tests {
		if got := SequentialTrend(points, tt.trend, tt.lookback); got != tt.want {
			t.Errorf("lookback %d %s: expected %v, got %v", tt.lookback, tt.trend, tt.want, got)
		}
	}
}

func TestSequentialTrend_NaNFailsClosed(t *testing.T) {
	points := []float64{10, 9, math.NaN(), 7, 6, 5, 6}
	if SequentialTrend(points, Down, 5) || SequentialTrend(points, Up, 5) {
		t.Error("NaN inside the lookback must fail both directions")
	}
}

func TestPredominantTrend(t *testing.T) {
	points := []float64{1, 5, 3, 2, 4}
	if !PredominantTrend(points, Down, 2) {
		t.Error("expected down: 5 then 2")
	}
	if PredominantTrend(points, Up, 2) {
		t.Error("did not expect up")
	}
	if PredominantTrend(points, Down, 4) {
		t.Error("expected false for a lookback longer than the series")
	}
}

func TestSmoothedTrend(t *testing.T) {
	zigzag := []float64{1, 3, 2, 4, 3, 5, 4, 6, 5, 7}
	if !SmoothedTrend(zigzag, Up, 2, 6) {
		t.Error("single-bar corrections should pass the smoothed check")
	}
	if SmoothedTrend(zigzag, Down, 2, 6) {
		t.Error("up and down cannot both hold")
	}
	if SequentialTrend(zigzag, Up, 6) {
		t.Error("the sequential check should reject the corrections")
	}
	if SmoothedTrend(zigzag[:8], Up, 2, 6) {
		t.Error("short series must fail closed")
	}

	broken := append([]float64(nil), zigzag...)
	broken[7] = 4
	if SmoothedTrend(broken, Up, 2, 6) {
		t.Error("a two-bar correction should break the trend")
	}
}

func TestSmoothedTrend_NaNFailsClosed(t *testing.T) {
	points := []float64{math.NaN(), math.NaN(), math.NaN(), 1, 2, 3, 4, 5, 6, 7}
	if SmoothedTrend(points, Up, 2, 6) {
		t.Error("NaN in the compared range must fail")
	}
	if !SmoothedTrend(points[1:], Up, 1, 6) {
		t.Error("NaN outside the compared range is ignored")
	}
}
