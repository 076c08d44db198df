package collector

import (
	"context"
	"fmt"
	"time"

	"SetupScanner/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	// Bars, when set, is returned for every instrument.
	Bars []model.OHLCV
	// Errs fails the listed pairs.
	Errs map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, inst model.Instrument, limit int) ([]model.OHLCV, error) {
	if err := m.Errs[inst.Pair]; err != nil {
		return nil, err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, limit), nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	start := time.Now().Truncate(time.Minute).Add(-time.Duration(count) * time.Minute)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector turns fetched bars into validated candle series.
type Collector struct {
	Fetcher Fetcher
	Limit   int
}

// NewCollector creates a new Collector. limit is the number of bars requested
// per instrument, forming bar included.
func NewCollector(fetcher Fetcher, limit int) *Collector {
	return &Collector{Fetcher: fetcher, Limit: limit}
}

// Collect fetches one instrument's bars. A series that fails validation is still
// returned along with an error wrapping model.ErrDataQuality, so callers can
// report it as a data error.
func (c *Collector) Collect(ctx context.Context, inst model.Instrument) (*model.CandleSeries, error) {
	bars, err := c.Fetcher.FetchCandles(ctx, inst, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", inst, err)
	}
	series := &model.CandleSeries{Instrument: inst, Bars: bars}
	if err := series.Validate(); err != nil {
		return series, fmt.Errorf("validate %s: %w", inst, err)
	}
	return series, nil
}
