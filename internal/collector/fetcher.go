package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"SetupScanner/internal/model"
)

// Fetcher defines the interface for fetching candles. Implementations return bars
// in chronological order with the still-forming bar last.
type Fetcher interface {
	FetchCandles(ctx context.Context, inst model.Instrument, limit int) ([]model.OHLCV, error)
	Name() string
}

// newHTTPClient returns a client with a 30s timeout that routes through proxyURL when set.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
