package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"SetupScanner/internal/model"
)

// BybitFetcher implements Fetcher using the Bybit v5 public market API.
type BybitFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBybitFetcher creates a new fetcher with optional proxy support.
func NewBybitFetcher(baseURL, proxyURL string) *BybitFetcher {
	return &BybitFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *BybitFetcher) Name() string { return "bybit" }

// klineResponse is the envelope of GET /v5/market/kline. Each row of List is
// [startMs, open, high, low, close, volume, turnover], newest first.
type klineResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category string     `json:"category"`
		Symbol   string     `json:"symbol"`
		List     [][]string `json:"list"`
	} `json:"result"`
}

func (f *BybitFetcher) FetchCandles(ctx context.Context, inst model.Instrument, limit int) ([]model.OHLCV, error) {
	q := url.Values{}
	q.Set("category", inst.Market)
	q.Set("symbol", inst.Pair)
	q.Set("interval", inst.Timeframe)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := f.BaseURL + "/v5/market/kline?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read klines: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch klines: status %d, body: %s", resp.StatusCode, string(body))
	}

	var kr klineResponse
	if err := sonic.Unmarshal(body, &kr); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	if kr.RetCode != 0 {
		return nil, fmt.Errorf("bybit %s: retCode %d: %s", inst.Pair, kr.RetCode, kr.RetMsg)
	}
	return parseKlines(kr.Result.List)
}

// parseKlines converts Bybit rows into chronological bars. Any unparsable field
// fails the whole series.
func parseKlines(rows [][]string) ([]model.OHLCV, error) {
	bars := make([]model.OHLCV, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("%w: row %d has %d fields", model.ErrDataQuality, i, len(row))
		}
		ms, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: start time %q", model.ErrDataQuality, i, row[0])
		}
		var v [5]float64
		for j := range v {
			v[j], err = strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: field %d %q", model.ErrDataQuality, i, j+1, row[j+1])
			}
		}
		bars = append(bars, model.OHLCV{
			Time:   time.UnixMilli(ms).UTC(),
			Open:   v[0],
			High:   v[1],
			Low:    v[2],
			Close:  v[3],
			Volume: v[4],
		})
	}
	// Ensure chronological order
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
