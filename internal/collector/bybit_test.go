package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"SetupScanner/internal/model"
)

const klineBody = `{"retCode":0,"retMsg":"OK","result":{"category":"linear","symbol":"BTCUSDT","list":[
["1700000120000","101","103","100.5","102.5","12","1200"],
["1700000060000","100","101.5","99","101","10","1000"],
["1700000000000","99","100.2","98.7","100","8","800"]]}}`

func TestBybitFetcher_FetchCandles(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/market/kline" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(klineBody))
	}))
	defer srv.Close()

	f := NewBybitFetcher(srv.URL+"/", "")
	inst := model.Instrument{Pair: "BTCUSDT", Timeframe: "1", Market: "linear"}
	bars, err := f.FetchCandles(context.Background(), inst, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "category=linear&interval=1&limit=50&symbol=BTCUSDT" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[0].Close != 100 || bars[2].Close != 102.5 {
		t.Errorf("bars not chronological: %+v", bars)
	}
	if bars[1].High != 101.5 || bars[1].Low != 99 || bars[1].Volume != 10 {
		t.Errorf("unexpected middle bar %+v", bars[1])
	}
	if bars[0].Time.UnixMilli() != 1700000000000 {
		t.Errorf("unexpected first time %v", bars[0].Time)
	}
}

func TestBybitFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		quality bool
	}{
		{"http status", http.StatusBadGateway, "upstream", false},
		{"ret code", http.StatusOK, `{"retCode":10001,"retMsg":"params error","result":{}}`, false},
		{"bad json", http.StatusOK, `{"retCode":`, false},
		{"non numeric", http.StatusOK, `{"retCode":0,"result":{"list":[["1700000000000","x","1","1","1","1","1"]]}}`, true},
		{"short row", http.StatusOK, `{"retCode":0,"result":{"list":[["1700000000000","1","1"]]}}`, true},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(tt.body))
		}))
		_, err := NewBybitFetcher(srv.URL, "").FetchCandles(context.Background(),
			model.Instrument{Pair: "ETHUSDT", Timeframe: "5", Market: "spot"}, 50)
		srv.Close()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if got := errors.Is(err, model.ErrDataQuality); got != tt.quality {
			t.Errorf("%s: ErrDataQuality = %v, want %v (%v)", tt.name, got, tt.quality, err)
		}
	}
}

func TestCollector_Collect(t *testing.T) {
	inst := model.Instrument{Pair: "SOLUSDT", Timeframe: "60", Market: "linear"}

	c := NewCollector(&MockFetcher{Price: 150}, 40)
	s, err := c.Collect(context.Background(), inst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 40 || s.Instrument != inst {
		t.Errorf("unexpected series: %d bars for %s", s.Len(), s.Instrument)
	}

	bad := generateMockBars(150, 5)
	bad[3].Close = -1
	s, err = NewCollector(&MockFetcher{Bars: bad}, 5).Collect(context.Background(), inst)
	if !errors.Is(err, model.ErrDataQuality) {
		t.Fatalf("expected ErrDataQuality, got %v", err)
	}
	if s == nil {
		t.Error("series should be returned alongside a validation error")
	}

	boom := errors.New("connection reset")
	_, err = NewCollector(&MockFetcher{Errs: map[string]error{"SOLUSDT": boom}}, 5).Collect(context.Background(), inst)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}
