package exporter

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"SetupScanner/internal/calculator"
	"SetupScanner/internal/model"
)

var integrityHeader = []string{
	"pair", "timeframe", "market", "idx", "timestamp",
	"open", "high", "low", "close", "volume", "fast", "slow", "setup",
}

// writeIntegrity dumps the most recent bars of every evaluated instrument so a
// run can be checked against the exchange chart.
func (e *Exporter) writeIntegrity(r *model.PassReport) error {
	if err := ensureDir(e.opts.CSVPath); err != nil {
		return err
	}
	f, err := os.Create(e.opts.CSVPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", e.opts.CSVPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(integrityHeader); err != nil {
		return err
	}
	p := e.opts.Params
	for _, it := range r.Items {
		for _, row := range calculator.IntegrityRows(it, e.opts.IntegrityBars, p.FastSpan, p.SlowWindow) {
			b := row.Bar
			if err := w.Write([]string{
				row.Instrument.Pair, row.Instrument.Timeframe, row.Instrument.Market,
				strconv.Itoa(row.Index),
				b.Time.UTC().Format("2006-01-02 15:04:05"),
				num(b.Open), num(b.High), num(b.Low), num(b.Close), num(b.Volume),
				num(row.Fast), num(row.Slow),
				row.Label,
			}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// num renders v with full precision; undefined values are left empty.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
