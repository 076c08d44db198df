package exporter

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"SetupScanner/internal/calculator"
	"SetupScanner/internal/model"
)

const (
	sheetSetups = "Setups"
	sheetData   = "ChartData"
	sheetCharts = "Charts"

	// rows between two charts on the Charts sheet
	chartStride = 21
)

var setupsHeader = []interface{}{
	"Pair", "Timeframe", "Market", "Timestamp", "Setup", "Direction", "State", "Trigger",
	"Open", "High", "Low", "Close", "MME9", "MMA21", "Volume", "VolumeMA21", "CloseZero", "FastTrend",
}

// writeWorkbook writes one Setups row per signalled instrument and a line chart
// of its last candles. Timestamp and prices are taken from the last closed bar,
// CloseZero is the forming bar's close.
func (e *Exporter) writeWorkbook(r *model.PassReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSetups); err != nil {
		return err
	}
	for _, name := range []string{sheetData, sheetCharts} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(sheetSetups, "A1", &setupsHeader); err != nil {
		return err
	}
	if err := e.styleSetups(f); err != nil {
		return err
	}

	p := e.opts.Params
	row, dataRow, chartRow := 2, 1, 1
	for _, it := range r.Signals() {
		s := it.Series
		if s == nil || s.Len() < p.SlowWindow {
			continue
		}
		ind := calculator.Derive(s.Bars, p.FastSpan, p.SlowWindow)
		last := s.Len() - 2
		lc, forming := s.Bars[last], s.Forming()
		res := it.Outcome.Result

		trend := ""
		closedFast := ind.Fast[:s.Len()-1]
		switch {
		case calculator.PredominantTrend(closedFast, calculator.Up, p.PredominantLookback):
			trend = calculator.Up.String()
		case calculator.PredominantTrend(closedFast, calculator.Down, p.PredominantLookback):
			trend = calculator.Down.String()
		}

		values := []interface{}{
			it.Instrument.Pair, it.Instrument.Timeframe, it.Instrument.Market,
			lc.Time.Format("02/01/2006 15:04"),
			string(res.Setup), string(res.Direction), string(res.State),
			model.FormatPrice(res.Trigger, e.opts.Precision),
			lc.Open, lc.High, lc.Low, lc.Close,
			cellValue(ind.Fast[last]), cellValue(ind.Slow[last]),
			lc.Volume, cellValue(ind.VolumeMA[last]),
			forming.Close, trend,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetSetups, cell, &values); err != nil {
			return err
		}
		row++

		next, err := e.addChart(f, it, ind, dataRow, chartRow)
		if err != nil {
			return fmt.Errorf("chart %s: %w", it.Instrument.Pair, err)
		}
		dataRow = next
		chartRow += chartStride
	}

	if err := ensureDir(e.opts.XLSXPath); err != nil {
		return err
	}
	return f.SaveAs(e.opts.XLSXPath)
}

func (e *Exporter) styleSetups(f *excelize.File) error {
	priceFmt := "#,##0." + strings.Repeat("0", e.opts.Precision)
	price, err := f.NewStyle(&excelize.Style{CustomNumFmt: &priceFmt})
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheetSetups, "A", "R", 18); err != nil {
		return err
	}
	return f.SetColStyle(sheetSetups, "I:Q", price)
}

// addChart writes the chart's source block to ChartData starting at dataRow and
// places a close/fast/slow line chart on the Charts sheet. It returns the first
// free ChartData row.
func (e *Exporter) addChart(f *excelize.File, it model.Evaluated, ind *calculator.Indicators, dataRow, chartRow int) (int, error) {
	bars := it.Series.Bars
	n := e.opts.ChartCandles
	if n > len(bars) {
		n = len(bars)
	}

	header := []interface{}{it.Instrument.Pair, "Close", "MME9", "MMA21"}
	cell, _ := excelize.CoordinatesToCellName(1, dataRow)
	if err := f.SetSheetRow(sheetData, cell, &header); err != nil {
		return 0, err
	}
	first := dataRow + 1
	for i := len(bars) - n; i < len(bars); i++ {
		r := first + i - (len(bars) - n)
		vals := []interface{}{
			bars[i].Time.Format("02/01 15:04"),
			bars[i].Close,
			cellValue(ind.Fast[i]),
			cellValue(ind.Slow[i]),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(sheetData, cell, &vals); err != nil {
			return 0, err
		}
	}
	last := first + n - 1

	categories := fmt.Sprintf("%s!$A$%d:$A$%d", sheetData, first, last)
	var series []excelize.ChartSeries
	for _, name := range []string{"B", "C", "D"} {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$%d", sheetData, name, dataRow),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$%d:$%s$%d", sheetData, name, first, name, last),
			Line:       excelize.ChartLine{Width: 1.5},
		})
	}
	res := it.Outcome.Result
	chart := &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title: []excelize.RichTextRun{{
			Text: fmt.Sprintf("%s %s %s %s", it.Instrument.Pair, res.State, res.Direction, res.Setup),
		}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 640, Height: 320},
	}
	anchor, _ := excelize.CoordinatesToCellName(1, chartRow)
	if err := f.AddChart(sheetCharts, anchor, chart); err != nil {
		return 0, err
	}
	return last + 2, nil
}

// cellValue leaves undefined averages as empty cells.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
