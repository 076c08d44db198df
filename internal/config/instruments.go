package config

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"SetupScanner/internal/model"
)

// column headers accepted for each instrument field
var (
	pairHeaders      = []string{"par", "pair", "symbol"}
	timeframeHeaders = []string{"timeframe", "interval"}
	marketHeaders    = []string{"mercado", "market", "category"}
)

// LoadInstruments reads instruments from the first sheet of an xlsx file. The
// header row must name a pair and a timeframe column; the market column is
// optional and defaults to linear. Blank rows are skipped.
func LoadInstruments(path string) ([]model.Instrument, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	pairCol := findColumn(rows[0], pairHeaders)
	tfCol := findColumn(rows[0], timeframeHeaders)
	mktCol := findColumn(rows[0], marketHeaders)
	if pairCol < 0 || tfCol < 0 {
		return nil, fmt.Errorf("%s: header needs Par and Timeframe columns, got %v", path, rows[0])
	}

	var out []model.Instrument
	for _, row := range rows[1:] {
		inst := model.Instrument{
			Pair:      cellAt(row, pairCol),
			Timeframe: cellAt(row, tfCol),
			Market:    cellAt(row, mktCol),
		}
		if inst.Pair == "" {
			continue
		}
		if inst.Timeframe == "" {
			return nil, fmt.Errorf("%s: %s has no timeframe", path, inst.Pair)
		}
		if inst.Market == "" {
			inst.Market = "linear"
		}
		out = append(out, inst)
	}
	return out, nil
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
