package calculator

import "SetupScanner/internal/model"

// IntegrityRows returns the last n bars of an evaluated series with the fast and
// slow averages, the forming bar included. Display averages run over every
// fetched bar, so the forming row carries values too.
func IntegrityRows(it model.Evaluated, n, fastSpan, slowWindow int) []model.IntegrityRow {
	if it.Series == nil || it.Series.Len() == 0 || n <= 0 {
		return nil
	}
	bars := it.Series.Bars
	ind := Derive(bars, fastSpan, slowWindow)
	if n > len(bars) {
		n = len(bars)
	}
	rows := make([]model.IntegrityRow, 0, n)
	for i := len(bars) - n; i < len(bars); i++ {
		rows = append(rows, model.IntegrityRow{
			Instrument: it.Instrument,
			Index:      i - len(bars),
			Bar:        bars[i],
			Fast:       ind.Fast[i],
			Slow:       ind.Slow[i],
		})
	}
	rows[len(rows)-1].Label = it.Outcome.Label()
	return rows
}
