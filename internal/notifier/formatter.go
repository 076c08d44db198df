package notifier

import (
	"fmt"
	"strings"
	"time"

	"SetupScanner/internal/model"
)

const stampLayout = "02/01/2006 15:04:05"

// FormatResult renders one instrument's outcome as a single line, e.g.
// "FIRED BUY 9.1 (trigger: 100.0000000 | h: 100.5000000 | l: 99.2000000) (01/03/2024 04:00:00)".
// Prices of the forming bar are shown next to the trigger; the time is the last
// closed candle's.
func FormatResult(it model.Evaluated, precision int) string {
	o := it.Outcome
	var stamp string
	if !o.LastClosed.IsZero() {
		stamp = " (" + o.LastClosed.Format(stampLayout) + ")"
	}
	switch o.Kind {
	case model.Signal:
		f := it.Series.Forming()
		return fmt.Sprintf("%s (trigger: %s | h: %s | l: %s)%s",
			o.Label(),
			model.FormatPrice(o.Result.Trigger, precision),
			model.FormatPrice(f.High, precision),
			model.FormatPrice(f.Low, precision),
			stamp)
	case model.DataError:
		if o.Err != nil {
			return fmt.Sprintf("%s: %v%s", o.Label(), o.Err, stamp)
		}
	}
	return o.Label() + stamp
}

// FormatAlert renders the chat alert for a signalled instrument. It returns ""
// for outcomes that are not alerted.
func FormatAlert(it model.Evaluated, precision int) string {
	if it.Outcome.Kind != model.Signal {
		return ""
	}
	return fmt.Sprintf("🚨 %s | %s", it.Instrument.Pair, FormatResult(it, precision))
}

// FormatStatus renders the /status reply for the last pass.
func FormatStatus(r *model.PassReport, precision int) string {
	if r == nil {
		return "No scan has run yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 Scan %s (%s)\n", shortID(r.RunID), r.Trigger))
	b.WriteString(fmt.Sprintf("Finished: %s in %s\n",
		r.Finished.Format(stampLayout), r.Finished.Sub(r.Started).Round(time.Millisecond)))
	b.WriteString(fmt.Sprintf("Instruments: %d | signals: %d | none: %d | no data: %d | errors: %d\n",
		len(r.Items), r.Count(model.Signal), r.Count(model.NoSignal),
		r.Count(model.InsufficientData), r.Count(model.DataError)))

	for _, it := range r.Items {
		if it.Outcome.Kind == model.NoSignal {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s: %s", it.Instrument, FormatResult(it, precision)))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
