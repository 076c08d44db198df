package model

import "time"

// Evaluated pairs one instrument's series with its outcome. Series is nil when
// the fetch failed.
type Evaluated struct {
	Instrument Instrument
	Series     *CandleSeries
	Outcome    Outcome
}

// PassReport summarises one scan pass over every configured instrument.
type PassReport struct {
	RunID    string
	Trigger  string
	Started  time.Time
	Finished time.Time
	Items    []Evaluated
}

// Count returns how many items ended with kind k.
func (r *PassReport) Count(k OutcomeKind) int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome.Kind == k {
			n++
		}
	}
	return n
}

// Signals returns the items that produced a setup, in instrument order.
func (r *PassReport) Signals() []Evaluated {
	var out []Evaluated
	for _, it := range r.Items {
		if it.Outcome.Kind == Signal {
			out = append(out, it)
		}
	}
	return out
}

// IntegrityRow is one recent bar of an evaluated instrument with the averages
// computed over the fetched bars, as written to the integrity CSV and table.
type IntegrityRow struct {
	Instrument Instrument
	// Index counts back from the newest fetched bar: -1 is the forming bar.
	Index int
	Bar   OHLCV
	Fast  float64
	Slow  float64
	// Label is set on the newest row only.
	Label string
}
