package recorder

import (
	"time"

	"SetupScanner/internal/model"
)

// LatestSetup is the stored result of the most recent pass for one instrument.
type LatestSetup struct {
	RunID      string
	Instrument model.Instrument
	Kind       string
	Label      string
	Setup      string
	Direction  string
	State      string
	Trigger    string
	Origin     string
	Trail      string
	Error      string
	LastClosed time.Time
	UpdatedAt  time.Time
}

// Recorder keeps the latest pass for analysis. It holds no signal history: each
// pass replaces the previous rows of every instrument it evaluated.
type Recorder interface {
	RecordPass(r *model.PassReport) error
	LatestSetups() ([]LatestSetup, error)
	Close() error
}

// Options controls what a pass writes.
type Options struct {
	// Precision is the number of decimals stored for triggers.
	Precision int
	// IntegrityBars is the number of recent bars kept per instrument.
	IntegrityBars int
	FastSpan      int
	SlowWindow    int
}
