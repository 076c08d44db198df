package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"SetupScanner/internal/model"
	"SetupScanner/internal/strategy"
)

// Options configures the pass exports. An empty path disables that export.
type Options struct {
	XLSXPath      string
	CSVPath       string
	ChartCandles  int
	IntegrityBars int
	Precision     int
	Params        strategy.Params
}

// Exporter writes the workbook and the integrity CSV of a pass.
type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	if opts.ChartCandles <= 0 {
		opts.ChartCandles = 13
	}
	if opts.IntegrityBars <= 0 {
		opts.IntegrityBars = 10
	}
	if opts.Precision <= 0 {
		opts.Precision = 7
	}
	return &Exporter{opts: opts}
}

// Export writes every enabled file. A failure in one file does not stop the other.
func (e *Exporter) Export(r *model.PassReport) error {
	var errs []error
	if e.opts.XLSXPath != "" {
		if err := e.writeWorkbook(r); err != nil {
			errs = append(errs, fmt.Errorf("xlsx: %w", err))
		}
	}
	if e.opts.CSVPath != "" {
		if err := e.writeIntegrity(r); err != nil {
			errs = append(errs, fmt.Errorf("csv: %w", err))
		}
	}
	return errors.Join(errs...)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
