package recorder

import "SetupScanner/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPass(_ *model.PassReport) error { return nil }
func (n *NoopRecorder) LatestSetups() ([]LatestSetup, error) { return nil, nil }
func (n *NoopRecorder) Close() error                         { return nil }
