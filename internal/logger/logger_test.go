package logger

import "testing"

func TestNew(t *testing.T) {
	for _, lvl := range []string{"", "debug", "info", "warn", "error"} {
		log, err := New(lvl, false)
		if err != nil {
			t.Fatalf("level %q: unexpected error: %v", lvl, err)
		}
		_ = log.Sync()
	}
	if _, err := New("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("debug", true); err != nil {
		t.Errorf("development logger: %v", err)
	}
}
