package scheduler

import (
	"fmt"
	"time"
)

// minuteTolerance is how far a tick may drift from a multiple of IntervalMinutes.
const minuteTolerance = 1

// Window restricts the hours, days and minute cadence at which cron ticks run a pass.
type Window struct {
	UseLocalTime    bool `yaml:"use_local_time"`
	StartHour       int  `yaml:"start_hour"`
	EndHour         int  `yaml:"end_hour"`
	IntervalMinutes int  `yaml:"interval_minutes"`
	AllowWeekend    bool `yaml:"allow_weekend"`
}

// DefaultWindow allows every minute of every day, on the local clock.
func DefaultWindow() Window {
	return Window{UseLocalTime: true, StartHour: 0, EndHour: 23, IntervalMinutes: 1, AllowWeekend: true}
}

// Validate rejects windows that can never be entered.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 {
		return fmt.Errorf("schedule.window hours must be within 0-23, got %d-%d", w.StartHour, w.EndHour)
	}
	if w.StartHour > w.EndHour {
		return fmt.Errorf("schedule.window start_hour %d is after end_hour %d", w.StartHour, w.EndHour)
	}
	if w.IntervalMinutes < 1 || w.IntervalMinutes > 60 {
		return fmt.Errorf("schedule.window interval_minutes must be within 1-60, got %d", w.IntervalMinutes)
	}
	return nil
}

// Allows reports whether a tick at now falls inside the window: an allowed day,
// an hour in [StartHour, EndHour], and a minute within one of a multiple of
// IntervalMinutes.
func (w Window) Allows(now time.Time) bool {
	if w.UseLocalTime {
		now = now.Local()
	} else {
		now = now.UTC()
	}
	if !w.AllowWeekend {
		if d := now.Weekday(); d == time.Saturday || d == time.Sunday {
			return false
		}
	}
	if h := now.Hour(); h < w.StartHour || h > w.EndHour {
		return false
	}
	interval := w.IntervalMinutes
	if interval < 1 {
		interval = 1
	}
	drift := now.Minute() % interval
	return drift <= minuteTolerance || interval-drift <= minuteTolerance
}
