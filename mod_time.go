package backdrop

import (
	"time"
)

type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame int
}

// Seconds is Dt in seconds.
func (t *Time) Seconds() float64 { return t.Dt.Seconds() }

type TimeModule struct {
	// Now replaces the wall clock, for headless runs.
	Now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	cmd.AddResources(&Time{Time: now()})
	app.UseSystem(
		System(func(t *Time) {
			current := now()
			t.Dt = current.Sub(t.Time)
			t.Time = current
			t.Frame++
		}).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// FixedClock returns a clock advancing by step on every call.
func FixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start.Add(-step)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}
