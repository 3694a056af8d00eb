package greetcard

import (
	"time"
)

// Time is the process-wide animation clock. Elapsed only grows; every
// animated system reads it, none writes it.
type Time struct {
	Start   time.Time
	Now     time.Time
	Elapsed float32 // seconds since the first frame
	Dt      float32 // seconds since the previous frame
	Frame   uint64

	fixedStep time.Duration
}

// TimeModule installs the clock. A non-zero FixedStep advances the clock by
// that amount every frame instead of reading the wall clock, which keeps
// headless runs and tests deterministic.
type TimeModule struct {
	FixedStep time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := time.Now()
	cmd.AddResources(&Time{
		Start:     now,
		Now:       now,
		fixedStep: mod.FixedStep,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(t *Time) {
	t.advance(time.Now())
}

func (t *Time) advance(wall time.Time) {
	now := wall
	if t.fixedStep > 0 {
		now = t.Now.Add(t.fixedStep)
	}
	if t.Frame == 0 && t.fixedStep == 0 {
		// First frame measures from Start, not from install time.
		t.Start = now
		t.Now = now
	}

	t.Dt = float32(now.Sub(t.Now).Seconds())
	if t.Dt < 0 {
		t.Dt = 0
	}
	t.Now = now
	t.Elapsed = float32(now.Sub(t.Start).Seconds())
	t.Frame++
}
