package meadow

import (
	"time"
)

// Time is the wall clock of the frame loop.
type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame int
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{Time: time.Now()})
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(t *Time) {
	now := time.Now()
	t.Dt = now.Sub(t.Time)
	t.Time = now
	t.Frame++
}
