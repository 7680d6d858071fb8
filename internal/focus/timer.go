package focus

import (
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// Display is one rendering of the session clock.
type Display struct {
	Seconds int64
	Text    string
	Overrun bool
	Running bool
}

// TimerEngine renders elapsed time for the displayed task. The value is
// always recomputed from the clock, so missed ticks (a suspended terminal,
// a slow host) never drift the display.
type TimerEngine struct {
	clock          Clock
	overrunMinutes int
	snap           domain.SessionSnapshot
	running        bool
	last           Display
}

// NewTimerEngine creates a stopped engine.
func NewTimerEngine(clock Clock, overrunMinutes int) *TimerEngine {
	if overrunMinutes <= 0 {
		overrunMinutes = domain.DefaultOverrunMinutes
	}
	return &TimerEngine{clock: clock, overrunMinutes: overrunMinutes}
}

// Load points the engine at a snapshot. It runs when the snapshot is active
// with a start instant and shows a frozen value otherwise.
func (e *TimerEngine) Load(snap domain.SessionSnapshot) Display {
	e.snap = snap
	e.running = snap.Status == domain.StatusActive && snap.Start != nil
	return e.render()
}

// Tick re-renders once if the engine is running. The boolean reports
// whether a new rendering was produced.
func (e *TimerEngine) Tick() (Display, bool) {
	if !e.running {
		return e.last, false
	}
	return e.render(), true
}

// Current returns the last rendering.
func (e *TimerEngine) Current() Display {
	return e.last
}

func (e *TimerEngine) render() Display {
	secs := e.snap.Elapsed(e.clock.Now())
	e.last = Display{
		Seconds: secs,
		Text:    domain.FormatClock(secs),
		Overrun: domain.IsOverrun(secs, e.overrunMinutes),
		Running: e.running,
	}
	return e.last
}
