package domain

import (
	"math"
	"sort"
)

// RingSize is the number of tasks placed on the primary ring.
const RingSize = 8

// SelectDeepDive picks the task to enter focus mode with.
// The active task wins outright. Otherwise the highest priority pending or
// paused task is chosen, with ties going to the earlier task. The boolean is
// false when there is nothing to work on.
func SelectDeepDive(tasks []*Task) (*Task, bool) {
	for _, t := range tasks {
		if t != nil && t.Status == StatusActive {
			return t, true
		}
	}

	var best *Task
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if t.Status != StatusPending && t.Status != StatusPaused {
			continue
		}
		if best == nil || t.Priority > best.Priority {
			best = t
		}
	}
	return best, best != nil
}

// RingSlot is a task placed on the primary ring.
type RingSlot struct {
	Task  *Task
	Index int
	// Angle in degrees, clockwise from the top.
	Angle float64
}

// Position returns the slot's offset from the ring centre for the given
// radius, in screen coordinates (y grows downward).
func (s RingSlot) Position(radius float64) (x, y float64) {
	rad := (s.Angle - 90) * math.Pi / 180
	return radius * math.Cos(rad), radius * math.Sin(rad)
}

// ReserveEntry is a task shown outside the ring.
type ReserveEntry struct {
	Task      *Task
	Completed bool
}

// Ranking is the board layout: primary ring then reserve.
type Ranking struct {
	Primary []RingSlot
	Reserve []ReserveEntry
}

// Rank orders the non-completed tasks by descending priority (stable), puts
// the first RingSize on the ring and everything else, completed tasks
// included, into the reserve.
func Rank(tasks []*Task) Ranking {
	var open, done []*Task
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if t.Status == StatusCompleted {
			done = append(done, t)
		} else {
			open = append(open, t)
		}
	}

	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Priority > open[j].Priority
	})

	var r Ranking
	for i, t := range open {
		if i < RingSize {
			r.Primary = append(r.Primary, RingSlot{
				Task:  t,
				Index: i,
				Angle: float64(360/RingSize) * float64(i),
			})
			continue
		}
		r.Reserve = append(r.Reserve, ReserveEntry{Task: t})
	}
	for _, t := range done {
		r.Reserve = append(r.Reserve, ReserveEntry{Task: t, Completed: true})
	}
	return r
}

// Ordered returns the ring tasks followed by the reserve tasks.
func (r Ranking) Ordered() []*Task {
	out := make([]*Task, 0, len(r.Primary)+len(r.Reserve))
	for _, s := range r.Primary {
		out = append(out, s.Task)
	}
	for _, e := range r.Reserve {
		out = append(out, e.Task)
	}
	return out
}
