package domain

// Overview captures the tracker state at a point in time.
type Overview struct {
	ActiveTask     *Task
	Tasks          []*Task
	Profile        Profile
	RecentSessions []*WorkSession
}

// HasActive returns true if a task is currently being worked on.
func (o *Overview) HasActive() bool {
	return o.ActiveTask != nil
}

// Ranking lays the overview's tasks out for the board.
func (o *Overview) Ranking() Ranking {
	return Rank(o.Tasks)
}

// OpenCount returns the number of tasks not yet completed.
func (o *Overview) OpenCount() int {
	n := 0
	for _, t := range o.Tasks {
		if !t.IsCompleted() {
			n++
		}
	}
	return n
}

// StatusLabel returns a human-readable label for the task status.
func StatusLabel(s TaskStatus) string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusActive:
		return "Active"
	case StatusPaused:
		return "Paused"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}
