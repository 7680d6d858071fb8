package domain

import (
	"fmt"
	"time"
)

// DefaultOverrunMinutes is the minute count past which a session is flagged.
const DefaultOverrunMinutes = 45

// SessionSnapshot is the client-side view of the task currently on screen.
// It is rebuilt on every confirmed transition.
type SessionSnapshot struct {
	TaskID      string
	Status      TaskStatus
	Start       *time.Time
	Accumulated int64
}

// SnapshotOf builds a snapshot from an authoritative task.
func SnapshotOf(t *Task) SessionSnapshot {
	if t == nil {
		return SessionSnapshot{}
	}
	snap := SessionSnapshot{
		TaskID:      t.ID,
		Status:      t.Status,
		Accumulated: t.Accumulated,
	}
	if t.Status == StatusActive && t.Start != nil {
		start := *t.Start
		snap.Start = &start
	}
	return snap
}

// Elapsed returns the seconds shown for the snapshot at now.
func (s SessionSnapshot) Elapsed(now time.Time) int64 {
	return Elapsed(now, s.Start, s.Accumulated)
}

// IsZero reports whether the snapshot has no task.
func (s SessionSnapshot) IsZero() bool {
	return s.TaskID == ""
}

// Elapsed computes accumulated + max(0, floor(now - start)) in whole seconds.
// A nil start means the clock is not running.
func Elapsed(now time.Time, start *time.Time, accumulated int64) int64 {
	if start == nil {
		return accumulated
	}
	delta := now.Sub(*start)
	if delta < 0 {
		delta = 0
	}
	return accumulated + int64(delta/time.Second)
}

// FormatClock renders seconds as M:SS with unpadded minutes.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// IsOverrun reports whether the whole minutes exceed the threshold.
func IsOverrun(seconds int64, thresholdMinutes int) bool {
	if thresholdMinutes <= 0 {
		thresholdMinutes = DefaultOverrunMinutes
	}
	return seconds/60 > int64(thresholdMinutes)
}

// WorkSession is one contiguous active interval of a task.
type WorkSession struct {
	ID        string
	TaskID    string
	StartedAt time.Time
	EndedAt   *time.Time
	Seconds   int64
	GitBranch string
	GitCommit string
}

// NewWorkSession opens a history row for a task starting at the given instant.
func NewWorkSession(taskID string, startedAt time.Time) *WorkSession {
	return &WorkSession{
		ID:        newID(),
		TaskID:    taskID,
		StartedAt: startedAt,
	}
}

// SetGitContext attaches git information to the session.
func (s *WorkSession) SetGitContext(branch, commit string) {
	s.GitBranch = branch
	s.GitCommit = commit
}

// Close ends the interval at now.
func (s *WorkSession) Close(now time.Time) {
	s.EndedAt = &now
	s.Seconds = Elapsed(now, &s.StartedAt, 0)
}

// IsOpen returns true while the interval has not ended.
func (s *WorkSession) IsOpen() bool {
	return s.EndedAt == nil
}
