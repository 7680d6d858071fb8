// Package domain contains the core business entities for Octo.
// These entities represent the fundamental concepts of the focus tracker
// and are independent of any external frameworks or infrastructure.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrInvalidTaskID     = errors.New("invalid task ID")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrTaskNotFound      = errors.New("task not found")
	ErrSubtaskNotFound   = errors.New("subtask not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTaskCompleted     = errors.New("task already completed")
	ErrRequestInFlight   = errors.New("request already in flight for task")
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusActive    TaskStatus = "active"
	StatusPaused    TaskStatus = "paused"
	StatusCompleted TaskStatus = "completed"
)

// ParseTaskStatus converts a wire value into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusActive:
		return StatusActive, nil
	case StatusPaused:
		return StatusPaused, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", ErrInvalidTransition
}

// Analysis holds the metrics a task was scored from.
type Analysis struct {
	Urgency    float64
	Fear       float64
	Interest   float64
	Difficulty float64
}

// Task represents a unit of work to be tracked.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Priority    float64
	// Accumulated is the number of whole seconds worked before Start.
	Accumulated int64
	// Start is set only while the task is active.
	Start       *time.Time
	Subtasks    []Subtask
	Analysis    *Analysis
	XPEarned    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// NewTask creates a new pending task with the given title.
func NewTask(title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if err := validateTaskTitle(title); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Task{
		ID:        newID(),
		Title:     title,
		Status:    StatusPending,
		Subtasks:  []Subtask{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// validateTaskTitle ensures the title is not empty.
func validateTaskTitle(title string) error {
	if title == "" {
		return ErrEmptyTaskTitle
	}
	return nil
}

// SetAnalysis records the metrics for the task. A zero difficulty falls back
// to the fear score.
func (t *Task) SetAnalysis(urgency, fear, interest, difficulty float64) {
	if difficulty <= 0 {
		difficulty = fear
	}
	t.Analysis = &Analysis{
		Urgency:    urgency,
		Fear:       fear,
		Interest:   interest,
		Difficulty: difficulty,
	}
	t.UpdatedAt = time.Now()
}

// AddSubtask appends a pending subtask.
func (t *Task) AddSubtask(title string) (*Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTaskTitle
	}
	t.Subtasks = append(t.Subtasks, Subtask{
		ID:       newID(),
		TaskID:   t.ID,
		Title:    title,
		Status:   SubtaskPending,
		Position: len(t.Subtasks),
	})
	t.UpdatedAt = time.Now()
	return &t.Subtasks[len(t.Subtasks)-1], nil
}

// IsActive returns true if the task is currently being worked on.
func (t *Task) IsActive() bool {
	return t.Status == StatusActive
}

// IsCompleted returns true once the task has reached its terminal state.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Elapsed returns the seconds worked on the task as of now.
func (t *Task) Elapsed(now time.Time) int64 {
	return Elapsed(now, t.Start, t.Accumulated)
}

// Activate moves a pending or paused task into the active state.
func (t *Task) Activate(now time.Time) error {
	if err := CheckTransition(t.Status, StatusActive); err != nil {
		return err
	}
	t.Status = StatusActive
	t.Start = &now
	t.UpdatedAt = now
	return nil
}

// Pause folds the running interval into Accumulated and clears Start.
// It returns the new accumulated value.
func (t *Task) Pause(now time.Time) (int64, error) {
	if err := CheckTransition(t.Status, StatusPaused); err != nil {
		return t.Accumulated, err
	}
	t.Accumulated = t.Elapsed(now)
	t.Start = nil
	t.Status = StatusPaused
	t.UpdatedAt = now
	return t.Accumulated, nil
}

// Complete stops the clock and marks the task completed.
func (t *Task) Complete(now time.Time) error {
	if err := CheckTransition(t.Status, StatusCompleted); err != nil {
		return err
	}
	t.Accumulated = t.Elapsed(now)
	t.Start = nil
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

// CheckTransition reports whether a task may move from one status to another.
// Nothing leaves completed, and nothing moves back into pending.
func CheckTransition(from, to TaskStatus) error {
	if from == StatusCompleted {
		return ErrTaskCompleted
	}
	switch to {
	case StatusActive:
		if from == StatusPending || from == StatusPaused {
			return nil
		}
	case StatusPaused:
		if from == StatusActive {
			return nil
		}
	case StatusCompleted:
		if from == StatusActive || from == StatusPaused {
			return nil
		}
	}
	return ErrInvalidTransition
}

// SubtaskStatus represents the state of a checklist item.
type SubtaskStatus string

const (
	SubtaskPending   SubtaskStatus = "pending"
	SubtaskCompleted SubtaskStatus = "completed"
)

// Subtask is an ordered checklist item belonging to a task.
type Subtask struct {
	ID       string
	TaskID   string
	Title    string
	Status   SubtaskStatus
	Position int
}

// Toggle flips the subtask between pending and completed.
func (s *Subtask) Toggle() SubtaskStatus {
	if s.Status == SubtaskCompleted {
		s.Status = SubtaskPending
	} else {
		s.Status = SubtaskCompleted
	}
	return s.Status
}

// SubtaskProgress returns the completed and total subtask counts.
func (t *Task) SubtaskProgress() (done, total int) {
	for _, st := range t.Subtasks {
		if st.Status == SubtaskCompleted {
			done++
		}
	}
	return done, len(t.Subtasks)
}
