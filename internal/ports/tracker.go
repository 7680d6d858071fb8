package ports

import (
	"context"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// CreateTaskRequest contains the data needed to create a new task.
type CreateTaskRequest struct {
	Title       string
	Description string
	Metrics     domain.Metrics
	// Difficulty defaults to the fear score when zero.
	Difficulty float64
	Subtasks   []string
}

// StartResult is the confirmation of a start request.
type StartResult struct {
	Status domain.TaskStatus
	// Task carries the updated fields when the service returns them.
	Task *domain.Task
}

// PauseResult is the confirmation of a pause request. Accumulated is
// authoritative and replaces any locally computed value.
type PauseResult struct {
	Status      domain.TaskStatus
	Accumulated int64
}

// CompleteResult is the confirmation of a complete request.
type CompleteResult struct {
	Status      domain.TaskStatus
	Accumulated int64
	Reward      domain.Reward
}

// Tracker is the remote task service the focus client talks to.
// It is the sole arbiter of the one-active-task rule.
// This is a driven port (implemented by services and the HTTP client).
type Tracker interface {
	// ComputeScore turns metrics into a priority score.
	ComputeScore(ctx context.Context, m domain.Metrics) (float64, error)

	// Predict estimates metrics and a priority score from a title.
	Predict(ctx context.Context, title string) (*domain.Prediction, error)

	// StartSession activates a pending or paused task.
	StartSession(ctx context.Context, taskID string) (*StartResult, error)

	// PauseSession pauses an active task.
	PauseSession(ctx context.Context, taskID string) (*PauseResult, error)

	// CompleteSession completes a task and grants the reward.
	CompleteSession(ctx context.Context, taskID string) (*CompleteResult, error)

	// ToggleSubtask flips a subtask and returns its new status.
	ToggleSubtask(ctx context.Context, subtaskID string) (domain.SubtaskStatus, error)

	// RecommendAlternative suggests an easier task than the current one.
	RecommendAlternative(ctx context.Context, currentTaskID string) (*domain.Recommendation, error)

	// ListTasks returns every task in creation order.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask returns a single task with its subtasks.
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)

	// CreateTask scores and stores a new task.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, taskID string) error
}

// Predictor estimates task metrics from free text.
// This is a driven port (implemented by services).
type Predictor interface {
	Predict(title string) domain.Metrics
}

// Notifier shows out-of-band notices to the user.
// This is a driven port (implemented by adapters).
type Notifier interface {
	Notify(title, message string) error
}
