package focus

import (
	"context"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// Call is a request to the tracker. Hosts run it off the event loop and pass
// the Result to Controller.Deliver.
type Call func(ctx context.Context) Result

// Result is the outcome of a Call.
type Result interface {
	Err() error
}

// StartDone answers a start request.
type StartDone struct {
	TaskID string
	Res    *ports.StartResult
	Error  error
}

// PauseDone answers a pause request.
type PauseDone struct {
	TaskID string
	Res    *ports.PauseResult
	Error  error
}

// CompleteDone answers a complete request.
type CompleteDone struct {
	TaskID string
	Res    *ports.CompleteResult
	Error  error
}

// ToggleDone answers a subtask toggle.
type ToggleDone struct {
	TaskID    string
	SubtaskID string
	Status    domain.SubtaskStatus
	Error     error
}

// RecommendDone answers a recommendation query.
type RecommendDone struct {
	CurrentID string
	Rec       *domain.Recommendation
	Error     error
}

// Reloaded carries a fresh copy of a task.
type Reloaded struct {
	TaskID string
	Task   *domain.Task
	Error  error
}

func (r StartDone) Err() error     { return r.Error }
func (r PauseDone) Err() error     { return r.Error }
func (r CompleteDone) Err() error  { return r.Error }
func (r ToggleDone) Err() error    { return r.Error }
func (r RecommendDone) Err() error { return r.Error }
func (r Reloaded) Err() error      { return r.Error }

func startCall(t ports.Tracker, id string) Call {
	return func(ctx context.Context) Result {
		res, err := t.StartSession(ctx, id)
		return StartDone{TaskID: id, Res: res, Error: err}
	}
}

func pauseCall(t ports.Tracker, id string) Call {
	return func(ctx context.Context) Result {
		res, err := t.PauseSession(ctx, id)
		return PauseDone{TaskID: id, Res: res, Error: err}
	}
}

func completeCall(t ports.Tracker, id string) Call {
	return func(ctx context.Context) Result {
		res, err := t.CompleteSession(ctx, id)
		return CompleteDone{TaskID: id, Res: res, Error: err}
	}
}

func toggleCall(t ports.Tracker, taskID, subtaskID string) Call {
	return func(ctx context.Context) Result {
		status, err := t.ToggleSubtask(ctx, subtaskID)
		return ToggleDone{TaskID: taskID, SubtaskID: subtaskID, Status: status, Error: err}
	}
}

func recommendCall(t ports.Tracker, currentID string) Call {
	return func(ctx context.Context) Result {
		rec, err := t.RecommendAlternative(ctx, currentID)
		return RecommendDone{CurrentID: currentID, Rec: rec, Error: err}
	}
}

func reloadCall(t ports.Tracker, id string) Call {
	return func(ctx context.Context) Result {
		task, err := t.GetTask(ctx, id)
		return Reloaded{TaskID: id, Task: task, Error: err}
	}
}
