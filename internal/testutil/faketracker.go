package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// FakeTracker is an in-memory implementation of ports.Tracker for testing.
type FakeTracker struct {
	mu      sync.Mutex
	clock   interface{ Now() time.Time }
	order   []string
	tasks   map[string]*domain.Task
	profile domain.Profile

	// Error injection for testing
	StartErr     error
	PauseErr     error
	CompleteErr  error
	ToggleErr    error
	RecommendErr error
	GetErr       error

	// PauseAccumulated overrides the accumulated value pause reports.
	PauseAccumulated *int64
	// Recommendation overrides the computed recommendation.
	Recommendation *domain.Recommendation
	// OmitStartTask leaves StartResult.Task empty.
	OmitStartTask bool

	// Calls records operation names in order.
	Calls []string
}

var _ ports.Tracker = (*FakeTracker)(nil)

// NewFakeTracker creates an empty tracker driven by clock.
func NewFakeTracker(clock interface{ Now() time.Time }) *FakeTracker {
	return &FakeTracker{clock: clock, tasks: make(map[string]*domain.Task)}
}

// AddTask seeds a task and returns a copy of it.
func (f *FakeTracker) AddTask(t *domain.Task) *domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = clone(t)
	f.order = append(f.order, t.ID)
	return clone(t)
}

// Task returns a copy of the stored task.
func (f *FakeTracker) Task(id string) *domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tasks[id]; ok {
		return clone(t)
	}
	return nil
}

func (f *FakeTracker) record(name string) {
	f.Calls = append(f.Calls, name)
}

// CallCount returns how often an operation was invoked.
func (f *FakeTracker) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// ComputeScore implements ports.Tracker.
func (f *FakeTracker) ComputeScore(ctx context.Context, m domain.Metrics) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("score")
	return domain.ComputePriority(m, domain.DefaultImpulsiveness), nil
}

// Predict implements ports.Tracker.
func (f *FakeTracker) Predict(ctx context.Context, title string) (*domain.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("predict")
	m := domain.Metrics{Urgency: 5, Fear: 5, Interest: 5}
	return &domain.Prediction{Metrics: m, PriorityScore: domain.MotivationScore(m, domain.DefaultImpulsiveness)}, nil
}

// StartSession implements ports.Tracker.
func (f *FakeTracker) StartSession(ctx context.Context, taskID string) (*ports.StartResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("start")
	if f.StartErr != nil {
		return nil, f.StartErr
	}
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	now := f.clock.Now()
	for _, other := range f.tasks {
		if other.ID != taskID && other.Status == domain.StatusActive {
			_, _ = other.Pause(now)
		}
	}
	if err := t.Activate(now); err != nil {
		return nil, err
	}
	res := &ports.StartResult{Status: t.Status}
	if !f.OmitStartTask {
		res.Task = clone(t)
	}
	return res, nil
}

// PauseSession implements ports.Tracker.
func (f *FakeTracker) PauseSession(ctx context.Context, taskID string) (*ports.PauseResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("pause")
	if f.PauseErr != nil {
		return nil, f.PauseErr
	}
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	acc, err := t.Pause(f.clock.Now())
	if err != nil {
		return nil, err
	}
	if f.PauseAccumulated != nil {
		acc = *f.PauseAccumulated
		t.Accumulated = acc
	}
	return &ports.PauseResult{Status: t.Status, Accumulated: acc}, nil
}

// CompleteSession implements ports.Tracker.
func (f *FakeTracker) CompleteSession(ctx context.Context, taskID string) (*ports.CompleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("complete")
	if f.CompleteErr != nil {
		return nil, f.CompleteErr
	}
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if err := t.Complete(f.clock.Now()); err != nil {
		return nil, err
	}
	reward := f.profile.Grant(domain.ComputeXP(t.Accumulated, t.Priority))
	return &ports.CompleteResult{Status: t.Status, Accumulated: t.Accumulated, Reward: reward}, nil
}

// ToggleSubtask implements ports.Tracker.
func (f *FakeTracker) ToggleSubtask(ctx context.Context, subtaskID string) (domain.SubtaskStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("toggle")
	if f.ToggleErr != nil {
		return "", f.ToggleErr
	}
	for _, t := range f.tasks {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subtaskID {
				return t.Subtasks[i].Toggle(), nil
			}
		}
	}
	return "", domain.ErrSubtaskNotFound
}

// RecommendAlternative implements ports.Tracker.
func (f *FakeTracker) RecommendAlternative(ctx context.Context, currentTaskID string) (*domain.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("recommend")
	if f.RecommendErr != nil {
		return nil, f.RecommendErr
	}
	if f.Recommendation != nil {
		rec := *f.Recommendation
		return &rec, nil
	}
	rec := domain.Recommend(f.list(), currentTaskID)
	return &rec, nil
}

// ListTasks implements ports.Tracker.
func (f *FakeTracker) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	return f.list(), nil
}

func (f *FakeTracker) list() []*domain.Task {
	out := make([]*domain.Task, 0, len(f.order))
	for _, id := range f.order {
		if t, ok := f.tasks[id]; ok {
			out = append(out, clone(t))
		}
	}
	return out
}

// GetTask implements ports.Tracker.
func (f *FakeTracker) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get")
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return clone(t), nil
}

// CreateTask implements ports.Tracker.
func (f *FakeTracker) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*domain.Task, error) {
	t, err := domain.NewTask(req.Title)
	if err != nil {
		return nil, err
	}
	t.Description = req.Description
	t.Priority = domain.ComputePriority(req.Metrics, domain.DefaultImpulsiveness)
	t.SetAnalysis(req.Metrics.Urgency, req.Metrics.Fear, req.Metrics.Interest, req.Difficulty)
	for _, title := range req.Subtasks {
		if _, err := t.AddSubtask(title); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	f.record("create")
	f.mu.Unlock()
	return f.AddTask(t), nil
}

// DeleteTask implements ports.Tracker.
func (f *FakeTracker) DeleteTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")
	if _, ok := f.tasks[taskID]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

func clone(t *domain.Task) *domain.Task {
	c := *t
	c.Subtasks = append([]domain.Subtask(nil), t.Subtasks...)
	if t.Start != nil {
		s := *t.Start
		c.Start = &s
	}
	if t.Analysis != nil {
		a := *t.Analysis
		c.Analysis = &a
	}
	return &c
}
