package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// TrackerService is the authoritative implementation of ports.Tracker over
// local storage. Transitions are serialised so at most one task is ever
// active.
type TrackerService struct {
	mu          sync.Mutex
	storage     ports.Storage
	tasks       *TaskService
	gitDetector ports.GitDetector
	predictor   ports.Predictor
	logger      *log.Logger

	impulsiveness float64
	workingDir    string
	now           func() time.Time
}

// Ensure TrackerService implements ports.Tracker.
var _ ports.Tracker = (*TrackerService)(nil)

// NewTrackerService creates a new tracker service.
func NewTrackerService(storage ports.Storage, gitDetector ports.GitDetector, predictor ports.Predictor) *TrackerService {
	if predictor == nil {
		predictor = NewLexiconPredictor()
	}
	return &TrackerService{
		storage:       storage,
		tasks:         NewTaskService(storage),
		gitDetector:   gitDetector,
		predictor:     predictor,
		logger:        log.New(io.Discard, "", 0),
		impulsiveness: domain.DefaultImpulsiveness,
		now:           time.Now,
	}
}

// SetLogger sets the diagnostics logger.
func (s *TrackerService) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SetImpulsiveness changes the delay sensitivity used for scoring.
func (s *TrackerService) SetImpulsiveness(k float64) {
	if k > 0 {
		s.impulsiveness = k
		s.tasks.SetImpulsiveness(k)
	}
}

// SetWorkingDir sets the directory git context is read from.
func (s *TrackerService) SetWorkingDir(dir string) {
	s.workingDir = dir
}

// SetClock replaces the time source.
func (s *TrackerService) SetClock(now func() time.Time) {
	s.now = now
}

// ComputeScore implements ports.Tracker.
func (s *TrackerService) ComputeScore(ctx context.Context, m domain.Metrics) (float64, error) {
	return domain.ComputePriority(m.Clamp(), s.impulsiveness), nil
}

// Predict implements ports.Tracker.
func (s *TrackerService) Predict(ctx context.Context, title string) (*domain.Prediction, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.ErrEmptyTaskTitle
	}
	m := s.predictor.Predict(title)
	return &domain.Prediction{
		Metrics:       m,
		PriorityScore: domain.MotivationScore(m, s.impulsiveness),
	}, nil
}

// StartSession implements ports.Tracker. Any other active task is paused
// first.
func (s *TrackerService) StartSession(ctx context.Context, taskID string) (*ports.StartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.storage.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if err := domain.CheckTransition(task.Status, domain.StatusActive); err != nil {
		return nil, err
	}

	now := s.now()

	active, err := s.storage.Tasks().FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check active task: %w", err)
	}
	var previous *domain.Task
	if active != nil && active.ID != task.ID {
		before := *active
		if _, err := active.Pause(now); err != nil {
			return nil, fmt.Errorf("failed to pause active task: %w", err)
		}
		if err := s.storage.Tasks().Update(ctx, active); err != nil {
			return nil, fmt.Errorf("failed to update active task: %w", err)
		}
		previous = &before
	}

	if err := task.Activate(now); err != nil {
		return nil, err
	}
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		if previous != nil {
			if rerr := s.storage.Tasks().Update(ctx, previous); rerr != nil {
				s.logger.Printf("Warning: failed to reactivate %s: %v", previous.ID, rerr)
			}
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if previous != nil {
		s.closeWorkSession(ctx, previous.ID, now)
	}

	session := domain.NewWorkSession(task.ID, now)
	if s.gitDetector != nil {
		if gitInfo, err := s.gitDetector.Detect(ctx, s.workingDir); err == nil && gitInfo != nil {
			session.SetGitContext(gitInfo.Branch, gitInfo.Commit)
		}
	}
	if err := s.storage.Sessions().Save(ctx, session); err != nil {
		s.logger.Printf("Warning: failed to record work session for %s: %v", task.ID, err)
	}

	return &ports.StartResult{Status: task.Status, Task: task}, nil
}

// PauseSession implements ports.Tracker.
func (s *TrackerService) PauseSession(ctx context.Context, taskID string) (*ports.PauseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.storage.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	now := s.now()
	accumulated, err := task.Pause(now)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	s.closeWorkSession(ctx, task.ID, now)

	return &ports.PauseResult{Status: task.Status, Accumulated: accumulated}, nil
}

// CompleteSession implements ports.Tracker.
func (s *TrackerService) CompleteSession(ctx context.Context, taskID string) (*ports.CompleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.storage.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	now := s.now()
	if err := task.Complete(now); err != nil {
		return nil, err
	}
	task.XPEarned = domain.ComputeXP(task.Accumulated, task.Priority)
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	s.closeWorkSession(ctx, task.ID, now)

	profile, err := s.storage.Profile().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	reward := profile.Grant(task.XPEarned)
	if err := s.storage.Profile().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &ports.CompleteResult{
		Status:      task.Status,
		Accumulated: task.Accumulated,
		Reward:      reward,
	}, nil
}

func (s *TrackerService) closeWorkSession(ctx context.Context, taskID string, now time.Time) {
	open, err := s.storage.Sessions().FindOpenByTask(ctx, taskID)
	if err != nil || open == nil {
		return
	}
	open.Close(now)
	if err := s.storage.Sessions().Update(ctx, open); err != nil {
		s.logger.Printf("Warning: failed to close work session %s: %v", open.ID, err)
	}
}

// ToggleSubtask implements ports.Tracker.
func (s *TrackerService) ToggleSubtask(ctx context.Context, subtaskID string) (domain.SubtaskStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.storage.Tasks().FindSubtask(ctx, subtaskID)
	if err != nil {
		return "", fmt.Errorf("failed to find subtask: %w", err)
	}
	status := st.Toggle()
	if err := s.storage.Tasks().UpdateSubtask(ctx, st); err != nil {
		return "", fmt.Errorf("failed to update subtask: %w", err)
	}
	return status, nil
}

// RecommendAlternative implements ports.Tracker.
func (s *TrackerService) RecommendAlternative(ctx context.Context, currentTaskID string) (*domain.Recommendation, error) {
	tasks, err := s.storage.Tasks().FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	rec := domain.Recommend(tasks, currentTaskID)
	return &rec, nil
}

// ListTasks implements ports.Tracker.
func (s *TrackerService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.ListTasks(ctx, ListTasksRequest{})
}

// GetTask implements ports.Tracker.
func (s *TrackerService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.tasks.GetTask(ctx, taskID)
}

// CreateTask implements ports.Tracker.
func (s *TrackerService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*domain.Task, error) {
	return s.tasks.AddTask(ctx, req)
}

// DeleteTask implements ports.Tracker.
func (s *TrackerService) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.DeleteTask(ctx, taskID)
}
