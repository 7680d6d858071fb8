// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// TaskService handles task-related use cases.
type TaskService struct {
	storage       ports.Storage
	impulsiveness float64
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage) *TaskService {
	return &TaskService{storage: storage, impulsiveness: domain.DefaultImpulsiveness}
}

// SetImpulsiveness changes the delay sensitivity used for scoring.
func (s *TaskService) SetImpulsiveness(k float64) {
	if k > 0 {
		s.impulsiveness = k
	}
}

// AddTask scores and stores a new task with its subtasks.
func (s *TaskService) AddTask(ctx context.Context, req ports.CreateTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(req.Title)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	m := req.Metrics.Clamp()
	task.Description = req.Description
	task.Priority = domain.ComputePriority(m, s.impulsiveness)
	task.SetAnalysis(m.Urgency, m.Fear, m.Interest, req.Difficulty)

	for _, title := range req.Subtasks {
		if strings.TrimSpace(title) == "" {
			continue
		}
		if _, err := task.AddSubtask(title); err != nil {
			return nil, fmt.Errorf("invalid subtask: %w", err)
		}
	}

	if err := s.storage.Tasks().Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	Status   *domain.TaskStatus
	OnlyOpen bool
}

// ListTasks retrieves tasks based on filters.
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	tasks, err := s.storage.Tasks().FindAll(ctx, req.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if !req.OnlyOpen {
		return tasks, nil
	}

	open := tasks[:0]
	for _, t := range tasks {
		if !t.IsCompleted() {
			open = append(open, t)
		}
	}
	return open, nil
}

// GetTask retrieves a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.storage.Tasks().FindByID(ctx, id)
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.storage.Tasks().Delete(ctx, id)
}
