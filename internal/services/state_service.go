package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// recentWindow bounds how far back the overview looks for work sessions.
const recentWindow = 7 * 24 * time.Hour

// StateService implements the OverviewProvider interface.
type StateService struct {
	storage ports.Storage
	limit   int
}

// NewStateService creates a new state service.
func NewStateService(storage ports.Storage) *StateService {
	return &StateService{storage: storage, limit: 10}
}

// SetRecentLimit changes how many recent sessions the overview carries.
func (s *StateService) SetRecentLimit(n int) {
	if n > 0 {
		s.limit = n
	}
}

// GetOverview implements ports.OverviewProvider.
func (s *StateService) GetOverview(ctx context.Context) (*domain.Overview, error) {
	tasks, err := s.storage.Tasks().FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var active *domain.Task
	for _, t := range tasks {
		if t.IsActive() {
			active = t
			break
		}
	}

	profile, err := s.storage.Profile().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	recent, err := s.GetRecentSessions(ctx, s.limit)
	if err != nil {
		return nil, err
	}

	return &domain.Overview{
		ActiveTask:     active,
		Tasks:          tasks,
		Profile:        *profile,
		RecentSessions: recent,
	}, nil
}

// GetTaskHistory implements ports.OverviewProvider.
func (s *StateService) GetTaskHistory(ctx context.Context, taskID string) ([]*domain.WorkSession, error) {
	return s.storage.Sessions().FindByTask(ctx, taskID)
}

// GetRecentSessions retrieves the latest work sessions of the past week.
func (s *StateService) GetRecentSessions(ctx context.Context, limit int) ([]*domain.WorkSession, error) {
	sessions, err := s.storage.Sessions().FindRecent(ctx, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to find recent sessions: %w", err)
	}

	if len(sessions) > limit {
		return sessions[:limit], nil
	}
	return sessions, nil
}

// Ensure StateService implements OverviewProvider.
var _ ports.OverviewProvider = (*StateService)(nil)
