// Package ports defines the interfaces (driven and driving ports)
// for the Octo application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// TaskRepository defines the interface for task persistence.
// Tasks are loaded together with their subtasks and analysis.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// Save persists a new task, its subtasks and analysis.
	Save(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindAll retrieves all tasks in creation order, optionally filtered by status.
	FindAll(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error)

	// FindActive returns the active task, or nil when none is running.
	FindActive(ctx context.Context) (*domain.Task, error)

	// Update modifies the task row (status, timer, priority, reward).
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and its subtasks.
	Delete(ctx context.Context, id string) error

	// FindSubtask retrieves a subtask by its identifier.
	FindSubtask(ctx context.Context, id string) (*domain.Subtask, error)

	// UpdateSubtask stores a subtask's status.
	UpdateSubtask(ctx context.Context, subtask *domain.Subtask) error
}

// WorkSessionRepository defines the interface for work history persistence.
// This is a driven port (implemented by adapters).
type WorkSessionRepository interface {
	// Save persists a new work session.
	Save(ctx context.Context, session *domain.WorkSession) error

	// Update modifies an existing work session.
	Update(ctx context.Context, session *domain.WorkSession) error

	// FindOpenByTask returns the open interval for a task, or nil.
	FindOpenByTask(ctx context.Context, taskID string) (*domain.WorkSession, error)

	// FindByTask retrieves all sessions associated with a task.
	FindByTask(ctx context.Context, taskID string) ([]*domain.WorkSession, error)

	// FindRecent retrieves sessions started since the given time, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.WorkSession, error)
}

// ProfileRepository stores the local user's XP.
// This is a driven port (implemented by adapters).
type ProfileRepository interface {
	// Get returns the profile, creating an empty one on first use.
	Get(ctx context.Context) (*domain.Profile, error)

	// Update stores the profile.
	Update(ctx context.Context, profile *domain.Profile) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Tasks provides access to task operations.
	Tasks() TaskRepository

	// Sessions provides access to work history.
	Sessions() WorkSessionRepository

	// Profile provides access to the user's XP.
	Profile() ProfileRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
