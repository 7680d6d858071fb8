package ports

import (
	"context"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// OverviewProvider supplies the read-only tracker summary shown by status,
// the stats dashboard and the MCP resources. Both the local state service
// and the remote client implement it.
type OverviewProvider interface {
	// GetOverview returns the active task, all tasks, XP and recent history.
	GetOverview(ctx context.Context) (*domain.Overview, error)

	// GetTaskHistory returns work sessions for a specific task, oldest first.
	GetTaskHistory(ctx context.Context, taskID string) ([]*domain.WorkSession, error)
}
