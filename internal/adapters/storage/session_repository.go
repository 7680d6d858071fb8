package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

const sessionColumns = `id, task_id, started_at, ended_at, seconds, git_branch, git_commit`

// sessionRepository implements ports.WorkSessionRepository using SQLite.
type sessionRepository struct {
	db *sql.DB
}

// newSessionRepository creates a new work session repository.
func newSessionRepository(db *sql.DB) ports.WorkSessionRepository {
	return &sessionRepository{db: db}
}

// Save persists a work session to storage.
func (r *sessionRepository) Save(ctx context.Context, session *domain.WorkSession) error {
	query := `INSERT INTO work_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.TaskID,
		session.StartedAt,
		session.EndedAt,
		session.Seconds,
		session.GitBranch,
		session.GitCommit,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Update modifies an existing work session.
func (r *sessionRepository) Update(ctx context.Context, session *domain.WorkSession) error {
	query := `
		UPDATE work_sessions
		SET ended_at = ?, seconds = ?, git_branch = ?, git_commit = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		session.EndedAt,
		session.Seconds,
		session.GitBranch,
		session.GitCommit,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("session %s not found", session.ID)
	}

	return nil
}

// FindOpenByTask returns the interval still running for a task, or nil.
func (r *sessionRepository) FindOpenByTask(ctx context.Context, taskID string) (*domain.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE task_id = ? AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1
	`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, taskID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open session: %w", err)
	}
	return session, nil
}

// FindByTask retrieves all sessions for a task, oldest first.
func (r *sessionRepository) FindByTask(ctx context.Context, taskID string) ([]*domain.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE task_id = ?
		ORDER BY started_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// FindRecent retrieves sessions started since the given time, newest first.
func (r *sessionRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.WorkSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE started_at >= ?
		ORDER BY started_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

func scanSession(row rowScanner) (*domain.WorkSession, error) {
	var session domain.WorkSession
	var endedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.TaskID,
		&session.StartedAt,
		&endedAt,
		&session.Seconds,
		&session.GitBranch,
		&session.GitCommit,
	)
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}
	return &session, nil
}

func scanSessions(rows *sql.Rows) ([]*domain.WorkSession, error) {
	sessions := []*domain.WorkSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
