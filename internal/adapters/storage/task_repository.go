package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

const taskColumns = `id, title, description, status, priority, accumulated, started_at, xp_earned, created_at, updated_at, completed_at`

// taskRepository implements ports.TaskRepository using SQLite.
type taskRepository struct {
	db *sql.DB
}

// newTaskRepository creates a new task repository.
func newTaskRepository(db *sql.DB) ports.TaskRepository {
	return &taskRepository{db: db}
}

// Save persists a task with its subtasks and analysis in one transaction.
func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.Priority,
		task.Accumulated,
		task.Start,
		task.XPEarned,
		task.CreatedAt,
		task.UpdatedAt,
		task.CompletedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("task %s already exists: %w", task.ID, err)
		}
		return fmt.Errorf("failed to save task: %w", err)
	}

	for _, st := range task.Subtasks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO subtasks (id, task_id, title, status, position) VALUES (?, ?, ?, ?, ?)`,
			st.ID, task.ID, st.Title, string(st.Status), st.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to save subtask: %w", err)
		}
	}

	if a := task.Analysis; a != nil {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_analysis (task_id, urgency, fear, interest, difficulty) VALUES (?, ?, ?, ?, ?)`,
			task.ID, a.Urgency, a.Fear, a.Interest, a.Difficulty,
		)
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its unique identifier.
func (r *taskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := r.loadDetails(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// FindAll retrieves all tasks, optionally filtered by status.
func (r *taskRepository) FindAll(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error) {
	var query string
	var args []interface{}

	if status != nil {
		query = `SELECT ` + taskColumns + ` FROM tasks WHERE status = ? ORDER BY created_at ASC, rowid ASC`
		args = append(args, string(*status))
	} else {
		query = `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at ASC, rowid ASC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	tasks, err := scanTasks(rows)
	_ = rows.Close()
	if err != nil {
		return nil, err
	}

	if err := r.loadDetails(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindActive returns the currently active task, or nil.
func (r *taskRepository) FindActive(ctx context.Context) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, string(domain.StatusActive)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active task: %w", err)
	}

	if err := r.loadDetails(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// Update modifies an existing task row.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, accumulated = ?,
			started_at = ?, xp_earned = ?, updated_at = ?, completed_at = ?
		WHERE id = ?
	`

	task.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		task.Priority,
		task.Accumulated,
		task.Start,
		task.XPEarned,
		task.UpdatedAt,
		task.CompletedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task from storage. Subtasks, analysis and sessions
// cascade.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// FindSubtask retrieves a subtask by its identifier.
func (r *taskRepository) FindSubtask(ctx context.Context, id string) (*domain.Subtask, error) {
	var st domain.Subtask
	err := r.db.QueryRowContext(ctx,
		`SELECT id, task_id, title, status, position FROM subtasks WHERE id = ?`, id,
	).Scan(&st.ID, &st.TaskID, &st.Title, &st.Status, &st.Position)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSubtaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subtask: %w", err)
	}
	return &st, nil
}

// UpdateSubtask stores a subtask's title and status.
func (r *taskRepository) UpdateSubtask(ctx context.Context, st *domain.Subtask) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subtasks SET title = ?, status = ? WHERE id = ?`,
		st.Title, string(st.Status), st.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subtask: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrSubtaskNotFound
	}
	return nil
}

// loadDetails attaches subtasks and analysis to already scanned tasks.
func (r *taskRepository) loadDetails(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Task, len(tasks))
	args := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		t.Subtasks = []domain.Subtask{}
		byID[t.ID] = t
		args = append(args, t.ID)
	}
	in := "(" + strings.TrimSuffix(strings.Repeat("?,", len(tasks)), ",") + ")"

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, title, status, position FROM subtasks WHERE task_id IN `+in+` ORDER BY task_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to query subtasks: %w", err)
	}
	for rows.Next() {
		var st domain.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.Status, &st.Position); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan subtask: %w", err)
		}
		if t := byID[st.TaskID]; t != nil {
			t.Subtasks = append(t.Subtasks, st)
		}
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return fmt.Errorf("failed to read subtasks: %w", err)
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT task_id, urgency, fear, interest, difficulty FROM task_analysis WHERE task_id IN `+in,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to query analysis: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var taskID string
		var a domain.Analysis
		if err := rows.Scan(&taskID, &a.Urgency, &a.Fear, &a.Interest, &a.Difficulty); err != nil {
			return fmt.Errorf("failed to scan analysis: %w", err)
		}
		if t := byID[taskID]; t != nil {
			analysis := a
			t.Analysis = &analysis
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var startedAt sql.NullTime
	var completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Accumulated,
		&startedAt,
		&task.XPEarned,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if startedAt.Valid {
		task.Start = &startedAt.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	return &task, nil
}

// scanTasks scans multiple task rows.
func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
