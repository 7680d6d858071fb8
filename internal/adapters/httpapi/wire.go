package httpapi

import (
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// defaultDiff is reported for tasks that were never analysed.
const defaultDiff = 5

// SubtaskJSON is the wire form of a subtask.
type SubtaskJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Position int    `json:"position"`
}

// AnalysisJSON is the wire form of a task's metrics.
type AnalysisJSON struct {
	Urgency    float64 `json:"urgency"`
	Fear       float64 `json:"fear"`
	Interest   float64 `json:"interest"`
	Difficulty float64 `json:"difficulty"`
}

// TaskJSON is the wire form of a task.
type TaskJSON struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      string        `json:"status"`
	Priority    float64       `json:"priority"`
	Diff        float64       `json:"diff"`
	Accumulated int64         `json:"accumulated"`
	Start       *time.Time    `json:"start"`
	Subtasks    []SubtaskJSON `json:"subtasks"`
	Analysis    *AnalysisJSON `json:"analysis,omitempty"`
	XPEarned    int           `json:"xp_earned"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// NewTaskJSON converts a domain task for the wire.
func NewTaskJSON(t *domain.Task) TaskJSON {
	out := TaskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    t.Priority,
		Diff:        defaultDiff,
		Accumulated: t.Accumulated,
		Start:       t.Start,
		Subtasks:    make([]SubtaskJSON, 0, len(t.Subtasks)),
		XPEarned:    t.XPEarned,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
	if a := t.Analysis; a != nil {
		out.Diff = a.Difficulty
		out.Analysis = &AnalysisJSON{
			Urgency:    a.Urgency,
			Fear:       a.Fear,
			Interest:   a.Interest,
			Difficulty: a.Difficulty,
		}
	}
	for _, st := range t.Subtasks {
		out.Subtasks = append(out.Subtasks, SubtaskJSON{
			ID:       st.ID,
			Title:    st.Title,
			Status:   string(st.Status),
			Position: st.Position,
		})
	}
	return out
}

// Domain converts a wire task back into a domain task.
func (j TaskJSON) Domain() (*domain.Task, error) {
	status, err := domain.ParseTaskStatus(j.Status)
	if err != nil {
		return nil, err
	}
	t := &domain.Task{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Status:      status,
		Priority:    j.Priority,
		Accumulated: j.Accumulated,
		Start:       j.Start,
		Subtasks:    make([]domain.Subtask, 0, len(j.Subtasks)),
		XPEarned:    j.XPEarned,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
		CompletedAt: j.CompletedAt,
	}
	if status != domain.StatusActive {
		t.Start = nil
	}
	if a := j.Analysis; a != nil {
		t.Analysis = &domain.Analysis{
			Urgency:    a.Urgency,
			Fear:       a.Fear,
			Interest:   a.Interest,
			Difficulty: a.Difficulty,
		}
	}
	for _, st := range j.Subtasks {
		status := domain.SubtaskPending
		if st.Status == string(domain.SubtaskCompleted) {
			status = domain.SubtaskCompleted
		}
		t.Subtasks = append(t.Subtasks, domain.Subtask{
			ID:       st.ID,
			TaskID:   j.ID,
			Title:    st.Title,
			Status:   status,
			Position: st.Position,
		})
	}
	return t, nil
}

// MetricsRequest carries scoring inputs. Missing values default to 5.
type MetricsRequest struct {
	Urgency  *float64 `json:"urgency"`
	Fear     *float64 `json:"fear"`
	Interest *float64 `json:"interest"`
}

// Metrics returns the request as domain metrics.
func (r MetricsRequest) Metrics() domain.Metrics {
	value := func(p *float64) float64 {
		if p == nil {
			return 5
		}
		return *p
	}
	return domain.Metrics{
		Urgency:  value(r.Urgency),
		Fear:     value(r.Fear),
		Interest: value(r.Interest),
	}
}

// NewMetricsRequest builds a request from domain metrics.
func NewMetricsRequest(m domain.Metrics) MetricsRequest {
	u, f, i := m.Urgency, m.Fear, m.Interest
	return MetricsRequest{Urgency: &u, Fear: &f, Interest: &i}
}

// ScoreResponse is returned by POST /api/score.
type ScoreResponse struct {
	PriorityScore float64 `json:"priority_score"`
}

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	Title string `json:"title"`
}

// PredictResponse is returned by POST /api/predict.
type PredictResponse struct {
	Urgency       float64 `json:"urgency"`
	Fear          float64 `json:"fear"`
	Interest      float64 `json:"interest"`
	PriorityScore float64 `json:"priority_score"`
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Urgency     float64  `json:"urgency"`
	Fear        float64  `json:"fear"`
	Interest    float64  `json:"interest"`
	Difficulty  float64  `json:"difficulty"`
	Subtasks    []string `json:"subtasks"`
}

// TaskListResponse is returned by GET /api/tasks.
type TaskListResponse struct {
	Tasks []TaskJSON `json:"tasks"`
}

// StartResponse is returned by POST /api/tasks/:id/start.
type StartResponse struct {
	Success bool      `json:"success"`
	Status  string    `json:"status"`
	Task    *TaskJSON `json:"task,omitempty"`
}

// PauseResponse is returned by POST /api/tasks/:id/pause.
type PauseResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	TimeSpent int64  `json:"time_spent"`
}

// CompleteResponse is returned by POST /api/tasks/:id/complete.
type CompleteResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	TimeSpent int64  `json:"time_spent"`
	XPGained  int    `json:"xp_gained"`
	TotalXP   int    `json:"total_xp"`
	LeveledUp bool   `json:"leveled_up"`
	NewLevel  int    `json:"new_level"`
}

// ToggleResponse is returned by POST /api/subtasks/:id/toggle.
type ToggleResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// RecommendResponse is returned by GET /api/tasks/:id/recommend.
type RecommendResponse struct {
	Found   bool   `json:"found"`
	TaskID  string `json:"task_id,omitempty"`
	Message string `json:"message"`
}

// SuccessResponse acknowledges an operation with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WorkSessionJSON is the wire form of a history row.
type WorkSessionJSON struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"task_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Seconds   int64      `json:"seconds"`
	GitBranch string     `json:"git_branch,omitempty"`
	GitCommit string     `json:"git_commit,omitempty"`
}

// NewWorkSessionJSON converts a work session for the wire.
func NewWorkSessionJSON(s *domain.WorkSession) WorkSessionJSON {
	return WorkSessionJSON{
		ID:        s.ID,
		TaskID:    s.TaskID,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Seconds:   s.Seconds,
		GitBranch: s.GitBranch,
		GitCommit: s.GitCommit,
	}
}

// Domain converts a wire session back into a domain session.
func (j WorkSessionJSON) Domain() *domain.WorkSession {
	return &domain.WorkSession{
		ID:        j.ID,
		TaskID:    j.TaskID,
		StartedAt: j.StartedAt,
		EndedAt:   j.EndedAt,
		Seconds:   j.Seconds,
		GitBranch: j.GitBranch,
		GitCommit: j.GitCommit,
	}
}

// ProfileJSON is the wire form of the user's progression.
type ProfileJSON struct {
	TotalXP int `json:"total_xp"`
	Level   int `json:"level"`
}

// OverviewResponse is returned by GET /api/overview.
type OverviewResponse struct {
	ActiveTask     *TaskJSON         `json:"active_task,omitempty"`
	Tasks          []TaskJSON        `json:"tasks"`
	Profile        ProfileJSON       `json:"profile"`
	RecentSessions []WorkSessionJSON `json:"recent_sessions"`
}

// NewOverviewResponse converts an overview for the wire.
func NewOverviewResponse(o *domain.Overview) OverviewResponse {
	resp := OverviewResponse{
		Tasks:          make([]TaskJSON, 0, len(o.Tasks)),
		Profile:        ProfileJSON{TotalXP: o.Profile.TotalXP, Level: o.Profile.Level},
		RecentSessions: make([]WorkSessionJSON, 0, len(o.RecentSessions)),
	}
	if o.ActiveTask != nil {
		active := NewTaskJSON(o.ActiveTask)
		resp.ActiveTask = &active
	}
	for _, t := range o.Tasks {
		resp.Tasks = append(resp.Tasks, NewTaskJSON(t))
	}
	for _, ws := range o.RecentSessions {
		resp.RecentSessions = append(resp.RecentSessions, NewWorkSessionJSON(ws))
	}
	return resp
}

// HistoryResponse is returned by GET /api/tasks/:id/history.
type HistoryResponse struct {
	Sessions []WorkSessionJSON `json:"sessions"`
}
