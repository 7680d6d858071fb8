// Package remote talks to an octo HTTP API, so the focus client can run
// against a tracker on another machine.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// DefaultTimeout is used when NewClient is given no timeout.
const DefaultTimeout = 10 * time.Second

// ErrNotConfirmed is returned when a 2xx answer does not report success or
// reports a state other than the one requested.
var ErrNotConfirmed = errors.New("server did not confirm the request")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Unwrap exposes the domain sentinel behind the error code, so callers can
// use errors.Is(err, domain.ErrTaskNotFound) across the wire.
func (e *APIError) Unwrap() error {
	return httpapi.SentinelFor(e.Code)
}

// Client implements ports.Tracker and ports.OverviewProvider over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ ports.Tracker          = (*Client)(nil)
	_ ports.OverviewProvider = (*Client)(nil)
)

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e httpapi.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil {
			apiErr.Code = e.Code
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// confirmed checks a transition reply against the requested state.
func confirmed(success bool, raw string, want domain.TaskStatus) (domain.TaskStatus, error) {
	if !success {
		return "", ErrNotConfirmed
	}
	status, err := domain.ParseTaskStatus(raw)
	if err != nil {
		return "", fmt.Errorf("unexpected status %q: %w", raw, err)
	}
	if status != want {
		return "", fmt.Errorf("%w: status %s, want %s", ErrNotConfirmed, status, want)
	}
	return status, nil
}

func taskPath(id, action string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", domain.ErrInvalidTaskID
	}
	p := "/api/tasks/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p, nil
}

// ComputeScore implements ports.Tracker.
func (c *Client) ComputeScore(ctx context.Context, m domain.Metrics) (float64, error) {
	var resp httpapi.ScoreResponse
	if err := c.do(ctx, http.MethodPost, "/api/score", httpapi.NewMetricsRequest(m), &resp); err != nil {
		return 0, err
	}
	return resp.PriorityScore, nil
}

// Predict implements ports.Tracker.
func (c *Client) Predict(ctx context.Context, title string) (*domain.Prediction, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.ErrEmptyTaskTitle
	}
	var resp httpapi.PredictResponse
	if err := c.do(ctx, http.MethodPost, "/api/predict", httpapi.PredictRequest{Title: title}, &resp); err != nil {
		return nil, err
	}
	return &domain.Prediction{
		Metrics: domain.Metrics{
			Urgency:  resp.Urgency,
			Fear:     resp.Fear,
			Interest: resp.Interest,
		},
		PriorityScore: resp.PriorityScore,
	}, nil
}

// StartSession implements ports.Tracker.
func (c *Client) StartSession(ctx context.Context, taskID string) (*ports.StartResult, error) {
	path, err := taskPath(taskID, "start")
	if err != nil {
		return nil, err
	}
	var resp httpapi.StartResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	status, err := confirmed(resp.Success, resp.Status, domain.StatusActive)
	if err != nil {
		return nil, err
	}
	res := &ports.StartResult{Status: status}
	if resp.Task != nil {
		task, err := resp.Task.Domain()
		if err != nil {
			return nil, err
		}
		res.Task = task
	}
	return res, nil
}

// PauseSession implements ports.Tracker.
func (c *Client) PauseSession(ctx context.Context, taskID string) (*ports.PauseResult, error) {
	path, err := taskPath(taskID, "pause")
	if err != nil {
		return nil, err
	}
	var resp httpapi.PauseResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	status, err := confirmed(resp.Success, resp.Status, domain.StatusPaused)
	if err != nil {
		return nil, err
	}
	return &ports.PauseResult{Status: status, Accumulated: resp.TimeSpent}, nil
}

// CompleteSession implements ports.Tracker.
func (c *Client) CompleteSession(ctx context.Context, taskID string) (*ports.CompleteResult, error) {
	path, err := taskPath(taskID, "complete")
	if err != nil {
		return nil, err
	}
	var resp httpapi.CompleteResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	status, err := confirmed(resp.Success, resp.Status, domain.StatusCompleted)
	if err != nil {
		return nil, err
	}
	return &ports.CompleteResult{
		Status:      status,
		Accumulated: resp.TimeSpent,
		Reward: domain.Reward{
			XPGained:  resp.XPGained,
			TotalXP:   resp.TotalXP,
			LeveledUp: resp.LeveledUp,
			NewLevel:  resp.NewLevel,
		},
	}, nil
}

// ToggleSubtask implements ports.Tracker.
func (c *Client) ToggleSubtask(ctx context.Context, subtaskID string) (domain.SubtaskStatus, error) {
	if strings.TrimSpace(subtaskID) == "" {
		return "", domain.ErrSubtaskNotFound
	}
	var resp httpapi.ToggleResponse
	path := "/api/subtasks/" + url.PathEscape(subtaskID) + "/toggle"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", ErrNotConfirmed
	}
	switch domain.SubtaskStatus(resp.Status) {
	case domain.SubtaskPending, domain.SubtaskCompleted:
		return domain.SubtaskStatus(resp.Status), nil
	}
	return "", fmt.Errorf("unexpected subtask status %q", resp.Status)
}

// RecommendAlternative implements ports.Tracker.
func (c *Client) RecommendAlternative(ctx context.Context, currentTaskID string) (*domain.Recommendation, error) {
	path, err := taskPath(currentTaskID, "recommend")
	if err != nil {
		return nil, err
	}
	var resp httpapi.RecommendResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &domain.Recommendation{
		Found:   resp.Found,
		TaskID:  resp.TaskID,
		Message: resp.Message,
	}, nil
}

// ListTasks implements ports.Tracker.
func (c *Client) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	var resp httpapi.TaskListResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return toTasks(resp.Tasks)
}

// GetTask implements ports.Tracker.
func (c *Client) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	path, err := taskPath(taskID, "")
	if err != nil {
		return nil, err
	}
	var resp httpapi.TaskJSON
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Domain()
}

// CreateTask implements ports.Tracker.
func (c *Client) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*domain.Task, error) {
	body := httpapi.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Urgency:     req.Metrics.Urgency,
		Fear:        req.Metrics.Fear,
		Interest:    req.Metrics.Interest,
		Difficulty:  req.Difficulty,
		Subtasks:    req.Subtasks,
	}
	var resp httpapi.TaskJSON
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, &resp); err != nil {
		return nil, err
	}
	return resp.Domain()
}

// DeleteTask implements ports.Tracker.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	path, err := taskPath(taskID, "")
	if err != nil {
		return err
	}
	var resp httpapi.SuccessResponse
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return ErrNotConfirmed
	}
	return nil
}

// GetOverview implements ports.OverviewProvider.
func (c *Client) GetOverview(ctx context.Context) (*domain.Overview, error) {
	var resp httpapi.OverviewResponse
	if err := c.do(ctx, http.MethodGet, "/api/overview", nil, &resp); err != nil {
		return nil, err
	}

	tasks, err := toTasks(resp.Tasks)
	if err != nil {
		return nil, err
	}
	o := &domain.Overview{
		Tasks:          tasks,
		Profile:        domain.Profile{TotalXP: resp.Profile.TotalXP, Level: resp.Profile.Level},
		RecentSessions: toSessions(resp.RecentSessions),
	}
	if resp.ActiveTask != nil {
		if o.ActiveTask, err = resp.ActiveTask.Domain(); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// GetTaskHistory implements ports.OverviewProvider.
func (c *Client) GetTaskHistory(ctx context.Context, taskID string) ([]*domain.WorkSession, error) {
	path, err := taskPath(taskID, "history")
	if err != nil {
		return nil, err
	}
	var resp httpapi.HistoryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return toSessions(resp.Sessions), nil
}

// Ping checks the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil
		}
		return err
	}
	return nil
}

func toTasks(in []httpapi.TaskJSON) ([]*domain.Task, error) {
	out := make([]*domain.Task, 0, len(in))
	for _, j := range in {
		t, err := j.Domain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func toSessions(in []httpapi.WorkSessionJSON) []*domain.WorkSession {
	out := make([]*domain.WorkSession, 0, len(in))
	for _, j := range in {
		out = append(out, j.Domain())
	}
	return out
}
