// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

const timeLayout = "2006-01-02T15:04:05"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server  *server.MCPServer
	tracker ports.Tracker
	history ports.OverviewProvider
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewServer creates a new MCP server instance. history may be nil, in which
// case get_task omits work sessions.
func NewServer(tracker ports.Tracker, history ports.OverviewProvider) *Server {
	s := &Server{
		tracker: tracker,
		history: history,
	}

	s.server = server.NewMCPServer(
		"octo",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List tasks ranked by priority: the top ring first, then the reserve"),
			mcp.WithString(
				"status",
				mcp.Description("Filter tasks by status"),
				mcp.Enum("pending", "active", "paused", "completed"),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_task",
			mcp.WithDescription("Get a task with its subtasks, analysis and work-session history"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task")),
		),
		s.handleGetTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"deep_dive",
			mcp.WithDescription("Pick the task to focus on now: the active task, else the highest priority open task"),
		),
		s.handleDeepDive,
	)

	s.server.AddTool(
		mcp.NewTool(
			"start_session",
			mcp.WithDescription("Start working on a task. Any other active task is paused"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task to start")),
		),
		s.handleStartSession,
	)

	s.server.AddTool(
		mcp.NewTool(
			"pause_session",
			mcp.WithDescription("Pause the active task and bank its time"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task to pause")),
		),
		s.handlePauseSession,
	)

	s.server.AddTool(
		mcp.NewTool(
			"complete_session",
			mcp.WithDescription("Complete a task and collect its XP"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the task to complete")),
		),
		s.handleCompleteSession,
	)

	s.server.AddTool(
		mcp.NewTool(
			"toggle_subtask",
			mcp.WithDescription("Flip a subtask between pending and completed"),
			mcp.WithString("subtask_id", mcp.Required(), mcp.Description("The ID of the subtask")),
		),
		s.handleToggleSubtask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"recommend_alternative",
			mcp.WithDescription("Suggest an easier, more interesting task than the current one"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("The ID of the current task")),
		),
		s.handleRecommend,
	)

	s.server.AddTool(
		mcp.NewTool(
			"create_task",
			mcp.WithDescription("Create a task. Missing metrics are predicted from the title"),
			mcp.WithString("title", mcp.Required(), mcp.Description("The title of the task")),
			mcp.WithString("description", mcp.Description("Optional description of the task")),
			mcp.WithNumber("urgency", mcp.Description("Urgency from 1 to 10")),
			mcp.WithNumber("fear", mcp.Description("Fear from 1 to 10")),
			mcp.WithNumber("interest", mcp.Description("Interest from 1 to 10")),
			mcp.WithNumber("difficulty", mcp.Description("Difficulty from 1 to 10 (defaults to fear)")),
			mcp.WithString("subtasks", mcp.Description("Optional comma-separated subtasks")),
		),
		s.handleCreateTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"predict_metrics",
			mcp.WithDescription("Estimate urgency, fear, interest and priority from a task title"),
			mcp.WithString("title", mcp.Required(), mcp.Description("The task title to analyse")),
		),
		s.handlePredict,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func taskSummary(t *domain.Task) map[string]interface{} {
	done, total := t.SubtaskProgress()
	m := map[string]interface{}{
		"id":          t.ID,
		"title":       t.Title,
		"status":      string(t.Status),
		"priority":    t.Priority,
		"accumulated": domain.FormatClock(t.Accumulated),
		"subtasks":    fmt.Sprintf("%d/%d", done, total),
	}
	if t.Analysis != nil {
		m["difficulty"] = t.Analysis.Difficulty
	}
	return m
}

func taskDetail(t *domain.Task) map[string]interface{} {
	m := taskSummary(t)
	m["description"] = t.Description
	m["accumulated_seconds"] = t.Accumulated
	m["created_at"] = t.CreatedAt.Format(timeLayout)
	if t.Start != nil {
		m["started_at"] = t.Start.Format(timeLayout)
	}
	if t.CompletedAt != nil {
		m["completed_at"] = t.CompletedAt.Format(timeLayout)
		m["xp_earned"] = t.XPEarned
	}
	if a := t.Analysis; a != nil {
		m["analysis"] = map[string]interface{}{
			"urgency":    a.Urgency,
			"fear":       a.Fear,
			"interest":   a.Interest,
			"difficulty": a.Difficulty,
		}
	}
	subtasks := make([]map[string]interface{}, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		subtasks = append(subtasks, map[string]interface{}{
			"id":     st.ID,
			"title":  st.Title,
			"status": string(st.Status),
		})
	}
	m["subtasks"] = subtasks
	return m
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := request.GetString("status", "")

	tasks, err := s.tracker.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	ranking := domain.Rank(tasks)
	var ring, reserve []map[string]interface{}
	for _, slot := range ranking.Primary {
		if status != "" && string(slot.Task.Status) != status {
			continue
		}
		ring = append(ring, taskSummary(slot.Task))
	}
	for _, e := range ranking.Reserve {
		if status != "" && string(e.Task.Status) != status {
			continue
		}
		reserve = append(reserve, taskSummary(e.Task))
	}

	result := map[string]interface{}{
		"ring":        ring,
		"reserve":     reserve,
		"total_count": len(ring) + len(reserve),
	}
	if status != "" {
		result["filter_status"] = status
	}
	return jsonResult(result)
}

// handleGetTask handles the get_task tool.
func (s *Server) handleGetTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	task, err := s.tracker.GetTask(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get task: %v", err)), nil
	}

	result := taskDetail(task)
	if s.history != nil {
		sessions, err := s.history.GetTaskHistory(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("failed to get task history: %w", err)
		}

		var list []map[string]interface{}
		var total int64
		for _, ws := range sessions {
			entry := map[string]interface{}{
				"started_at": ws.StartedAt.Format(timeLayout),
				"seconds":    ws.Seconds,
			}
			if ws.EndedAt != nil {
				entry["ended_at"] = ws.EndedAt.Format(timeLayout)
			}
			if ws.GitBranch != "" {
				entry["git_branch"] = ws.GitBranch
			}
			if ws.GitCommit != "" {
				entry["git_commit"] = ws.GitCommit
			}
			list = append(list, entry)
			total += ws.Seconds
		}
		result["sessions"] = list
		result["total_session_time"] = domain.FormatClock(total)
	}
	return jsonResult(result)
}

// handleDeepDive handles the deep_dive tool.
func (s *Server) handleDeepDive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := s.tracker.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	task, ok := domain.SelectDeepDive(tasks)
	if !ok {
		return jsonResult(map[string]interface{}{
			"task":    nil,
			"message": "Nothing to work on. Add a task first.",
		})
	}
	return jsonResult(map[string]interface{}{"task": taskDetail(task)})
}

// handleStartSession handles the start_session tool.
func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	res, err := s.tracker.StartSession(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}

	result := map[string]interface{}{
		"task_id": taskID,
		"status":  string(res.Status),
	}
	if res.Task != nil {
		result["title"] = res.Task.Title
		result["accumulated"] = domain.FormatClock(res.Task.Accumulated)
	}
	return jsonResult(result)
}

// handlePauseSession handles the pause_session tool.
func (s *Server) handlePauseSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	res, err := s.tracker.PauseSession(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to pause session: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"task_id":    taskID,
		"status":     string(res.Status),
		"time_spent": res.Accumulated,
		"clock":      domain.FormatClock(res.Accumulated),
	})
}

// handleCompleteSession handles the complete_session tool.
func (s *Server) handleCompleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	res, err := s.tracker.CompleteSession(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete session: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"task_id":    taskID,
		"status":     string(res.Status),
		"time_spent": res.Accumulated,
		"xp_gained":  res.Reward.XPGained,
		"total_xp":   res.Reward.TotalXP,
		"leveled_up": res.Reward.LeveledUp,
		"new_level":  res.Reward.NewLevel,
		"message":    res.Reward.Message(),
	})
}

// handleToggleSubtask handles the toggle_subtask tool.
func (s *Server) handleToggleSubtask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subtaskID, err := request.RequireString("subtask_id")
	if err != nil {
		return mcp.NewToolResultError("subtask_id is required: " + err.Error()), nil
	}

	status, err := s.tracker.ToggleSubtask(ctx, subtaskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle subtask: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"subtask_id": subtaskID,
		"status":     string(status),
	})
}

// handleRecommend handles the recommend_alternative tool.
func (s *Server) handleRecommend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	rec, err := s.tracker.RecommendAlternative(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to recommend: %v", err)), nil
	}

	result := map[string]interface{}{
		"found":   rec.Found,
		"message": rec.Message,
	}
	if rec.Found {
		result["task_id"] = rec.TaskID
	}
	return jsonResult(result)
}

// handleCreateTask handles the create_task tool.
func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	// Metrics not supplied come from the predictor.
	u := request.GetFloat("urgency", -1)
	f := request.GetFloat("fear", -1)
	i := request.GetFloat("interest", -1)

	var m domain.Metrics
	if u < 0 || f < 0 || i < 0 {
		p, err := s.tracker.Predict(ctx, title)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to predict metrics: %v", err)), nil
		}
		m = p.Metrics
	}
	if u >= 0 {
		m.Urgency = u
	}
	if f >= 0 {
		m.Fear = f
	}
	if i >= 0 {
		m.Interest = i
	}

	var subtasks []string
	if raw := request.GetString("subtasks", ""); raw != "" {
		for _, st := range strings.Split(raw, ",") {
			if st = strings.TrimSpace(st); st != "" {
				subtasks = append(subtasks, st)
			}
		}
	}

	task, err := s.tracker.CreateTask(ctx, ports.CreateTaskRequest{
		Title:       title,
		Description: request.GetString("description", ""),
		Metrics:     m,
		Difficulty:  request.GetFloat("difficulty", 0),
		Subtasks:    subtasks,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create task: %v", err)), nil
	}
	return jsonResult(taskDetail(task))
}

// handlePredict handles the predict_metrics tool.
func (s *Server) handlePredict(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	p, err := s.tracker.Predict(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to predict metrics: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"urgency":        p.Urgency,
		"fear":           p.Fear,
		"interest":       p.Interest,
		"priority_score": p.PriorityScore,
	})
}
