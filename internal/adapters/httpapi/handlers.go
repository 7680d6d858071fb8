package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// maxBodySize caps request bodies.
const maxBodySize = 1 << 20 // 1MB

func (s *Server) fail(c *gin.Context, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Printf("Warning: %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func (s *Server) bind(c *gin.Context, v interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleScore(c *gin.Context) {
	var req MetricsRequest
	if !s.bind(c, &req) {
		return
	}

	score, err := s.tracker.ComputeScore(c.Request.Context(), req.Metrics())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ScoreResponse{PriorityScore: score})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if !s.bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No text provided", Code: "empty_title"})
		return
	}

	p, err := s.tracker.Predict(c.Request.Context(), req.Title)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PredictResponse{
		Urgency:       p.Urgency,
		Fear:          p.Fear,
		Interest:      p.Interest,
		PriorityScore: p.PriorityScore,
	})
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tracker.ListTasks(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := TaskListResponse{Tasks: make([]TaskJSON, 0, len(tasks))}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, NewTaskJSON(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if !s.bind(c, &req) {
		return
	}

	task, err := s.tracker.CreateTask(c.Request.Context(), ports.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Metrics: domain.Metrics{
			Urgency:  req.Urgency,
			Fear:     req.Fear,
			Interest: req.Interest,
		},
		Difficulty: req.Difficulty,
		Subtasks:   req.Subtasks,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewTaskJSON(task))
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tracker.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewTaskJSON(task))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.tracker.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleStart(c *gin.Context) {
	res, err := s.tracker.StartSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := StartResponse{Success: true, Status: string(res.Status)}
	if res.Task != nil {
		task := NewTaskJSON(res.Task)
		resp.Task = &task
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePause(c *gin.Context) {
	res, err := s.tracker.PauseSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PauseResponse{
		Success:   true,
		Status:    string(res.Status),
		TimeSpent: res.Accumulated,
	})
}

func (s *Server) handleComplete(c *gin.Context) {
	res, err := s.tracker.CompleteSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CompleteResponse{
		Success:   true,
		Status:    string(res.Status),
		TimeSpent: res.Accumulated,
		XPGained:  res.Reward.XPGained,
		TotalXP:   res.Reward.TotalXP,
		LeveledUp: res.Reward.LeveledUp,
		NewLevel:  res.Reward.NewLevel,
	})
}

func (s *Server) handleToggleSubtask(c *gin.Context) {
	status, err := s.tracker.ToggleSubtask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Success: true, Status: string(status)})
}

func (s *Server) handleRecommend(c *gin.Context) {
	rec, err := s.tracker.RecommendAlternative(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, RecommendResponse{
		Found:   rec.Found,
		TaskID:  rec.TaskID,
		Message: rec.Message,
	})
}

func (s *Server) handleOverview(c *gin.Context) {
	if s.overview == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "overview not available"})
		return
	}

	o, err := s.overview.GetOverview(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOverviewResponse(o))
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.overview == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "history not available"})
		return
	}

	sessions, err := s.overview.GetTaskHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := HistoryResponse{Sessions: make([]WorkSessionJSON, 0, len(sessions))}
	for _, ws := range sessions {
		resp.Sessions = append(resp.Sessions, NewWorkSessionJSON(ws))
	}
	c.JSON(http.StatusOK, resp)
}
