// Package httpapi exposes a ports.Tracker over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server is the octo HTTP API.
type Server struct {
	tracker  ports.Tracker
	overview ports.OverviewProvider
	logger   *log.Logger
	router   *gin.Engine
}

// NewServer creates the API. overview may be nil, in which case the
// overview and history routes answer 404.
func NewServer(tracker ports.Tracker, overview ports.OverviewProvider, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	s := &Server{
		tracker:  tracker,
		overview: overview,
		logger:   logger,
		router:   router,
	}

	api := router.Group("/api")
	{
		api.POST("/score", s.handleScore)
		api.POST("/predict", s.handlePredict)

		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/start", s.handleStart)
		api.POST("/tasks/:id/pause", s.handlePause)
		api.POST("/tasks/:id/complete", s.handleComplete)
		api.GET("/tasks/:id/recommend", s.handleRecommend)
		api.GET("/tasks/:id/history", s.handleHistory)

		api.POST("/subtasks/:id/toggle", s.handleToggleSubtask)

		api.GET("/overview", s.handleOverview)
	}

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}
