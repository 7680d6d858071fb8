package httpapi

import (
	"errors"
	"net/http"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// errorCodes maps domain sentinels onto HTTP statuses and stable codes.
var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{domain.ErrTaskNotFound, "task_not_found", http.StatusNotFound},
	{domain.ErrSubtaskNotFound, "subtask_not_found", http.StatusNotFound},
	{domain.ErrTaskCompleted, "task_completed", http.StatusConflict},
	{domain.ErrInvalidTransition, "invalid_transition", http.StatusConflict},
	{domain.ErrEmptyTaskTitle, "empty_title", http.StatusBadRequest},
	{domain.ErrInvalidTaskID, "invalid_task_id", http.StatusBadRequest},
}

// classify returns the status and code for err. Unknown errors are 500s.
func classify(err error) (int, string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, ""
}

// SentinelFor returns the domain error behind an error code, or nil.
func SentinelFor(code string) error {
	for _, e := range errorCodes {
		if e.code == code {
			return e.err
		}
	}
	return nil
}
