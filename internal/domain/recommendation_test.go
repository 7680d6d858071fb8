package domain

import (
	"strings"
	"testing"
)

func analysed(id string, status TaskStatus, interest, difficulty float64) *Task {
	t := &Task{ID: id, Title: "Task " + id, Status: status}
	t.Analysis = &Analysis{Interest: interest, Difficulty: difficulty}
	return t
}

func TestRecommend(t *testing.T) {
	tasks := []*Task{
		analysed("current", StatusActive, 10, 1),
		analysed("hard", StatusPending, 9, 8),
		analysed("easy", StatusPending, 6, 3),
		analysed("fun", StatusPaused, 8, 6),
		analysed("done", StatusCompleted, 10, 1),
		{ID: "unscored", Status: StatusPending},
	}

	rec := Recommend(tasks, "current")
	if !rec.Found {
		t.Fatal("Recommend() found = false")
	}
	if rec.TaskID != "fun" {
		t.Errorf("TaskID = %v, want fun", rec.TaskID)
	}
	want := "How about 'Task fun'? It's fairly easy (Diff: 6) and might help you reset."
	if rec.Message != want {
		t.Errorf("Message = %q, want %q", rec.Message, want)
	}
}

func TestRecommend_NotFound(t *testing.T) {
	tasks := []*Task{
		analysed("current", StatusActive, 5, 2),
		analysed("hard", StatusPending, 9, 9),
	}

	rec := Recommend(tasks, "current")
	if rec.Found {
		t.Fatal("Recommend() found = true, want false")
	}
	if rec.TaskID != "" {
		t.Errorf("TaskID = %q, want empty", rec.TaskID)
	}
	if !strings.Contains(rec.Message, "Time for a break") {
		t.Errorf("Message = %q", rec.Message)
	}
}
