package domain

import "testing"

func TestOverview(t *testing.T) {
	active := &Task{ID: "a", Status: StatusActive, Priority: 3}
	o := &Overview{
		ActiveTask: active,
		Tasks: []*Task{
			active,
			{ID: "b", Status: StatusPending, Priority: 9},
			{ID: "c", Status: StatusCompleted, Priority: 20},
		},
	}

	if !o.HasActive() {
		t.Error("HasActive() = false, want true")
	}
	if got := o.OpenCount(); got != 2 {
		t.Errorf("OpenCount() = %d, want 2", got)
	}

	r := o.Ranking()
	if len(r.Primary) != 2 || r.Primary[0].Task.ID != "b" {
		t.Errorf("Ranking().Primary = %+v", r.Primary)
	}
	if len(r.Reserve) != 1 || !r.Reserve[0].Completed {
		t.Errorf("Ranking().Reserve = %+v", r.Reserve)
	}

	empty := &Overview{}
	if empty.HasActive() {
		t.Error("empty overview should have no active task")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   string
	}{
		{StatusPending, "Pending"},
		{StatusActive, "Active"},
		{StatusPaused, "Paused"},
		{StatusCompleted, "Completed"},
		{TaskStatus("bogus"), "Unknown"},
	}

	for _, tt := range tests {
		if got := StatusLabel(tt.status); got != tt.want {
			t.Errorf("StatusLabel(%v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
