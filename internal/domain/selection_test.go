package domain

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func mkTask(id string, status TaskStatus, priority float64) *Task {
	return &Task{ID: id, Title: id, Status: status, Priority: priority}
}

func TestSelectDeepDive(t *testing.T) {
	tests := []struct {
		name   string
		tasks  []*Task
		wantID string
		wantOK bool
	}{
		{
			name: "active task wins over higher priority",
			tasks: []*Task{
				mkTask("high", StatusPending, 99),
				mkTask("running", StatusActive, 1),
			},
			wantID: "running",
			wantOK: true,
		},
		{
			name: "highest priority pending or paused",
			tasks: []*Task{
				mkTask("a", StatusPending, 3),
				mkTask("b", StatusPaused, 8),
				mkTask("c", StatusCompleted, 50),
			},
			wantID: "b",
			wantOK: true,
		},
		{
			name: "ties keep original order",
			tasks: []*Task{
				mkTask("first", StatusPending, 5),
				mkTask("second", StatusPaused, 5),
			},
			wantID: "first",
			wantOK: true,
		},
		{
			name: "only completed tasks",
			tasks: []*Task{
				mkTask("done", StatusCompleted, 10),
			},
			wantOK: false,
		},
		{
			name:   "no tasks",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectDeepDive(tt.tasks)
			if ok != tt.wantOK {
				t.Fatalf("SelectDeepDive() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if got != nil {
					t.Errorf("SelectDeepDive() = %v, want nil", got.ID)
				}
				return
			}
			if got.ID != tt.wantID {
				t.Errorf("SelectDeepDive() = %v, want %v", got.ID, tt.wantID)
			}
		})
	}
}

func TestSelectDeepDive_Deterministic(t *testing.T) {
	tasks := []*Task{
		mkTask("x", StatusPending, 4),
		mkTask("y", StatusPaused, 4),
		mkTask("z", StatusPending, 2),
	}
	first, _ := SelectDeepDive(tasks)
	for i := 0; i < 10; i++ {
		got, _ := SelectDeepDive(tasks)
		if got != first {
			t.Fatalf("run %d picked %v, want %v", i, got.ID, first.ID)
		}
	}
}

func TestRank(t *testing.T) {
	var tasks []*Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, mkTask(fmt.Sprintf("t%d", i), StatusPending, float64(i)))
	}
	tasks = append(tasks, mkTask("done", StatusCompleted, 100))

	r := Rank(tasks)

	if len(r.Primary) != RingSize {
		t.Fatalf("len(Primary) = %d, want %d", len(r.Primary), RingSize)
	}
	for i, slot := range r.Primary {
		wantID := fmt.Sprintf("t%d", 9-i)
		if slot.Task.ID != wantID {
			t.Errorf("Primary[%d] = %v, want %v", i, slot.Task.ID, wantID)
		}
		if slot.Index != i {
			t.Errorf("Primary[%d].Index = %d", i, slot.Index)
		}
		if slot.Angle != float64(45*i) {
			t.Errorf("Primary[%d].Angle = %v, want %v", i, slot.Angle, 45*i)
		}
	}

	if len(r.Reserve) != 3 {
		t.Fatalf("len(Reserve) = %d, want 3", len(r.Reserve))
	}
	if r.Reserve[0].Task.ID != "t1" || r.Reserve[1].Task.ID != "t0" {
		t.Errorf("Reserve order = %v, %v", r.Reserve[0].Task.ID, r.Reserve[1].Task.ID)
	}
	if r.Reserve[0].Completed || !r.Reserve[2].Completed {
		t.Error("only the completed task should be flagged")
	}
	if got := len(r.Ordered()); got != len(tasks) {
		t.Errorf("len(Ordered()) = %d, want %d", got, len(tasks))
	}
}

func TestRank_StableTies(t *testing.T) {
	tasks := []*Task{
		mkTask("a", StatusPending, 5),
		mkTask("b", StatusPaused, 5),
		mkTask("c", StatusActive, 5),
	}
	r := Rank(tasks)
	for i, want := range []string{"a", "b", "c"} {
		if r.Primary[i].Task.ID != want {
			t.Errorf("Primary[%d] = %v, want %v", i, r.Primary[i].Task.ID, want)
		}
	}
	if len(r.Reserve) != 0 {
		t.Errorf("Reserve = %v, want empty", r.Reserve)
	}
}

func TestRingSlot_Position(t *testing.T) {
	top := RingSlot{Angle: 0}
	x, y := top.Position(10)
	if math.Abs(x) > 1e-9 || math.Abs(y+10) > 1e-9 {
		t.Errorf("top slot position = (%v, %v), want (0, -10)", x, y)
	}

	right := RingSlot{Angle: 90}
	x, y = right.Position(10)
	if math.Abs(x-10) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("right slot position = (%v, %v), want (10, 0)", x, y)
	}
}

func TestDeepDiveAndRankWithRunningTask(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	started := now.Add(-20 * time.Second)
	a := mkTask("A", StatusPending, 9)
	b := mkTask("B", StatusActive, 5)
	b.Accumulated = 40
	b.Start = &started
	tasks := []*Task{a, b}

	got, ok := SelectDeepDive(tasks)
	if !ok || got.ID != "B" {
		t.Fatalf("SelectDeepDive() = %v, %v; want B", got, ok)
	}
	if secs := got.Elapsed(now); secs != 60 {
		t.Errorf("B elapsed = %d, want 60", secs)
	}

	r := Rank(tasks)
	if len(r.Primary) != 2 || len(r.Reserve) != 0 {
		t.Fatalf("ring = %d, reserve = %d; want 2 and 0", len(r.Primary), len(r.Reserve))
	}
	if r.Primary[0].Task.ID != "A" || r.Primary[1].Task.ID != "B" {
		t.Errorf("ring order = %s, %s; want A, B by priority", r.Primary[0].Task.ID, r.Primary[1].Task.ID)
	}
}
