package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/testutil"
)

type stubGit struct {
	info *ports.GitInfo
	err  error
}

func (g stubGit) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	return g.info, g.err
}

type trackerFixture struct {
	store   ports.Storage
	clock   *testutil.ManualClock
	tracker *TrackerService
}

func newTrackerFixture(t *testing.T) *trackerFixture {
	t.Helper()
	store, cleanup := setupTestStorage(t)
	t.Cleanup(cleanup)

	clock := testutil.NewManualClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	tracker := NewTrackerService(store, stubGit{info: &ports.GitInfo{Branch: "main", Commit: "abc1234"}}, nil)
	tracker.SetClock(clock.Now)

	return &trackerFixture{store: store, clock: clock, tracker: tracker}
}

func (f *trackerFixture) create(t *testing.T, title string, m domain.Metrics, difficulty float64) *domain.Task {
	t.Helper()
	task, err := f.tracker.CreateTask(context.Background(), ports.CreateTaskRequest{
		Title:      title,
		Metrics:    m,
		Difficulty: difficulty,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	return task
}

func (f *trackerFixture) activeCount(t *testing.T) int {
	t.Helper()
	status := domain.StatusActive
	tasks, err := f.store.Tasks().FindAll(context.Background(), &status)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	return len(tasks)
}

func TestTrackerService_StartPausesOtherActiveTask(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	a := f.create(t, "Task A", domain.Metrics{Urgency: 5, Fear: 5, Interest: 5}, 0)
	b := f.create(t, "Task B", domain.Metrics{Urgency: 5, Fear: 5, Interest: 5}, 0)

	res, err := f.tracker.StartSession(ctx, a.ID)
	if err != nil {
		t.Fatalf("StartSession(A) error = %v", err)
	}
	if res.Status != domain.StatusActive || res.Task == nil {
		t.Fatalf("StartSession(A) = %+v", res)
	}

	f.clock.Advance(40 * time.Second)
	if _, err := f.tracker.StartSession(ctx, b.ID); err != nil {
		t.Fatalf("StartSession(B) error = %v", err)
	}

	if n := f.activeCount(t); n != 1 {
		t.Errorf("active tasks = %d, want 1", n)
	}
	gotA, _ := f.tracker.GetTask(ctx, a.ID)
	if gotA.Status != domain.StatusPaused || gotA.Accumulated != 40 {
		t.Errorf("A = %s/%d, want paused/40", gotA.Status, gotA.Accumulated)
	}

	sessions, _ := f.store.Sessions().FindByTask(ctx, a.ID)
	if len(sessions) != 1 || sessions[0].IsOpen() || sessions[0].Seconds != 40 {
		t.Errorf("A's work session not closed at 40s: %+v", sessions)
	}
	open, _ := f.store.Sessions().FindOpenByTask(ctx, b.ID)
	if open == nil || open.GitBranch != "main" {
		t.Errorf("B's open session = %+v, want git branch main", open)
	}
}

func TestTrackerService_AtMostOneActive(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"one", "two", "three", "four"} {
		ids = append(ids, f.create(t, title, domain.Metrics{Urgency: 3, Fear: 3, Interest: 3}, 0).ID)
	}

	ops := []struct {
		op  string
		idx int
	}{
		{"start", 0}, {"start", 1}, {"pause", 1}, {"start", 2},
		{"start", 0}, {"complete", 0}, {"start", 3}, {"start", 1}, {"complete", 2},
	}
	for _, o := range ops {
		f.clock.Advance(7 * time.Second)
		switch o.op {
		case "start":
			_, _ = f.tracker.StartSession(ctx, ids[o.idx])
		case "pause":
			_, _ = f.tracker.PauseSession(ctx, ids[o.idx])
		case "complete":
			_, _ = f.tracker.CompleteSession(ctx, ids[o.idx])
		}
		if n := f.activeCount(t); n > 1 {
			t.Fatalf("after %s(%d): %d active tasks", o.op, o.idx, n)
		}
	}
}

func TestTrackerService_PauseReturnsAuthoritativeAccumulated(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	task := f.create(t, "Pause me", domain.Metrics{Urgency: 5, Fear: 5, Interest: 5}, 0)

	_, _ = f.tracker.StartSession(ctx, task.ID)
	f.clock.Advance(125 * time.Second)

	res, err := f.tracker.PauseSession(ctx, task.ID)
	if err != nil {
		t.Fatalf("PauseSession() error = %v", err)
	}
	if res.Accumulated != 125 || res.Status != domain.StatusPaused {
		t.Errorf("PauseSession() = %+v, want paused/125", res)
	}

	// Resume and pause again; time keeps adding up.
	_, _ = f.tracker.StartSession(ctx, task.ID)
	f.clock.Advance(5 * time.Second)
	res, _ = f.tracker.PauseSession(ctx, task.ID)
	if res.Accumulated != 130 {
		t.Errorf("second pause accumulated = %d, want 130", res.Accumulated)
	}

	if _, err := f.tracker.PauseSession(ctx, task.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("pause of paused task error = %v, want ErrInvalidTransition", err)
	}
}

func TestTrackerService_CompleteGrantsXP(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	task := f.create(t, "Finish", domain.Metrics{Urgency: 5, Fear: 5, Interest: 5}, 0)

	_, _ = f.tracker.StartSession(ctx, task.ID)
	f.clock.Advance(25 * time.Minute)

	res, err := f.tracker.CompleteSession(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}
	// int(25 * 10 * 1.1124) + 50
	if res.Reward.XPGained != 328 {
		t.Errorf("XPGained = %d, want 328", res.Reward.XPGained)
	}
	if res.Accumulated != 1500 || res.Status != domain.StatusCompleted {
		t.Errorf("CompleteSession() = %+v", res)
	}

	profile, _ := f.store.Profile().Get(ctx)
	if profile.TotalXP != 328 || profile.Level != 1 {
		t.Errorf("profile = %+v, want 328 XP level 1", profile)
	}

	if _, err := f.tracker.StartSession(ctx, task.ID); !errors.Is(err, domain.ErrTaskCompleted) {
		t.Errorf("start of completed task error = %v, want ErrTaskCompleted", err)
	}
	if _, err := f.tracker.CompleteSession(ctx, task.ID); !errors.Is(err, domain.ErrTaskCompleted) {
		t.Errorf("second complete error = %v, want ErrTaskCompleted", err)
	}
}

func TestTrackerService_CompleteFromPaused(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	task := f.create(t, "Paused finish", domain.Metrics{Urgency: 1, Fear: 1, Interest: 1}, 0)

	_, _ = f.tracker.StartSession(ctx, task.ID)
	f.clock.Advance(60 * time.Second)
	_, _ = f.tracker.PauseSession(ctx, task.ID)
	f.clock.Advance(time.Hour)

	res, err := f.tracker.CompleteSession(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}
	if res.Accumulated != 60 {
		t.Errorf("Accumulated = %d, want 60 (paused time does not count)", res.Accumulated)
	}
}

func TestTrackerService_UnknownTask(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	if _, err := f.tracker.StartSession(ctx, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("StartSession() error = %v, want ErrTaskNotFound", err)
	}
	if _, err := f.tracker.ToggleSubtask(ctx, "missing"); !errors.Is(err, domain.ErrSubtaskNotFound) {
		t.Errorf("ToggleSubtask() error = %v, want ErrSubtaskNotFound", err)
	}
}

func TestTrackerService_ToggleSubtask(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	task, err := f.tracker.CreateTask(ctx, ports.CreateTaskRequest{
		Title:    "With steps",
		Subtasks: []string{"first"},
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	id := task.Subtasks[0].ID

	status, err := f.tracker.ToggleSubtask(ctx, id)
	if err != nil || status != domain.SubtaskCompleted {
		t.Fatalf("ToggleSubtask() = %s, %v; want completed", status, err)
	}
	status, _ = f.tracker.ToggleSubtask(ctx, id)
	if status != domain.SubtaskPending {
		t.Errorf("second ToggleSubtask() = %s, want pending", status)
	}
}

func TestTrackerService_RecommendAlternative(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	current := f.create(t, "Hard thing", domain.Metrics{Urgency: 5, Fear: 9, Interest: 9}, 9)
	f.create(t, "Dull easy", domain.Metrics{Urgency: 5, Fear: 2, Interest: 3}, 2)
	fun := f.create(t, "Fun easy", domain.Metrics{Urgency: 5, Fear: 4, Interest: 8}, 4)
	f.create(t, "Fun hard", domain.Metrics{Urgency: 5, Fear: 8, Interest: 10}, 8)

	rec, err := f.tracker.RecommendAlternative(ctx, current.ID)
	if err != nil {
		t.Fatalf("RecommendAlternative() error = %v", err)
	}
	if !rec.Found || rec.TaskID != fun.ID {
		t.Fatalf("RecommendAlternative() = %+v, want %s", rec, fun.ID)
	}
	want := "How about 'Fun easy'? It's fairly easy (Diff: 4) and might help you reset."
	if rec.Message != want {
		t.Errorf("Message = %q, want %q", rec.Message, want)
	}

	t.Run("nothing suitable", func(t *testing.T) {
		g := newTrackerFixture(t)
		only := g.create(t, "Alone", domain.Metrics{Urgency: 5, Fear: 5, Interest: 5}, 0)
		rec, err := g.tracker.RecommendAlternative(ctx, only.ID)
		if err != nil {
			t.Fatalf("RecommendAlternative() error = %v", err)
		}
		if rec.Found || rec.Message != domain.NoRecommendationMessage {
			t.Errorf("RecommendAlternative() = %+v, want not found", rec)
		}
	})
}

func TestTrackerService_Scoring(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	score, err := f.tracker.ComputeScore(ctx, domain.Metrics{Urgency: 5, Fear: 5, Interest: 5})
	if err != nil || score != 11.24 {
		t.Errorf("ComputeScore() = %v, %v; want 11.24", score, err)
	}

	if _, err := f.tracker.Predict(ctx, "  "); !errors.Is(err, domain.ErrEmptyTaskTitle) {
		t.Errorf("Predict(empty) error = %v, want ErrEmptyTaskTitle", err)
	}

	p, err := f.tracker.Predict(ctx, "do taxes before the deadline")
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if p.PriorityScore != domain.MotivationScore(p.Metrics, domain.DefaultImpulsiveness) {
		t.Errorf("PriorityScore = %v, want the motivation score of %+v", p.PriorityScore, p.Metrics)
	}
}

func TestTrackerService_GitFailureIsIgnored(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tracker := NewTrackerService(store, stubGit{err: errors.New("no repo")}, nil)
	task, _ := tracker.CreateTask(ctx, ports.CreateTaskRequest{Title: "outside git"})

	if _, err := tracker.StartSession(ctx, task.ID); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	open, _ := store.Sessions().FindOpenByTask(ctx, task.ID)
	if open == nil || open.GitBranch != "" {
		t.Errorf("open session = %+v, want one without git context", open)
	}
}

// failingStore rejects task updates for one id.
type failingStore struct {
	ports.Storage
	failID string
}

func (s failingStore) Tasks() ports.TaskRepository {
	return failingTasks{TaskRepository: s.Storage.Tasks(), failID: s.failID}
}

type failingTasks struct {
	ports.TaskRepository
	failID string
}

func (r failingTasks) Update(ctx context.Context, task *domain.Task) error {
	if task.ID == r.failID {
		return errors.New("disk full")
	}
	return r.TaskRepository.Update(ctx, task)
}

func TestTrackerService_StartRestoresActiveTaskOnFailure(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	a := f.create(t, "Task A", domain.Metrics{Urgency: 5, Fear: 5, Interest: 5}, 0)
	b := f.create(t, "Task B", domain.Metrics{Urgency: 5, Fear: 5, Interest: 5}, 0)

	if _, err := f.tracker.StartSession(ctx, a.ID); err != nil {
		t.Fatalf("StartSession(A) error = %v", err)
	}
	f.clock.Advance(40 * time.Second)

	broken := NewTrackerService(failingStore{Storage: f.store, failID: b.ID}, nil, nil)
	broken.SetClock(f.clock.Now)
	if _, err := broken.StartSession(ctx, b.ID); err == nil {
		t.Fatal("StartSession(B) should fail when B cannot be stored")
	}

	got, err := f.store.Tasks().FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID(A) error = %v", err)
	}
	if got.Status != domain.StatusActive || got.Start == nil || got.Accumulated != 0 {
		t.Errorf("A = %s start=%v accumulated=%d, want it still running", got.Status, got.Start, got.Accumulated)
	}
	if n := f.activeCount(t); n != 1 {
		t.Errorf("%d active tasks, want 1", n)
	}

	open, err := f.store.Sessions().FindOpenByTask(ctx, a.ID)
	if err != nil || open == nil {
		t.Errorf("A's work session should stay open, got %+v (err %v)", open, err)
	}
}
