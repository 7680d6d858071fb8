package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/storage"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/services"
)

// newWorkspace writes a quiet config into a temp dir and returns the dir.
func newWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := "[notifications]\nenabled = false\n\n[storage]\ndata_dir = \"" + filepath.ToSlash(dir) + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return dir
}

// resetFlags puts every flag back to its default so runs do not leak into
// each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes octo against the workspace in dir.
func runCLI(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))

	full := append([]string{
		"--config", filepath.Join(dir, "config.toml"),
		"--db", filepath.Join(dir, "octo.db"),
	}, args...)
	rootCmd.SetArgs(full)

	err := rootCmd.Execute()
	_ = cleanupServices()
	return buf.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dir, "", args...)
	if err != nil {
		t.Fatalf("octo %s: error = %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func decodeJSON(t *testing.T, out string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
}

func TestAddAndList(t *testing.T) {
	dir := newWorkspace(t)

	out := mustRun(t, dir, "add", "Write", "thesis", "chapter", "-u", "8", "-f", "7", "-i", "4", "--step", "outline", "--step", "draft")
	if !strings.Contains(out, "✅ Task added: Write thesis chapter") {
		t.Errorf("add output = %q", out)
	}
	if !strings.Contains(out, "2 subtasks") {
		t.Errorf("add output should count subtasks: %q", out)
	}

	mustRun(t, dir, "add", "Buy milk", "-u", "2", "-f", "1", "-i", "3")

	var resp httpapi.TaskListResponse
	decodeJSON(t, mustRun(t, dir, "list", "--json"), &resp)
	if len(resp.Tasks) != 2 {
		t.Fatalf("list returned %d tasks, want 2", len(resp.Tasks))
	}
	if resp.Tasks[0].Priority < resp.Tasks[1].Priority {
		t.Errorf("list not sorted by priority: %v < %v", resp.Tasks[0].Priority, resp.Tasks[1].Priority)
	}
	for _, task := range resp.Tasks {
		if task.Title == "Write thesis chapter" && len(task.Subtasks) != 2 {
			t.Errorf("thesis has %d subtasks, want 2", len(task.Subtasks))
		}
	}

	text := mustRun(t, dir, "list")
	if !strings.Contains(text, "1.") || !strings.Contains(text, "Buy milk") {
		t.Errorf("list output = %q", text)
	}
}

func TestAdd_PredictsMissingMetrics(t *testing.T) {
	dir := newWorkspace(t)

	var task httpapi.TaskJSON
	decodeJSON(t, mustRun(t, dir, "add", "Pay taxes today", "-i", "2", "--json"), &task)

	if task.Analysis == nil {
		t.Fatal("analysis missing")
	}
	if task.Analysis.Interest != 2 {
		t.Errorf("Interest = %v, want the given 2", task.Analysis.Interest)
	}
	if task.Analysis.Urgency <= 5.5 {
		t.Errorf("Urgency = %v, want a predicted value above neutral", task.Analysis.Urgency)
	}
}

func TestList_Empty(t *testing.T) {
	dir := newWorkspace(t)

	out := mustRun(t, dir, "list")
	if !strings.Contains(out, "No tasks found") {
		t.Errorf("list output = %q", out)
	}
}

func TestSessionLifecycle(t *testing.T) {
	dir := newWorkspace(t)
	mustRun(t, dir, "add", "Write thesis chapter", "-u", "8", "-f", "7", "-i", "4")

	var started httpapi.StartResponse
	decodeJSON(t, mustRun(t, dir, "start", "Write thesis chapter", "--json"), &started)
	if !started.Success || started.Status != "active" {
		t.Fatalf("start = %+v", started)
	}
	if started.Task == nil || started.Task.Start == nil {
		t.Fatal("started task should carry a start time")
	}

	var overview httpapi.OverviewResponse
	decodeJSON(t, mustRun(t, dir, "status", "--json"), &overview)
	if overview.ActiveTask == nil || overview.ActiveTask.Title != "Write thesis chapter" {
		t.Errorf("status active task = %+v", overview.ActiveTask)
	}

	var paused httpapi.PauseResponse
	decodeJSON(t, mustRun(t, dir, "pause", "Write thesis chapter", "--json"), &paused)
	if paused.Status != "paused" {
		t.Errorf("pause status = %q", paused.Status)
	}

	out := mustRun(t, dir, "resume", "Write thesis chapter")
	if !strings.Contains(out, "Working on Write thesis chapter") {
		t.Errorf("resume output = %q", out)
	}

	var done httpapi.CompleteResponse
	decodeJSON(t, mustRun(t, dir, "complete", "Write thesis chapter", "--json"), &done)
	if done.Status != "completed" {
		t.Errorf("complete status = %q", done.Status)
	}
	if done.XPGained < domain.CompletionBonusXP {
		t.Errorf("XPGained = %d, want at least the completion bonus", done.XPGained)
	}
	if done.TotalXP != done.XPGained {
		t.Errorf("TotalXP = %d, want %d", done.TotalXP, done.XPGained)
	}

	status := mustRun(t, dir, "status")
	if !strings.Contains(status, "No active task.") {
		t.Errorf("status output = %q", status)
	}
}

func TestStart_Refusals(t *testing.T) {
	dir := newWorkspace(t)
	mustRun(t, dir, "add", "Write thesis chapter", "-u", "8", "-f", "7", "-i", "4")

	_, err := runCLI(t, dir, "", "resume", "Write thesis chapter")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("resume of a pending task: error = %v, want ErrInvalidTransition", err)
	}

	_, err = runCLI(t, dir, "", "start", "no such thing at all")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("start of a missing task: error = %v, want ErrTaskNotFound", err)
	}
}

func TestScoreAndPredict(t *testing.T) {
	dir := newWorkspace(t)

	var score httpapi.ScoreResponse
	decodeJSON(t, mustRun(t, dir, "score", "-u", "9", "-f", "2", "-i", "5", "--json"), &score)
	want := domain.ComputePriority(domain.Metrics{Urgency: 9, Fear: 2, Interest: 5}, domain.DefaultImpulsiveness)
	if score.PriorityScore != want {
		t.Errorf("score = %v, want %v", score.PriorityScore, want)
	}

	var pred httpapi.PredictResponse
	decodeJSON(t, mustRun(t, dir, "predict", "finish", "the", "exam", "deadline", "--json"), &pred)
	if pred.Urgency <= 5.5 {
		t.Errorf("predicted urgency = %v, want above neutral", pred.Urgency)
	}

	text := mustRun(t, dir, "predict", "clean", "the", "dishes")
	if !strings.Contains(text, "Interest:") || !strings.Contains(text, "Priority:") {
		t.Errorf("predict output = %q", text)
	}
}

func TestDelete(t *testing.T) {
	dir := newWorkspace(t)
	mustRun(t, dir, "add", "Buy milk", "-u", "2", "-f", "1", "-i", "3")

	out, err := runCLI(t, dir, "n\n", "delete", "Buy milk")
	if err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if !strings.Contains(out, "Deletion cancelled.") {
		t.Errorf("delete output = %q", out)
	}

	mustRun(t, dir, "delete", "Buy milk", "--yes")

	var resp httpapi.TaskListResponse
	decodeJSON(t, mustRun(t, dir, "list", "--json"), &resp)
	if len(resp.Tasks) != 0 {
		t.Errorf("list after delete has %d tasks", len(resp.Tasks))
	}
}

func TestExport(t *testing.T) {
	dir := newWorkspace(t)
	mustRun(t, dir, "add", "Write thesis chapter", "-u", "8", "-f", "7", "-i", "4")
	mustRun(t, dir, "start", "Write thesis chapter")
	mustRun(t, dir, "pause", "Write thesis chapter")

	var dump exportDump
	decodeJSON(t, mustRun(t, dir, "export"), &dump)
	if len(dump.Tasks) != 1 {
		t.Fatalf("export has %d tasks, want 1", len(dump.Tasks))
	}
	if len(dump.Tasks[0].Sessions) != 1 {
		t.Errorf("export has %d sessions, want 1", len(dump.Tasks[0].Sessions))
	}

	rows, err := csv.NewReader(strings.NewReader(mustRun(t, dir, "export", "--format", "csv"))).ReadAll()
	if err != nil {
		t.Fatalf("csv error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("csv has %d rows, want header + 1", len(rows))
	}
	if rows[0][0] != "id" || rows[1][1] != "Write thesis chapter" || rows[1][2] != "paused" {
		t.Errorf("csv rows = %v", rows)
	}

	if _, err := runCLI(t, dir, "", "export", "--format", "xml"); err == nil {
		t.Error("export should reject unknown formats")
	}
}

func TestConfigCommands(t *testing.T) {
	dir := newWorkspace(t)

	out := mustRun(t, dir, "config", "set", "focus.idle_threshold", "9s")
	if !strings.Contains(out, "focus.idle_threshold = 9s") {
		t.Errorf("config set output = %q", out)
	}

	var values map[string]interface{}
	decodeJSON(t, mustRun(t, dir, "config", "show", "--json"), &values)
	if values["focus.idle_threshold"] != "9s" {
		t.Errorf("focus.idle_threshold = %v, want 9s", values["focus.idle_threshold"])
	}
	if values["notifications.enabled"] != false {
		t.Errorf("notifications.enabled = %v, want false", values["notifications.enabled"])
	}

	if _, err := runCLI(t, dir, "", "config", "set", "focus.bogus", "1"); err == nil {
		t.Error("config set should reject unknown keys")
	}
}

func TestRemoteMode(t *testing.T) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer store.Close()

	tracker := services.NewTrackerService(store, nil, nil)
	srv := httptest.NewServer(httpapi.NewServer(tracker, services.NewStateService(store), log.New(io.Discard, "", 0)).Handler())
	defer srv.Close()

	dir := newWorkspace(t)
	mustRun(t, dir, "--remote", srv.URL, "add", "Write thesis chapter", "-u", "8", "-f", "7", "-i", "4")
	mustRun(t, dir, "--remote", srv.URL, "start", "Write thesis chapter")

	var overview httpapi.OverviewResponse
	decodeJSON(t, mustRun(t, dir, "--remote", srv.URL, "status", "--json"), &overview)
	if overview.ActiveTask == nil || overview.ActiveTask.Title != "Write thesis chapter" {
		t.Errorf("remote status active task = %+v", overview.ActiveTask)
	}

	active, err := store.Tasks().FindActive(t.Context())
	if err != nil || active == nil {
		t.Fatalf("server store has no active task: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "octo.db")); !os.IsNotExist(err) {
		t.Error("remote mode should not create a local database")
	}

	if _, err := runCLI(t, dir, "", "--remote", srv.URL, "serve"); !errors.Is(err, errNeedsLocal) {
		t.Errorf("serve in remote mode: error = %v, want errNeedsLocal", err)
	}
}

func TestFillMetrics(t *testing.T) {
	predicted := domain.Metrics{Urgency: 7, Fear: 6, Interest: 3}

	tests := []struct {
		name     string
		given    domain.Metrics
		override bool
		want     domain.Metrics
	}{
		{"all missing", domain.Metrics{}, false, predicted},
		{"keeps given", domain.Metrics{Urgency: 2}, false, domain.Metrics{Urgency: 2, Fear: 6, Interest: 3}},
		{"override", domain.Metrics{Urgency: 2, Fear: 2, Interest: 2}, true, predicted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fillMetrics(tt.given, predicted, tt.override); got != tt.want {
				t.Errorf("fillMetrics() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	o := &domain.Overview{
		Profile: domain.Profile{TotalXP: 1250, Level: 2},
		Tasks: []*domain.Task{
			{ID: "a", Title: "Write thesis chapter", Status: domain.StatusPaused, Priority: 9, Accumulated: 1800},
			{ID: "b", Title: "Buy milk", Status: domain.StatusCompleted, Priority: 2, Accumulated: 600, XPEarned: 150},
			{ID: "c", Title: "Water plants", Status: domain.StatusPending, Priority: 3},
		},
	}

	s := summarize(o)
	if s.Completed != 1 || s.Open != 2 || s.OnRing != 2 {
		t.Errorf("counts = done %d open %d ring %d, want 1/2/2", s.Completed, s.Open, s.OnRing)
	}
	if s.TotalSeconds != 2400 || s.EarnedByTasks != 150 {
		t.Errorf("TotalSeconds = %d, EarnedByTasks = %d", s.TotalSeconds, s.EarnedByTasks)
	}
	if s.XPToNextLevel != 750 {
		t.Errorf("XPToNextLevel = %d, want 750", s.XPToNextLevel)
	}
	if len(s.tasksByTime) != 2 || s.tasksByTime[0].ID != "a" {
		t.Errorf("tasksByTime not sorted by time: %+v", s.tasksByTime)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		h    float64
		want string
	}{
		{0, "0m"},
		{0.5, "30m"},
		{1, "1h"},
		{2.25, "2h 15m"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.h); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.h, got, tt.want)
		}
	}
}
