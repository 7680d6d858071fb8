package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/focus"
)

var focusCmd = &cobra.Command{
	Use:   "focus <task>",
	Short: "Open the focus view for a task",
	Long:  `Open the focus view for a task given by id, id prefix or part of its title.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := resolveTask(cmd.Context(), joinArgs(args))
		if err != nil {
			return err
		}
		return runTUI(task)
	},
}

var diveCmd = &cobra.Command{
	Use:   "dive",
	Short: "Focus on the task that matters most right now",
	Long: `Deep dive: open the active task, or else the open task with the highest
priority.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.tracker.ListTasks(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		task, ok := domain.SelectDeepDive(tasks)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to dive into. Add a task with `octo add <title>`.")
			return nil
		}
		return runTUI(task)
	},
}

var startCmd = &cobra.Command{
	Use:   "start <task>",
	Short: "Start working on a task",
	Long:  `Start a work session on a task. Any other running task is paused first.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStart(cmd, args, false)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <task>",
	Short: "Resume a paused task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStart(cmd, args, true)
	},
}

func runStart(cmd *cobra.Command, args []string, resume bool) error {
	ctx := cmd.Context()
	task, err := resolveTask(ctx, joinArgs(args))
	if err != nil {
		return err
	}
	if resume && task.Status != domain.StatusPaused {
		return fmt.Errorf("%w: %q is %s, not paused", domain.ErrInvalidTransition, task.Title, domain.StatusLabel(task.Status))
	}

	ctrl, err := oneShot(ctx, task, (*focus.Controller).Start)
	if err != nil {
		return fmt.Errorf("failed to start %q: %w", task.Title, err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), httpapi.StartResponse{
			Success: true,
			Status:  string(domain.StatusActive),
			Task:    taskJSONPtr(ctrl.Task()),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "▶️  Working on %s (%s so far)\n", task.Title, ctrl.Display().Text)
	return nil
}

var pauseCmd = &cobra.Command{
	Use:   "pause <task>",
	Short: "Pause a running task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		task, err := resolveTask(ctx, joinArgs(args))
		if err != nil {
			return err
		}

		ctrl, err := oneShot(ctx, task, (*focus.Controller).Pause)
		if err != nil {
			return fmt.Errorf("failed to pause %q: %w", task.Title, err)
		}

		snap := ctrl.Snapshot()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), httpapi.PauseResponse{
				Success:   true,
				Status:    string(snap.Status),
				TimeSpent: snap.Accumulated,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "⏸️  Paused %s at %s\n", task.Title, domain.FormatClock(snap.Accumulated))
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <task>",
	Short: "Mark a task as done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		task, err := resolveTask(ctx, joinArgs(args))
		if err != nil {
			return err
		}

		ctrl, err := oneShot(ctx, task, (*focus.Controller).Complete)
		if err != nil {
			return fmt.Errorf("failed to complete %q: %w", task.Title, err)
		}

		snap := ctrl.Snapshot()
		var reward domain.Reward
		if r := ctrl.Reward(); r != nil {
			reward = *r
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), httpapi.CompleteResponse{
				Success:   true,
				Status:    string(snap.Status),
				TimeSpent: snap.Accumulated,
				XPGained:  reward.XPGained,
				TotalXP:   reward.TotalXP,
				LeveledUp: reward.LeveledUp,
				NewLevel:  reward.NewLevel,
			})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ MISSION ACCOMPLISHED: %s in %s\n", task.Title, domain.FormatClock(snap.Accumulated))
		fmt.Fprintf(out, "   %s\n", reward.Message())
		return nil
	},
}

var subtaskCmd = &cobra.Command{
	Use:   "subtask <subtask-id>",
	Short: "Tick or untick a subtask",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := app.tracker.ToggleSubtask(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle subtask: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), httpapi.ToggleResponse{Success: true, Status: string(status)})
		}
		box := "☐"
		if status == domain.SubtaskCompleted {
			box = "☑"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s subtask %s is now %s\n", box, args[0], status)
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <task>",
	Short: "Suggest an easier task when you are stuck",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		task, err := resolveTask(ctx, joinArgs(args))
		if err != nil {
			return err
		}

		rec, err := app.tracker.RecommendAlternative(ctx, task.ID)
		if err != nil {
			return fmt.Errorf("failed to get a recommendation: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), httpapi.RecommendResponse{Found: rec.Found, TaskID: rec.TaskID, Message: rec.Message})
		}
		fmt.Fprintln(cmd.OutOrStdout(), rec.Message)
		if rec.Found {
			fmt.Fprintf(cmd.OutOrStdout(), "   octo start %s\n", domain.ShortID(rec.TaskID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(focusCmd, diveCmd, startCmd, resumeCmd, pauseCmd, completeCmd, subtaskCmd, recommendCmd)
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func taskJSONPtr(t *domain.Task) *httpapi.TaskJSON {
	if t == nil {
		return nil
	}
	j := httpapi.NewTaskJSON(t)
	return &j
}
