package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Show the active task with its elapsed time, your level, and recent work sessions.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := app.history.GetOverview(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get overview: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), httpapi.NewOverviewResponse(o))
		}
		printStatusText(cmd.OutOrStdout(), o, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// printStatusText prints the status in plain text format
func printStatusText(w io.Writer, o *domain.Overview, now time.Time) {
	theme := app.theme()
	if o.ActiveTask != nil {
		t := o.ActiveTask
		fmt.Fprintf(w, "%s Active Task: %s\n", theme.IconTask, t.Title)
		fmt.Fprintf(w, "   Elapsed: %s\n", domain.FormatClock(t.Elapsed(now)))
		if done, total := t.SubtaskProgress(); total > 0 {
			fmt.Fprintf(w, "   Steps: %d/%d\n", done, total)
		}
	} else {
		fmt.Fprintln(w, "No active task.")
	}

	fmt.Fprintf(w, "\n%s Level %d · %d XP · %d open tasks\n", theme.IconStats, o.Profile.Level, o.Profile.TotalXP, o.OpenCount())

	if len(o.RecentSessions) == 0 {
		return
	}
	titles := make(map[string]string, len(o.Tasks))
	for _, t := range o.Tasks {
		titles[t.ID] = t.Title
	}
	fmt.Fprintln(w, "\nRecent sessions:")
	for _, s := range o.RecentSessions {
		seconds := s.Seconds
		if s.EndedAt == nil {
			seconds = int64(now.Sub(s.StartedAt) / time.Second)
		}
		title := titles[s.TaskID]
		if title == "" {
			title = domain.ShortID(s.TaskID)
		}
		line := fmt.Sprintf("   %s  %-24s %6s", s.StartedAt.Local().Format("Jan 02 15:04"), title, domain.FormatClock(seconds))
		if s.GitBranch != "" {
			line += fmt.Sprintf("  %s %s@%s", theme.IconGit, s.GitBranch, s.GitCommit)
		}
		fmt.Fprintln(w, line)
	}
}
