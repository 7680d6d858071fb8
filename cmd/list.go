package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/tui"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

var (
	listRing bool
	listAll  bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks by priority",
	Long: `List open tasks by priority: the eight on the ring first, then the reserve.
Completed tasks are shown with --all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		tasks, err := app.tracker.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		ranking := domain.Rank(tasks)

		if jsonOutput {
			resp := httpapi.TaskListResponse{}
			for _, t := range ranking.Ordered() {
				if !listAll && t.IsCompleted() {
					continue
				}
				resp.Tasks = append(resp.Tasks, httpapi.NewTaskJSON(t))
			}
			return printJSON(out, resp)
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found. Add one with `octo add <title>`.")
			return nil
		}

		if listRing {
			width := 80
			if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
				width = w
			}
			fmt.Fprintln(out, tui.RenderRing(ranking, width, -1, fmt.Sprintf("%d on ring", len(ranking.Primary))))
		} else {
			for _, slot := range ranking.Primary {
				printTaskLine(out, fmt.Sprintf("%d.", slot.Index+1), slot.Task)
			}
		}

		var reserve []domain.ReserveEntry
		for _, e := range ranking.Reserve {
			if listAll || !e.Completed {
				reserve = append(reserve, e)
			}
		}
		if len(reserve) > 0 {
			fmt.Fprintln(out, "\nReserve:")
			for _, e := range reserve {
				printTaskLine(out, " ", e.Task)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listRing, "ring", false, "Draw the ring instead of a list")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include completed tasks")
	rootCmd.AddCommand(listCmd)
}

func printTaskLine(w io.Writer, prefix string, t *domain.Task) {
	line := fmt.Sprintf("%s %s %s  (%.2f, %s)  [%s]", prefix, getStatusIcon(t.Status), t.Title,
		t.Priority, domain.FormatClock(t.Accumulated), domain.ShortID(t.ID))
	if done, total := t.SubtaskProgress(); total > 0 {
		line += fmt.Sprintf("  %d/%d steps", done, total)
	}
	fmt.Fprintln(w, line)
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusPending:
		return "⏳"
	case domain.StatusActive:
		return "▶️"
	case domain.StatusPaused:
		return "⏸️"
	case domain.StatusCompleted:
		return "✅"
	default:
		return "❓"
	}
}
