package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks and work sessions",
	Long:  "Export every task with its work-session history as JSON, or one row per task as CSV.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tasks, err := app.tracker.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		switch exportFormat {
		case "csv":
			return exportCSV(cmd.OutOrStdout(), tasks)
		case "json":
			dump := exportDump{Tasks: make([]exportTask, 0, len(tasks))}
			for _, t := range tasks {
				sessions, err := app.history.GetTaskHistory(ctx, t.ID)
				if err != nil {
					return fmt.Errorf("failed to fetch history for %s: %w", t.ID, err)
				}
				et := exportTask{TaskJSON: httpapi.NewTaskJSON(t), Sessions: make([]httpapi.WorkSessionJSON, 0, len(sessions))}
				for _, s := range sessions {
					et.Sessions = append(et.Sessions, httpapi.NewWorkSessionJSON(s))
				}
				dump.Tasks = append(dump.Tasks, et)
			}
			return printJSON(cmd.OutOrStdout(), dump)
		default:
			return fmt.Errorf("unknown export format %q (want json or csv)", exportFormat)
		}
	},
}

type exportTask struct {
	httpapi.TaskJSON
	Sessions []httpapi.WorkSessionJSON `json:"sessions"`
}

type exportDump struct {
	Tasks []exportTask `json:"tasks"`
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or csv")
	rootCmd.AddCommand(exportCmd)
}

func exportCSV(w io.Writer, tasks []*domain.Task) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{
		"id", "title", "status", "priority", "urgency", "fear", "interest",
		"difficulty", "seconds", "xp_earned", "subtasks_done", "subtasks_total", "created_at",
	})

	for _, t := range tasks {
		var a domain.Analysis
		if t.Analysis != nil {
			a = *t.Analysis
		}
		done, total := t.SubtaskProgress()
		_ = cw.Write([]string{
			t.ID,
			t.Title,
			string(t.Status),
			strconv.FormatFloat(t.Priority, 'f', 2, 64),
			strconv.FormatFloat(a.Urgency, 'g', -1, 64),
			strconv.FormatFloat(a.Fear, 'g', -1, 64),
			strconv.FormatFloat(a.Interest, 'g', -1, 64),
			strconv.FormatFloat(a.Difficulty, 'g', -1, 64),
			strconv.FormatInt(t.Accumulated, 10),
			strconv.Itoa(t.XPEarned),
			strconv.Itoa(done),
			strconv.Itoa(total),
			t.CreatedAt.Format("2006-01-02T15:04:05"),
		})
	}
	cw.Flush()
	return cw.Error()
}
