package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <task>",
	Short: "Delete a task",
	Long:  `Delete a task with its subtasks and history. Use with caution - this cannot be undone.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		task, err := resolveTask(ctx, joinArgs(args))
		if err != nil {
			return err
		}

		if !deleteYes && !jsonOutput {
			fmt.Fprintf(out, "Are you sure you want to delete task '%s' (%s)? [y/N]: ", task.Title, domain.ShortID(task.ID))
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(out, "Deletion cancelled.")
				return nil
			}
		}

		if err := app.tracker.DeleteTask(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if jsonOutput {
			return printJSON(out, httpapi.SuccessResponse{Success: true})
		}
		fmt.Fprintf(out, "🗑️  Task '%s' deleted.\n", task.Title)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
