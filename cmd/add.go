package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/tui"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

var (
	addUrgency     float64
	addFear        float64
	addInterest    float64
	addDifficulty  float64
	addPredict     bool
	addSteps       []string
	addDescription string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task. Urgency, fear and interest are scored 1-10; any you leave
out are predicted from the title. Difficulty defaults to the fear score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			if !term.IsTerminal(os.Stdin.Fd()) {
				return domain.ErrEmptyTaskTitle
			}
			res := tui.RunTextPrompt("New task:", "what needs doing?", &app.config.Theme)
			if res.Aborted {
				return nil
			}
			title = res.Value
		}

		m := domain.Metrics{Urgency: addUrgency, Fear: addFear, Interest: addInterest}
		if addPredict || m.Urgency <= 0 || m.Fear <= 0 || m.Interest <= 0 {
			pred, err := app.tracker.Predict(ctx, title)
			if err != nil {
				return fmt.Errorf("failed to predict metrics: %w", err)
			}
			m = fillMetrics(m, pred.Metrics, addPredict)
		}

		task, err := app.tracker.CreateTask(ctx, ports.CreateTaskRequest{
			Title:       title,
			Description: addDescription,
			Metrics:     m,
			Difficulty:  addDifficulty,
			Subtasks:    addSteps,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(out, httpapi.NewTaskJSON(task))
		}

		fmt.Fprintf(out, "✅ Task added: %s (ID: %s)\n", task.Title, domain.ShortID(task.ID))
		fmt.Fprintf(out, "   Priority %.2f · urgency %g · fear %g · interest %g\n",
			task.Priority, m.Urgency, m.Fear, m.Interest)
		if n := len(task.Subtasks); n > 0 {
			fmt.Fprintf(out, "   %d subtasks\n", n)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().Float64VarP(&addUrgency, "urgency", "u", 0, "Urgency 1-10")
	addCmd.Flags().Float64VarP(&addFear, "fear", "f", 0, "Fear 1-10")
	addCmd.Flags().Float64VarP(&addInterest, "interest", "i", 0, "Interest 1-10")
	addCmd.Flags().Float64Var(&addDifficulty, "difficulty", 0, "Difficulty 1-10 (default: fear)")
	addCmd.Flags().BoolVar(&addPredict, "predict", false, "Predict every metric from the title")
	addCmd.Flags().StringArrayVarP(&addSteps, "step", "s", nil, "Subtask (repeatable)")
	addCmd.Flags().StringVarP(&addDescription, "desc", "d", "", "Description")
	rootCmd.AddCommand(addCmd)
}

// fillMetrics takes the predicted value for every axis the user left unset,
// or for all of them when override is set.
func fillMetrics(given, predicted domain.Metrics, override bool) domain.Metrics {
	if override || given.Urgency <= 0 {
		given.Urgency = predicted.Urgency
	}
	if override || given.Fear <= 0 {
		given.Fear = predicted.Fear
	}
	if override || given.Interest <= 0 {
		given.Interest = predicted.Interest
	}
	return given
}
