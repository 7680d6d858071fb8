// Package cmd provides the CLI commands for Octo-Task.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/tui"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/focus"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/services"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	configPath string
	remoteURL  string
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "octo",
	Short: "Octo - a focus tracker that ranks your tasks",
	Long: `Octo scores your tasks by urgency, fear and interest, lays the top eight
out on a ring, and runs a focus timer that notices when you stall.

Run "octo" with no arguments to open the board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(nil)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		tui.ShowError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.octo/octo.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.octo/config.toml)")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "Base URL of an octo server to use instead of local storage")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Octo-Task\nVersion: {{.Version}}\n")
}

// runTUI opens the full-screen interface, on the board or on a task.
func runTUI(initial *domain.Task) error {
	ctx := setupSignalHandler()
	return tui.Run(ctx, tui.Options{
		Tracker: app.tracker,
		Focus:   focusOptions(),
		Theme:   &app.config.Theme,
		Logger:  app.logger,
		Initial: initial,
	})
}

// resolveTask finds the task a user typed: an id, an id prefix, or part of
// a title. Ambiguous titles open a picker when stdin is a terminal.
func resolveTask(ctx context.Context, ref string) (*domain.Task, error) {
	tasks, err := app.tracker.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	task, err := services.MatchTask(tasks, ref)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, services.ErrAmbiguousTask) || jsonOutput || !term.IsTerminal(os.Stdin.Fd()) {
		return nil, err
	}

	picked, ok := tui.RunPicker(fmt.Sprintf("Which task matches %q?", ref), services.FuzzyTitles(tasks, ref), &app.config.Theme)
	if !ok {
		return nil, errors.New("no task selected")
	}
	return picked, nil
}

// oneShot drives a single transition through the focus state machine.
func oneShot(ctx context.Context, task *domain.Task, action func(*focus.Controller) (focus.Call, error)) (*focus.Controller, error) {
	opts := focusOptions()
	opts.AutoStart = false
	ctrl := focus.NewController(app.tracker, nil, opts)
	ctrl.Enter(task)

	call, err := action(ctrl)
	if err != nil {
		return ctrl, err
	}
	return ctrl, ctrl.Do(ctx, call)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
