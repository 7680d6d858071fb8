package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

var scoreMetrics domain.Metrics

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a priority score",
	Long:  `Compute the priority score for urgency, fear and interest ratings (1-10).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := app.tracker.ComputeScore(cmd.Context(), scoreMetrics)
		if err != nil {
			return fmt.Errorf("failed to compute score: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), httpapi.ScoreResponse{PriorityScore: score})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Priority: %.2f\n", score)
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict <title>",
	Short: "Guess urgency, fear and interest from a task title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pred, err := app.tracker.Predict(cmd.Context(), joinArgs(args))
		if err != nil {
			return fmt.Errorf("failed to predict: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), httpapi.PredictResponse{
				Urgency:       pred.Urgency,
				Fear:          pred.Fear,
				Interest:      pred.Interest,
				PriorityScore: pred.PriorityScore,
			})
		}
		printPrediction(cmd, pred)
		return nil
	},
}

func printPrediction(cmd *cobra.Command, p *domain.Prediction) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Urgency:  %g\n", p.Urgency)
	fmt.Fprintf(out, "Fear:     %g\n", p.Fear)
	fmt.Fprintf(out, "Interest: %g\n", p.Interest)
	fmt.Fprintf(out, "Priority: %.2f\n", p.PriorityScore)
}

func init() {
	scoreCmd.Flags().Float64VarP(&scoreMetrics.Urgency, "urgency", "u", 5, "Urgency 1-10")
	scoreCmd.Flags().Float64VarP(&scoreMetrics.Fear, "fear", "f", 5, "Fear 1-10")
	scoreCmd.Flags().Float64VarP(&scoreMetrics.Interest, "interest", "i", 5, "Interest 1-10")
	rootCmd.AddCommand(scoreCmd, predictCmd)
}
