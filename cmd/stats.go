package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, level and where your time went",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := app.history.GetOverview(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), summarize(o))
		}
		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), o, statsTop)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", 10, "Number of tasks to chart")
	rootCmd.AddCommand(statsCmd)
}

// statsSummary is the aggregate behind the dashboard.
type statsSummary struct {
	Level         int   `json:"level"`
	TotalXP       int   `json:"total_xp"`
	XPToNextLevel int   `json:"xp_to_next_level"`
	Completed     int   `json:"completed"`
	Open          int   `json:"open"`
	OnRing        int   `json:"on_ring"`
	TotalSeconds  int64 `json:"total_seconds"`
	EarnedByTasks int   `json:"earned_by_tasks"`

	tasksByTime []*domain.Task
}

func summarize(o *domain.Overview) statsSummary {
	s := statsSummary{
		Level:         o.Profile.Level,
		TotalXP:       o.Profile.TotalXP,
		XPToNextLevel: domain.XPPerLevel - o.Profile.TotalXP%domain.XPPerLevel,
		OnRing:        len(o.Ranking().Primary),
	}
	for _, t := range o.Tasks {
		if t.IsCompleted() {
			s.Completed++
			s.EarnedByTasks += t.XPEarned
		} else {
			s.Open++
		}
		s.TotalSeconds += t.Accumulated
		if t.Accumulated > 0 {
			s.tasksByTime = append(s.tasksByTime, t)
		}
	}
	sort.SliceStable(s.tasksByTime, func(i, j int) bool {
		return s.tasksByTime[i].Accumulated > s.tasksByTime[j].Accumulated
	})
	return s
}

func renderDashboard(w io.Writer, o *domain.Overview, top int) {
	theme := app.theme()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorActive))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorTitle))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorRing))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorActive))

	s := summarize(o)

	fmt.Fprintf(w, "  %s\n", titleStyle.Render(fmt.Sprintf("%s Level %d", theme.IconStats, s.Level)))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(w, "  XP: %s (%d to next level)\n", valueStyle.Render(fmt.Sprintf("%d", s.TotalXP)), s.XPToNextLevel)
	fmt.Fprintf(w, "  Tasks: %s done, %s open (%d on the ring), %s focused\n\n",
		valueStyle.Render(fmt.Sprintf("%d", s.Completed)),
		valueStyle.Render(fmt.Sprintf("%d", s.Open)),
		s.OnRing,
		valueStyle.Render(formatHours(float64(s.TotalSeconds)/3600)),
	)

	if len(s.tasksByTime) == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No focused time recorded yet."))
		return
	}

	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Time by task"))
	tasks := s.tasksByTime
	if top > 0 && len(tasks) > top {
		tasks = tasks[:top]
	}
	longest := tasks[0].Accumulated
	maxBarWidth := 30
	for _, t := range tasks {
		barWidth := int(math.Round(float64(t.Accumulated) / float64(longest) * float64(maxBarWidth)))
		if barWidth < 1 {
			barWidth = 1
		}
		label := fmt.Sprintf("%-18s", truncateLabel(t.Title, 18))
		fmt.Fprintf(w, "  %s %s %s\n",
			dimStyle.Render(label),
			barColor.Render(buildBar(barWidth)),
			formatHours(float64(t.Accumulated)/3600),
		)
	}
	fmt.Fprintln(w)
}

func truncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// buildBar creates a bar string of the given width using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
