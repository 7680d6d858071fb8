package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/config"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// titleWidth bounds a ring label.
const titleWidth = 16

// board is the ring + reserve overview. The cursor indexes visible().
type board struct {
	tasks     []*domain.Task
	ranking   domain.Ranking
	cursor    int
	filter    textinput.Model
	filtering bool
	matches   []*domain.Task
	loaded    bool
}

func newBoard() board {
	ti := textinput.New()
	ti.Placeholder = "filter by title"
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Width = 30
	return board{filter: ti}
}

func (b *board) setTasks(tasks []*domain.Task) {
	b.tasks = tasks
	b.ranking = domain.Rank(tasks)
	b.loaded = true
	b.refilter()
}

// visible returns the selectable tasks in display order.
func (b *board) visible() []*domain.Task {
	if b.filter.Value() != "" {
		return b.matches
	}
	return b.ranking.Ordered()
}

func (b *board) selected() *domain.Task {
	v := b.visible()
	if b.cursor < 0 || b.cursor >= len(v) {
		return nil
	}
	return v[b.cursor]
}

func (b *board) move(delta int) {
	n := len(b.visible())
	if n == 0 {
		b.cursor = 0
		return
	}
	b.cursor = (b.cursor + delta + n) % n
}

func (b *board) refilter() {
	pattern := strings.TrimSpace(b.filter.Value())
	b.matches = nil
	if pattern != "" {
		ordered := b.ranking.Ordered()
		titles := make([]string, len(ordered))
		for i, t := range ordered {
			titles[i] = t.Title
		}
		for _, match := range fuzzy.Find(pattern, titles) {
			b.matches = append(b.matches, ordered[match.Index])
		}
	}
	if b.cursor >= len(b.visible()) {
		b.cursor = 0
	}
}

func (b *board) clearFilter() {
	b.filter.Reset()
	b.filter.Blur()
	b.filtering = false
	b.refilter()
}

// statusMark is the one-rune status glyph used on the ring and in lists.
func statusMark(s domain.TaskStatus) string {
	switch s {
	case domain.StatusActive:
		return "●"
	case domain.StatusPaused:
		return "‖"
	case domain.StatusCompleted:
		return "✔"
	default:
		return "○"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// RenderRing draws the primary ring of a ranking as plain text. The slot at
// selected (or none, for -1) is marked with an arrow.
func RenderRing(r domain.Ranking, width, selected int, centre string) string {
	if len(r.Primary) == 0 {
		return ""
	}
	if width < 40 {
		width = 40
	}

	// Terminal cells are about twice as tall as wide, so x is stretched.
	radius := math.Min(float64(width-titleWidth-6)/4, 7)
	if radius < 3 {
		radius = 3
	}
	rows := int(2*radius) + 3
	cols := width
	cx, cy := cols/2, rows/2

	canvas := make([][]rune, rows)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", cols))
	}
	put := func(row, col int, s string) {
		if row < 0 || row >= rows {
			return
		}
		for i, ch := range []rune(s) {
			if c := col + i; c >= 0 && c < cols {
				canvas[row][c] = ch
			}
		}
	}

	put(cy, cx-len([]rune(centre))/2, centre)
	for _, slot := range r.Primary {
		x, y := slot.Position(radius)
		marker := " "
		if slot.Index == selected {
			marker = "▶"
		}
		label := fmt.Sprintf("%s%d %s %s", marker, slot.Index+1, statusMark(slot.Task.Status), truncate(slot.Task.Title, titleWidth))
		col := cx + int(math.Round(x*2)) - len([]rune(label))/2
		put(cy+int(math.Round(y)), col, label)
	}

	lines := make([]string, rows)
	for i, row := range canvas {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

func (b board) view(theme config.ThemeConfig, width int, notice string) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle))
	ringStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorRing))
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorTask))
	selStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorActive))
	doneStyle := lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color(theme.ColorCompleted))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))
	noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorOverrun))

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s Octo-Task", theme.IconApp)))
	sections = append(sections, "")

	switch {
	case !b.loaded:
		sections = append(sections, helpStyle.Render("Loading tasks..."))
	case len(b.tasks) == 0:
		sections = append(sections, helpStyle.Render("No tasks yet. Add one with `octo add <title>`."))
	case b.filter.Value() != "":
		if len(b.matches) == 0 {
			sections = append(sections, helpStyle.Render("No matching tasks"))
		}
		for i, t := range b.matches {
			line := fmt.Sprintf("%s %s  %.2f", statusMark(t.Status), t.Title, t.Priority)
			if i == b.cursor {
				sections = append(sections, selStyle.Render("▶ "+line))
			} else {
				sections = append(sections, taskStyle.Render("  "+line))
			}
		}
	default:
		selected := -1
		if b.cursor < len(b.ranking.Primary) {
			selected = b.cursor
		}
		open := 0
		for _, t := range b.tasks {
			if !t.IsCompleted() {
				open++
			}
		}
		centre := fmt.Sprintf("%d open", open)
		sections = append(sections, ringStyle.Render(RenderRing(b.ranking, width, selected, centre)))

		if len(b.ranking.Reserve) > 0 {
			sections = append(sections, "")
			sections = append(sections, helpStyle.Render("Reserve"))
		}
		for i, e := range b.ranking.Reserve {
			idx := len(b.ranking.Primary) + i
			line := fmt.Sprintf("%s %s", statusMark(e.Task.Status), e.Task.Title)
			switch {
			case idx == b.cursor:
				sections = append(sections, selStyle.Render("▶ "+line))
			case e.Completed:
				sections = append(sections, doneStyle.Render("  "+line))
			default:
				sections = append(sections, taskStyle.Render("  "+line))
			}
		}
	}

	if sel := b.selected(); sel != nil {
		sections = append(sections, "")
		sections = append(sections, taskStyle.Render(fmt.Sprintf("%s %s · %s · priority %.2f · %s",
			theme.IconTask, sel.Title, domain.StatusLabel(sel.Status), sel.Priority, domain.FormatClock(sel.Accumulated))))
	}

	if notice != "" {
		sections = append(sections, "")
		sections = append(sections, noticeStyle.Render(notice))
	}

	sections = append(sections, "")
	if b.filtering {
		sections = append(sections, b.filter.View())
		sections = append(sections, helpStyle.Render("enter keep filter · esc clear"))
	} else {
		sections = append(sections, helpStyle.Render("↑/↓ select · enter focus · [d]eep dive · / filter · [r]eload · [q]uit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
