package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

func (m Model) viewBoard() string {
	return m.board.view(m.theme, m.width, m.notice)
}

// timerColor picks the clock colour for the displayed state.
func (m Model) timerColor() lipgloss.Color {
	disp := m.ctrl.Display()
	if disp.Overrun {
		return lipgloss.Color(m.theme.ColorOverrun)
	}
	switch m.ctrl.Snapshot().Status {
	case domain.StatusActive:
		return lipgloss.Color(m.theme.ColorActive)
	case domain.StatusCompleted:
		return lipgloss.Color(m.theme.ColorCompleted)
	default:
		return lipgloss.Color(m.theme.ColorPaused)
	}
}

func (m Model) viewFocus() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorOverrun))
	rewardStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorCompleted))

	task := m.ctrl.Task()
	if task == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(fmt.Sprintf("%s Focus", m.theme.IconApp)),
			"",
			helpStyle.Render("Loading task..."),
		)
	}

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s Focus", m.theme.IconApp)))
	sections = append(sections, "")

	status := domain.StatusLabel(m.ctrl.Snapshot().Status)
	if m.ctrl.Busy() {
		status += " · syncing…"
	}
	heading := fmt.Sprintf("%s %s", m.theme.IconTask, task.Title)
	if m.ctrl.Snapshot().Status == domain.StatusCompleted {
		heading += " [COMPLETED]"
	}
	sections = append(sections, taskStyle.Render(heading))
	sections = append(sections, helpStyle.Render(status))
	sections = append(sections, "")

	disp := m.ctrl.Display()
	sections = append(sections, renderBigTime(disp.Text, m.timerColor(), m.width))
	if disp.Overrun {
		sections = append(sections, noticeStyle.Render("Time for a break?"))
	}

	if len(task.Subtasks) > 0 {
		done, total := task.SubtaskProgress()
		sections = append(sections, "")
		sections = append(sections, fmt.Sprintf("%s %d/%d",
			m.progress.ViewAs(float64(done)/float64(total)), done, total))
		for i, st := range task.Subtasks {
			box := "☐"
			if st.Status == domain.SubtaskCompleted {
				box = "☑"
			}
			line := fmt.Sprintf("%s %s", box, st.Title)
			if i < 9 {
				line = fmt.Sprintf("[%d] %s", i+1, line)
			} else {
				line = "    " + line
			}
			sections = append(sections, taskStyle.Render(line))
		}
	}

	if n := m.ctrl.Notice(); n != "" {
		sections = append(sections, "")
		sections = append(sections, noticeStyle.Render(n))
	}
	if m.notice != "" {
		sections = append(sections, "")
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if r := m.ctrl.Reward(); r != nil && !m.ctrl.Modal().IsOpen() {
		sections = append(sections, "")
		sections = append(sections, rewardStyle.Render(r.Message()))
	}

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(m.controlsHelp()))

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if box := m.viewDialog(); box != "" {
		return lipgloss.JoinVertical(lipgloss.Left, view, "", box)
	}
	return view
}

// controlsHelp lists only the keys that currently do something.
func (m Model) controlsHelp() string {
	ctl := m.ctrl.Controls()
	var keys []string
	if ctl.Start {
		keys = append(keys, "[s]tart")
	}
	if ctl.Pause {
		keys = append(keys, "[p]ause")
	}
	if ctl.Complete {
		keys = append(keys, "[c]omplete")
	}
	if task := m.ctrl.Task(); task != nil && !task.IsCompleted() {
		keys = append(keys, "[x] stuck")
		if len(task.Subtasks) > 0 {
			keys = append(keys, "[1-9] subtask")
		}
	}
	keys = append(keys, "[r]esync", "[b]ack", "[q]uit")
	return strings.Join(keys, " · ")
}

func (m Model) viewDialog() string {
	d, ok := m.ctrl.Modal().Content()
	if !ok {
		return ""
	}
	confirm := d.ConfirmLabel
	if confirm == "" {
		confirm = "OK"
	}
	cancel := d.CancelLabel
	if cancel == "" {
		cancel = "Cancel"
	}

	buttons := fmt.Sprintf("[enter] %s", confirm)
	if !d.HideCancel {
		buttons += fmt.Sprintf("   [esc] %s", cancel)
	}

	width := clampWidth(m.width-4, 24, 56)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.ColorRing)).
		Padding(0, 2).
		Width(width)
	title := lipgloss.NewStyle().Bold(true).Render(d.Title)
	help := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp)).Render(buttons)
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", d.Message, "", help))
}
