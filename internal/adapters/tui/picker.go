package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/config"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// pickerModel chooses one task out of several that matched a query.
type pickerModel struct {
	title   string
	tasks   []*domain.Task
	cursor  int
	aborted bool
	theme   config.ThemeConfig
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := key.String(); s {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "enter":
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < len(m.tasks) {
				m.cursor = idx
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorActive)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + "\n\n")

	for i, t := range m.tasks {
		line := fmt.Sprintf("%d. %s %-30s %s", i+1, statusMark(t.Status), truncate(t.Title, 30), domain.FormatClock(t.Accumulated))
		if i == m.cursor {
			b.WriteString(activeStyle.Render("  ▸ "+line) + "\n")
		} else {
			b.WriteString(dimStyle.Render("    "+line) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ navigate · enter select · esc cancel") + "\n")
	return b.String()
}

// RunPicker asks the user to pick one of tasks. ok is false when the
// picker was dismissed.
func RunPicker(title string, tasks []*domain.Task, theme *config.ThemeConfig) (*domain.Task, bool) {
	if len(tasks) == 0 {
		return nil, false
	}
	m := pickerModel{title: title, tasks: tasks, theme: resolveTheme(theme)}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, false
	}
	final := result.(pickerModel)
	if final.aborted {
		return nil, false
	}
	return final.tasks[final.cursor], true
}

// TextPromptResult holds the outcome of a text prompt.
type TextPromptResult struct {
	Value   string
	Aborted bool
}

type textPromptModel struct {
	title   string
	input   textinput.Model
	aborted bool
	theme   config.ThemeConfig
}

func (m textPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textPromptModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	return "\n" + titleStyle.Render("  "+m.title) + " " + m.input.View() + "\n\n" +
		dimStyle.Render("  enter confirm · esc cancel") + "\n"
}

// RunTextPrompt reads one line of text, such as a task title.
func RunTextPrompt(title string, placeholder string, theme *config.ThemeConfig) TextPromptResult {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = 50
	ti.Focus()

	m := textPromptModel{title: title, input: ti, theme: resolveTheme(theme)}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return TextPromptResult{Aborted: true}
	}
	final := result.(textPromptModel)
	if final.aborted {
		return TextPromptResult{Aborted: true}
	}
	return TextPromptResult{Value: strings.TrimSpace(final.input.Value())}
}
