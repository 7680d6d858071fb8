// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"io"
	"log"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/config"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/focus"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg is sent once per second and drives both the timer and idle monitor.
type tickMsg time.Time

// resultMsg carries a tracker answer back onto the event loop.
type resultMsg struct {
	result focus.Result
}

// tasksMsg carries a fresh task list for the board.
type tasksMsg struct {
	tasks []*domain.Task
	err   error
}

type screen int

const (
	screenBoard screen = iota
	screenFocus
)

// Options configures a Model.
type Options struct {
	Tracker ports.Tracker
	Focus   focus.Options
	// Clock defaults to the system clock.
	Clock  focus.Clock
	Theme  *config.ThemeConfig
	Logger *log.Logger
	// Initial opens the focus view on this task instead of the board.
	Initial *domain.Task
}

// Model is the root bubbletea model: the board and the focus view.
type Model struct {
	ctx      context.Context
	tracker  ports.Tracker
	ctrl     *focus.Controller
	logger   *log.Logger
	theme    config.ThemeConfig
	progress progress.Model

	screen  screen
	board   board
	initial *domain.Task
	notice  string

	width  int
	height int
}

// NewModel creates the TUI model.
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	fo := opts.Focus
	if fo.Logger == nil {
		fo.Logger = logger
	}
	theme := resolveTheme(opts.Theme)

	m := Model{
		ctx:      ctx,
		tracker:  opts.Tracker,
		ctrl:     focus.NewController(opts.Tracker, opts.Clock, fo),
		logger:   logger,
		theme:    theme,
		progress: progress.New(progress.WithSolidFill(theme.ColorCompleted), progress.WithoutPercentage()),
		board:    newBoard(),
		initial:  opts.Initial,
	}
	if opts.Initial != nil {
		m.screen = screenFocus
	}
	return m
}

// Controller exposes the focus view's controller.
func (m Model) Controller() *focus.Controller {
	return m.ctrl
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.initial != nil {
		cmds = append(cmds, m.run(m.ctrl.Enter(m.initial)))
	} else {
		cmds = append(cmds, m.loadTasks())
	}
	return tea.Batch(cmds...)
}

// run wraps a tracker call as a command whose message is its Result.
func (m Model) run(call focus.Call) tea.Cmd {
	if call == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{result: call(ctx)}
	}
}

func (m Model) loadTasks() tea.Cmd {
	tracker, ctx := m.tracker, m.ctx
	return func() tea.Msg {
		tasks, err := tracker.ListTasks(ctx)
		return tasksMsg{tasks: tasks, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clampWidth(msg.Width-10, 10, 60)
		return m, nil

	case tickMsg:
		if m.screen == screenFocus {
			m.ctrl.Tick()
		}
		return m, tickCmd()

	case tea.ResumeMsg:
		// Elapsed time is recomputed from the clock, not from missed ticks.
		m.ctrl.Refresh()
		return m, nil

	case resultMsg:
		return m, m.run(m.ctrl.Deliver(msg.result))

	case tasksMsg:
		if msg.err != nil {
			m.logger.Printf("Warning: failed to load tasks: %v", msg.err)
			m.notice = "Could not load tasks: " + msg.err.Error()
			return m, nil
		}
		m.notice = ""
		m.board.setTasks(msg.tasks)
		return m, nil

	case tea.MouseMsg:
		if m.screen == screenFocus {
			m.ctrl.Interact()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+z":
			return m, tea.Suspend
		}
		if m.screen == screenFocus {
			return m.updateFocus(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.board.filtering {
		switch msg.String() {
		case "esc":
			m.board.clearFilter()
			return m, nil
		case "enter":
			m.board.filtering = false
			m.board.filter.Blur()
			return m, nil
		case "up", "down":
		default:
			var cmd tea.Cmd
			m.board.filter, cmd = m.board.filter.Update(msg)
			m.board.refilter()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.board.move(-1)
	case "down", "j", "tab":
		m.board.move(1)
	case "/":
		m.board.filtering = true
		m.board.filter.Focus()
	case "esc":
		m.board.clearFilter()
	case "r":
		return m, m.loadTasks()
	case "enter":
		if task := m.board.selected(); task != nil {
			return m.openFocus(task)
		}
	case "d":
		task, ok := domain.SelectDeepDive(m.board.tasks)
		if !ok {
			m.notice = "Nothing to work on. Add a task first."
			return m, nil
		}
		return m.openFocus(task)
	}
	return m, nil
}

func (m Model) openFocus(task *domain.Task) (tea.Model, tea.Cmd) {
	m.screen = screenFocus
	m.notice = ""
	return m, m.run(m.ctrl.Enter(task))
}

func (m Model) closeFocus() (tea.Model, tea.Cmd) {
	m.ctrl.Modal().Close()
	// Forget the snapshot so late answers for it are dropped.
	m.ctrl.Enter(nil)
	m.screen = screenBoard
	return m, m.loadTasks()
}

func (m Model) updateFocus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ctrl.Interact()

	if m.ctrl.Modal().IsOpen() {
		switch msg.String() {
		case "enter", "y":
			return m, m.run(m.ctrl.ConfirmDialog())
		case "esc", "n":
			m.ctrl.CancelDialog()
		}
		return m, nil
	}

	var (
		call focus.Call
		err  error
	)
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b":
		return m.closeFocus()
	case "s":
		call, err = m.ctrl.Start()
	case "p":
		call, err = m.ctrl.Pause()
	case "c":
		call, err = m.ctrl.Complete()
	case "x":
		call = m.ctrl.Stuck()
	case "r":
		call = m.ctrl.Resync()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if task := m.ctrl.Task(); task != nil && idx < len(task.Subtasks) {
			call, err = m.ctrl.ToggleSubtask(task.Subtasks[idx].ID)
		}
	}
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	return m, m.run(call)
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.screen == screenFocus {
		return m.viewFocus()
	}
	return m.viewBoard()
}

// tickCmd creates a command that sends a tick message.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clampWidth(w, lo, hi int) int {
	if w < lo {
		return lo
	}
	if w > hi {
		return hi
	}
	return w
}
