package focus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// Options tunes a Controller.
type Options struct {
	// IdleThreshold is the number of idle seconds before an intervention.
	IdleThreshold int
	// OverrunMinutes is the minute count past which the timer warns.
	OverrunMinutes int
	// AutoStart starts a pending or paused task when it is entered.
	AutoStart bool
	Logger    *log.Logger
	Notifier  ports.Notifier
}

// Controls says which session buttons are enabled.
type Controls struct {
	Start    bool
	Pause    bool
	Complete bool
}

// Controller is the focus view: one task on screen with its timer, idle
// monitor and dialog.
type Controller struct {
	tracker  ports.Tracker
	clock    Clock
	logger   *log.Logger
	notifier ports.Notifier

	autoStart bool

	machine *Machine
	timer   *TimerEngine
	idle    *IdleMonitor
	modal   *Modal
	flow    *RecommendationFlow

	task   *domain.Task
	notice string
	reward *domain.Reward
}

// NewController creates a focus view with nothing on display.
func NewController(tracker ports.Tracker, clock Clock, opts Options) *Controller {
	if clock == nil {
		clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	c := &Controller{
		tracker:   tracker,
		clock:     clock,
		logger:    logger,
		notifier:  opts.Notifier,
		autoStart: opts.AutoStart,
		machine:   NewMachine(clock),
		timer:     NewTimerEngine(clock, opts.OverrunMinutes),
		idle:      NewIdleMonitor(opts.IdleThreshold),
	}
	c.modal = NewModal(c.onModalClose)
	c.flow = NewRecommendationFlow(tracker, c.modal, logger, c.switchTo)
	return c
}

// Enter puts a task on screen. With AutoStart a pending or paused task is
// started and the returned Call must be run.
func (c *Controller) Enter(task *domain.Task) Call {
	c.show(task)
	if !c.autoStart || task == nil {
		return nil
	}
	if task.Status != domain.StatusPending && task.Status != domain.StatusPaused {
		return nil
	}
	call, err := c.Start()
	if errors.Is(err, domain.ErrRequestInFlight) {
		// The outstanding request settles this view when it returns.
		return nil
	}
	if err != nil {
		c.logger.Printf("Warning: auto-start of %s refused: %v", task.ID, err)
		return nil
	}
	return call
}

func (c *Controller) show(task *domain.Task) {
	c.task = task
	c.notice = ""
	c.reward = nil
	if task == nil {
		c.machine.Show(domain.SessionSnapshot{})
	} else {
		c.machine.Show(domain.SnapshotOf(task))
	}
	c.sync()
}

// sync points the timer and idle monitor at the machine's snapshot.
func (c *Controller) sync() {
	snap := c.machine.Snapshot()
	c.timer.Load(snap)
	if snap.Status == domain.StatusActive {
		c.idle.Arm()
	} else {
		c.idle.Disarm()
	}
}

// Task returns the task on screen.
func (c *Controller) Task() *domain.Task {
	return c.task
}

// Snapshot returns the displayed session state.
func (c *Controller) Snapshot() domain.SessionSnapshot {
	return c.machine.Snapshot()
}

// Display returns the current timer rendering.
func (c *Controller) Display() Display {
	return c.timer.Current()
}

// Modal returns the view's dialog.
func (c *Controller) Modal() *Modal {
	return c.modal
}

// Idle returns the view's idle monitor.
func (c *Controller) Idle() *IdleMonitor {
	return c.idle
}

// Notice returns the latest non-blocking message, if any.
func (c *Controller) Notice() string {
	return c.notice
}

// Reward returns the reward shown after completion.
func (c *Controller) Reward() *domain.Reward {
	return c.reward
}

// Controls reports which session buttons are enabled.
func (c *Controller) Controls() Controls {
	return Controls{
		Start:    c.machine.Allowed(ActionStart),
		Pause:    c.machine.Allowed(ActionPause),
		Complete: c.machine.Allowed(ActionComplete),
	}
}

// Busy reports whether a transition for the displayed task is in flight.
func (c *Controller) Busy() bool {
	return c.machine.Busy(c.machine.Snapshot().TaskID)
}

// Tick advances both periodic tasks by one second.
func (c *Controller) Tick() Display {
	d, _ := c.timer.Tick()
	if c.idle.Tick() {
		c.intervene()
	}
	return d
}

// Refresh re-renders the timer from the clock, e.g. after a resume.
func (c *Controller) Refresh() Display {
	return c.timer.Load(c.machine.Snapshot())
}

// Interact records user activity.
func (c *Controller) Interact() {
	c.idle.Interact()
}

func (c *Controller) intervene() {
	c.flow.Cancel()
	c.modal.Show(Dialog{
		Title:        "Zone Check",
		Message:      "You've been idle for a while. Are you stuck or just thinking?",
		ConfirmLabel: "I'm Stuck",
		CancelLabel:  "I'm Focused",
		OnConfirm:    c.Stuck,
	})
	c.notify("Zone Check", "Still with your task?")
}

func (c *Controller) onModalClose() {
	c.idle.Acknowledge()
	c.flow.Cancel()
}

// Start requests activation of the displayed task.
func (c *Controller) Start() (Call, error) {
	return c.begin(ActionStart, c.machine.Snapshot().TaskID)
}

// Pause requests a pause of the displayed task.
func (c *Controller) Pause() (Call, error) {
	return c.begin(ActionPause, c.machine.Snapshot().TaskID)
}

// Complete requests completion of the displayed task.
func (c *Controller) Complete() (Call, error) {
	return c.begin(ActionComplete, c.machine.Snapshot().TaskID)
}

func (c *Controller) begin(a Action, taskID string) (Call, error) {
	if err := c.machine.Begin(a, taskID); err != nil {
		return nil, err
	}
	switch a {
	case ActionStart:
		return startCall(c.tracker, taskID), nil
	case ActionPause:
		return pauseCall(c.tracker, taskID), nil
	default:
		return completeCall(c.tracker, taskID), nil
	}
}

// switchTo starts another task; the view follows once it is confirmed.
func (c *Controller) switchTo(taskID string) Call {
	call, err := c.begin(ActionStart, taskID)
	if err != nil {
		c.fail("switch", err)
		return nil
	}
	return call
}

// Stuck asks the tracker for an easier task.
func (c *Controller) Stuck() Call {
	return c.flow.Request(c.machine.Snapshot().TaskID)
}

// ToggleSubtask marks a pending subtask completed right away and tells the
// tracker. Completed subtasks are left alone.
func (c *Controller) ToggleSubtask(subtaskID string) (Call, error) {
	st := c.subtask(subtaskID)
	if st == nil {
		return nil, domain.ErrSubtaskNotFound
	}
	if st.Status == domain.SubtaskCompleted {
		return nil, nil
	}
	st.Status = domain.SubtaskCompleted
	return toggleCall(c.tracker, c.task.ID, subtaskID), nil
}

func (c *Controller) subtask(id string) *domain.Subtask {
	if c.task == nil {
		return nil
	}
	for i := range c.task.Subtasks {
		if c.task.Subtasks[i].ID == id {
			return &c.task.Subtasks[i]
		}
	}
	return nil
}

// Resync reloads the displayed task from the tracker.
func (c *Controller) Resync() Call {
	id := c.machine.Snapshot().TaskID
	if id == "" {
		return nil
	}
	return reloadCall(c.tracker, id)
}

// ConfirmDialog presses the dialog's confirm button.
func (c *Controller) ConfirmDialog() Call {
	return c.modal.Confirm()
}

// CancelDialog presses the dialog's cancel button.
func (c *Controller) CancelDialog() {
	c.modal.Cancel()
}

// Deliver applies a Result on the event loop. It may return a follow-up Call.
func (c *Controller) Deliver(r Result) Call {
	switch r := r.(type) {
	case StartDone:
		return c.onStart(r)
	case PauseDone:
		c.onPause(r)
	case CompleteDone:
		c.onComplete(r)
	case ToggleDone:
		c.onToggle(r)
	case RecommendDone:
		c.flow.Resolve(r)
	case Reloaded:
		c.onReload(r)
	}
	return nil
}

func (c *Controller) onStart(r StartDone) Call {
	if r.Error != nil || r.Res == nil {
		if c.machine.Fail(ActionStart, r.TaskID) {
			c.fail("start", r.Error)
		}
		return nil
	}

	accumulated := c.machine.Snapshot().Accumulated
	if r.Res.Task != nil {
		accumulated = r.Res.Task.Accumulated
	} else if r.TaskID != c.machine.Snapshot().TaskID {
		accumulated = 0
	}

	navigated, applied := c.machine.ConfirmStart(r.TaskID, accumulated)
	if !applied {
		return nil
	}

	var follow Call
	c.notice = ""
	if navigated {
		c.reward = nil
		c.task = r.Res.Task
		if c.task == nil {
			c.task = &domain.Task{ID: r.TaskID, Title: r.TaskID}
			follow = reloadCall(c.tracker, r.TaskID)
		}
	}
	if c.task != nil {
		c.task.Status = domain.StatusActive
		c.task.Accumulated = accumulated
	}
	c.sync()
	return follow
}

func (c *Controller) onPause(r PauseDone) {
	if r.Error != nil || r.Res == nil {
		if c.machine.Fail(ActionPause, r.TaskID) {
			c.fail("pause", r.Error)
		}
		return
	}
	if !c.machine.ConfirmPause(r.TaskID, r.Res.Accumulated) {
		return
	}
	c.notice = ""
	if c.task != nil {
		c.task.Status = domain.StatusPaused
		c.task.Accumulated = r.Res.Accumulated
		c.task.Start = nil
	}
	c.sync()
}

func (c *Controller) onComplete(r CompleteDone) {
	if r.Error != nil || r.Res == nil {
		if c.machine.Fail(ActionComplete, r.TaskID) {
			c.fail("complete", r.Error)
		}
		return
	}
	if !c.machine.ConfirmComplete(r.TaskID, r.Res.Accumulated) {
		return
	}
	c.notice = ""
	if c.task != nil {
		c.task.Status = domain.StatusCompleted
		c.task.Accumulated = r.Res.Accumulated
		c.task.Start = nil
	}
	c.sync()

	reward := r.Res.Reward
	c.reward = &reward
	c.modal.Show(Dialog{
		Title:        "MISSION ACCOMPLISHED",
		Message:      reward.Message(),
		ConfirmLabel: "Continue",
		HideCancel:   true,
	})
	c.notify("Mission accomplished", reward.Message())
}

func (c *Controller) onToggle(r ToggleDone) {
	if c.task == nil || c.task.ID != r.TaskID {
		return
	}
	st := c.subtask(r.SubtaskID)
	if st == nil {
		return
	}
	if r.Error != nil {
		st.Status = domain.SubtaskPending
		c.fail("update subtask", r.Error)
		return
	}
	st.Status = r.Status
}

func (c *Controller) onReload(r Reloaded) {
	if r.TaskID != c.machine.Snapshot().TaskID {
		return
	}
	if r.Error != nil || r.Task == nil {
		c.fail("reload", r.Error)
		return
	}
	c.task = r.Task
	c.machine.Show(domain.SnapshotOf(r.Task))
	c.sync()
}

func (c *Controller) fail(what string, err error) {
	if err == nil {
		err = errors.New("no response")
	}
	c.logger.Printf("Warning: failed to %s: %v", what, err)
	c.notice = fmt.Sprintf("Could not %s: %v", what, err)
}

func (c *Controller) notify(title, message string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(title, message); err != nil {
		c.logger.Printf("Warning: notification failed: %v", err)
	}
}

// Do runs a Call and any follow-ups synchronously. It returns the error of
// the first failed result.
func (c *Controller) Do(ctx context.Context, call Call) error {
	var first error
	for call != nil {
		r := call(ctx)
		if err := r.Err(); err != nil && first == nil {
			first = err
		}
		call = c.Deliver(r)
	}
	return first
}
