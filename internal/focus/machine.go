package focus

import (
	"time"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// Action is a transition the client may request.
type Action string

const (
	ActionStart    Action = "start"
	ActionPause    Action = "pause"
	ActionComplete Action = "complete"
)

func (a Action) target() domain.TaskStatus {
	switch a {
	case ActionStart:
		return domain.StatusActive
	case ActionPause:
		return domain.StatusPaused
	default:
		return domain.StatusCompleted
	}
}

type inFlight struct {
	action Action
	gen    uint64
	// navigate is set for a start on a task other than the displayed one.
	navigate bool
}

// Machine tracks the displayed task's session state and the requests
// outstanding against the tracker. It never changes local state until the
// tracker confirms a transition.
type Machine struct {
	clock    Clock
	snap     domain.SessionSnapshot
	gen      uint64
	inFlight map[string]inFlight
}

// NewMachine creates a machine with nothing on display.
func NewMachine(clock Clock) *Machine {
	return &Machine{clock: clock, inFlight: make(map[string]inFlight)}
}

// Snapshot returns the displayed session state.
func (m *Machine) Snapshot() domain.SessionSnapshot {
	return m.snap
}

// Show replaces the displayed snapshot. Showing a different task starts a
// new view, so responses to requests made from the old one are dropped.
func (m *Machine) Show(snap domain.SessionSnapshot) {
	if snap.TaskID != m.snap.TaskID {
		m.gen++
	}
	m.snap = snap
}

// Busy reports whether a request for the task is outstanding.
func (m *Machine) Busy(taskID string) bool {
	_, ok := m.inFlight[taskID]
	return ok
}

// Allowed reports whether the control for an action on the displayed task
// should be enabled.
func (m *Machine) Allowed(a Action) bool {
	if m.snap.IsZero() || m.Busy(m.snap.TaskID) {
		return false
	}
	return domain.CheckTransition(m.snap.Status, a.target()) == nil
}

// Begin validates an action and marks the task as having a request in
// flight. A start on a task that is not displayed is allowed and moves the
// view there once confirmed; the tracker checks its precondition.
func (m *Machine) Begin(a Action, taskID string) error {
	if taskID == "" {
		return domain.ErrInvalidTaskID
	}
	if m.Busy(taskID) {
		return domain.ErrRequestInFlight
	}

	req := inFlight{action: a, gen: m.gen}
	if taskID == m.snap.TaskID {
		if err := domain.CheckTransition(m.snap.Status, a.target()); err != nil {
			return err
		}
	} else {
		if a != ActionStart {
			return domain.ErrInvalidTransition
		}
		req.navigate = true
	}

	m.inFlight[taskID] = req
	return nil
}

// settle clears the in-flight marker and reports whether the response still
// belongs to the current view. A response for the displayed task always
// applies, even if the view was left and reopened while it was in flight.
// A navigating start applies only from the view that issued it.
func (m *Machine) settle(a Action, taskID string) (inFlight, bool) {
	req, ok := m.inFlight[taskID]
	if !ok || req.action != a {
		return req, false
	}
	delete(m.inFlight, taskID)
	if taskID == m.snap.TaskID {
		return req, true
	}
	return req, req.navigate && req.gen == m.gen
}

// Fail settles a request that the tracker rejected or never answered.
// Local state is left untouched. It returns false when the response is
// stale and should be ignored.
func (m *Machine) Fail(a Action, taskID string) bool {
	_, ok := m.settle(a, taskID)
	return ok
}

// ConfirmStart applies a confirmed start. accumulated is the task's known
// offset. It returns false when the response is stale.
func (m *Machine) ConfirmStart(taskID string, accumulated int64) (navigated, applied bool) {
	req, ok := m.settle(ActionStart, taskID)
	if !ok {
		return false, false
	}
	if req.navigate && taskID != m.snap.TaskID {
		m.gen++
		navigated = true
	}
	m.snap = Started(taskID, accumulated, m.clock.Now())
	return navigated, true
}

// ConfirmPause applies a confirmed pause, adopting the tracker's
// accumulated value.
func (m *Machine) ConfirmPause(taskID string, accumulated int64) bool {
	if _, ok := m.settle(ActionPause, taskID); !ok {
		return false
	}
	m.snap = Paused(m.snap, accumulated)
	return true
}

// ConfirmComplete applies a confirmed completion.
func (m *Machine) ConfirmComplete(taskID string, accumulated int64) bool {
	if _, ok := m.settle(ActionComplete, taskID); !ok {
		return false
	}
	m.snap = Completed(m.snap, accumulated)
	return true
}

// Started is the snapshot of a task that began running at now.
func Started(taskID string, accumulated int64, now time.Time) domain.SessionSnapshot {
	return domain.SessionSnapshot{
		TaskID:      taskID,
		Status:      domain.StatusActive,
		Start:       &now,
		Accumulated: accumulated,
	}
}

// Paused is snap stopped at the given accumulated seconds.
func Paused(snap domain.SessionSnapshot, accumulated int64) domain.SessionSnapshot {
	snap.Status = domain.StatusPaused
	snap.Start = nil
	snap.Accumulated = accumulated
	return snap
}

// Completed is snap in its terminal state.
func Completed(snap domain.SessionSnapshot, accumulated int64) domain.SessionSnapshot {
	snap.Status = domain.StatusCompleted
	snap.Start = nil
	snap.Accumulated = accumulated
	return snap
}
