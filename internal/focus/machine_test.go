package focus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/testutil"
)

func pendingSnap(id string) domain.SessionSnapshot {
	return domain.SessionSnapshot{TaskID: id, Status: domain.StatusPending}
}

func TestMachine_StartPauseComplete(t *testing.T) {
	clock := testutil.NewManualClock(t0)
	m := NewMachine(clock)
	m.Show(pendingSnap("a"))

	require.NoError(t, m.Begin(ActionStart, "a"))
	assert.True(t, m.Busy("a"))
	assert.False(t, m.Allowed(ActionPause), "controls are disabled while in flight")

	navigated, applied := m.ConfirmStart("a", 0)
	assert.True(t, applied)
	assert.False(t, navigated)
	assert.Equal(t, domain.StatusActive, m.Snapshot().Status)
	require.NotNil(t, m.Snapshot().Start)
	assert.Equal(t, t0, *m.Snapshot().Start)

	clock.Advance(130 * time.Second)
	require.NoError(t, m.Begin(ActionPause, "a"))
	assert.True(t, m.ConfirmPause("a", 125))
	assert.Equal(t, int64(125), m.Snapshot().Accumulated, "server value wins")
	assert.Nil(t, m.Snapshot().Start)

	require.NoError(t, m.Begin(ActionComplete, "a"))
	assert.True(t, m.ConfirmComplete("a", 125))
	assert.Equal(t, domain.StatusCompleted, m.Snapshot().Status)

	assert.ErrorIs(t, m.Begin(ActionStart, "a"), domain.ErrTaskCompleted)
	assert.False(t, m.Allowed(ActionStart))
}

func TestMachine_Preconditions(t *testing.T) {
	m := NewMachine(testutil.NewManualClock(t0))
	m.Show(pendingSnap("a"))

	assert.ErrorIs(t, m.Begin(ActionPause, "a"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, m.Begin(ActionComplete, "a"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, m.Begin(ActionPause, "other"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, m.Begin(ActionStart, ""), domain.ErrInvalidTaskID)
	assert.False(t, m.Busy("a"))
}

func TestMachine_OneRequestPerTask(t *testing.T) {
	m := NewMachine(testutil.NewManualClock(t0))
	m.Show(pendingSnap("a"))

	require.NoError(t, m.Begin(ActionStart, "a"))
	assert.ErrorIs(t, m.Begin(ActionStart, "a"), domain.ErrRequestInFlight)
}

func TestMachine_FailLeavesStateIntact(t *testing.T) {
	m := NewMachine(testutil.NewManualClock(t0))
	m.Show(pendingSnap("a"))

	require.NoError(t, m.Begin(ActionStart, "a"))
	m.Fail(ActionStart, "a")

	assert.Equal(t, domain.StatusPending, m.Snapshot().Status)
	assert.False(t, m.Busy("a"))
	assert.True(t, m.Allowed(ActionStart))
}

func TestMachine_StaleResponseDiscarded(t *testing.T) {
	clock := testutil.NewManualClock(t0)
	m := NewMachine(clock)
	m.Show(Started("a", 0, t0))

	require.NoError(t, m.Begin(ActionPause, "a"))
	m.Show(pendingSnap("b"))

	assert.False(t, m.ConfirmPause("a", 99))
	assert.Equal(t, "b", m.Snapshot().TaskID)
	assert.Equal(t, domain.StatusPending, m.Snapshot().Status)
	assert.False(t, m.Busy("a"))
}

func TestMachine_StartOtherTaskNavigates(t *testing.T) {
	clock := testutil.NewManualClock(t0)
	m := NewMachine(clock)
	m.Show(Started("a", 0, t0))

	require.NoError(t, m.Begin(ActionPause, "a"))
	require.NoError(t, m.Begin(ActionStart, "b"))

	navigated, applied := m.ConfirmStart("b", 40)
	assert.True(t, applied)
	assert.True(t, navigated)
	assert.Equal(t, "b", m.Snapshot().TaskID)
	assert.Equal(t, int64(40), m.Snapshot().Accumulated)

	// The old view's pause no longer applies.
	assert.False(t, m.ConfirmPause("a", 10))
	assert.Equal(t, domain.StatusActive, m.Snapshot().Status)
}

func TestMachine_NavigationCancelsPendingSwitch(t *testing.T) {
	m := NewMachine(testutil.NewManualClock(t0))
	m.Show(Started("a", 0, t0))

	require.NoError(t, m.Begin(ActionStart, "b"))
	m.Show(pendingSnap("c"))

	_, applied := m.ConfirmStart("b", 0)
	assert.False(t, applied)
	assert.Equal(t, "c", m.Snapshot().TaskID)
}

func TestMachine_FailReportsStaleness(t *testing.T) {
	m := NewMachine(testutil.NewManualClock(t0))
	m.Show(pendingSnap("a"))

	require.NoError(t, m.Begin(ActionStart, "a"))
	m.Show(pendingSnap("b"))

	assert.False(t, m.Fail(ActionStart, "a"))
	assert.False(t, m.Busy("a"))

	require.NoError(t, m.Begin(ActionStart, "b"))
	assert.True(t, m.Fail(ActionStart, "b"))
}

func TestMachine_ReopenedTaskTakesConfirmation(t *testing.T) {
	m := NewMachine(testutil.NewManualClock(t0))
	m.Show(pendingSnap("a"))

	require.NoError(t, m.Begin(ActionStart, "a"))
	m.Show(domain.SessionSnapshot{})
	m.Show(pendingSnap("a"))

	navigated, applied := m.ConfirmStart("a", 0)
	assert.True(t, applied)
	assert.False(t, navigated)
	assert.Equal(t, domain.StatusActive, m.Snapshot().Status)
}
