package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModal_ShowReplaces(t *testing.T) {
	m := NewModal(nil)
	m.Show(Dialog{Title: "one", Message: "first"})
	m.Show(Dialog{Title: "two", Message: "second"})

	d, ok := m.Content()
	assert.True(t, ok)
	assert.Equal(t, "two", d.Title)
	assert.Equal(t, "OK", d.ConfirmLabel)
	assert.Equal(t, "Cancel", d.CancelLabel)
}

func TestModal_CloseRunsHook(t *testing.T) {
	closed := 0
	m := NewModal(func() { closed++ })

	m.Close()
	assert.Equal(t, 0, closed, "closing a closed modal is a no-op")

	m.Show(Dialog{Title: "x"})
	assert.True(t, m.Cancel())
	assert.False(t, m.IsOpen())
	assert.Equal(t, 1, closed)
}

func TestModal_HiddenCancel(t *testing.T) {
	m := NewModal(nil)
	m.Show(Dialog{Title: "done", HideCancel: true})

	assert.False(t, m.Cancel())
	assert.True(t, m.IsOpen())

	assert.Nil(t, m.Confirm())
	assert.False(t, m.IsOpen(), "confirm without handler closes")
}

func TestModal_ConfirmRunsHandler(t *testing.T) {
	m := NewModal(nil)
	called := false
	m.Show(Dialog{Title: "q", OnConfirm: func() Call {
		called = true
		return nil
	}})

	m.Confirm()
	assert.True(t, called)
	assert.True(t, m.IsOpen(), "handler decides whether to close")
}

func TestModal_NilReceiver(t *testing.T) {
	var m *Modal
	assert.NotPanics(t, func() {
		m.Show(Dialog{Title: "x"})
		m.Close()
		m.Confirm()
		m.Cancel()
	})
	assert.False(t, m.IsOpen())
	_, ok := m.Content()
	assert.False(t, ok)
}
