package focus

// Dialog is the content of the single modal.
type Dialog struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	// HideCancel leaves confirm as the only way out.
	HideCancel bool
	// OnConfirm runs when the user confirms. A nil handler just closes.
	OnConfirm func() Call
}

// Modal is a single dialog instance with no stacking and no queue: showing
// new content replaces whatever was there. All methods are no-ops on a nil
// receiver so callers without a UI can ignore it.
type Modal struct {
	open    bool
	dialog  Dialog
	onClose func()
}

// NewModal creates a closed modal. onClose runs every time it closes.
func NewModal(onClose func()) *Modal {
	return &Modal{onClose: onClose}
}

// Show opens the modal with new content, replacing any current content.
func (m *Modal) Show(d Dialog) {
	if m == nil {
		return
	}
	if d.ConfirmLabel == "" {
		d.ConfirmLabel = "OK"
	}
	if d.CancelLabel == "" {
		d.CancelLabel = "Cancel"
	}
	m.dialog = d
	m.open = true
}

// Close hides the modal.
func (m *Modal) Close() {
	if m == nil || !m.open {
		return
	}
	m.open = false
	m.dialog = Dialog{}
	if m.onClose != nil {
		m.onClose()
	}
}

// Confirm runs the confirm handler, or closes when there is none.
func (m *Modal) Confirm() Call {
	if m == nil || !m.open {
		return nil
	}
	if m.dialog.OnConfirm == nil {
		m.Close()
		return nil
	}
	return m.dialog.OnConfirm()
}

// Cancel closes the modal unless cancel is hidden. It reports whether the
// modal closed.
func (m *Modal) Cancel() bool {
	if m == nil || !m.open || m.dialog.HideCancel {
		return false
	}
	m.Close()
	return true
}

// IsOpen reports whether the modal is showing.
func (m *Modal) IsOpen() bool {
	return m != nil && m.open
}

// Content returns the dialog being shown.
func (m *Modal) Content() (Dialog, bool) {
	if m == nil || !m.open {
		return Dialog{}, false
	}
	return m.dialog, true
}
