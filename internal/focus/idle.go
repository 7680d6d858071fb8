package focus

// DefaultIdleThreshold is the number of idle seconds before an intervention.
const DefaultIdleThreshold = 6

// IdleMonitor counts seconds without interaction while a session runs.
type IdleMonitor struct {
	threshold int
	count     int
	armed     bool
	// awaiting is set while a raised intervention is unanswered.
	awaiting bool
}

// NewIdleMonitor creates a disarmed monitor. A non-positive threshold uses
// DefaultIdleThreshold.
func NewIdleMonitor(threshold int) *IdleMonitor {
	if threshold <= 0 {
		threshold = DefaultIdleThreshold
	}
	return &IdleMonitor{threshold: threshold}
}

// Arm starts counting from zero.
func (m *IdleMonitor) Arm() {
	if m.armed {
		return
	}
	m.armed = true
	m.count = 0
}

// Disarm stops counting.
func (m *IdleMonitor) Disarm() {
	m.armed = false
	m.count = 0
}

// Armed reports whether ticks are counted.
func (m *IdleMonitor) Armed() bool {
	return m.armed
}

// Tick advances the counter by one second. It returns true exactly when the
// threshold is crossed and no earlier intervention is still unanswered.
func (m *IdleMonitor) Tick() bool {
	if !m.armed {
		return false
	}
	m.count++
	if m.count < m.threshold {
		return false
	}
	m.count = 0
	if m.awaiting {
		return false
	}
	m.awaiting = true
	return true
}

// Interact resets the counter. It does not answer a raised intervention.
func (m *IdleMonitor) Interact() {
	m.count = 0
}

// Acknowledge marks the intervention dialog as dismissed.
func (m *IdleMonitor) Acknowledge() {
	m.awaiting = false
	m.count = 0
}

// Count returns the idle seconds counted so far.
func (m *IdleMonitor) Count() int {
	return m.count
}

// Threshold returns the configured limit in seconds.
func (m *IdleMonitor) Threshold() int {
	return m.threshold
}
