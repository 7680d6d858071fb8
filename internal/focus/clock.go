// Package focus implements the client side of a focus session: the timer,
// the session state machine, the idle monitor, the dialog and the
// recommendation flow.
//
// Nothing in this package starts goroutines or takes locks. Work that needs
// the tracker is handed to the host as a Call; the host runs it off its event
// loop and feeds the Result back through Controller.Deliver.
package focus

import "time"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
