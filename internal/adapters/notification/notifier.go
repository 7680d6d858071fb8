// Package notification provides desktop notification utilities.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/config"
	"github.com/Kyaw-Min-lwin/Octo-Task/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg  *config.NotificationConfig
	icon string

	notify func(title, message, icon string) error
	beep   func() error
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration. The app icon is
// prefixed to every title.
func New(cfg *config.NotificationConfig, appIcon string) *Notifier {
	return &Notifier{
		cfg:    cfg,
		icon:   appIcon,
		notify: func(title, message, icon string) error { return beeep.Notify(title, message, icon) },
		beep:   func() error { return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration) },
	}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}

	if n.icon != "" {
		title = n.icon + " " + title
	}
	if err := n.notify(title, message, ""); err != nil {
		return err
	}
	if n.cfg.Sound {
		return n.beep()
	}
	return nil
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
