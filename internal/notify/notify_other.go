//go:build !linux && !darwin

package notify

import "log"

// LogNotifier writes notifications to the process log on platforms
// without a wired desktop notification command.
type LogNotifier struct {
	gate
}

// NewPlatformNotifier creates the fallback notifier.
func NewPlatformNotifier(enabled bool) Notifier {
	n := &LogNotifier{}
	n.SetEnabled(enabled)
	return n
}

// Notify logs the message.
func (n *LogNotifier) Notify(message string, severity Severity) {
	if !n.active() {
		return
	}
	log.Printf("Notification: %s", message)
}
