//go:build linux

package notify

import (
	"log"
	"os/exec"
)

// NotifySendNotifier sends Linux desktop notifications via notify-send.
// The command runs in a background goroutine so a slow notification
// daemon cannot stall a timer transition.
type NotifySendNotifier struct {
	gate
}

// NewPlatformNotifier creates the platform-appropriate notifier for
// Linux. While disabled, notifications are silently dropped.
func NewPlatformNotifier(enabled bool) Notifier {
	n := &NotifySendNotifier{}
	n.SetEnabled(enabled)
	return n
}

// Notify sends a desktop notification and returns immediately.
func (n *NotifySendNotifier) Notify(message string, severity Severity) {
	if !n.active() {
		return
	}

	urgency := "normal"
	if severity == SeverityWarning {
		urgency = "critical"
	}

	go func() {
		cmd := exec.Command("notify-send", "--urgency", urgency, "--app-name", "Pomodoro", "Pomodoro", message)
		if err := cmd.Run(); err != nil {
			log.Printf("Warning: failed to send notification: %v", err)
		}
	}()
}
