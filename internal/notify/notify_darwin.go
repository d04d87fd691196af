//go:build darwin

package notify

import (
	"fmt"
	"log"
	"os/exec"
)

// OSAScriptNotifier sends macOS notifications via osascript. The command
// runs in a background goroutine so slow delivery cannot stall a timer
// transition.
type OSAScriptNotifier struct {
	gate
}

// NewPlatformNotifier creates the platform-appropriate notifier for
// macOS. While disabled, notifications are silently dropped.
func NewPlatformNotifier(enabled bool) Notifier {
	n := &OSAScriptNotifier{}
	n.SetEnabled(enabled)
	return n
}

// Notify sends a notification and returns immediately.
func (n *OSAScriptNotifier) Notify(message string, severity Severity) {
	if !n.active() {
		return
	}

	script := fmt.Sprintf("display notification %q with title %q", message, "Pomodoro")

	go func() {
		cmd := exec.Command("osascript", "-e", script)
		if err := cmd.Run(); err != nil {
			log.Printf("Warning: failed to send notification: %v", err)
		}
	}()
}
