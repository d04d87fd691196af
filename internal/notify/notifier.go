package notify

import "sync"

// Severity classifies a notification for the platform's urgency hints.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// Notifier delivers a fire-and-forget user notification. Failures are
// logged by implementations and never surface to callers. SetEnabled
// takes effect immediately, so toggling notifications in the settings
// does not require a restart.
type Notifier interface {
	Notify(message string, severity Severity)
	SetEnabled(enabled bool)
}

// gate is the enabled switch shared by the platform notifiers. Safe for
// concurrent use.
type gate struct {
	mu      sync.Mutex
	enabled bool
}

// SetEnabled switches notification delivery on or off.
func (g *gate) SetEnabled(enabled bool) {
	g.mu.Lock()
	g.enabled = enabled
	g.mu.Unlock()
}

func (g *gate) active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}
