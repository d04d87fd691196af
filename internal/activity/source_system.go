//go:build darwin || windows

package activity

import (
	"time"

	"github.com/lextoumbourou/idle"
)

// SystemSource reads the operating system's idle time.
type SystemSource struct{}

// IdleDuration returns the time since the last input event.
func (SystemSource) IdleDuration() (time.Duration, error) {
	return idle.Get()
}
