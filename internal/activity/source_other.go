//go:build !darwin && !windows

package activity

import "time"

// SystemSource is a stub on platforms without an idle-time query. The
// monitor treats the error as "user is active", so smart pause never
// auto-pauses here; the rest of the timer is unaffected.
type SystemSource struct{}

// IdleDuration always fails.
func (SystemSource) IdleDuration() (time.Duration, error) {
	return 0, ErrUnsupported
}
