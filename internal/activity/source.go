package activity

import (
	"errors"
	"time"
)

// Source reports how long the user has been inactive.
type Source interface {
	IdleDuration() (time.Duration, error)
}

// ErrUnsupported is returned by SystemSource on platforms without a
// wired idle-time query.
var ErrUnsupported = errors.New("idle detection not supported on this platform")
