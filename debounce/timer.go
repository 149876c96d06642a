package debounce

import (
	"time"
)

const longDelay = 24 * time.Hour

// stoppedTimer returns a stopped *time.Timer created with time.AfterFunc. The
// given function is not called until the timer is restarted with Reset.
func stoppedTimer(f func()) *time.Timer {
	t := time.AfterFunc(longDelay, f)
	t.Stop()

	return t
}

// stopTimer stops t if it is non-nil, and reports whether a pending call was
// prevented.
func stopTimer(t *time.Timer) bool {
	if t == nil {
		return false
	}

	return t.Stop()
}
