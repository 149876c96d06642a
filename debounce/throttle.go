package debounce

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// NewThrottle returns a throttled function which invokes f immediately, and
// then at most once per wait duration.
//
// Triggers arriving during the cooldown window are not dropped: the last one
// is deferred until wait has elapsed since it was made. The returned cancel
// function discards that deferred call, if any.
func NewThrottle(wait time.Duration, f func()) (throttled func(), cancel func()) {
	t := NewThrottler(wait, f)

	return t.Trigger, t.Cancel
}

// Throttler is the handle form of NewThrottle. It owns the cooldown gate and
// the timer of the deferred call.
type Throttler struct {
	wait time.Duration
	fn   func()

	mux      sync.Mutex
	gate     *rate.Limiter
	deferred *time.Timer
}

// NewThrottler creates a new Throttler for f with a cooldown window of wait.
func NewThrottler(wait time.Duration, f func()) *Throttler {
	limit := rate.Inf
	if wait > 0 {
		limit = rate.Every(wait)
	}

	t := &Throttler{
		wait: wait,
		fn:   f,
		gate: rate.NewLimiter(limit, 1),
	}
	t.deferred = stoppedTimer(t.invoke)

	return t
}

// Trigger runs the function straight away when no cooldown window is open,
// and opens one. Otherwise it (re)schedules the deferred call to run wait
// after this trigger.
func (t *Throttler) Trigger() {
	t.mux.Lock()

	if !t.gate.Allow() {
		t.deferred.Reset(t.wait)
		t.mux.Unlock()

		return
	}

	t.deferred.Stop()
	t.mux.Unlock()

	t.invoke()
}

// Cancel discards the deferred call, if any. It does not close an open
// cooldown window.
func (t *Throttler) Cancel() {
	t.mux.Lock()
	defer t.mux.Unlock()

	t.deferred.Stop()
}

func (t *Throttler) invoke() {
	if t.fn != nil {
		t.fn()
	}
}
