// Package debounce provides debounced and throttled wrappers around function
// calls.
//
// A debounced function only runs once a quiet period has elapsed since the
// last time it was triggered. A throttled function runs at most once per
// cooldown window, with a single trailing catch-up call for the most recent
// trigger made during the window.
//
// Every wrapper owns its own timer state. Triggers and cancellations are safe
// for concurrent use in goroutines, and can be called multiple times.
package debounce

import (
	"sync"
	"time"
)

// New returns a debounced function that delays invoking f until after wait time
// has elapsed since the last time the debounced function was invoked.
//
// The returned cancel function can be used to cancel any pending invocation of
// f, but is not required to be called, so can be ignored if not needed.
//
// When wait is zero or negative, the debounced function calls f straight away.
func New(wait time.Duration, f func()) (debounced func(), cancel func()) {
	d := NewDebouncer(wait, f)

	return d.Trigger, d.Cancel
}

// Debouncer is the handle form of New. It holds the single pending timer of a
// debounced function, so that the pending call can be inspected and cancelled
// explicitly.
type Debouncer struct {
	wait    time.Duration
	fn      func()
	leading bool
	maxWait time.Duration

	mux         sync.Mutex
	gen         uint64
	pending     bool
	lastCall    time.Time
	maxDeadline time.Time
	timer       *time.Timer
	maxTimer    *time.Timer
}

// NewDebouncer creates a new Debouncer which calls f once wait has elapsed
// since the last Trigger.
func NewDebouncer(wait time.Duration, f func(), opts ...Option) *Debouncer {
	d := &Debouncer{wait: wait, fn: f}
	for _, opt := range opts {
		opt(d)
	}

	// A max wait no longer than wait can never fire first.
	if d.maxWait <= d.wait {
		d.maxWait = 0
	}

	return d
}

// Trigger schedules a call to the debounced function, replacing any call that
// is still pending. A pending call whose wait has already elapsed is not
// replaced: it runs before Trigger returns.
func (d *Debouncer) Trigger() {
	d.mux.Lock()

	now := time.Now()

	// A pending call past its deadline belongs to the previous window, even
	// when its timer has not run yet. It runs here, once.
	overdue := d.pending && d.expired(now)
	if overdue {
		d.clear()
	}

	if d.wait <= 0 {
		d.lastCall = now
		d.mux.Unlock()
		d.invoke()

		return
	}

	if d.leading && !d.pending &&
		(d.lastCall.IsZero() || now.Sub(d.lastCall) >= d.wait) {
		d.lastCall = now
		d.mux.Unlock()
		if overdue {
			d.invoke()
		}
		d.invoke()

		return
	}

	if d.pending {
		d.timer.Reset(d.wait)
	} else {
		gen := d.gen
		d.timer = time.AfterFunc(d.wait, func() { d.callback(gen) })
		if d.maxWait > 0 {
			d.maxDeadline = now.Add(d.maxWait)
			d.maxTimer = time.AfterFunc(d.maxWait, func() { d.callback(gen) })
		}
	}
	d.pending = true
	d.lastCall = now
	d.mux.Unlock()

	if overdue {
		d.invoke()
	}
}

// Cancel discards the pending call, if any. The debouncer stays usable.
func (d *Debouncer) Cancel() {
	d.mux.Lock()
	defer d.mux.Unlock()

	if d.pending {
		d.clear()
	}
}

// Pending reports whether a call is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mux.Lock()
	defer d.mux.Unlock()

	return d.pending
}

// expired reports whether the pending call was due at now. It must be called
// with the mutex held.
func (d *Debouncer) expired(now time.Time) bool {
	if now.Sub(d.lastCall) >= d.wait {
		return true
	}

	return d.maxWait > 0 && !now.Before(d.maxDeadline)
}

// callback is called when the timer or max timer of window gen expires.
// Windows which were cancelled, or already run by Trigger, are ignored.
func (d *Debouncer) callback(gen uint64) {
	d.mux.Lock()
	if !d.pending || gen != d.gen {
		d.mux.Unlock()

		return
	}
	d.clear()
	d.mux.Unlock()

	d.invoke()
}

// clear ends the current window and stops its timers. It must be called with
// the mutex held, while a call is pending.
func (d *Debouncer) clear() {
	d.gen++
	d.pending = false
	stopTimer(d.timer)
	stopTimer(d.maxTimer)
}

func (d *Debouncer) invoke() {
	if d.fn != nil {
		d.fn()
	}
}
