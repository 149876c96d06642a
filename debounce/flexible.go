package debounce

import (
	"errors"
	"sync"
	"time"
)

// ErrInvalidArgument is returned by Flexible.Call when no function or no wait
// duration can be resolved for the call.
var ErrInvalidArgument = errors.New("debounce: a function and a wait must be provided")

// Override holds per-call replacements for a Flexible debouncer. Zero fields
// fall back to the values given to NewFlexible.
type Override struct {
	Fn   func()
	Wait time.Duration
}

// Flexible is a debouncer whose function and wait duration can be redefined
// on every call. Only the function passed to the very last call within the
// wait window is executed, previous ones are discarded.
type Flexible struct {
	fn   func()
	wait time.Duration

	mux   sync.Mutex
	timer *time.Timer
}

// NewFlexible returns a Flexible debouncer with default function f and wait
// duration wait. Either may be left empty, as long as every call provides the
// missing one through an Override.
func NewFlexible(f func(), wait time.Duration) *Flexible {
	return &Flexible{fn: f, wait: wait}
}

// Call cancels the pending call, if any, and schedules a new one. Fields of o
// that are set take precedence over the defaults for this call only, so a
// later Call with an empty Override uses the defaults again.
//
// The returned timer belongs to the scheduled call, and stopping it cancels
// that call in the same way Cancel does.
func (d *Flexible) Call(o Override) (*time.Timer, error) {
	fn := o.Fn
	if fn == nil {
		fn = d.fn
	}

	wait := o.Wait
	if wait <= 0 {
		wait = d.wait
	}

	if fn == nil || wait <= 0 {
		return nil, ErrInvalidArgument
	}

	d.mux.Lock()
	defer d.mux.Unlock()

	stopTimer(d.timer)
	d.timer = time.AfterFunc(wait, fn)

	return d.timer, nil
}

// Cancel stops the pending call and reports whether there was one.
func (d *Flexible) Cancel() bool {
	d.mux.Lock()
	defer d.mux.Unlock()

	return stopTimer(d.timer)
}
