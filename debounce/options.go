package debounce

import (
	"time"
)

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithLeading returns an option that invokes the function on the first trigger
// of a burst, instead of waiting for the quiet period. Further triggers within
// the same burst are debounced as usual, so a burst of two or more triggers
// results in a leading and a trailing call.
func WithLeading() Option {
	return func(d *Debouncer) {
		d.leading = true
	}
}

// WithMaxWait returns an option that bounds how long a call can be postponed
// by repeated triggers. Without it, a function triggered more often than the
// wait duration is never called.
//
// For example, with a wait of 100ms and a max wait of 500ms, triggering every
// 10ms still invokes the function every 500ms.
func WithMaxWait(maxWait time.Duration) Option {
	return func(d *Debouncer) {
		d.maxWait = maxWait
	}
}
