package autosave

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single callback fired after
// a quiet window. Each Trigger cancels any pending callback and restarts the
// window, so at most one callback runs per quiet period.
type Debouncer struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()

	// gen identifies the current schedule. A timer callback captures it at
	// scheduling time and bails out on mismatch, so a timer that already
	// fired but lost the lock race to a newer Trigger cannot run the
	// replacement callback before its own window.
	gen uint64
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger schedules fn to run once the window elapses with no further
// triggers. A previously pending callback is dropped.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduleLocked(fn)
}

// scheduleLocked installs fn as the pending callback. Caller holds d.mu.
func (d *Debouncer) scheduleLocked(fn func()) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.gen != gen {
			// A newer Trigger superseded this schedule while the callback
			// waited for the lock. Its own timer owns the pending work.
			d.mu.Unlock()
			return
		}
		fn := d.pending
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Flush runs the pending callback immediately, if any, and cancels its timer.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop cancels the pending callback without running it. It reports whether
// a callback was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := d.pending != nil
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return pending
}
