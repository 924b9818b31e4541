// Package schedule abstracts deferred callbacks so timer-driven state
// machines can run against the wall clock in production and a manual clock
// in tests.
package schedule

import (
	"sync"
	"time"
)

// Timer is a pending callback. Stop reports whether the call prevented the
// callback from running.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules callbacks with time.AfterFunc.
type Real struct{}

// AfterFunc implements Scheduler.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// OrReal returns s, or the wall-clock scheduler when s is nil.
func OrReal(s Scheduler) Scheduler {
	if s == nil {
		return Real{}
	}
	return s
}

// Debouncer runs a callback once a burst of Trigger calls has been quiet for
// the configured delay. Each Trigger restarts the wait.
type Debouncer struct {
	mu         sync.Mutex
	scheduler  Scheduler
	delay      time.Duration
	fire       func()
	timer      Timer
	generation uint64
	stopped    bool
}

// NewDebouncer builds a debouncer that calls fire after delay of silence.
func NewDebouncer(scheduler Scheduler, delay time.Duration, fire func()) *Debouncer {
	return &Debouncer{scheduler: OrReal(scheduler), delay: delay, fire: fire}
}

// Trigger restarts the quiet window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	generation := d.generation
	d.timer = d.scheduler.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that lost the race with Stop or a later Trigger is stale.
		if d.stopped || generation != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		fire := d.fire
		d.mu.Unlock()
		if fire != nil {
			fire()
		}
	})
}

// Pending reports whether a callback is waiting for the quiet window to end.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending callback; later Trigger calls are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
