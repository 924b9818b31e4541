// Package schedtest provides a manually advanced clock implementing
// schedule.Scheduler.
package schedtest

import (
	"sort"
	"sync"
	"time"

	"github.com/rust-in/site/internal/platform/schedule"
)

// Clock fires scheduled callbacks only when Advance moves time past their
// deadline. Callbacks run on the goroutine calling Advance, in deadline order.
type Clock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*timer
}

type timer struct {
	clock    *Clock
	deadline time.Duration
	seq      uint64
	fn       func()
	fired    bool
	stopped  bool
}

// New returns a clock at offset zero.
func New() *Clock {
	return &Clock{}
}

// Now returns the elapsed virtual time.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements schedule.Scheduler.
func (c *Clock) AfterFunc(d time.Duration, f func()) schedule.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &timer{clock: c, deadline: c.now + d, seq: c.seq, fn: f}
	c.pending = append(c.pending, t)
	return t
}

// Pending returns the number of timers that have neither fired nor stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Advance moves time forward by d, firing every timer whose deadline is
// reached, including timers scheduled by callbacks within the window.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.deadline
		next.fired = true
		c.removeLocked(next)
		fn := next.fn
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}

func (c *Clock) nextDueLocked(target time.Duration) *timer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].deadline == c.pending[j].deadline {
			return c.pending[i].seq < c.pending[j].seq
		}
		return c.pending[i].deadline < c.pending[j].deadline
	})
	if c.pending[0].deadline > target {
		return nil
	}
	return c.pending[0]
}

func (c *Clock) removeLocked(t *timer) {
	for i, candidate := range c.pending {
		if candidate == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	t.clock.removeLocked(t)
	return true
}
