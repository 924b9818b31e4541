package readiness

import (
	"sync"
	"time"

	"github.com/rust-in/site/internal/platform/schedule"
)

const (
	// DefaultMinimumSplash keeps the splash long enough to avoid a flash.
	DefaultMinimumSplash = 1500 * time.Millisecond
	// DefaultRevealDebounce leaves room for the cross-fade.
	DefaultRevealDebounce = 250 * time.Millisecond
	// DefaultMarkerKey is the session marker key shared with the server.
	DefaultMarkerKey = "rust-in-visited"
	// MarkerValue is written under the marker key on reveal.
	MarkerValue = "true"
)

// MarkerStore is a session-scoped key/value store.
type MarkerStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Options configures a Coordinator. Zero durations take the defaults, except
// SafetyTimeout where zero disables the fallback.
type Options struct {
	MinimumSplash  time.Duration
	RevealDebounce time.Duration
	// SafetyTimeout, when positive, delivers a synthetic SignalReceived so a
	// lost readiness signal cannot hold the splash forever.
	SafetyTimeout time.Duration
	MarkerKey     string
	Scheduler     schedule.Scheduler
	// OnChange observes every snapshot change. It runs outside the
	// coordinator lock and may call back into the coordinator.
	OnChange func(Snapshot)
}

func (o Options) withDefaults() Options {
	if o.MinimumSplash <= 0 {
		o.MinimumSplash = DefaultMinimumSplash
	}
	if o.RevealDebounce <= 0 {
		o.RevealDebounce = DefaultRevealDebounce
	}
	if o.SafetyTimeout < 0 {
		o.SafetyTimeout = 0
	}
	if o.MarkerKey == "" {
		o.MarkerKey = DefaultMarkerKey
	}
	o.Scheduler = schedule.OrReal(o.Scheduler)
	return o
}

// Coordinator gates content visibility behind the splash overlay.
type Coordinator struct {
	mu    sync.Mutex
	opts  Options
	store MarkerStore

	state          State
	minimumElapsed bool
	signaled       bool

	// generation invalidates timer callbacks scheduled before Close.
	generation uint64
	closed     bool
	minimum    schedule.Timer
	debounce   schedule.Timer
	safety     schedule.Timer
}

// New builds a coordinator in AwaitingMarkerCheck. Call Mount to start it.
func New(store MarkerStore, opts Options) *Coordinator {
	return &Coordinator{opts: opts.withDefaults(), store: store}
}

// Mount checks the session marker and either reveals immediately or starts
// the splash timers. Only the first call has an effect.
func (c *Coordinator) Mount() {
	found := false
	if c.store != nil {
		_, found = c.store.Get(c.opts.MarkerKey)
	}
	if found {
		c.dispatch(MarkerFound)
		return
	}
	c.dispatch(MarkerMissing)
}

// SignalReady records that the application finished its setup. Calls after
// the first have no effect.
func (c *Coordinator) SignalReady() {
	c.dispatch(SignalReceived)
}

// IsAppReady reports whether the splash has been hidden.
func (c *Coordinator) IsAppReady() bool {
	return c.Snapshot().IsAppReady()
}

// Snapshot returns the current flags.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close cancels every pending timer. Late timer callbacks are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
	c.stopTimersLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	return Snapshot{
		State:                    c.state,
		SplashVisible:            c.state != Revealed,
		MinimumTimeElapsed:       c.minimumElapsed,
		ApplicationSignaledReady: c.signaled,
	}
}

func (c *Coordinator) dispatch(event Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	before := c.snapshotLocked()
	c.applyLocked(event)
	after := c.snapshotLocked()
	onChange := c.opts.OnChange
	c.mu.Unlock()

	if onChange != nil && after != before {
		onChange(after)
	}
}

func (c *Coordinator) applyLocked(event Event) {
	switch c.state {
	case AwaitingMarkerCheck:
		switch event {
		case MarkerFound:
			c.minimumElapsed = true
			c.signaled = true
			c.state = Revealed
		case MarkerMissing:
			c.state = SplashActive
			c.minimum = c.scheduleLocked(c.opts.MinimumSplash, TimerElapsed)
			if c.opts.SafetyTimeout > 0 {
				c.safety = c.scheduleLocked(c.opts.SafetyTimeout, SafetyTimeout)
			}
			c.joinLocked()
		case SignalReceived:
			// Signals may arrive before Mount; keep them for the join.
			c.signaled = true
		}
	case SplashActive:
		switch event {
		case TimerElapsed:
			c.minimum = nil
			c.minimumElapsed = true
		case SignalReceived, SafetyTimeout:
			c.signaled = true
		default:
			return
		}
		c.joinLocked()
	case Revealing:
		if event != DebounceElapsed {
			return
		}
		c.debounce = nil
		// The marker must be persisted before the splash is hidden so a
		// quick reload never shows the splash again.
		if c.store != nil {
			c.store.Set(c.opts.MarkerKey, MarkerValue)
		}
		c.state = Revealed
		c.stopTimersLocked()
	case Revealed:
	}
}

func (c *Coordinator) joinLocked() {
	if c.state != SplashActive || !c.minimumElapsed || !c.signaled {
		return
	}
	c.state = Revealing
	if c.safety != nil {
		c.safety.Stop()
		c.safety = nil
	}
	c.debounce = c.scheduleLocked(c.opts.RevealDebounce, DebounceElapsed)
}

func (c *Coordinator) scheduleLocked(d time.Duration, event Event) schedule.Timer {
	generation := c.generation
	return c.opts.Scheduler.AfterFunc(d, func() {
		c.mu.Lock()
		stale := c.closed || generation != c.generation
		c.mu.Unlock()
		if stale {
			return
		}
		c.dispatch(event)
	})
}

func (c *Coordinator) stopTimersLocked() {
	for _, timer := range []*schedule.Timer{&c.minimum, &c.debounce, &c.safety} {
		if *timer != nil {
			(*timer).Stop()
			*timer = nil
		}
	}
}
