// Package scrollprogress tracks how far the reader has scrolled through a
// page and where the header's bike marker sits along its track.
package scrollprogress

import (
	"sync"
	"time"

	"github.com/rust-in/site/internal/platform/schedule"
)

// ActiveScrollWindow is how long after the last scroll event the marker keeps
// its pedaling animation.
const ActiveScrollWindow = 150 * time.Millisecond

// Metrics are the document measurements behind the scroll fraction.
type Metrics struct {
	ScrollTop      float64
	DocumentHeight float64
	ViewportHeight float64
}

// Fraction returns scrollTop over the scrollable distance, clamped to [0, 1].
// Documents that fit in the viewport report 0.
func Fraction(m Metrics) float64 {
	scrollable := m.DocumentHeight - m.ViewportHeight
	if scrollable <= 0 {
		return 0
	}
	return clamp01(m.ScrollTop / scrollable)
}

// MarkerOffset centers the marker on the filled length of the track and keeps
// it inside [0, track-marker].
func MarkerOffset(trackWidth, markerWidth, fraction float64) float64 {
	maxOffset := trackWidth - markerWidth
	if maxOffset <= 0 {
		return 0
	}
	offset := trackWidth*clamp01(fraction) - markerWidth/2
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

func clamp01(v float64) float64 {
	// NaN fails both comparisons, so test it explicitly.
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Viewport reads layout measurements. Unmounted elements report zero widths.
type Viewport interface {
	Metrics() Metrics
	TrackWidth() float64
	MarkerWidth() float64
}

// FrameHandle cancels a requested animation frame.
type FrameHandle interface {
	Cancel()
}

// FrameScheduler runs callbacks on the next display frame.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameHandle
}

// State is the rendered indicator state.
type State struct {
	Fraction          float64
	TrackWidth        float64
	MarkerWidth       float64
	MarkerOffset      float64
	ActivelyScrolling bool
}

// Options wires a Tracker to its environment.
type Options struct {
	Viewport  Viewport
	Frames    FrameScheduler
	Scheduler schedule.Scheduler
	// OnChange observes state updates outside the tracker lock.
	OnChange func(State)
}

// Tracker coalesces scroll events into at most one measurement per frame and
// debounces the actively-scrolling flag.
type Tracker struct {
	mu      sync.Mutex
	opts    Options
	state   State
	pending FrameHandle
	active  *schedule.Debouncer
	closed  bool
}

// NewTracker builds a tracker. Call Mount after the first layout.
func NewTracker(opts Options) *Tracker {
	t := &Tracker{opts: opts}
	t.active = schedule.NewDebouncer(opts.Scheduler, ActiveScrollWindow, t.stopScrolling)
	return t
}

// Mount measures the track and computes the initial fraction.
func (t *Tracker) Mount() {
	t.update(func() {
		t.measureLocked()
		t.progressLocked()
	})
}

// OnResize re-measures the track. The fraction is recomputed because the
// scrollable height usually changes with the viewport.
func (t *Tracker) OnResize() {
	t.Mount()
}

// OnScroll handles one raw scroll event.
func (t *Tracker) OnScroll() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.active.Trigger()
	wasActive := t.state.ActivelyScrolling
	t.state.ActivelyScrolling = true
	state := t.state
	request := t.pending == nil && t.opts.Frames != nil
	if request {
		// Placeholder so events arriving before RequestFrame returns coalesce.
		t.pending = noopHandle{}
	}
	t.mu.Unlock()

	if request {
		handle := t.opts.Frames.RequestFrame(t.onFrame)
		t.mu.Lock()
		if _, placeholder := t.pending.(noopHandle); placeholder && !t.closed {
			t.pending = handle
		}
		t.mu.Unlock()
	}
	if !wasActive {
		t.notify(state)
	}
}

// State returns the current indicator state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Close cancels the pending frame and the scroll debounce.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.pending != nil {
		t.pending.Cancel()
		t.pending = nil
	}
	t.active.Stop()
}

func (t *Tracker) onFrame() {
	t.update(func() {
		t.pending = nil
		t.progressLocked()
	})
}

func (t *Tracker) stopScrolling() {
	t.update(func() {
		t.state.ActivelyScrolling = false
	})
}

func (t *Tracker) update(fn func()) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	before := t.state
	fn()
	after := t.state
	t.mu.Unlock()
	if after != before {
		t.notify(after)
	}
}

func (t *Tracker) notify(state State) {
	if t.opts.OnChange != nil {
		t.opts.OnChange(state)
	}
}

func (t *Tracker) measureLocked() {
	if t.opts.Viewport == nil {
		return
	}
	t.state.TrackWidth = t.opts.Viewport.TrackWidth()
	t.state.MarkerWidth = t.opts.Viewport.MarkerWidth()
}

func (t *Tracker) progressLocked() {
	if t.opts.Viewport != nil {
		t.state.Fraction = Fraction(t.opts.Viewport.Metrics())
	}
	t.state.MarkerOffset = MarkerOffset(t.state.TrackWidth, t.state.MarkerWidth, t.state.Fraction)
}

type noopHandle struct{}

func (noopHandle) Cancel() {}
