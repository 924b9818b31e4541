// Package carousel holds the scroll arithmetic and auto-rotation of the
// home page review carousel.
package carousel

import (
	"sync"
	"time"

	"github.com/rust-in/site/internal/platform/schedule"
)

const (
	// StepWidth is one review card plus its gap.
	StepWidth = 360.0
	// EdgeTolerance absorbs sub-pixel rounding at the right edge.
	EdgeTolerance = 10.0
	// RotateInterval is the auto-advance period.
	RotateInterval = 5 * time.Second
)

// Direction selects a manual scroll direction.
type Direction int

const (
	Left Direction = iota
	Right
)

// Metrics are the horizontal measurements of the scroll container.
type Metrics struct {
	ScrollLeft  float64
	ScrollWidth float64
	ClientWidth float64
}

// CanScrollLeft reports whether the previous control is enabled.
func CanScrollLeft(m Metrics) bool {
	return m.ScrollLeft > 0
}

// CanScrollRight reports whether the next control is enabled.
func CanScrollRight(m Metrics) bool {
	return m.ScrollLeft < m.ScrollWidth-m.ClientWidth-EdgeTolerance
}

// Step returns the target offset one card away in dir, bounded to the
// scrollable range.
func Step(m Metrics, dir Direction) float64 {
	target := m.ScrollLeft + StepWidth
	if dir == Left {
		target = m.ScrollLeft - StepWidth
	}
	maxLeft := m.ScrollWidth - m.ClientWidth
	if target > maxLeft {
		target = maxLeft
	}
	if target < 0 {
		target = 0
	}
	return target
}

// AutoAdvance returns the next auto-rotation offset, wrapping to the start
// once the right edge is reached.
func AutoAdvance(m Metrics) float64 {
	if !CanScrollRight(m) {
		return 0
	}
	return m.ScrollLeft + StepWidth
}

// Rotator calls tick every interval while there is more than one review.
type Rotator struct {
	mu        sync.Mutex
	scheduler schedule.Scheduler
	interval  time.Duration
	tick      func()
	timer     schedule.Timer
	running   bool
}

// NewRotator builds a stopped rotator. interval <= 0 uses RotateInterval.
func NewRotator(scheduler schedule.Scheduler, interval time.Duration, tick func()) *Rotator {
	if interval <= 0 {
		interval = RotateInterval
	}
	return &Rotator{scheduler: schedule.OrReal(scheduler), interval: interval, tick: tick}
}

// Start begins rotation when reviews > 1. It reports whether rotation runs.
func (r *Rotator) Start(reviews int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reviews <= 1 || r.running {
		return r.running
	}
	r.running = true
	r.scheduleLocked()
	return true
}

// Running reports whether rotation is active.
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Stop cancels rotation.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Rotator) scheduleLocked() {
	r.timer = r.scheduler.AfterFunc(r.interval, func() {
		r.mu.Lock()
		if !r.running {
			r.mu.Unlock()
			return
		}
		r.scheduleLocked()
		tick := r.tick
		r.mu.Unlock()
		if tick != nil {
			tick()
		}
	})
}
