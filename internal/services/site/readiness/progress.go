package readiness

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rust-in/site/internal/platform/schedule"
)

const (
	// ProgressCap bounds the cosmetic progress until Complete is called.
	ProgressCap = 95.0
	// ProgressInterval is the tick period of the animated splash bar.
	ProgressInterval = 100 * time.Millisecond
)

// Progress is the cosmetic percentage shown on the splash. It approaches
// ProgressCap asymptotically and only reaches 100 through Complete.
type Progress struct {
	mu       sync.Mutex
	value    float64
	complete bool
	random   func() float64
	timer    schedule.Timer
}

// NewProgress returns a progress at zero. random must return values in
// [0, 1); nil uses math/rand/v2.
func NewProgress(random func() float64) *Progress {
	if random == nil {
		random = rand.Float64
	}
	return &Progress{random: random}
}

// Advance moves the value a random share of the remaining distance to the cap.
func (p *Progress) Advance() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.complete {
		return p.value
	}
	step := 0.05 + 0.15*clamp(p.random(), 0, 1)
	p.value += (ProgressCap - p.value) * step
	if p.value > ProgressCap {
		p.value = ProgressCap
	}
	return p.value
}

// Complete jumps to 100 and stops any running ticker.
func (p *Progress) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.complete = true
	p.value = 100
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Percent returns the value rounded down to a whole percentage.
func (p *Progress) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.value)
}

// Start advances the progress every interval until Complete or the returned
// stop function is called. onTick receives each new percentage.
func (p *Progress) Start(scheduler schedule.Scheduler, interval time.Duration, onTick func(int)) (stop func()) {
	scheduler = schedule.OrReal(scheduler)
	if interval <= 0 {
		interval = ProgressInterval
	}
	var tick func()
	tick = func() {
		p.Advance()
		percent := p.Percent()
		p.mu.Lock()
		if p.complete || p.timer == nil {
			p.mu.Unlock()
			return
		}
		p.timer = scheduler.AfterFunc(interval, tick)
		p.mu.Unlock()
		if onTick != nil {
			onTick(percent)
		}
	}
	p.mu.Lock()
	if !p.complete {
		p.timer = scheduler.AfterFunc(interval, tick)
	}
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.timer != nil {
			p.timer.Stop()
			p.timer = nil
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
