// Package browser runs the splash gate, the scroll-progress indicator and
// the review carousel against the page DOM.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rust-in/site/internal/platform/schedule"
	"github.com/rust-in/site/internal/services/site/carousel"
	"github.com/rust-in/site/internal/services/site/readiness"
	"github.com/rust-in/site/internal/services/site/scrollprogress"
)

// SplashConfig is read from the data attributes of the splash overlay.
type SplashConfig struct {
	Minimum        time.Duration
	RevealDebounce time.Duration
	SafetyTimeout  time.Duration
}

// Page is the DOM surface driven by the App.
type Page interface {
	// Splash reports the overlay settings, or false when the server
	// rendered the page already revealed.
	Splash() (SplashConfig, bool)
	SetSplashProgress(percent int)
	// Reveal removes the overlay and shows the content. It must be safe to
	// call more than once.
	Reveal()
	SetScrollState(state scrollprogress.State)
}

// Carousel is the reviews carousel element.
type Carousel interface {
	Metrics() carousel.Metrics
	Reviews() int
	ScrollTo(left float64)
	SetControls(canLeft, canRight bool)
}

// Options wires an App to the page.
type Options struct {
	Page     Page
	Markers  readiness.MarkerStore
	Viewport scrollprogress.Viewport
	Frames   scrollprogress.FrameScheduler
	// Carousel is nil on pages without reviews.
	Carousel  Carousel
	Scheduler schedule.Scheduler
	// Probe is the application setup awaited before the splash may hide.
	// Its error is ignored: any outcome counts as ready.
	Probe  func(ctx context.Context) error
	Random func() float64
	Logf   func(format string, args ...any)
}

// App owns the three UI state machines of one page.
type App struct {
	opts Options

	coordinator  *readiness.Coordinator
	progress     *readiness.Progress
	stopProgress func()
	tracker      *scrollprogress.Tracker
	rotator      *carousel.Rotator

	readyOnce sync.Once
	ready     chan struct{}
}

// New builds an App. Call Start once the DOM is available.
func New(opts Options) *App {
	opts.Scheduler = schedule.OrReal(opts.Scheduler)
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	return &App{opts: opts, ready: make(chan struct{})}
}

// Start mounts every module and launches the readiness probe.
func (a *App) Start(ctx context.Context) {
	a.startSplash(ctx)
	a.startScroll()
	a.startCarousel()
}

func (a *App) startSplash(ctx context.Context) {
	splash, active := a.opts.Page.Splash()
	a.coordinator = readiness.New(a.opts.Markers, readiness.Options{
		MinimumSplash:  splash.Minimum,
		RevealDebounce: splash.RevealDebounce,
		SafetyTimeout:  splash.SafetyTimeout,
		Scheduler:      a.opts.Scheduler,
		OnChange:       a.onReadiness,
	})
	if active {
		a.progress = readiness.NewProgress(a.opts.Random)
		a.stopProgress = a.progress.Start(a.opts.Scheduler, readiness.ProgressInterval, a.opts.Page.SetSplashProgress)
	}
	a.coordinator.Mount()

	go func() {
		if a.opts.Probe != nil {
			if err := a.opts.Probe(ctx); err != nil {
				a.opts.Logf("readiness probe: %v", err)
			}
		}
		a.coordinator.SignalReady()
		a.readyOnce.Do(func() { close(a.ready) })
	}()
}

func (a *App) onReadiness(snapshot readiness.Snapshot) {
	if !snapshot.IsAppReady() {
		return
	}
	if a.progress != nil {
		a.progress.Complete()
		a.opts.Page.SetSplashProgress(a.progress.Percent())
	}
	a.opts.Page.Reveal()
}

func (a *App) startScroll() {
	if a.opts.Viewport == nil || a.opts.Frames == nil {
		return
	}
	a.tracker = scrollprogress.NewTracker(scrollprogress.Options{
		Viewport:  a.opts.Viewport,
		Frames:    a.opts.Frames,
		Scheduler: a.opts.Scheduler,
		OnChange:  a.opts.Page.SetScrollState,
	})
	a.tracker.Mount()
}

func (a *App) startCarousel() {
	view := a.opts.Carousel
	if view == nil {
		return
	}
	a.RefreshCarousel()
	a.rotator = carousel.NewRotator(a.opts.Scheduler, carousel.RotateInterval, func() {
		view.ScrollTo(carousel.AutoAdvance(view.Metrics()))
		a.RefreshCarousel()
	})
	a.rotator.Start(view.Reviews())
}

// Signaled is closed once the probe finished and SignalReady was sent.
func (a *App) Signaled() <-chan struct{} {
	return a.ready
}

// IsAppReady reports whether the content is revealed.
func (a *App) IsAppReady() bool {
	return a.coordinator != nil && a.coordinator.IsAppReady()
}

// OnScroll forwards a window scroll event.
func (a *App) OnScroll() {
	if a.tracker != nil {
		a.tracker.OnScroll()
	}
}

// OnResize forwards a window resize event. A resize changes the carousel's
// client width, so its controls are recomputed as well.
func (a *App) OnResize() {
	if a.tracker != nil {
		a.tracker.OnResize()
	}
	a.RefreshCarousel()
}

// ScrollCarousel moves the carousel one step in dir.
func (a *App) ScrollCarousel(dir carousel.Direction) {
	view := a.opts.Carousel
	if view == nil {
		return
	}
	view.ScrollTo(carousel.Step(view.Metrics(), dir))
	a.RefreshCarousel()
}

// RefreshCarousel updates the enabled state of the carousel controls.
func (a *App) RefreshCarousel() {
	view := a.opts.Carousel
	if view == nil {
		return
	}
	m := view.Metrics()
	view.SetControls(carousel.CanScrollLeft(m), carousel.CanScrollRight(m))
}

// Close cancels every timer and pending frame.
func (a *App) Close() {
	if a.coordinator != nil {
		a.coordinator.Close()
	}
	if a.stopProgress != nil {
		a.stopProgress()
	}
	if a.tracker != nil {
		a.tracker.Close()
	}
	if a.rotator != nil {
		a.rotator.Stop()
	}
}

// HTTPProbe returns a probe that fetches url with client. Any HTTP status
// counts as a response; only transport failures are reported.
func HTTPProbe(client *http.Client, url string) func(ctx context.Context) error {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build probe request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("probe %s: %w", url, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
}
