package readiness

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rust-in/site/internal/platform/schedule/schedtest"
)

type fakeStore struct {
	values map[string]string
	// onSet observes the coordinator at the moment the marker is written.
	onSet func()
	sets  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (s *fakeStore) Get(key string) (string, bool) {
	value, ok := s.values[key]
	return value, ok
}

func (s *fakeStore) Set(key, value string) {
	s.sets++
	if s.onSet != nil {
		s.onSet()
	}
	s.values[key] = value
}

func newTestCoordinator(store MarkerStore, clock *schedtest.Clock, opts Options) *Coordinator {
	opts.Scheduler = clock
	if opts.MinimumSplash == 0 {
		opts.MinimumSplash = 1500 * time.Millisecond
	}
	if opts.RevealDebounce == 0 {
		opts.RevealDebounce = 250 * time.Millisecond
	}
	return New(store, opts)
}

func TestMarkerPresentSkipsSplash(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.values[DefaultMarkerKey] = MarkerValue
	clock := schedtest.New()
	var seen []Snapshot
	c := newTestCoordinator(store, clock, Options{OnChange: func(s Snapshot) { seen = append(seen, s) }})
	c.Mount()

	if !c.IsAppReady() {
		t.Fatal("IsAppReady = false, want true right after mount")
	}
	for _, s := range seen {
		if s.SplashVisible {
			t.Fatalf("splash rendered with marker present: %+v", s)
		}
	}
	want := Snapshot{State: Revealed, MinimumTimeElapsed: true, ApplicationSignaledReady: true}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Fatalf("snapshot (-want +got):\n%s", diff)
	}
	if clock.Pending() != 0 {
		t.Fatalf("pending timers = %d, want 0", clock.Pending())
	}
}

func TestSplashHeldForMinimumDuration(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	c := newTestCoordinator(newFakeStore(), clock, Options{})
	c.Mount()
	c.SignalReady()

	clock.Advance(1499 * time.Millisecond)
	if c.IsAppReady() {
		t.Fatal("revealed before minimum splash duration")
	}
	clock.Advance(time.Millisecond)
	if got := c.Snapshot().State; got != Revealing {
		t.Fatalf("state at 1500ms = %v, want %v", got, Revealing)
	}
	clock.Advance(249 * time.Millisecond)
	if c.IsAppReady() {
		t.Fatal("revealed before debounce elapsed")
	}
	clock.Advance(time.Millisecond)
	if !c.IsAppReady() {
		t.Fatal("not revealed at 1750ms")
	}
}

func TestJoinWaitsForSignal(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	store := newFakeStore()
	c := newTestCoordinator(store, clock, Options{})
	c.Mount()

	clock.Advance(10 * time.Second)
	snap := c.Snapshot()
	if !snap.MinimumTimeElapsed || snap.ApplicationSignaledReady {
		t.Fatalf("snapshot = %+v, want timer elapsed without signal", snap)
	}
	if c.IsAppReady() {
		t.Fatal("revealed without readiness signal")
	}
	if store.sets != 0 {
		t.Fatalf("marker written %d times before reveal", store.sets)
	}

	c.SignalReady()
	clock.Advance(249 * time.Millisecond)
	if c.IsAppReady() {
		t.Fatal("revealed before debounce after late signal")
	}
	clock.Advance(time.Millisecond)
	if !c.IsAppReady() {
		t.Fatal("not revealed after signal plus debounce")
	}
}

func TestJoinWaitsForTimer(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	c := newTestCoordinator(newFakeStore(), clock, Options{})
	c.Mount()
	clock.Advance(500 * time.Millisecond)
	c.SignalReady()
	clock.Advance(999 * time.Millisecond)
	snap := c.Snapshot()
	if snap.State != SplashActive || snap.MinimumTimeElapsed {
		t.Fatalf("snapshot = %+v, want splash active before timer", snap)
	}
	clock.Advance(time.Millisecond + 250*time.Millisecond)
	if !c.IsAppReady() {
		t.Fatal("not revealed after timer plus debounce")
	}
}

func TestSignalReadyIsIdempotent(t *testing.T) {
	t.Parallel()

	run := func(signals int) ([]State, int) {
		clock := schedtest.New()
		store := newFakeStore()
		var states []State
		c := newTestCoordinator(store, clock, Options{OnChange: func(s Snapshot) { states = append(states, s.State) }})
		c.Mount()
		for range signals {
			c.SignalReady()
		}
		clock.Advance(100 * time.Millisecond)
		for range signals {
			c.SignalReady()
		}
		clock.Advance(5 * time.Second)
		for range signals {
			c.SignalReady()
		}
		return states, store.sets
	}

	onceStates, onceSets := run(1)
	manyStates, manySets := run(7)
	if diff := cmp.Diff(onceStates, manyStates); diff != "" {
		t.Fatalf("state sequence differs (-once +many):\n%s", diff)
	}
	if onceSets != 1 || manySets != 1 {
		t.Fatalf("marker writes = %d/%d, want 1/1", onceSets, manySets)
	}
}

func TestMarkerWrittenBeforeSplashHidden(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	store := newFakeStore()
	var c *Coordinator
	visibleAtWrite := false
	store.onSet = func() {
		// The coordinator holds its lock while writing, so read the raw field.
		visibleAtWrite = c.state != Revealed
	}
	c = newTestCoordinator(store, clock, Options{})
	c.Mount()
	c.SignalReady()
	clock.Advance(2 * time.Second)

	if !visibleAtWrite {
		t.Fatal("splash was already hidden when the marker was written")
	}
	if got, ok := store.values[DefaultMarkerKey]; !ok || got != MarkerValue {
		t.Fatalf("marker = %q, %v", got, ok)
	}
}

func TestSplashVisibleFlipsOnce(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	flips := 0
	last := true
	c := newTestCoordinator(newFakeStore(), clock, Options{OnChange: func(s Snapshot) {
		if last && !s.SplashVisible {
			flips++
		}
		if !last && s.SplashVisible {
			t.Errorf("splash became visible again: %+v", s)
		}
		last = s.SplashVisible
	}})
	c.Mount()
	c.SignalReady()
	clock.Advance(time.Minute)
	c.SignalReady()
	c.Mount()
	clock.Advance(time.Minute)
	if flips != 1 {
		t.Fatalf("flips = %d, want 1", flips)
	}
}

func TestSignalBeforeMountIsKept(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	c := newTestCoordinator(newFakeStore(), clock, Options{})
	c.SignalReady()
	if c.IsAppReady() {
		t.Fatal("ready before mount")
	}
	c.Mount()
	clock.Advance(1750 * time.Millisecond)
	if !c.IsAppReady() {
		t.Fatal("early signal was lost")
	}
}

func TestSafetyTimeoutRevealsWithoutSignal(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	c := newTestCoordinator(newFakeStore(), clock, Options{SafetyTimeout: 8 * time.Second})
	c.Mount()
	clock.Advance(7999 * time.Millisecond)
	if c.IsAppReady() {
		t.Fatal("revealed before safety timeout")
	}
	clock.Advance(time.Millisecond + 250*time.Millisecond)
	if !c.IsAppReady() {
		t.Fatal("safety timeout did not reveal")
	}
}

func TestSafetyTimeoutCancelledBySignal(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	c := newTestCoordinator(newFakeStore(), clock, Options{SafetyTimeout: 8 * time.Second})
	c.Mount()
	c.SignalReady()
	clock.Advance(1500 * time.Millisecond)
	// Only the debounce timer remains.
	if clock.Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", clock.Pending())
	}
}

func TestCloseCancelsTimers(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	store := newFakeStore()
	changes := 0
	c := newTestCoordinator(store, clock, Options{SafetyTimeout: time.Second, OnChange: func(Snapshot) { changes++ }})
	c.Mount()
	c.SignalReady()
	before := changes
	c.Close()

	if clock.Pending() != 0 {
		t.Fatalf("pending timers after Close = %d, want 0", clock.Pending())
	}
	clock.Advance(time.Minute)
	c.SignalReady()
	if changes != before {
		t.Fatalf("changes after Close = %d, want %d", changes, before)
	}
	if store.sets != 0 {
		t.Fatal("marker written after Close")
	}
}

func TestOptionsDefaults(t *testing.T) {
	t.Parallel()

	opts := Options{SafetyTimeout: -time.Second}.withDefaults()
	if opts.MinimumSplash != DefaultMinimumSplash || opts.RevealDebounce != DefaultRevealDebounce {
		t.Fatalf("durations = %v/%v", opts.MinimumSplash, opts.RevealDebounce)
	}
	if opts.SafetyTimeout != 0 {
		t.Fatalf("SafetyTimeout = %v, want 0", opts.SafetyTimeout)
	}
	if opts.MarkerKey != DefaultMarkerKey || opts.Scheduler == nil {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestStateAndEventNames(t *testing.T) {
	t.Parallel()

	if Revealing.String() != "revealing" || State(42).String() != "state(42)" {
		t.Fatal("unexpected state names")
	}
	if SafetyTimeout.String() != "safety_timeout" || Event(9).String() != "event(9)" {
		t.Fatal("unexpected event names")
	}
}
