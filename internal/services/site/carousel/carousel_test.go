package carousel

import (
	"testing"
	"time"

	"github.com/rust-in/site/internal/platform/schedule/schedtest"
)

func TestScrollControls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		m         Metrics
		wantLeft  bool
		wantRight bool
	}{
		{name: "start", m: Metrics{ScrollLeft: 0, ScrollWidth: 1800, ClientWidth: 1000}, wantLeft: false, wantRight: true},
		{name: "middle", m: Metrics{ScrollLeft: 360, ScrollWidth: 1800, ClientWidth: 1000}, wantLeft: true, wantRight: true},
		{name: "within tolerance", m: Metrics{ScrollLeft: 791, ScrollWidth: 1800, ClientWidth: 1000}, wantLeft: true, wantRight: false},
		{name: "fits", m: Metrics{ScrollLeft: 0, ScrollWidth: 900, ClientWidth: 1000}, wantLeft: false, wantRight: false},
	}
	for _, tc := range tests {
		if got := CanScrollLeft(tc.m); got != tc.wantLeft {
			t.Fatalf("%s: CanScrollLeft = %v, want %v", tc.name, got, tc.wantLeft)
		}
		if got := CanScrollRight(tc.m); got != tc.wantRight {
			t.Fatalf("%s: CanScrollRight = %v, want %v", tc.name, got, tc.wantRight)
		}
	}
}

func TestStepIsBounded(t *testing.T) {
	t.Parallel()

	m := Metrics{ScrollLeft: 100, ScrollWidth: 1800, ClientWidth: 1000}
	if got := Step(m, Right); got != 460 {
		t.Fatalf("Step right = %v, want 460", got)
	}
	if got := Step(m, Left); got != 0 {
		t.Fatalf("Step left = %v, want 0", got)
	}
	m.ScrollLeft = 700
	if got := Step(m, Right); got != 800 {
		t.Fatalf("Step right near edge = %v, want 800", got)
	}
}

func TestAutoAdvanceWraps(t *testing.T) {
	t.Parallel()

	if got := AutoAdvance(Metrics{ScrollLeft: 360, ScrollWidth: 1800, ClientWidth: 1000}); got != 720 {
		t.Fatalf("AutoAdvance = %v, want 720", got)
	}
	if got := AutoAdvance(Metrics{ScrollLeft: 800, ScrollWidth: 1800, ClientWidth: 1000}); got != 0 {
		t.Fatalf("AutoAdvance at edge = %v, want 0", got)
	}
}

func TestRotatorNeedsSeveralReviews(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	ticks := 0
	r := NewRotator(clock, 0, func() { ticks++ })
	if r.Start(1) {
		t.Fatal("rotation started for a single review")
	}
	clock.Advance(time.Minute)
	if ticks != 0 {
		t.Fatalf("ticks = %d, want 0", ticks)
	}
}

func TestRotatorTicksUntilStopped(t *testing.T) {
	t.Parallel()

	clock := schedtest.New()
	ticks := 0
	r := NewRotator(clock, 0, func() { ticks++ })
	if !r.Start(4) {
		t.Fatal("rotation did not start")
	}
	clock.Advance(16 * time.Second)
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3", ticks)
	}
	r.Stop()
	clock.Advance(time.Minute)
	if ticks != 3 || r.Running() {
		t.Fatalf("ticks after Stop = %d, running = %v", ticks, r.Running())
	}
	if clock.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", clock.Pending())
	}
}
