package readiness

import "fmt"

// State is a coordinator phase. Transitions only move forward.
type State int

const (
	AwaitingMarkerCheck State = iota
	SplashActive
	Revealing
	Revealed
)

func (s State) String() string {
	switch s {
	case AwaitingMarkerCheck:
		return "awaiting_marker_check"
	case SplashActive:
		return "splash_active"
	case Revealing:
		return "revealing"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event drives a transition.
type Event int

const (
	MarkerFound Event = iota
	MarkerMissing
	TimerElapsed
	SignalReceived
	DebounceElapsed
	SafetyTimeout
)

func (e Event) String() string {
	switch e {
	case MarkerFound:
		return "marker_found"
	case MarkerMissing:
		return "marker_missing"
	case TimerElapsed:
		return "timer_elapsed"
	case SignalReceived:
		return "signal_received"
	case DebounceElapsed:
		return "debounce_elapsed"
	case SafetyTimeout:
		return "safety_timeout"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Snapshot is a consistent view of the coordinator flags.
type Snapshot struct {
	State                    State
	SplashVisible            bool
	MinimumTimeElapsed       bool
	ApplicationSignaledReady bool
}

// IsAppReady reports whether content is revealed.
func (s Snapshot) IsAppReady() bool {
	return !s.SplashVisible
}
