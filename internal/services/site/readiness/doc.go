// Package readiness gates page content behind a splash overlay on the first
// visit of a browser session.
//
// The Coordinator is an explicit state machine. It holds the splash for a
// minimum duration, waits for the embedding application to call SignalReady,
// then after a short debounce persists the session marker and reveals the
// content. A session that already carries the marker skips the splash
// entirely. Timers run through schedule.Scheduler so tests drive them with a
// manual clock.
package readiness
