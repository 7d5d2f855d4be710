// Package notifications pushes workflow transition events to ntfy.
//
// Notifications are fire-and-forget: the orchestrator never waits on them and
// correctness never depends on delivery. When no topic is configured a noop
// service is returned.
package notifications
