// Package ui provides the Bubble Tea TUI for the newsdesk admin console.
package ui

import (
	"time"

	"github.com/okuznetsova/newsdesk/internal/model"
)

// CountsMsg carries the badge counts delivered by the poller.
type CountsMsg model.Counts

// RefreshedMsg is sent when a screen fetch finishes. Items is the fetched
// (or snapshot) slice for that tab's screen, nil when nothing was
// retrieved; Update installs it on the event loop, the command never
// touches the screen itself.
type RefreshedMsg struct {
	Tab   Tab
	Err   error
	Items any

	// Stale is set when the fetch failed and Items came from a snapshot;
	// StaleAt is when that snapshot was taken.
	Stale   bool
	StaleAt time.Time
}

// MutationDoneMsg is sent when a delete/restore/moderate/archive finishes.
// apply is the local step (splice, refetch install) the screen handed back;
// Update runs it on the event loop.
type MutationDoneMsg struct {
	Tab    Tab
	Err    error
	Notice string // shown in the status bar on success
	apply  func()
}

// LoginDoneMsg is sent when the login call finishes.
type LoginDoneMsg struct {
	Err error
}

// expiredCheckedMsg is sent after the trash retention check fires.
// Carries nothing: failures are logged, not surfaced.
type expiredCheckedMsg struct{}

// pingMsg reports whether the API answered the startup reachability check.
type pingMsg struct {
	reachable bool
}
