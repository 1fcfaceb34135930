// Package screens holds the six thin instantiations of the generic
// collection controller - published news, pending news, users, categories,
// trash and archive. Each screen binds a controller to its endpoints and
// declares its filter spec; everything else (pagination, filtering,
// optimistic splices) lives in the collection package.
//
// Mutation methods follow the controller's two-phase shape: the remote call
// runs wherever the caller likes, and the returned apply step carries the
// local splice back to the screen's event loop.
//
// Destructive bulk operations (DeleteAll, PurgeAll) assume the UI already
// ran its confirmation gate; the screens issue the call unconditionally.
package screens

import (
	"context"
	"time"

	"github.com/okuznetsova/newsdesk/internal/logging"
	"github.com/okuznetsova/newsdesk/internal/snapshot"
)

// Filter names shared by the screens. The UI uses these to address
// SetFilter/SetDateRange on whichever screen is active.
const (
	FilterAuthor = "author"
	FilterRole   = "role"
	FilterSearch = "search"
	FilterDate   = "date"
)

// cachedFetch wraps fetch with write-through snapshotting so the screen can
// render the last good data when the API is down. A snapshot write failure
// is logged and swallowed - the fetch itself succeeded.
func cachedFetch[T any](snap *snapshot.Store, name string, fetch func(ctx context.Context) ([]T, error)) func(ctx context.Context) ([]T, error) {
	if snap == nil {
		return fetch
	}
	return func(ctx context.Context) ([]T, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if serr := snap.Save(name, items); serr != nil {
			logging.Warn("snapshot save failed", "collection", name, "error", serr)
		}
		return items, nil
	}
}

// snapshotItems returns the last saved fetch for name without installing
// it anywhere, plus when the snapshot was taken and whether one existed.
// Safe off the event loop; the caller installs via ReplaceAll on its own.
func snapshotItems[T any](snap *snapshot.Store, name string) ([]T, time.Time, bool) {
	if snap == nil {
		return nil, time.Time{}, false
	}
	var items []T
	savedAt, err := snap.Load(name, &items)
	if err != nil {
		if err != snapshot.ErrNoSnapshot {
			logging.Warn("snapshot load failed", "collection", name, "error", err)
		}
		return nil, time.Time{}, false
	}
	return items, savedAt, true
}
