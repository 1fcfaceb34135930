package screens

import (
	"context"
	"time"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/collection"
	"github.com/okuznetsova/newsdesk/internal/logging"
	"github.com/okuznetsova/newsdesk/internal/model"
	"github.com/okuznetsova/newsdesk/internal/snapshot"
)

// Trash is the recycle-bin screen: soft-deleted news awaiting restore or
// purge. The screen has no filters.
type Trash struct {
	*collection.Controller[model.NewsItem]
	client *api.Client
	snap   *snapshot.Store
}

// NewTrash builds the trash screen.
func NewTrash(client *api.Client, snap *snapshot.Store, perPage int) *Trash {
	fetch := func(ctx context.Context) ([]model.NewsItem, error) {
		var items []model.NewsItem
		if err := client.Get(ctx, "/admin/trash", &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	ctrl := collection.New(collection.Config[model.NewsItem]{
		ID:      func(n model.NewsItem) string { return n.ID },
		Fetch:   cachedFetch(snap, "trash", fetch),
		PerPage: perPage,
	})
	return &Trash{Controller: ctrl, client: client, snap: snap}
}

// CachedItems returns the last snapshot for offline display.
func (s *Trash) CachedItems() ([]model.NewsItem, time.Time, bool) {
	return snapshotItems[model.NewsItem](s.snap, "trash")
}

// Restore moves one item back out of the trash.
func (s *Trash) Restore(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Post(ctx, "/admin/trash/"+id+"/restore", nil, nil)
	})
}

// Purge deletes one item permanently.
func (s *Trash) Purge(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Delete(ctx, "/admin/trash/"+id+"/purge", nil)
	})
}

// PurgeAll empties the trash permanently. The UI must confirm before
// calling.
func (s *Trash) PurgeAll(ctx context.Context) (func(), error) {
	return s.MutateClear(ctx, func(ctx context.Context) error {
		return s.client.Delete(ctx, "/admin/trash/purge", nil)
	})
}

// CheckExpired asks the server to purge items past their retention window.
// Fired when the screen opens; failures are logged, not surfaced - the
// screen works fine without it.
func (s *Trash) CheckExpired(ctx context.Context) {
	if err := s.client.Post(ctx, "/admin/trash/check-expired", nil, nil); err != nil {
		logging.Warn("trash expiration check failed", "error", err)
	}
}
