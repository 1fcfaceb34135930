package screens

import (
	"context"
	"time"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/collection"
	"github.com/okuznetsova/newsdesk/internal/model"
	"github.com/okuznetsova/newsdesk/internal/snapshot"
)

// Archive is the archived-news screen.
// Filters: free-text search over title and description, date range over
// the publish date falling back to the create date.
type Archive struct {
	*collection.Controller[model.NewsItem]
	client *api.Client
	snap   *snapshot.Store
}

// NewArchive builds the archive screen.
func NewArchive(client *api.Client, snap *snapshot.Store, perPage int) *Archive {
	filters := collection.NewFilterSet[model.NewsItem]().
		AddSubstring(FilterSearch, func(n model.NewsItem) []string {
			return []string{n.Title, n.Description}
		}).
		AddDateRange(FilterDate, archiveRefDate)

	fetch := func(ctx context.Context) ([]model.NewsItem, error) {
		var items []model.NewsItem
		if err := client.Get(ctx, "/admin/archived-news", &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	ctrl := collection.New(collection.Config[model.NewsItem]{
		ID:      func(n model.NewsItem) string { return n.ID },
		Fetch:   cachedFetch(snap, "archive", fetch),
		Filters: filters,
		PerPage: perPage,
	})
	return &Archive{Controller: ctrl, client: client, snap: snap}
}

// archiveRefDate is the date the range filter reads: publish date when
// present, otherwise create date. A zero result never matches an active
// range.
func archiveRefDate(n model.NewsItem) time.Time {
	if !n.PublishDate.IsZero() {
		return n.PublishDate
	}
	return n.CreateDate
}

// CachedItems returns the last snapshot for offline display.
func (s *Archive) CachedItems() ([]model.NewsItem, time.Time, bool) {
	return snapshotItems[model.NewsItem](s.snap, "archive")
}

// Restore moves one article back to the published list.
func (s *Archive) Restore(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Post(ctx, "/admin/archived-news/"+id+"/restore", nil, nil)
	})
}

// RestoreForEdit restores one article into the editor workflow. The caller
// navigates to the editor on success.
func (s *Archive) RestoreForEdit(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Post(ctx, "/admin/archived-news/"+id+"/restore-edit", nil, nil)
	})
}

// Delete moves one archived article to the trash.
func (s *Archive) Delete(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Delete(ctx, "/admin/archived-news/"+id+"/delete", nil)
	})
}

// DeleteAll moves every archived article to the trash. The UI must confirm
// before calling.
func (s *Archive) DeleteAll(ctx context.Context) (func(), error) {
	return s.MutateClear(ctx, func(ctx context.Context) error {
		return s.client.Delete(ctx, "/admin/archived-news/delete", nil)
	})
}
