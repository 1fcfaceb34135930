package screens

import (
	"context"
	"sort"
	"time"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/collection"
	"github.com/okuznetsova/newsdesk/internal/model"
	"github.com/okuznetsova/newsdesk/internal/snapshot"
)

// News is the published-news screen: every Approved, non-deleted article.
// Filters: author, event date range, free-text search over title and
// description.
type News struct {
	*collection.Controller[model.NewsItem]
	client *api.Client
	snap   *snapshot.Store
}

// NewNews builds the published-news screen.
func NewNews(client *api.Client, snap *snapshot.Store, perPage int) *News {
	filters := collection.NewFilterSet[model.NewsItem]().
		AddEquality(FilterAuthor, func(n model.NewsItem) string { return n.PublisherNick }).
		AddDateRange(FilterDate, func(n model.NewsItem) time.Time { return n.EventStart }).
		AddSubstring(FilterSearch, func(n model.NewsItem) []string {
			return []string{n.Title, n.Description}
		})

	fetch := func(ctx context.Context) ([]model.NewsItem, error) {
		var all []model.NewsItem
		if err := client.Get(ctx, "/news", &all); err != nil {
			return nil, err
		}
		// The list endpoint returns every bucket; the public screen only
		// shows live items.
		published := make([]model.NewsItem, 0, len(all))
		for _, item := range all {
			if item.Published() {
				published = append(published, item)
			}
		}
		return published, nil
	}

	ctrl := collection.New(collection.Config[model.NewsItem]{
		ID:      func(n model.NewsItem) string { return n.ID },
		Fetch:   cachedFetch(snap, "published-news", fetch),
		Filters: filters,
		PerPage: perPage,
	})
	return &News{Controller: ctrl, client: client, snap: snap}
}

// CachedItems returns the last snapshot for offline display.
func (s *News) CachedItems() ([]model.NewsItem, time.Time, bool) {
	return snapshotItems[model.NewsItem](s.snap, "published-news")
}

// Delete removes one article (moves it to trash server-side).
func (s *News) Delete(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Delete(ctx, "/news/"+id, nil)
	})
}

// DeleteAll removes every article, not only the published ones.
// The UI must confirm before calling.
func (s *News) DeleteAll(ctx context.Context) (func(), error) {
	return s.MutateClear(ctx, func(ctx context.Context) error {
		return s.client.Delete(ctx, "/news", nil)
	})
}

// Archive moves one article to the archive bucket.
func (s *News) Archive(ctx context.Context, id string) (func(), error) {
	return s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Post(ctx, "/news/"+id+"/archive", nil, nil)
	})
}

// Authors returns the distinct publisher nicks in the cached collection,
// sorted, for the author filter choices.
func (s *News) Authors() []string {
	return uniqueAuthors(s.All())
}

func uniqueAuthors(items []model.NewsItem) []string {
	seen := make(map[string]bool)
	var authors []string
	for _, item := range items {
		if item.PublisherNick != "" && !seen[item.PublisherNick] {
			seen[item.PublisherNick] = true
			authors = append(authors, item.PublisherNick)
		}
	}
	sort.Strings(authors)
	return authors
}
