package screens

import (
	"context"
	"time"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/collection"
	"github.com/okuznetsova/newsdesk/internal/model"
	"github.com/okuznetsova/newsdesk/internal/snapshot"
)

// Moderation actions accepted by the server.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Pending is the moderation screen: news waiting for a decision.
// Filters: author, event date range.
type Pending struct {
	*collection.Controller[model.NewsItem]
	client *api.Client
	snap   *snapshot.Store
}

// NewPending builds the moderation screen.
func NewPending(client *api.Client, snap *snapshot.Store, perPage int) *Pending {
	filters := collection.NewFilterSet[model.NewsItem]().
		AddEquality(FilterAuthor, func(n model.NewsItem) string { return n.PublisherNick }).
		AddDateRange(FilterDate, func(n model.NewsItem) time.Time { return n.EventStart })

	fetch := func(ctx context.Context) ([]model.NewsItem, error) {
		var items []model.NewsItem
		if err := client.Get(ctx, "/admin/pending-news", &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	ctrl := collection.New(collection.Config[model.NewsItem]{
		ID:      func(n model.NewsItem) string { return n.ID },
		Fetch:   cachedFetch(snap, "pending-news", fetch),
		Filters: filters,
		PerPage: perPage,
	})
	return &Pending{Controller: ctrl, client: client, snap: snap}
}

// CachedItems returns the last snapshot for offline display.
func (s *Pending) CachedItems() ([]model.NewsItem, time.Time, bool) {
	return snapshotItems[model.NewsItem](s.snap, "pending-news")
}

// Install replaces the queue and drops a stale author filter, for callers
// that fetched off the event loop.
func (s *Pending) Install(items []model.NewsItem) {
	s.ReplaceAll(items)
	s.pruneAuthorFilter()
}

// Refresh refetches the pending list, then drops a stale author filter.
func (s *Pending) Refresh(ctx context.Context) error {
	items, err := s.FetchItems(ctx)
	if err != nil {
		return err
	}
	s.Install(items)
	return nil
}

// Moderate approves or rejects one article. The returned apply step also
// prunes the author filter once the splice lands.
func (s *Pending) Moderate(ctx context.Context, id, action, moderatorID string) (func(), error) {
	apply, err := s.MutateRemove(ctx, id, func(ctx context.Context) error {
		body := map[string]string{"action": action, "moderator_id": moderatorID}
		return s.client.Post(ctx, "/admin/moderate-news/"+id, body, nil)
	})
	if err != nil {
		return nil, err
	}
	return func() {
		apply()
		s.pruneAuthorFilter()
	}, nil
}

// Archive moves one pending article straight to the archive.
func (s *Pending) Archive(ctx context.Context, id string) (func(), error) {
	apply, err := s.MutateRemove(ctx, id, func(ctx context.Context) error {
		return s.client.Post(ctx, "/news/"+id+"/archive", nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return func() {
		apply()
		s.pruneAuthorFilter()
	}, nil
}

// DeleteAll is shown in the UI but the server has no backing endpoint.
// Surfaced as an explicit capability gap rather than invented behavior.
func (s *Pending) DeleteAll(ctx context.Context) (func(), error) {
	return nil, api.ErrNotImplemented
}

// Authors returns the distinct publisher nicks still in the queue.
func (s *Pending) Authors() []string {
	return uniqueAuthors(s.All())
}

// pruneAuthorFilter clears the author filter when no remaining item was
// written by that author, so the screen never shows an empty list that no
// visible control explains. Clearing counts as a filter change and resets
// to page 1.
func (s *Pending) pruneAuthorFilter() {
	author := s.Filters().Value(FilterAuthor)
	if author == "" {
		return
	}
	for _, item := range s.All() {
		if item.PublisherNick == author {
			return
		}
	}
	s.SetFilter(FilterAuthor, "")
}
