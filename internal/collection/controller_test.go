package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/okuznetsova/newsdesk/internal/api"
)

func articleController(items []article, fetchErr error) (*Controller[article], *int) {
	fetches := 0
	return New(Config[article]{
		ID: func(a article) string { return a.ID },
		Fetch: func(ctx context.Context) ([]article, error) {
			fetches++
			if fetchErr != nil {
				return nil, fetchErr
			}
			return items, nil
		},
		Filters: newArticleFilters(),
		PerPage: 2,
	}), &fetches
}

func TestRefreshInstallsCollectionAndResetsPage(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	state := c.PageState()
	if state.TotalItems != 4 || state.TotalPages != 2 || state.CurrentPage != 1 {
		t.Errorf("state after refresh = %+v", state)
	}

	c.GoToPage(2)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := c.PageState().CurrentPage; got != 1 {
		t.Errorf("CurrentPage after second refresh = %d, want 1", got)
	}
}

func TestFetchItemsDoesNotInstall(t *testing.T) {
	c, _ := articleController(testArticles(), nil)

	items, err := c.FetchItems(context.Background())
	if err != nil {
		t.Fatalf("FetchItems: %v", err)
	}
	if len(items) != 4 {
		t.Errorf("fetched %d items, want 4", len(items))
	}
	if len(c.All()) != 0 {
		t.Errorf("FetchItems installed %d items into the cache", len(c.All()))
	}

	c.ReplaceAll(items)
	if got := c.PageState(); got.TotalItems != 4 || got.CurrentPage != 1 {
		t.Errorf("state after install = %+v", got)
	}
}

func TestRefreshFailureLeavesStateUntouched(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	c.SetFilter("author", "alice")
	c.GoToPage(1)
	before := c.PageState()

	c.fetch = func(ctx context.Context) ([]article, error) {
		return nil, errors.New("boom")
	}
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh returned nil for a failing fetch")
	}

	if got := c.PageState(); got != before {
		t.Errorf("page state changed on failed refresh: %+v != %+v", got, before)
	}
	if len(c.All()) != 4 {
		t.Errorf("cache resized on failed refresh: %d items", len(c.All()))
	}
	if got := c.Filters().Value("author"); got != "alice" {
		t.Errorf("filter value changed on failed refresh: %q", got)
	}
}

func TestFilterChangeResetsToPageOne(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())
	c.GoToPage(2)

	c.SetFilter("author", "alice")
	state := c.PageState()
	if state.CurrentPage != 1 {
		t.Errorf("CurrentPage after filter change = %d, want 1", state.CurrentPage)
	}
	if state.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", state.TotalItems)
	}
	if got := len(c.Items()); got != 2 {
		t.Errorf("visible items = %d, want 2", got)
	}
}

func TestSettingSameFilterValueKeepsPage(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())
	c.SetFilter("author", "alice")
	// alice has 2 items on a perPage of 2; widen to get a second page.
	c.SetFilter("author", "")
	c.GoToPage(2)

	c.SetFilter("author", "")
	if got := c.PageState().CurrentPage; got != 2 {
		t.Errorf("no-op filter set moved page to %d, want 2", got)
	}
}

func TestDateRangeChangeResetsToPageOne(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())
	c.GoToPage(2)

	c.SetDateRange("date", day(1), day(9))
	if got := c.PageState().CurrentPage; got != 1 {
		t.Errorf("CurrentPage after range change = %d, want 1", got)
	}
}

func TestClearFiltersResetsToPageOne(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())
	c.SetFilter("author", "alice")
	c.ClearFilters()

	state := c.PageState()
	if state.CurrentPage != 1 || state.TotalItems != 4 {
		t.Errorf("state after ClearFilters = %+v", state)
	}
}

func TestPageSlicing(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())

	page := c.Page()
	if len(page) != 2 || page[0].ID != "1" || page[1].ID != "2" {
		t.Errorf("page 1 = %v", page)
	}

	c.GoToPage(2)
	page = c.Page()
	if len(page) != 2 || page[0].ID != "3" {
		t.Errorf("page 2 = %v", page)
	}
}

func TestRemoveLocally(t *testing.T) {
	c, fetches := articleController(testArticles(), nil)
	c.Refresh(context.Background())
	c.GoToPage(2)

	if !c.RemoveLocally("3") {
		t.Fatal("RemoveLocally reported item 3 absent")
	}
	if c.RemoveLocally("3") {
		t.Error("second remove of the same id reported success")
	}
	if *fetches != 1 {
		t.Errorf("remove triggered a refetch: %d fetches", *fetches)
	}

	state := c.PageState()
	if state.TotalItems != 3 || state.TotalPages != 2 || state.CurrentPage != 2 {
		t.Errorf("state after removal = %+v", state)
	}
}

func TestRemovalClampsPageDown(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())
	c.GoToPage(2)

	// Page 2 holds items 3 and 4; removing both must pull us back to page 1.
	c.RemoveLocally("3")
	c.RemoveLocally("4")
	state := c.PageState()
	if state.CurrentPage != 1 || state.TotalPages != 1 {
		t.Errorf("state after draining page 2 = %+v", state)
	}
}

func TestInsertLocallyPrepends(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())

	c.InsertLocally(article{ID: "0", Title: "Breaking", Author: "dave"})
	if got := c.All()[0].ID; got != "0" {
		t.Errorf("first item = %q, want the inserted one", got)
	}
	if got := c.PageState().TotalItems; got != 5 {
		t.Errorf("TotalItems = %d, want 5", got)
	}
}

func TestMutateRemoveSuccessSplicesWithoutRefetch(t *testing.T) {
	c, fetches := articleController(testArticles(), nil)
	c.Refresh(context.Background())

	apply, err := c.MutateRemove(context.Background(), "2", func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("MutateRemove: %v", err)
	}

	// The remote call alone must not touch local state; the splice only
	// lands when the caller runs it on its own loop.
	if len(c.All()) != 4 {
		t.Errorf("cache changed before apply: %d items", len(c.All()))
	}
	apply()
	if len(c.All()) != 3 {
		t.Errorf("cache size = %d, want 3", len(c.All()))
	}
	if *fetches != 1 {
		t.Errorf("mutation triggered a refetch: %d fetches", *fetches)
	}
}

func TestMutateRemoveFailureLeavesCache(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())
	before := c.PageState()

	serverErr := &api.Error{Kind: api.KindServerError, Status: 500, Message: "kaput"}
	apply, err := c.MutateRemove(context.Background(), "2", func(ctx context.Context) error {
		return serverErr
	})
	if !errors.Is(err, serverErr) {
		t.Fatalf("err = %v, want the server error back", err)
	}
	if apply != nil {
		t.Error("failed mutation still handed out a splice")
	}
	if len(c.All()) != 4 {
		t.Errorf("cache changed on failed mutation: %d items", len(c.All()))
	}
	if got := c.PageState(); got != before {
		t.Errorf("page state changed on failed mutation: %+v", got)
	}
}

func TestMutateRemoveTreatsNotFoundAsAlreadyGone(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())

	apply, err := c.MutateRemove(context.Background(), "2", func(ctx context.Context) error {
		return &api.Error{Kind: api.KindNotFound, Status: 404}
	})
	if err != nil {
		t.Fatalf("NotFound on delete surfaced as an error: %v", err)
	}
	apply()
	if len(c.All()) != 3 {
		t.Errorf("item not spliced after already-gone delete: %d items", len(c.All()))
	}
}

func TestMutateClear(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())
	c.GoToPage(2)

	apply, err := c.MutateClear(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("MutateClear: %v", err)
	}
	if len(c.All()) != 4 {
		t.Errorf("cache emptied before apply: %d items", len(c.All()))
	}
	apply()
	state := c.PageState()
	if len(c.All()) != 0 || state.CurrentPage != 1 || state.TotalPages != 1 {
		t.Errorf("state after clear = %+v with %d items", state, len(c.All()))
	}
}

func TestMutateClearFailureLeavesCache(t *testing.T) {
	c, _ := articleController(testArticles(), nil)
	c.Refresh(context.Background())

	apply, err := c.MutateClear(context.Background(), func(ctx context.Context) error {
		return errors.New("refused")
	})
	if err == nil {
		t.Fatal("MutateClear swallowed the error")
	}
	if apply != nil {
		t.Error("failed clear still handed out a wipe")
	}
	if len(c.All()) != 4 {
		t.Errorf("cache emptied on failed clear: %d items", len(c.All()))
	}
}

func TestControllerWithoutFilters(t *testing.T) {
	c := New(Config[article]{
		ID: func(a article) string { return a.ID },
		Fetch: func(ctx context.Context) ([]article, error) {
			return testArticles(), nil
		},
		PerPage: 10,
	})
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := len(c.Items()); got != 4 {
		t.Errorf("visible items = %d, want 4", got)
	}
	// No-op without registered filters.
	c.SetFilter("author", "alice")
	if got := len(c.Items()); got != 4 {
		t.Errorf("unknown filter name changed projection: %d items", got)
	}
}
