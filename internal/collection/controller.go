package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/okuznetsova/newsdesk/internal/api"
)

// Config wires a Controller to its collection.
type Config[T any] struct {
	// ID extracts the stable unique identifier of an item.
	ID func(T) string

	// Fetch retrieves the full collection from the server.
	Fetch func(ctx context.Context) ([]T, error)

	// Filters is the declarative filter spec for this screen.
	// Nil means the screen has no filters.
	Filters *FilterSet[T]

	// PerPage is the page size for this screen.
	PerPage int
}

// Controller maintains a derived, paginated, consistently-indexed view of
// one remote collection and keeps it consistent across filter changes and
// optimistic mutations.
//
// visibleItems is always exactly allItems with every active filter applied;
// it is recomputed, never patched. The pagination state is fully derived
// from the visible count.
//
// State-touching methods belong to the screen's event loop. FetchItems,
// MutateRemove and MutateClear only perform the remote call and may run on
// a background goroutine; the installs and splices they produce are applied
// by the caller back on the loop.
type Controller[T any] struct {
	id      func(T) string
	fetch   func(ctx context.Context) ([]T, error)
	filters *FilterSet[T]
	pager   *Pager

	all     []T
	visible []T
}

// New creates a Controller from cfg. ID and Fetch are required.
func New[T any](cfg Config[T]) *Controller[T] {
	if cfg.ID == nil {
		panic("collection: Config.ID is required")
	}
	filters := cfg.Filters
	if filters == nil {
		filters = NewFilterSet[T]()
	}
	return &Controller[T]{
		id:      cfg.ID,
		fetch:   cfg.Fetch,
		filters: filters,
		pager:   NewPager(cfg.PerPage),
		all:     []T{},
		visible: []T{},
	}
}

// FetchItems runs the configured fetch and returns the result without
// touching any local state. Safe to call from a background goroutine; the
// caller installs the items on its own event loop via ReplaceAll.
func (c *Controller[T]) FetchItems(ctx context.Context) ([]T, error) {
	if c.fetch == nil {
		return nil, fmt.Errorf("collection: no fetch configured")
	}
	return c.fetch(ctx)
}

// Refresh replaces the cached collection wholesale with a fresh fetch and
// resets to page 1. On failure the cache, the filters and the pagination
// state are left exactly as they were; the error is returned for display
// and nothing is retried.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	items, err := c.FetchItems(ctx)
	if err != nil {
		return err
	}
	c.ReplaceAll(items)
	return nil
}

// ReplaceAll installs items as the new full collection and resets to page 1.
// Used by Refresh and by snapshot restore.
func (c *Controller[T]) ReplaceAll(items []T) {
	if items == nil {
		items = []T{}
	}
	c.all = items
	c.recompute()
	c.pager.GoToPage(1, len(c.visible))
}

// All returns the unfiltered cached collection.
func (c *Controller[T]) All() []T {
	return c.all
}

// Items returns the filtered projection.
func (c *Controller[T]) Items() []T {
	return c.visible
}

// Page returns the visible items for the current page. Defensively total:
// an out-of-range current page yields an empty slice, never a panic.
func (c *Controller[T]) Page() []T {
	state := c.pager.State()
	start := (state.CurrentPage - 1) * state.PerPage
	if start < 0 || start >= len(c.visible) {
		return []T{}
	}
	end := start + state.PerPage
	if end > len(c.visible) {
		end = len(c.visible)
	}
	return c.visible[start:end]
}

// PageState returns the current pagination state.
func (c *Controller[T]) PageState() PageState {
	return c.pager.State()
}

// GoToPage moves to page, clamped into range.
func (c *Controller[T]) GoToPage(page int) {
	c.pager.GoToPage(page, len(c.visible))
}

// NextPage advances one page, clamped at the last page.
func (c *Controller[T]) NextPage() {
	c.GoToPage(c.pager.State().CurrentPage + 1)
}

// PrevPage goes back one page, clamped at page 1.
func (c *Controller[T]) PrevPage() {
	c.GoToPage(c.pager.State().CurrentPage - 1)
}

// SetFilter updates a string-valued filter. Any effective change recomputes
// the projection and resets to page 1. Setting the same value again is a
// no-op and keeps the current page.
func (c *Controller[T]) SetFilter(name, value string) {
	if c.filters.SetValue(name, value) {
		c.filterChanged()
	}
}

// SetDateRange updates a date-range filter with the same reset rule as
// SetFilter.
func (c *Controller[T]) SetDateRange(name string, from, to time.Time) {
	if c.filters.SetRange(name, from, to) {
		c.filterChanged()
	}
}

// filterChanged recomputes the projection after a filter edit and applies
// the hard invariant: every filter change lands on page 1.
func (c *Controller[T]) filterChanged() {
	c.recompute()
	c.pager.GoToPage(1, len(c.visible))
}

// ClearFilters deactivates every filter. A no-op when nothing was active.
func (c *Controller[T]) ClearFilters() {
	if c.filters.ClearAll() {
		c.filterChanged()
	}
}

// Filters exposes the filter set for reads (current values, activity).
func (c *Controller[T]) Filters() *FilterSet[T] {
	return c.filters
}

// RemoveLocally splices the item with id out of the cache without a round
// trip and reclamps the page. Reports whether the item was present; a
// second remove of the same id is a safe no-op.
func (c *Controller[T]) RemoveLocally(id string) bool {
	idx := -1
	for i, item := range c.all {
		if c.id(item) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	c.all = append(c.all[:idx], c.all[idx+1:]...)
	c.recompute()
	c.pager.AdjustAfterDeletion(len(c.visible))
	return true
}

// InsertLocally prepends an item to the cache, used after a restore lands
// in the same collection.
func (c *Controller[T]) InsertLocally(item T) {
	c.all = append([]T{item}, c.all...)
	c.recompute()
	c.pager.SetSize(len(c.visible))
}

// MutateRemove runs a remote delete-type call for id and, on success,
// returns the local splice for the caller to run on its event loop; the
// server is not asked for a fresh list. The controller itself is not
// touched here, so the remote call may run on a background goroutine. On
// failure the normalized error is returned and no splice is handed out -
// with one exception: NotFound on a delete means the item was already gone
// server-side, so the splice still applies and the call reports success.
func (c *Controller[T]) MutateRemove(ctx context.Context, id string, call func(context.Context) error) (func(), error) {
	if err := call(ctx); err != nil && !api.AlreadyGone(err) {
		return nil, err
	}
	return func() {
		c.RemoveLocally(id)
	}, nil
}

// MutateClear runs a remote bulk delete and, on success, returns the local
// wipe (empty cache, page 1 of 1) for the caller's event loop. The caller
// is responsible for the confirmation gate; this method assumes consent
// was already given.
func (c *Controller[T]) MutateClear(ctx context.Context, call func(context.Context) error) (func(), error) {
	if err := call(ctx); err != nil {
		return nil, err
	}
	return func() {
		c.all = []T{}
		c.recompute()
		c.pager.GoToPage(1, 0)
	}, nil
}

// recompute rederives visibleItems from allItems and the active filters.
func (c *Controller[T]) recompute() {
	c.visible = c.filters.Apply(c.all)
}
