// Package collection implements the generic list state every management
// screen shares: a remote collection cached in memory, a set of named
// filter predicates, pagination bookkeeping, and optimistic mutations
// that splice the cache instead of forcing a refetch.
//
// One Controller instance belongs to one screen. The package does no
// locking: state-touching methods are meant to be called from that screen's
// event loop, while the remote halves of FetchItems/MutateRemove/MutateClear
// may run elsewhere and hand their local step back to the loop.
package collection

// PageState is the pagination bookkeeping for one collection view.
//
// Invariants after every recompute:
//
//	TotalPages == max(1, ceil(TotalItems/PerPage))
//	1 <= CurrentPage <= TotalPages
//
// Out-of-range inputs are clamped, never rejected.
type PageState struct {
	CurrentPage int
	PerPage     int
	TotalItems  int
	TotalPages  int
}

// Pager tracks PageState across size changes and page moves.
type Pager struct {
	state PageState
}

// NewPager creates a pager. perPage must be positive; anything else is
// coerced to 10.
func NewPager(perPage int) *Pager {
	if perPage <= 0 {
		perPage = 10
	}
	return &Pager{state: PageState{
		CurrentPage: 1,
		PerPage:     perPage,
		TotalItems:  0,
		TotalPages:  1,
	}}
}

// State returns the current pagination state.
func (p *Pager) State() PageState {
	return p.state
}

// SetSize records a new total item count, recomputes TotalPages and clamps
// CurrentPage into range.
func (p *Pager) SetSize(totalItems int) PageState {
	if totalItems < 0 {
		totalItems = 0
	}
	p.state.TotalItems = totalItems
	p.state.TotalPages = totalPages(totalItems, p.state.PerPage)
	p.state.CurrentPage = clamp(p.state.CurrentPage, 1, p.state.TotalPages)
	return p.state
}

// GoToPage moves to page for a collection of totalItems, clamping into
// [1, TotalPages].
func (p *Pager) GoToPage(page, totalItems int) PageState {
	if totalItems < 0 {
		totalItems = 0
	}
	p.state.TotalItems = totalItems
	p.state.TotalPages = totalPages(totalItems, p.state.PerPage)
	p.state.CurrentPage = clamp(page, 1, p.state.TotalPages)
	return p.state
}

// AdjustAfterDeletion reclamps after an optimistic removal so the user is
// never left on a page past the new last page.
func (p *Pager) AdjustAfterDeletion(remaining int) PageState {
	return p.SetSize(remaining)
}

func totalPages(totalItems, perPage int) int {
	pages := (totalItems + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
