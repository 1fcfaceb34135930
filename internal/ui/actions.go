package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/collection"
	"github.com/okuznetsova/newsdesk/internal/model"
	"github.com/okuznetsova/newsdesk/internal/screens"
)

// loginCmd authenticates and installs the session. Publishers have no
// business in the panel; their login succeeds server-side but is refused
// here.
func (a App) loginCmd(nick, password string) tea.Cmd {
	sess, client := a.sess, a.client
	return func() tea.Msg {
		result, err := client.Login(context.Background(), nick, password)
		if err != nil {
			return LoginDoneMsg{Err: err}
		}
		sess.SignIn(result.Token, result.User.ID, result.User.Nick, result.User.Role)
		if !sess.CanModerate() {
			sess.SignOut()
			return LoginDoneMsg{Err: &api.Error{
				Kind:    api.KindForbidden,
				Message: "this account has no access to the admin panel",
			}}
		}
		return LoginDoneMsg{}
	}
}

// refreshCmd fetches one screen's collection off the event loop and sends
// the result back in a RefreshedMsg; Update installs it. The command never
// touches the screen controllers itself. When the fetch fails and a
// snapshot exists, the stale data rides back in the same message.
func (a App) refreshCmd(tab Tab) tea.Cmd {
	scr := a.scr
	return func() tea.Msg {
		items, err := fetchItems(context.Background(), scr, tab)
		if err == nil {
			return RefreshedMsg{Tab: tab, Items: items}
		}
		if cached, at, ok := cachedItems(scr, tab); ok {
			return RefreshedMsg{Tab: tab, Err: err, Items: cached, Stale: true, StaleAt: at}
		}
		return RefreshedMsg{Tab: tab, Err: err}
	}
}

// fetchItems runs the remote fetch for one tab without installing anything.
func fetchItems(ctx context.Context, scr Screens, tab Tab) (any, error) {
	var (
		items any
		err   error
	)
	switch tab {
	case TabPending:
		items, err = scr.Pending.FetchItems(ctx)
	case TabPublished:
		items, err = scr.News.FetchItems(ctx)
	case TabUsers:
		items, err = scr.Users.FetchItems(ctx)
	case TabCategories:
		items, err = scr.Categories.FetchItems(ctx)
	case TabTrash:
		items, err = scr.Trash.FetchItems(ctx)
	case TabArchive:
		items, err = scr.Archive.FetchItems(ctx)
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// cachedItems reads the last snapshot for the tabs that keep one.
func cachedItems(scr Screens, tab Tab) (any, time.Time, bool) {
	var (
		items []model.NewsItem
		at    time.Time
		ok    bool
	)
	switch tab {
	case TabPending:
		items, at, ok = scr.Pending.CachedItems()
	case TabPublished:
		items, at, ok = scr.News.CachedItems()
	case TabTrash:
		items, at, ok = scr.Trash.CachedItems()
	case TabArchive:
		items, at, ok = scr.Archive.CachedItems()
	}
	if !ok {
		return nil, time.Time{}, false
	}
	return items, at, true
}

// installItems applies a fetched batch to its screen. Runs on the event
// loop only.
func (a *App) installItems(tab Tab, items any) {
	switch list := items.(type) {
	case []model.NewsItem:
		switch tab {
		case TabPending:
			a.scr.Pending.Install(list)
		case TabPublished:
			a.scr.News.ReplaceAll(list)
		case TabTrash:
			a.scr.Trash.ReplaceAll(list)
		case TabArchive:
			a.scr.Archive.ReplaceAll(list)
		}
	case []model.User:
		a.scr.Users.ReplaceAll(list)
	case []model.Category:
		a.scr.Categories.ReplaceAll(list)
	}
}

// countsCmd is a one-shot badge refresh outside the poll loop.
func (a App) countsCmd() tea.Cmd {
	poller := a.poller
	return func() tea.Msg {
		counts, err := poller.Fetch(context.Background())
		if err != nil {
			return nil
		}
		return CountsMsg(counts)
	}
}

// checkExpiredCmd pokes the lazy trash-retention sweep.
func (a App) checkExpiredCmd() tea.Cmd {
	trash := a.scr.Trash
	return func() tea.Msg {
		trash.CheckExpired(context.Background())
		return expiredCheckedMsg{}
	}
}

// mutationCmd runs one remote mutation off the event loop and carries the
// screen's local apply step back in the message; Update runs it.
func (a App) mutationCmd(tab Tab, notice string, op func(context.Context) (func(), error)) tea.Cmd {
	return func() tea.Msg {
		apply, err := op(context.Background())
		if err != nil {
			return MutationDoneMsg{Tab: tab, Err: err}
		}
		return MutationDoneMsg{Tab: tab, Notice: notice, apply: apply}
	}
}

// pingCmd checks the API once at startup so an unreachable server shows up
// on the login form before the first submit.
func (a App) pingCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		return pingMsg{reachable: client.Ping(context.Background())}
	}
}

// handleActionKey dispatches the per-screen mutation keys. Single-item
// actions run immediately; bulk deletes go through the confirmation gate.
func (a App) handleActionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	id, hasSelection := a.selectedID()
	scr := a.scr

	switch a.tab {
	case TabPending:
		moderatorID := a.sess.UserID()
		switch key {
		case "a":
			if hasSelection {
				a.loading = true
				return a, a.pendingModerate(id, "approve", moderatorID, "approved")
			}
		case "x":
			if hasSelection {
				a.loading = true
				return a, a.pendingModerate(id, "reject", moderatorID, "rejected")
			}
		case "A":
			if hasSelection {
				a.loading = true
				return a, a.mutationCmd(a.tab, "archived", func(ctx context.Context) (func(), error) {
					return scr.Pending.Archive(ctx, id)
				})
			}
		case "D":
			// No backing endpoint; the error says so instead of pretending.
			a.loading = true
			return a, a.mutationCmd(a.tab, "", func(ctx context.Context) (func(), error) {
				return scr.Pending.DeleteAll(ctx)
			})
		}

	case TabPublished:
		switch key {
		case "d":
			if hasSelection {
				a.loading = true
				return a, a.mutationCmd(a.tab, "moved to trash", func(ctx context.Context) (func(), error) {
					return scr.News.Delete(ctx, id)
				})
			}
		case "A":
			if hasSelection {
				a.loading = true
				return a, a.mutationCmd(a.tab, "archived", func(ctx context.Context) (func(), error) {
					return scr.News.Archive(ctx, id)
				})
			}
		case "D":
			a.confirm = &confirmState{
				prompt: "delete ALL news? y/n",
				cmd: a.mutationCmd(a.tab, "all news deleted", func(ctx context.Context) (func(), error) {
					return scr.News.DeleteAll(ctx)
				}),
			}
			return a, nil
		}

	case TabUsers:
		if key == "d" && hasSelection {
			a.loading = true
			return a, a.mutationCmd(a.tab, "account deleted", func(ctx context.Context) (func(), error) {
				return scr.Users.Delete(ctx, id)
			})
		}

	case TabCategories:
		if key == "d" && hasSelection {
			a.loading = true
			return a, a.mutationCmd(a.tab, "category deleted", func(ctx context.Context) (func(), error) {
				return scr.Categories.Delete(ctx, id)
			})
		}

	case TabTrash:
		switch key {
		case "u":
			if hasSelection {
				a.loading = true
				return a, a.mutationCmd(a.tab, "restored", func(ctx context.Context) (func(), error) {
					return scr.Trash.Restore(ctx, id)
				})
			}
		case "d":
			if hasSelection {
				a.confirm = &confirmState{
					prompt: "purge this item forever? y/n",
					cmd: a.mutationCmd(a.tab, "purged", func(ctx context.Context) (func(), error) {
						return scr.Trash.Purge(ctx, id)
					}),
				}
			}
			return a, nil
		case "D":
			a.confirm = &confirmState{
				prompt: "empty the trash forever? y/n",
				cmd: a.mutationCmd(a.tab, "trash emptied", func(ctx context.Context) (func(), error) {
					return scr.Trash.PurgeAll(ctx)
				}),
			}
			return a, nil
		}

	case TabArchive:
		switch key {
		case "u":
			if hasSelection {
				a.loading = true
				return a, a.mutationCmd(a.tab, "restored", func(ctx context.Context) (func(), error) {
					return scr.Archive.Restore(ctx, id)
				})
			}
		case "e":
			if hasSelection {
				a.loading = true
				return a, a.mutationCmd(a.tab, "restored for editing", func(ctx context.Context) (func(), error) {
					return scr.Archive.RestoreForEdit(ctx, id)
				})
			}
		case "d":
			if hasSelection {
				a.loading = true
				return a, a.mutationCmd(a.tab, "moved to trash", func(ctx context.Context) (func(), error) {
					return scr.Archive.Delete(ctx, id)
				})
			}
		case "D":
			a.confirm = &confirmState{
				prompt: "move ALL archived news to trash? y/n",
				cmd: a.mutationCmd(a.tab, "archive cleared", func(ctx context.Context) (func(), error) {
					return scr.Archive.DeleteAll(ctx)
				}),
			}
			return a, nil
		}
	}

	return a, nil
}

func (a App) pendingModerate(id, action, moderatorID, notice string) tea.Cmd {
	pending := a.scr.Pending
	return a.mutationCmd(TabPending, notice, func(ctx context.Context) (func(), error) {
		return pending.Moderate(ctx, id, action, moderatorID)
	})
}

// pageIDs returns the item ids on the active screen's current page, in
// display order.
func (a *App) pageIDs() []string {
	switch a.tab {
	case TabPending:
		return newsIDs(a.scr.Pending.Page())
	case TabPublished:
		return newsIDs(a.scr.News.Page())
	case TabUsers:
		page := a.scr.Users.Page()
		ids := make([]string, len(page))
		for i, u := range page {
			ids[i] = u.ID
		}
		return ids
	case TabCategories:
		page := a.scr.Categories.Page()
		ids := make([]string, len(page))
		for i, c := range page {
			ids[i] = c.ID
		}
		return ids
	case TabTrash:
		return newsIDs(a.scr.Trash.Page())
	case TabArchive:
		return newsIDs(a.scr.Archive.Page())
	}
	return nil
}

func newsIDs(page []model.NewsItem) []string {
	ids := make([]string, len(page))
	for i, n := range page {
		ids[i] = n.ID
	}
	return ids
}

// selectedID returns the id under the cursor, if any row is selected.
func (a *App) selectedID() (string, bool) {
	ids := a.pageIDs()
	if a.cursor < 0 || a.cursor >= len(ids) {
		return "", false
	}
	return ids[a.cursor], true
}

// activePageState returns the active screen's pagination state.
func (a *App) activePageState() collection.PageState {
	switch a.tab {
	case TabPending:
		return a.scr.Pending.PageState()
	case TabPublished:
		return a.scr.News.PageState()
	case TabUsers:
		return a.scr.Users.PageState()
	case TabCategories:
		return a.scr.Categories.PageState()
	case TabTrash:
		return a.scr.Trash.PageState()
	case TabArchive:
		return a.scr.Archive.PageState()
	}
	return collection.PageState{}
}

func (a *App) activeNextPage() {
	switch a.tab {
	case TabPending:
		a.scr.Pending.NextPage()
	case TabPublished:
		a.scr.News.NextPage()
	case TabUsers:
		a.scr.Users.NextPage()
	case TabCategories:
		a.scr.Categories.NextPage()
	case TabTrash:
		a.scr.Trash.NextPage()
	case TabArchive:
		a.scr.Archive.NextPage()
	}
}

func (a *App) activePrevPage() {
	switch a.tab {
	case TabPending:
		a.scr.Pending.PrevPage()
	case TabPublished:
		a.scr.News.PrevPage()
	case TabUsers:
		a.scr.Users.PrevPage()
	case TabCategories:
		a.scr.Categories.PrevPage()
	case TabTrash:
		a.scr.Trash.PrevPage()
	case TabArchive:
		a.scr.Archive.PrevPage()
	}
}

// hasSearch reports whether the active screen carries a free-text filter.
func (a *App) hasSearch() bool {
	switch a.tab {
	case TabPublished, TabCategories, TabArchive:
		return true
	}
	return false
}

func (a *App) currentSearch() string {
	switch a.tab {
	case TabPublished:
		return a.scr.News.Filters().Value(screens.FilterSearch)
	case TabCategories:
		return a.scr.Categories.Filters().Value(screens.FilterSearch)
	case TabArchive:
		return a.scr.Archive.Filters().Value(screens.FilterSearch)
	}
	return ""
}

func (a *App) setSearch(value string) {
	switch a.tab {
	case TabPublished:
		a.scr.News.SetFilter(screens.FilterSearch, value)
	case TabCategories:
		a.scr.Categories.SetFilter(screens.FilterSearch, value)
	case TabArchive:
		a.scr.Archive.SetFilter(screens.FilterSearch, value)
	}
}

// hasDates reports whether the active screen carries a date-range filter.
// Trash is the one screen without filters.
func (a *App) hasDates() bool {
	return a.tab != TabTrash
}

func (a *App) setDates(from, to time.Time) {
	switch a.tab {
	case TabPending:
		a.scr.Pending.SetDateRange(screens.FilterDate, from, to)
	case TabPublished:
		a.scr.News.SetDateRange(screens.FilterDate, from, to)
	case TabUsers:
		a.scr.Users.SetDateRange(screens.FilterDate, from, to)
	case TabCategories:
		a.scr.Categories.SetDateRange(screens.FilterDate, from, to)
	case TabArchive:
		a.scr.Archive.SetDateRange(screens.FilterDate, from, to)
	}
}

// cycleEqualityFilter steps the author or role filter through its choices:
// off, then each distinct value present in the cached collection, then off
// again.
func (a *App) cycleEqualityFilter() {
	switch a.tab {
	case TabPending:
		next := nextChoice(a.scr.Pending.Authors(), a.scr.Pending.Filters().Value(screens.FilterAuthor))
		a.scr.Pending.SetFilter(screens.FilterAuthor, next)
	case TabPublished:
		next := nextChoice(a.scr.News.Authors(), a.scr.News.Filters().Value(screens.FilterAuthor))
		a.scr.News.SetFilter(screens.FilterAuthor, next)
	case TabUsers:
		roles := a.scr.Users.UniqueRoles()
		choices := make([]string, len(roles))
		for i, r := range roles {
			choices[i] = string(r)
		}
		next := nextChoice(choices, a.scr.Users.Filters().Value(screens.FilterRole))
		a.scr.Users.SetFilter(screens.FilterRole, next)
	}
}

// nextChoice returns the choice after current, wrapping through "" (off).
func nextChoice(choices []string, current string) string {
	if len(choices) == 0 {
		return ""
	}
	if current == "" {
		return choices[0]
	}
	for i, c := range choices {
		if c == current {
			if i+1 < len(choices) {
				return choices[i+1]
			}
			return ""
		}
	}
	return ""
}

func (a *App) clearFilters() {
	switch a.tab {
	case TabPending:
		a.scr.Pending.ClearFilters()
	case TabPublished:
		a.scr.News.ClearFilters()
	case TabUsers:
		a.scr.Users.ClearFilters()
	case TabCategories:
		a.scr.Categories.ClearFilters()
	case TabArchive:
		a.scr.Archive.ClearFilters()
	}
}

// anyFilterActive reports whether the active screen has an active filter.
func (a *App) anyFilterActive() bool {
	switch a.tab {
	case TabPending:
		return a.scr.Pending.Filters().AnyActive()
	case TabPublished:
		return a.scr.News.Filters().AnyActive()
	case TabUsers:
		return a.scr.Users.Filters().AnyActive()
	case TabCategories:
		return a.scr.Categories.Filters().AnyActive()
	case TabArchive:
		return a.scr.Archive.Filters().AnyActive()
	}
	return false
}
