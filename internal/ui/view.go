package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/okuznetsova/newsdesk/internal/model"
)

// View renders the whole screen: login form, or the tab header, the current
// page of the active screen, and the status/help footer.
func (a App) View() string {
	if !a.loggedIn {
		return a.login.view()
	}

	var b strings.Builder
	b.WriteString(a.headerView())
	b.WriteString("\n\n")
	b.WriteString(a.listView())
	b.WriteString("\n")
	b.WriteString(a.footerView())
	return b.String()
}

// headerView renders the tab bar with badge counts, numbered the way the
// 1-6 keys select them.
func (a *App) headerView() string {
	var parts []string
	for i, tab := range a.visibleTabs() {
		label := fmt.Sprintf("%d %s", i+1, tab.title())
		if badge := a.badgeFor(tab); badge > 0 {
			label = fmt.Sprintf("%s (%d)", label, badge)
		}
		if tab == a.tab {
			parts = append(parts, ActiveTab.Render(label))
		} else {
			parts = append(parts, InactiveTab.Render(label))
		}
	}
	header := strings.Join(parts, " ")
	user := HelpStyle.Render(fmt.Sprintf("%s · %s", a.sess.Nick(), a.sess.Role()))
	return header + user
}

func (a *App) badgeFor(tab Tab) int {
	switch tab {
	case TabPending:
		return a.badges.Pending
	case TabTrash:
		return a.badges.Trash
	case TabArchive:
		return a.badges.Archive
	}
	return 0
}

// listView renders the current page of the active screen, one row per item,
// with the cursor row highlighted.
func (a *App) listView() string {
	rows := a.pageRows()
	if len(rows) == 0 {
		if a.loading {
			return EmptyStyle.Render("loading...")
		}
		if a.anyFilterActive() {
			return EmptyStyle.Render("nothing matches the active filters")
		}
		return EmptyStyle.Render("no items")
	}

	var b strings.Builder
	for i, row := range rows {
		if i == a.cursor {
			b.WriteString(SelectedRow.Render("> " + row))
		} else {
			b.WriteString(NormalRow.Render("  " + row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// pageRows renders the active screen's current page as display strings,
// aligned with pageIDs.
func (a *App) pageRows() []string {
	switch a.tab {
	case TabPending:
		return newsRows(a.scr.Pending.Page(), func(n model.NewsItem) time.Time { return n.EventStart })
	case TabPublished:
		return newsRows(a.scr.News.Page(), func(n model.NewsItem) time.Time { return n.EventStart })
	case TabUsers:
		page := a.scr.Users.Page()
		rows := make([]string, len(page))
		for i, u := range page {
			rows[i] = fmt.Sprintf("%-24s %-14s %s", truncate(u.Nick, 24), u.Role, formatDate(u.RegistrationDate))
		}
		return rows
	case TabCategories:
		page := a.scr.Categories.Page()
		rows := make([]string, len(page))
		for i, c := range page {
			rows[i] = fmt.Sprintf("%-24s %-40s %s", truncate(c.Name, 24), truncate(c.Description, 40), formatDate(c.CreatedAt))
		}
		return rows
	case TabTrash:
		return newsRows(a.scr.Trash.Page(), func(n model.NewsItem) time.Time { return n.DeleteDate })
	case TabArchive:
		return newsRows(a.scr.Archive.Page(), archiveDisplayDate)
	}
	return nil
}

func newsRows(page []model.NewsItem, date func(model.NewsItem) time.Time) []string {
	rows := make([]string, len(page))
	for i, n := range page {
		rows[i] = fmt.Sprintf("%-44s %-18s %s", truncate(n.Title, 44), truncate(n.PublisherNick, 18), formatDate(date(n)))
	}
	return rows
}

func archiveDisplayDate(n model.NewsItem) time.Time {
	if !n.PublishDate.IsZero() {
		return n.PublishDate
	}
	return n.CreateDate
}

// footerView renders the pagination line, any filter/stale badges, the
// status or confirmation line, the filter input when editing, and help.
func (a *App) footerView() string {
	var b strings.Builder

	state := a.activePageState()
	pageLine := fmt.Sprintf("page %d/%d · %d items", state.CurrentPage, state.TotalPages, state.TotalItems)
	b.WriteString(StatusBar.Render(pageLine))
	if a.anyFilterActive() {
		b.WriteString(FilterBadge.Render("filtered"))
	}
	if at, ok := a.staleAt[a.tab]; ok {
		b.WriteString(StaleBadge.Render("snapshot " + at.Local().Format("2006-01-02 15:04")))
	}
	b.WriteString("\n")

	switch {
	case a.confirm != nil:
		b.WriteString(ConfirmStyle.Render(a.confirm.prompt))
		b.WriteString("\n")
	case a.inputMode != inputNone:
		b.WriteString("  " + a.input.View() + "\n")
	case a.status != "":
		if a.statusErr {
			b.WriteString(ErrorStyle.Render(a.status))
		} else {
			b.WriteString(NoticeStyle.Render(a.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(a.helpLine()))
	return b.String()
}

// helpLine lists the bindings that do something on the active screen.
func (a *App) helpLine() string {
	common := "1-6 tabs · h/l page · j/k move · r refresh · c clear filters · L logout · q quit"
	switch a.tab {
	case TabPending:
		return "a approve · x reject · A archive · f author · g dates · " + common
	case TabPublished:
		return "d delete · A archive · D delete all · / search · f author · g dates · " + common
	case TabUsers:
		return "d delete · f role · g dates · " + common
	case TabCategories:
		return "d delete · / search · g dates · " + common
	case TabTrash:
		return "u restore · d purge · D purge all · " + common
	case TabArchive:
		return "u restore · e restore to editor · d to trash · D clear all · / search · g dates · " + common
	}
	return common
}

// truncate shortens s to max runes. Headlines are mostly Cyrillic, so
// slicing has to count runes, not bytes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}
