package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/counts"
	"github.com/okuznetsova/newsdesk/internal/logging"
	"github.com/okuznetsova/newsdesk/internal/model"
	"github.com/okuznetsova/newsdesk/internal/screens"
	"github.com/okuznetsova/newsdesk/internal/session"
)

// Tab identifies one management screen.
type Tab int

const (
	TabPending Tab = iota
	TabPublished
	TabUsers
	TabCategories
	TabTrash
	TabArchive
)

func (t Tab) title() string {
	switch t {
	case TabPending:
		return "Moderation"
	case TabPublished:
		return "News"
	case TabUsers:
		return "Users"
	case TabCategories:
		return "Categories"
	case TabTrash:
		return "Trash"
	case TabArchive:
		return "Archive"
	}
	return "?"
}

// Screens bundles the six screen controllers the app drives.
type Screens struct {
	Pending    *screens.Pending
	News       *screens.News
	Users      *screens.Users
	Categories *screens.Categories
	Trash      *screens.Trash
	Archive    *screens.Archive
}

// inputMode says what the shared text input currently edits.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputDates
)

// confirmState is a pending destructive action awaiting an explicit yes.
// Bulk deletes never run without passing through here first.
type confirmState struct {
	prompt string
	cmd    tea.Cmd
}

// App is the root Bubble Tea model.
// App does not talk to the network in Update; every remote operation is a
// command whose result comes back as a message.
type App struct {
	sess   *session.Session
	client *api.Client
	scr    Screens
	poller *counts.Poller

	loggedIn bool
	login    loginModel

	tab    Tab
	cursor int
	badges model.Counts

	status    string
	statusErr bool
	staleAt   map[Tab]time.Time

	input     textinput.Model
	inputMode inputMode

	confirm *confirmState

	width, height int
	loading       bool
}

// NewApp creates the root model. The poller is started when the user signs
// in and stopped on sign-out or quit, so badge polling only runs while the
// panel is actually in use.
func NewApp(sess *session.Session, client *api.Client, scr Screens, poller *counts.Poller) App {
	input := textinput.New()
	input.CharLimit = 128

	return App{
		sess:     sess,
		client:   client,
		scr:      scr,
		poller:   poller,
		loggedIn: sess.Valid(),
		login:    newLoginModel(),
		tab:      TabPending,
		staleAt:  make(map[Tab]time.Time),
		input:    input,
	}
}

// Init shows the login form, or goes straight to the panel when a valid
// session is already present. The login path also pings the API so the
// form can warn about an unreachable server up front.
func (a App) Init() tea.Cmd {
	if a.loggedIn {
		return a.enterPanel()
	}
	return tea.Batch(textinput.Blink, a.pingCmd())
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case CountsMsg:
		a.badges = model.Counts(msg)
		return a, nil

	case LoginDoneMsg:
		a.login.busy = false
		if msg.Err != nil {
			a.login.err = msg.Err
			return a, nil
		}
		a.loggedIn = true
		a.login.err = nil
		return a, a.enterPanel()

	case pingMsg:
		a.login.offline = !msg.reachable
		return a, nil

	case RefreshedMsg:
		a.loading = false
		if msg.Items != nil {
			a.installItems(msg.Tab, msg.Items)
		}
		if msg.Stale {
			a.staleAt[msg.Tab] = msg.StaleAt
			a.setError("offline - showing snapshot from " + msg.StaleAt.Local().Format("2006-01-02 15:04"))
		} else if msg.Err != nil {
			if api.IsKind(msg.Err, api.KindAuthExpired) {
				return a.signOut(msg.Err)
			}
			a.setError(msg.Err.Error())
		} else {
			delete(a.staleAt, msg.Tab)
			a.clearStatus()
		}
		a.clampCursor()
		return a, nil

	case MutationDoneMsg:
		a.loading = false
		if msg.Err != nil {
			if api.IsKind(msg.Err, api.KindAuthExpired) {
				return a.signOut(msg.Err)
			}
			a.setError(msg.Err.Error())
			return a, nil
		}
		if msg.apply != nil {
			msg.apply()
		}
		a.setNotice(msg.Notice)
		a.clampCursor()
		return a, nil

	case expiredCheckedMsg:
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// handleKey routes keys by mode: login form, confirmation prompt, text
// input, then the normal panel bindings.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.poller.Stop()
		return a, tea.Quit
	}

	if !a.loggedIn {
		login, submitted, cmd := a.login.update(msg)
		a.login = login
		if submitted {
			a.login.busy = true
			return a, a.loginCmd(a.login.nick.Value(), a.login.password.Value())
		}
		return a, cmd
	}

	if a.confirm != nil {
		pending := a.confirm
		a.confirm = nil
		if msg.String() == "y" {
			a.loading = true
			return a, pending.cmd
		}
		a.setNotice("cancelled")
		return a, nil
	}

	if a.inputMode != inputNone {
		return a.handleInputKey(msg)
	}

	return a.handlePanelKey(msg)
}

// handleInputKey edits the shared filter input.
func (a App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.inputMode = inputNone
		a.input.Blur()
		return a, nil
	case "enter":
		value := a.input.Value()
		mode := a.inputMode
		a.inputMode = inputNone
		a.input.Blur()
		a.applyInput(mode, value)
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// applyInput commits a finished search or date-range entry to the active
// screen. An empty entry clears that filter.
func (a *App) applyInput(mode inputMode, value string) {
	switch mode {
	case inputSearch:
		a.setSearch(strings.TrimSpace(value))
	case inputDates:
		from, to, ok := parseDateRange(value)
		if !ok {
			a.setError("dates must be YYYY-MM-DD YYYY-MM-DD")
			return
		}
		a.setDates(from, to)
	}
	a.cursor = 0
}

// parseDateRange parses "YYYY-MM-DD YYYY-MM-DD". An empty string is the
// explicit clear (both endpoints zero).
func parseDateRange(value string) (from, to time.Time, ok bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return time.Time{}, time.Time{}, true
	}
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, false
	}
	from, err := time.ParseInLocation("2006-01-02", fields[0], time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err = time.ParseInLocation("2006-01-02", fields[1], time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// handlePanelKey handles the normal bindings while a list screen is shown.
func (a App) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		a.poller.Stop()
		return a, tea.Quit

	case "1", "2", "3", "4", "5", "6":
		return a.switchTab(int(msg.String()[0] - '1'))

	case "left", "h":
		a.activePrevPage()
		a.cursor = 0
		return a, nil
	case "right", "l":
		a.activeNextPage()
		a.cursor = 0
		return a, nil

	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "down", "j":
		if a.cursor < len(a.pageIDs())-1 {
			a.cursor++
		}
		return a, nil

	case "r":
		a.loading = true
		return a, tea.Batch(a.refreshCmd(a.tab), a.countsCmd())

	case "/":
		if a.hasSearch() {
			a.inputMode = inputSearch
			a.input.Placeholder = "search title and description"
			a.input.SetValue(a.currentSearch())
			a.input.Focus()
			return a, textinput.Blink
		}
		return a, nil

	case "g":
		if a.hasDates() {
			a.inputMode = inputDates
			a.input.Placeholder = "YYYY-MM-DD YYYY-MM-DD (empty clears)"
			a.input.SetValue("")
			a.input.Focus()
			return a, textinput.Blink
		}
		return a, nil

	case "f":
		a.cycleEqualityFilter()
		a.cursor = 0
		return a, nil

	case "c":
		a.clearFilters()
		a.cursor = 0
		return a, nil

	case "L":
		return a.signOut(nil)
	}

	return a.handleActionKey(msg)
}

// switchTab activates the idx-th visible tab for this role.
func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	tabs := a.visibleTabs()
	if idx < 0 || idx >= len(tabs) {
		return a, nil
	}
	a.tab = tabs[idx]
	a.cursor = 0
	a.clearStatus()
	a.loading = true

	cmds := []tea.Cmd{a.refreshCmd(a.tab)}
	if a.tab == TabTrash {
		// The server prunes expired trash lazily; poke it when the
		// screen opens.
		cmds = append(cmds, a.checkExpiredCmd())
	}
	return a, tea.Batch(cmds...)
}

// visibleTabs returns the tabs this role may open. Only Administrators see
// the users screen; Publishers never reach the panel at all (the
// composition root keeps them on the public list).
func (a *App) visibleTabs() []Tab {
	tabs := []Tab{TabPending, TabPublished}
	if a.sess.IsAdmin() {
		tabs = append(tabs, TabUsers)
	}
	return append(tabs, TabCategories, TabTrash, TabArchive)
}

// enterPanel starts badge polling and loads the initial screen.
func (a *App) enterPanel() tea.Cmd {
	a.poller.Start(context.Background())
	a.tab = TabPending
	a.cursor = 0
	a.loading = true
	return a.refreshCmd(a.tab)
}

// signOut tears the session down and returns to the login form.
// cause is the auth error that forced the sign-out, nil for a manual one.
func (a App) signOut(cause error) (tea.Model, tea.Cmd) {
	a.poller.Stop()
	a.sess.SignOut()
	a.loggedIn = false
	a.login = newLoginModel()
	a.login.err = cause
	a.badges = model.Counts{}
	a.clearStatus()
	logging.Info("signed out", "forced", cause != nil)
	return a, tea.Batch(textinput.Blink, a.pingCmd())
}

func (a *App) setError(text string) {
	a.status = text
	a.statusErr = true
}

func (a *App) setNotice(text string) {
	a.status = text
	a.statusErr = false
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusErr = false
}

// clampCursor keeps the selection inside the current page after the list
// shrinks underneath it.
func (a *App) clampCursor() {
	n := len(a.pageIDs())
	if n == 0 {
		a.cursor = 0
	} else if a.cursor >= n {
		a.cursor = n - 1
	}
}
