package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel is the sign-in form: nick and password.
type loginModel struct {
	nick     textinput.Model
	password textinput.Model
	focused  int // 0 = nick, 1 = password
	err      error
	busy     bool
	offline  bool
}

func newLoginModel() loginModel {
	nick := textinput.New()
	nick.Placeholder = "nick"
	nick.CharLimit = 64
	nick.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return loginModel{nick: nick, password: password}
}

// update handles keys while the login form is shown. It returns the form,
// whether the user submitted, and any input command.
func (m loginModel) update(msg tea.Msg) (loginModel, bool, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			m.focused = 1 - m.focused
			if m.focused == 0 {
				m.nick.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.nick.Blur()
			}
			return m, false, nil
		case "enter":
			if strings.TrimSpace(m.nick.Value()) == "" {
				return m, false, nil
			}
			return m, true, nil
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.nick, cmd = m.nick.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, false, cmd
}

func (m loginModel) view() string {
	var b strings.Builder
	b.WriteString(HelpStyle.Render("newsdesk - sign in"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.nick.View() + "\n")
	b.WriteString("  " + m.password.View() + "\n\n")
	if m.busy {
		b.WriteString(HelpStyle.Render("signing in..."))
	}
	if m.err != nil {
		b.WriteString(ErrorStyle.Render(m.err.Error()))
	}
	if m.offline {
		b.WriteString(ErrorStyle.Render("server unreachable - check the connection"))
	}
	b.WriteString("\n" + HelpStyle.Render("enter submit · tab switch field · ctrl+c quit"))
	return b.String()
}
