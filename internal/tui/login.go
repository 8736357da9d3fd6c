package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Login performs no backend credential check: any non-empty name flips the
// session flag.
type loginModel struct {
	input textinput.Model
	err   string
}

func newLoginModel() loginModel {
	in := textinput.New()
	in.Placeholder = "Username"
	in.CharLimit = 64
	in.Width = 28
	return loginModel{input: in}
}

func (m appModel) updateLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.login.input.Value())
		if name == "" {
			m.login.err = "Enter a username to sign in"
			return m, nil
		}
		m.sess.Login(name)
		m.login.err = ""
		m.view = viewDashboard
		m.dash = dashboardPage{busy: true}
		// The sidebar mounts once per session; its badge fetch happens here.
		return m, tea.Batch(m.statsCmd(), m.countsCmd())
	}

	var cmd tea.Cmd
	m.login.input, cmd = m.login.input.Update(msg)
	return m, cmd
}

func (m appModel) loginView(w, h int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Admin Panel")
	field := renderInputLine(34, m.login.input.View())

	lines := []string{
		title,
		"",
		styleMuted().Render("Sign in to continue"),
		"",
		field,
	}
	if m.login.err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(colorError).Render(m.login.err))
	}
	lines = append(lines, "", styleMuted().Render("enter: sign in   ctrl+c: quit"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}
