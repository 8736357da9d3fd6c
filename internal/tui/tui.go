package tui

import (
	"admindash/internal/api"
	"admindash/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(client *api.Client, sess *session.Session) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(client, sess)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
