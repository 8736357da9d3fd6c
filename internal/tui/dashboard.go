package tui

import (
	"fmt"
	"strings"

	"admindash/internal/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dashboardPage struct {
	stats  api.Stats
	loaded bool
	busy   bool
}

func (m appModel) updateDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleNavKey(msg.String()); ok {
		return next, cmd
	}
	switch msg.String() {
	case "r":
		m.client.InvalidateAll()
		m.dash.busy = true
		return m, tea.Batch(m.statsCmd(), m.countsCmd())
	}
	return m, nil
}

func (m appModel) dashboardView(w, h int) string {
	title := lipgloss.NewStyle().Bold(true).Render("Dashboard Overview")

	if m.dash.busy && !m.dash.loaded {
		return title + "\n" + m.loadingView(w, h-2)
	}

	stats := m.dash.stats
	cardW := (w - 6) / 4
	if cardW < 16 {
		cardW = 16
	}
	cards := []string{
		statCard(cardW, "Total Users", fmt.Sprintf("%d", stats.Users)),
		statCard(cardW, "Active Tasks", fmt.Sprintf("%d", stats.ActiveTasks)),
		statCard(cardW, "Inventory Items", fmt.Sprintf("%d", stats.Inventory)),
		statCard(cardW, "System Health", "Good"),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], " ", cards[1], " ", cards[2], " ", cards[3])

	var recent strings.Builder
	recent.WriteString(lipgloss.NewStyle().Bold(true).Render("Recent Activities") + "\n")
	if len(stats.RecentTasks) == 0 {
		recent.WriteString(styleMuted().Render("No recent tasks found."))
	} else {
		for _, t := range stats.RecentTasks {
			st := lipgloss.NewStyle().Foreground(statusColor(string(t.Status))).Render(t.Status.Label())
			recent.WriteString("  " + glyphBullet() + " " + truncate(t.Title, w-20) + "  " + st + "\n")
		}
	}

	var inv strings.Builder
	inv.WriteString(lipgloss.NewStyle().Bold(true).Render("Inventory Status") + "\n")
	inv.WriteString(styleMuted().Render("Chart component coming soon…"))

	return strings.Join([]string{
		title,
		"",
		row,
		"",
		recent.String(),
		inv.String(),
	}, "\n")
}

func statCard(w int, label, value string) string {
	body := styleMuted().Render(label) + "\n" +
		lipgloss.NewStyle().Bold(true).Render(value)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Width(w).
		Padding(0, 1).
		Render(body)
}
