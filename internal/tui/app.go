package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"admindash/internal/api"
	"admindash/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appModel struct {
	client *api.Client
	sess   *session.Session

	width  int
	height int

	view view

	login loginModel
	users usersPage
	tasks tasksPage
	inv   inventoryPage
	dash  dashboardPage

	counts       api.Counts
	countsLoaded bool

	confirm *confirmState

	spin       spinner.Model
	notice     string
	noticeKind noticeKind
	noticeSeq  int
}

func newAppModel(client *api.Client, sess *session.Session) appModel {
	m := appModel{
		client: client,
		sess:   sess,
		view:   viewLogin,
	}
	m.login = newLoginModel()
	m.users = newUsersPage()
	m.tasks = newTasksPage()
	m.inv = newInventoryPage()
	m.spin = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorAccent)),
	)
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.login.input.Focus())
}

// applyGate is the level-triggered route gate: evaluated on every update, not
// only on transitions. Unauthenticated resolves to login for any view;
// authenticated resolves away from login (and any unknown view) to the
// dashboard.
func (m *appModel) applyGate() {
	if !m.sess.Authenticated() {
		m.view = viewLogin
		return
	}
	if m.view == viewLogin || m.view > viewInventory {
		m.view = viewDashboard
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.applyGate()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case noticeDoneMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case statsMsg:
		return m.handleStats(msg)
	case countsMsg:
		return m.handleCounts(msg)

	case usersLoadedMsg:
		return m.handleUsersLoaded(msg)
	case userSavedMsg:
		return m.handleUserSaved(msg)
	case userDeletedMsg:
		return m.handleUserDeleted(msg)

	case tasksLoadedMsg:
		return m.handleTasksLoaded(msg)
	case taskSavedMsg:
		return m.handleTaskSaved(msg)
	case taskDeletedMsg:
		return m.handleTaskDeleted(msg)
	case taskStatusSetMsg:
		return m.handleTaskStatusSet(msg)

	case itemsLoadedMsg:
		return m.handleItemsLoaded(msg)
	case itemSavedMsg:
		return m.handleItemSaved(msg)
	case itemDeletedMsg:
		return m.handleItemDeleted(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.updateConfirmKey(msg)
		}
		switch m.view {
		case viewLogin:
			return m.updateLoginKey(msg)
		case viewDashboard:
			return m.updateDashboardKey(msg)
		case viewUsers:
			return m.updateUsersKey(msg)
		case viewTasks:
			return m.updateTasksKey(msg)
		case viewInventory:
			return m.updateInventoryKey(msg)
		}
		return m, nil
	}

	// Cursor blink and other component messages go to the focused input.
	return m, m.forwardToFocused(msg)
}

func (m *appModel) resize() {
	contentW := m.contentWidth()
	m.users.resize(contentW)
	m.tasks.resize(contentW)
	m.inv.resize(contentW)
}

func (m appModel) contentWidth() int {
	w := m.width - sidebarWidth - 1
	if w < minContentW {
		w = minContentW
	}
	return w
}

func (m appModel) contentHeight() int {
	h := m.height - 3
	if h < 10 {
		h = 10
	}
	return h
}

// updateConfirmKey handles keys while the two-phase confirm modal is open.
// Only an explicit confirm runs the pending action; everything else leaves
// the target untouched.
func (m appModel) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	switch msg.String() {
	case "tab", "shift+tab", "left", "right":
		if c.focus == confirmFocusConfirm {
			c.focus = confirmFocusCancel
		} else {
			c.focus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		m.confirm = nil
		return m, c.accept(&m)
	case "n", "esc", "ctrl+g":
		m.confirm = nil
		return m, nil
	case "enter":
		m.confirm = nil
		if c.focus == confirmFocusConfirm {
			return m, c.accept(&m)
		}
		return m, nil
	}
	return m, nil
}

// switchTo changes the routed page. Entering a page resets it to a fresh
// mount and triggers its initial fetch.
func (m appModel) switchTo(v view) (appModel, tea.Cmd) {
	if m.view == v {
		return m, nil
	}
	m.view = v
	switch v {
	case viewDashboard:
		m.dash = dashboardPage{busy: true}
		return m, m.statsCmd()
	case viewUsers:
		m.users = newUsersPage()
		m.users.resize(m.contentWidth())
		return m, m.users.refreshCmd(m.client)
	case viewTasks:
		m.tasks = newTasksPage()
		m.tasks.resize(m.contentWidth())
		return m, m.tasks.refreshCmd(m.client)
	case viewInventory:
		m.inv = newInventoryPage()
		m.inv.resize(m.contentWidth())
		return m, m.inv.refreshCmd(m.client)
	}
	return m, nil
}

// handleNavKey handles keys shared by all authenticated pages. ok reports
// whether the key was consumed.
func (m appModel) handleNavKey(key string) (appModel, tea.Cmd, bool) {
	switch key {
	case "1":
		next, cmd := m.switchTo(viewDashboard)
		return next, cmd, true
	case "2":
		next, cmd := m.switchTo(viewUsers)
		return next, cmd, true
	case "3":
		next, cmd := m.switchTo(viewTasks)
		return next, cmd, true
	case "4":
		next, cmd := m.switchTo(viewInventory)
		return next, cmd, true
	case "Q":
		return m, tea.Quit, true
	case "L":
		m.logout()
		return m, m.login.input.Focus(), true
	}
	return m, nil, false
}

// logout clears the session and resets all page state; the gate routes the
// next render to the login view.
func (m *appModel) logout() {
	m.sess.Logout()
	m.view = viewLogin
	m.login = newLoginModel()
	m.users = newUsersPage()
	m.tasks = newTasksPage()
	m.inv = newInventoryPage()
	m.dash = dashboardPage{}
	m.counts = api.Counts{}
	m.countsLoaded = false
	m.confirm = nil
	m.resize()
}

func (m *appModel) postNotice(kind noticeKind, text string) tea.Cmd {
	m.notice = text
	m.noticeKind = kind
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return noticeDoneMsg{seq: seq} })
}

// apiMessage prefers the server-supplied message and falls back to a generic
// one.
func apiMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (m *appModel) statsCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.DashboardStats(context.Background())
		return statsMsg{stats: stats, err: err}
	}
}

func (m *appModel) countsCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		counts, err := c.SidebarCounts(context.Background())
		return countsMsg{counts: counts, err: err}
	}
}

func (m appModel) handleStats(msg statsMsg) (tea.Model, tea.Cmd) {
	m.dash.busy = false
	if msg.err != nil {
		// All-or-nothing: a single failed fetch voids the batch and the
		// cards keep their prior values.
		return m, m.postNotice(noticeError, "Failed to fetch dashboard data")
	}
	m.dash.stats = msg.stats
	m.dash.loaded = true
	return m, nil
}

func (m appModel) handleCounts(msg countsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The sidebar only ever logged this; badges keep prior values.
		return m, nil
	}
	m.counts = msg.counts
	m.countsLoaded = true
	return m, nil
}

// forwardToFocused routes non-key component messages (cursor blink) to the
// input that currently has focus.
func (m *appModel) forwardToFocused(msg tea.Msg) tea.Cmd {
	switch m.view {
	case viewLogin:
		var cmd tea.Cmd
		m.login.input, cmd = m.login.input.Update(msg)
		return cmd
	case viewUsers:
		return m.users.forward(msg)
	case viewTasks:
		return m.tasks.forward(msg)
	case viewInventory:
		return m.inv.forward(msg)
	}
	return nil
}

func (m appModel) View() string {
	w := m.width
	if w < minContentW+sidebarWidth+1 {
		w = minContentW + sidebarWidth + 1
	}
	h := m.height
	if h < 13 {
		h = 13
	}

	if m.view == viewLogin {
		return m.loginView(w, h)
	}

	contentW := m.contentWidth()
	contentH := m.contentHeight()

	var content string
	switch m.view {
	case viewDashboard:
		content = m.dashboardView(contentW, contentH)
	case viewUsers:
		content = m.usersView(contentW, contentH)
	case viewTasks:
		content = m.tasksView(contentW, contentH)
	case viewInventory:
		content = m.inventoryView(contentW, contentH)
	}
	if m.confirm != nil {
		modal := renderConfirmModal(contentW, m.confirm.title, m.confirm.body, "Delete", "Cancel", m.confirm.focus)
		content = overlayCentered(contentW, contentH, modal)
	}
	content = normalizePane(content, contentW, contentH)

	sidebar := normalizePane(m.sidebarView(), sidebarWidth, contentH)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", content)

	return body + "\n" + m.footerView(w)
}

func (m appModel) sidebarView() string {
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Admin Panel")
	b.WriteString(" " + header + "\n")
	welcome := m.sess.User()
	if welcome == "" {
		welcome = "Admin"
	}
	b.WriteString(" " + styleMuted().Render("Welcome, "+welcome) + "\n\n")

	type navItem struct {
		key   string
		label string
		v     view
		badge int
	}
	items := []navItem{
		{"1", "Dashboard", viewDashboard, 0},
		{"2", "Users", viewUsers, m.counts.Users},
		{"3", "Tasks", viewTasks, m.counts.Tasks},
		{"4", "Inventory", viewInventory, m.counts.Inventory},
	}

	active := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	badgeStyle := lipgloss.NewStyle().Foreground(colorAccent)
	for _, it := range items {
		line := fmt.Sprintf(" %s  %s", it.key, it.label)
		if it.badge > 0 {
			line += " " + badgeStyle.Render(fmt.Sprintf("(%d)", it.badge))
		}
		if it.v == m.view {
			line = active.Render(truncate(line, sidebarWidth-2))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(" " + styleMuted().Render("L  Logout") + "\n")
	b.WriteString(" " + styleMuted().Render("Q  Quit"))
	return b.String()
}

func (m appModel) footerView(w int) string {
	if m.notice != "" {
		st := lipgloss.NewStyle().Foreground(colorSuccess)
		if m.noticeKind == noticeError {
			st = lipgloss.NewStyle().Foreground(colorError)
		}
		return truncate(" "+st.Render(m.notice), w)
	}

	var help string
	switch m.view {
	case viewLogin:
		help = "enter: sign in   ctrl+c: quit"
	case viewDashboard:
		help = "r: refresh   1-4: navigate   L: logout   Q: quit"
	case viewUsers:
		help = "n: add   e: edit   d: delete   /: search   r: refresh   tab: next field   esc: back"
	case viewTasks:
		help = "n: add   e: edit   d: delete   m/M: change status   f: filter   r: refresh   esc: back"
	case viewInventory:
		help = "n: add   e: edit   d: delete   r: refresh   tab: next field   esc: back"
	}
	return truncate(" "+styleMuted().Render(help), w)
}

// loadingView is the full-pane spinner shown only while a fetch is in flight
// AND the visible list is empty; refreshing a non-empty list never flashes it.
func (m appModel) loadingView(w, h int) string {
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
		m.spin.View()+" "+styleMuted().Render("Loading…"))
}
