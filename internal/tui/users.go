package tui

import (
	"context"
	"strings"

	"admindash/internal/api"
	"admindash/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type usersFocus int

const (
	usersFocusList usersFocus = iota
	usersFocusSearch
	usersFocusName
	usersFocusEmail
	usersFocusRole
)

// usersPage owns the full fetched collection, the filtered view derived from
// it, a single editable draft, the editing marker and the busy flag.
type usersPage struct {
	collection []model.User
	view       []model.User

	search  textinput.Model
	name    textinput.Model
	email   textinput.Model
	roleIdx int

	editingID model.ID
	busy      bool
	cursor    int
	focus     usersFocus
	width     int
}

func newUsersPage() usersPage {
	p := usersPage{}

	p.search = textinput.New()
	p.search.Placeholder = "Search users..."
	p.search.CharLimit = 100
	p.search.Width = 28

	p.name = textinput.New()
	p.name.Placeholder = "John Doe"
	p.name.CharLimit = 100
	p.name.Width = 32

	p.email = textinput.New()
	p.email.Placeholder = "john@example.com"
	p.email.CharLimit = 100
	p.email.Width = 32

	return p
}

func (p *usersPage) resize(w int) {
	p.width = w
	inputW := w - 24
	if inputW < 16 {
		inputW = 16
	}
	p.name.Width = inputW
	p.email.Width = inputW
}

// applyFilter recomputes the derived view from the collection under the
// current search term: case-insensitive substring over name, email and role.
// Reapplied after every refresh so the visible list tracks the active filter.
func (p *usersPage) applyFilter() {
	term := strings.ToLower(strings.TrimSpace(p.search.Value()))
	if term == "" {
		p.view = p.collection
	} else {
		filtered := make([]model.User, 0, len(p.collection))
		for _, u := range p.collection {
			if strings.Contains(strings.ToLower(u.Name), term) ||
				strings.Contains(strings.ToLower(u.Email), term) ||
				strings.Contains(strings.ToLower(string(u.Role)), term) {
				filtered = append(filtered, u)
			}
		}
		p.view = filtered
	}
	p.cursor = clampCursor(p.cursor, len(p.view))
}

func (p *usersPage) refreshCmd(c *api.Client) tea.Cmd {
	p.busy = true
	return func() tea.Msg {
		users, err := c.ListUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (p *usersPage) draft() model.UserDraft {
	return model.UserDraft{
		Name:  p.name.Value(),
		Email: p.email.Value(),
		Role:  model.Roles()[p.roleIdx],
	}
}

func (p *usersPage) submitCmd(c *api.Client) tea.Cmd {
	d := p.draft()
	id := p.editingID
	p.busy = true
	return func() tea.Msg {
		var err error
		if !id.IsZero() {
			_, err = c.UpdateUser(context.Background(), id, d)
		} else {
			_, err = c.CreateUser(context.Background(), d)
		}
		return userSavedMsg{updated: !id.IsZero(), err: err}
	}
}

func (p *usersPage) deleteCmd(c *api.Client, id model.ID) tea.Cmd {
	p.busy = true
	return func() tea.Msg {
		return userDeletedMsg{err: c.DeleteUser(context.Background(), id)}
	}
}

// beginEdit copies the selected entity's editable fields into the draft. The
// copy comes from the in-memory collection, not a fresh fetch: last write
// wins, no freshness check.
func (p *usersPage) beginEdit(u model.User) {
	p.name.SetValue(u.Name)
	p.email.SetValue(u.Email)
	p.roleIdx = roleIndex(u.DisplayRole())
	p.editingID = u.ID
	p.setFocus(usersFocusName)
}

func (p *usersPage) resetDraft() {
	p.name.SetValue("")
	p.email.SetValue("")
	p.roleIdx = 0
	p.editingID = ""
}

func (p *usersPage) selected() (model.User, bool) {
	if p.cursor < 0 || p.cursor >= len(p.view) {
		return model.User{}, false
	}
	return p.view[p.cursor], true
}

func (p *usersPage) setFocus(f usersFocus) {
	p.focus = f
	p.search.Blur()
	p.name.Blur()
	p.email.Blur()
	switch f {
	case usersFocusSearch:
		p.search.Focus()
	case usersFocusName:
		p.name.Focus()
	case usersFocusEmail:
		p.email.Focus()
	}
}

func (p *usersPage) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case usersFocusSearch:
		p.search, cmd = p.search.Update(msg)
	case usersFocusName:
		p.name, cmd = p.name.Update(msg)
	case usersFocusEmail:
		p.email, cmd = p.email.Update(msg)
	}
	return cmd
}

func roleIndex(r model.Role) int {
	for i, candidate := range model.Roles() {
		if candidate == r {
			return i
		}
	}
	return 0
}

func clampCursor(cur, n int) int {
	if cur >= n {
		cur = n - 1
	}
	if cur < 0 {
		cur = 0
	}
	return cur
}

func (m appModel) updateUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.users
	key := msg.String()

	switch p.focus {
	case usersFocusList:
		if next, cmd, ok := m.handleNavKey(key); ok {
			return next, cmd
		}
		switch key {
		case "up", "k":
			p.cursor = clampCursor(p.cursor-1, len(p.view))
			return m, nil
		case "down", "j":
			p.cursor = clampCursor(p.cursor+1, len(p.view))
			return m, nil
		case "/":
			p.setFocus(usersFocusSearch)
			return m, textinput.Blink
		case "n":
			p.resetDraft()
			p.setFocus(usersFocusName)
			return m, textinput.Blink
		case "e":
			if u, ok := p.selected(); ok {
				p.beginEdit(u)
				return m, textinput.Blink
			}
			return m, nil
		case "d":
			if u, ok := p.selected(); ok {
				id := u.ID
				m.confirm = &confirmState{
					title: "Delete user",
					body:  "Are you sure you want to delete this user?",
					focus: confirmFocusCancel,
					accept: func(a *appModel) tea.Cmd {
						return a.users.deleteCmd(a.client, id)
					},
				}
			}
			return m, nil
		case "r":
			m.client.Invalidate(api.ResourceUsers)
			return m, p.refreshCmd(m.client)
		case "esc":
			if strings.TrimSpace(p.search.Value()) != "" {
				p.search.SetValue("")
				p.applyFilter()
			}
			return m, nil
		}
		return m, nil

	case usersFocusSearch:
		switch key {
		case "esc", "enter":
			p.setFocus(usersFocusList)
			return m, nil
		}
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		p.applyFilter()
		return m, cmd

	default: // form fields
		switch key {
		case "esc":
			p.resetDraft()
			p.setFocus(usersFocusList)
			return m, nil
		case "tab":
			p.setFocus(nextUsersFormFocus(p.focus))
			return m, textinput.Blink
		case "shift+tab":
			p.setFocus(prevUsersFormFocus(p.focus))
			return m, textinput.Blink
		case "enter":
			if p.busy {
				return m, nil
			}
			if strings.TrimSpace(p.name.Value()) == "" || strings.TrimSpace(p.email.Value()) == "" {
				return m, m.postNotice(noticeError, "Name and email are required")
			}
			return m, p.submitCmd(m.client)
		}
		if p.focus == usersFocusRole {
			switch key {
			case "left", "h":
				p.roleIdx = (p.roleIdx + len(model.Roles()) - 1) % len(model.Roles())
			case "right", "l", " ":
				p.roleIdx = (p.roleIdx + 1) % len(model.Roles())
			}
			return m, nil
		}
		var cmd tea.Cmd
		switch p.focus {
		case usersFocusName:
			p.name, cmd = p.name.Update(msg)
		case usersFocusEmail:
			p.email, cmd = p.email.Update(msg)
		}
		return m, cmd
	}
}

func nextUsersFormFocus(f usersFocus) usersFocus {
	switch f {
	case usersFocusName:
		return usersFocusEmail
	case usersFocusEmail:
		return usersFocusRole
	default:
		return usersFocusName
	}
}

func prevUsersFormFocus(f usersFocus) usersFocus {
	switch f {
	case usersFocusName:
		return usersFocusRole
	case usersFocusRole:
		return usersFocusEmail
	default:
		return usersFocusName
	}
}

func (m appModel) handleUsersLoaded(msg usersLoadedMsg) (tea.Model, tea.Cmd) {
	p := &m.users
	p.busy = false
	if msg.err != nil {
		// Prior collection and view stay untouched.
		return m, m.postNotice(noticeError, "Failed to fetch users")
	}
	p.collection = msg.users
	p.applyFilter()
	return m, nil
}

func (m appModel) handleUserSaved(msg userSavedMsg) (tea.Model, tea.Cmd) {
	p := &m.users
	p.busy = false
	if msg.err != nil {
		// Draft and editing marker stay as they were so the user can retry.
		return m, m.postNotice(noticeError, apiMessage(msg.err, "An error occurred"))
	}
	text := "User added successfully"
	if msg.updated {
		text = "User updated successfully"
	}
	p.resetDraft()
	p.setFocus(usersFocusList)
	return m, tea.Batch(m.postNotice(noticeInfo, text), p.refreshCmd(m.client))
}

func (m appModel) handleUserDeleted(msg userDeletedMsg) (tea.Model, tea.Cmd) {
	p := &m.users
	p.busy = false
	if msg.err != nil {
		return m, m.postNotice(noticeError, "Failed to delete user")
	}
	return m, tea.Batch(m.postNotice(noticeInfo, "User deleted successfully"), p.refreshCmd(m.client))
}

func (m appModel) usersView(w, h int) string {
	p := m.users
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Render("User Management")
	searchLabel := "/"
	if p.focus == usersFocusSearch {
		searchLabel = glyphPointer()
	}
	b.WriteString(title + "   " + styleMuted().Render(searchLabel+" ") + renderInputLine(32, p.search.View()) + "\n\n")

	// Add/Edit form.
	formTitle := "Add New User"
	if !p.editingID.IsZero() {
		formTitle = "Edit User"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(formTitle) + "\n")
	b.WriteString(renderField("Full Name    ", p.focus == usersFocusName, renderInputLine(p.name.Width+2, p.name.View())) + "\n")
	b.WriteString(renderField("Email Address", p.focus == usersFocusEmail, renderInputLine(p.email.Width+2, p.email.View())) + "\n")
	b.WriteString(renderField("Role         ", p.focus == usersFocusRole, renderSelect(string(model.Roles()[p.roleIdx]), p.focus == usersFocusRole)) + "\n\n")

	// Users table.
	listH := h - 9
	if listH < 3 {
		listH = 3
	}
	switch {
	case p.busy && len(p.view) == 0:
		b.WriteString(m.loadingView(w, listH))
	case len(p.view) == 0:
		empty := "No users found"
		if strings.TrimSpace(p.search.Value()) != "" {
			empty = "No users match your search"
		}
		b.WriteString(styleMuted().Render(empty))
	default:
		nameW := (w - 14) / 2
		emailW := w - 14 - nameW
		header := styleMuted().Render(padCell("NAME", nameW) + padCell("EMAIL", emailW) + "ROLE")
		b.WriteString(header + "\n")
		rows := visibleRange(len(p.view), p.cursor, listH-1)
		for _, i := range rows {
			u := p.view[i]
			role := string(u.DisplayRole())
			line := padCell(u.Name, nameW) + padCell(u.Email, emailW) +
				lipgloss.NewStyle().Foreground(roleColor(role)).Render(role)
			if i == p.cursor && p.focus == usersFocusList {
				line = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Render(
					truncate(padCell(u.Name, nameW)+padCell(u.Email, emailW)+role, w-2))
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// padCell pads or truncates a table cell to exactly w columns plus a gap.
func padCell(s string, w int) string {
	s = truncate(s, w-2)
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}

// visibleRange returns the window of indexes to draw so the cursor stays on
// screen in long lists.
func visibleRange(n, cursor, height int) []int {
	if height <= 0 || n == 0 {
		return nil
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > n {
		end = n
	}
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}
