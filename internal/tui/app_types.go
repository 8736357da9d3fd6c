package tui

import (
	"admindash/internal/api"
	"admindash/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
	viewUsers
	viewTasks
	viewInventory
)

func viewToString(v view) string {
	switch v {
	case viewLogin:
		return "login"
	case viewDashboard:
		return "dashboard"
	case viewUsers:
		return "users"
	case viewTasks:
		return "tasks"
	case viewInventory:
		return "inventory"
	default:
		return "unknown"
	}
}

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeError
)

type noticeDoneMsg struct{ seq int }

// Aggregate fetch results (dashboard cards / sidebar badges).
type statsMsg struct {
	stats api.Stats
	err   error
}

type countsMsg struct {
	counts api.Counts
	err    error
}

// Users page results.
type usersLoadedMsg struct {
	users []model.User
	err   error
}

type userSavedMsg struct {
	updated bool
	err     error
}

type userDeletedMsg struct{ err error }

// Tasks page results.
type tasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

type taskSavedMsg struct {
	updated bool
	err     error
}

type taskDeletedMsg struct{ err error }

type taskStatusSetMsg struct{ err error }

// Inventory page results.
type itemsLoadedMsg struct {
	items []model.InventoryItem
	err   error
}

type itemSavedMsg struct {
	updated bool
	err     error
}

type itemDeletedMsg struct{ err error }

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

// confirmState is the pending half of a two-phase destructive operation:
// requesting the action opens the modal, and only an explicit confirm runs
// the command. Declining performs no network call.
type confirmState struct {
	title  string
	body   string
	focus  confirmFocus
	accept func(m *appModel) tea.Cmd
}
