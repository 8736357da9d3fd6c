package tui

import (
	"context"
	"strings"

	"admindash/internal/api"
	"admindash/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tasksFocus int

const (
	tasksFocusList tasksFocus = iota
	tasksFocusTitle
	tasksFocusDescription
	tasksFocusStatus
	tasksFocusPriority
	tasksFocusDue
)

const filterAll = "all"

type tasksPage struct {
	collection []model.Task
	view       []model.Task

	title       textinput.Model
	description textarea.Model
	statusIdx   int
	priorityIdx int
	due         textinput.Model

	// filterStatus is "all" or one of the status values; it survives
	// refreshes and is reapplied to every newly fetched collection.
	filterStatus string

	editingID model.ID
	busy      bool
	cursor    int
	focus     tasksFocus
	width     int
}

func newTasksPage() tasksPage {
	p := tasksPage{filterStatus: filterAll, priorityIdx: 1}

	p.title = textinput.New()
	p.title.Placeholder = "Enter task title"
	p.title.CharLimit = 200
	p.title.Width = 40

	p.description = textarea.New()
	p.description.Placeholder = "Enter task description"
	p.description.CharLimit = 0
	p.description.SetWidth(48)
	p.description.SetHeight(3)
	p.description.ShowLineNumbers = false

	p.due = textinput.New()
	p.due.Placeholder = "YYYY-MM-DD"
	p.due.CharLimit = 10
	p.due.Width = 12

	return p
}

func (p *tasksPage) resize(w int) {
	p.width = w
	inputW := w - 22
	if inputW < 20 {
		inputW = 20
	}
	p.title.Width = inputW
	p.description.SetWidth(inputW)
}

func (p *tasksPage) applyFilter() {
	if p.filterStatus == filterAll {
		p.view = p.collection
	} else {
		filtered := make([]model.Task, 0, len(p.collection))
		for _, t := range p.collection {
			if string(t.Status) == p.filterStatus {
				filtered = append(filtered, t)
			}
		}
		p.view = filtered
	}
	p.cursor = clampCursor(p.cursor, len(p.view))
}

func (p *tasksPage) cycleFilter() {
	order := []string{filterAll, string(model.StatusTodo), string(model.StatusInProgress), string(model.StatusDone)}
	for i, s := range order {
		if s == p.filterStatus {
			p.filterStatus = order[(i+1)%len(order)]
			p.applyFilter()
			return
		}
	}
	p.filterStatus = filterAll
	p.applyFilter()
}

func (p *tasksPage) refreshCmd(c *api.Client) tea.Cmd {
	p.busy = true
	return func() tea.Msg {
		tasks, err := c.ListTasks(context.Background())
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (p *tasksPage) draft() model.TaskDraft {
	return model.TaskDraft{
		Title:       p.title.Value(),
		Description: p.description.Value(),
		Status:      model.Statuses()[p.statusIdx],
		Priority:    model.Priorities()[p.priorityIdx],
		DueDate:     p.due.Value(),
	}
}

func (p *tasksPage) submitCmd(c *api.Client) tea.Cmd {
	d := p.draft()
	id := p.editingID
	p.busy = true
	return func() tea.Msg {
		var err error
		if !id.IsZero() {
			_, err = c.UpdateTask(context.Background(), id, d)
		} else {
			_, err = c.CreateTask(context.Background(), d)
		}
		return taskSavedMsg{updated: !id.IsZero(), err: err}
	}
}

func (p *tasksPage) deleteCmd(c *api.Client, id model.ID) tea.Cmd {
	p.busy = true
	return func() tea.Msg {
		return taskDeletedMsg{err: c.DeleteTask(context.Background(), id)}
	}
}

// setStatusCmd patches the status field only, outside the draft flow. It
// deliberately does not hold the busy flag, matching the quick actions.
func (p *tasksPage) setStatusCmd(c *api.Client, id model.ID, s model.Status) tea.Cmd {
	return func() tea.Msg {
		_, err := c.SetTaskStatus(context.Background(), id, s)
		return taskStatusSetMsg{err: err}
	}
}

func (p *tasksPage) beginEdit(t model.Task) {
	p.title.SetValue(t.Title)
	p.description.SetValue(t.Description)
	p.statusIdx = statusIndex(t.Status)
	p.priorityIdx = priorityIndex(t.DisplayPriority())
	p.due.SetValue(t.DueDate)
	p.editingID = t.ID
	p.setFocus(tasksFocusTitle)
}

func (p *tasksPage) resetDraft() {
	p.title.SetValue("")
	p.description.SetValue("")
	p.statusIdx = 0
	p.priorityIdx = priorityIndex(model.PriorityMedium)
	p.due.SetValue("")
	p.editingID = ""
}

func (p *tasksPage) selected() (model.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.view) {
		return model.Task{}, false
	}
	return p.view[p.cursor], true
}

func (p *tasksPage) setFocus(f tasksFocus) {
	p.focus = f
	p.title.Blur()
	p.description.Blur()
	p.due.Blur()
	switch f {
	case tasksFocusTitle:
		p.title.Focus()
	case tasksFocusDescription:
		p.description.Focus()
	case tasksFocusDue:
		p.due.Focus()
	}
}

func (p *tasksPage) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case tasksFocusTitle:
		p.title, cmd = p.title.Update(msg)
	case tasksFocusDescription:
		p.description, cmd = p.description.Update(msg)
	case tasksFocusDue:
		p.due, cmd = p.due.Update(msg)
	}
	return cmd
}

func statusIndex(s model.Status) int {
	for i, candidate := range model.Statuses() {
		if candidate == s {
			return i
		}
	}
	return 0
}

func priorityIndex(pr model.Priority) int {
	for i, candidate := range model.Priorities() {
		if candidate == pr {
			return i
		}
	}
	return 1
}

// nextStatus/prevStatus step through the todo -> in-progress -> done cycle
// in either direction, so with only three statuses every other status is a
// single keypress away.
func nextStatus(s model.Status) model.Status {
	switch s {
	case model.StatusTodo:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

func prevStatus(s model.Status) model.Status {
	switch s {
	case model.StatusDone:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusTodo
	default:
		return model.StatusDone
	}
}

func (m appModel) updateTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.tasks
	key := msg.String()

	switch p.focus {
	case tasksFocusList:
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
		case "f":
			p.cycleFilter()
			return m, nil
		case "m":
			if t, ok := p.selected(); ok {
				return m, p.setStatusCmd(m.client, t.ID, nextStatus(t.Status))
			}
			return m, nil
		case "M":
			if t, ok := p.selected(); ok {
				return m, p.setStatusCmd(m.client, t.ID, prevStatus(t.Status))
			}
			return m, nil
		case "n":
			p.resetDraft()
			p.setFocus(tasksFocusTitle)
			return m, textinput.Blink
		case "e":
			if t, ok := p.selected(); ok {
				p.beginEdit(t)
				return m, textinput.Blink
			}
			return m, nil
		case "d":
			if t, ok := p.selected(); ok {
				id := t.ID
				m.confirm = &confirmState{
					title: "Delete task",
					body:  "Are you sure you want to delete this task?",
					focus: confirmFocusCancel,
					accept: func(a *appModel) tea.Cmd {
						return a.tasks.deleteCmd(a.client, id)
					},
				}
			}
			return m, nil
		case "r":
			m.client.Invalidate(api.ResourceTasks)
			return m, p.refreshCmd(m.client)
		}
		return m, nil

	default: // form fields
		switch key {
		case "esc":
			p.resetDraft()
			p.setFocus(tasksFocusList)
			return m, nil
		case "tab":
			p.setFocus(nextTasksFormFocus(p.focus))
			return m, textinput.Blink
		case "shift+tab":
			p.setFocus(prevTasksFormFocus(p.focus))
			return m, textinput.Blink
		case "ctrl+s":
			return m.submitTaskDraft()
		case "enter":
			// The description field needs enter for newlines; everywhere
			// else it submits.
			if p.focus != tasksFocusDescription {
				return m.submitTaskDraft()
			}
		}
		switch p.focus {
		case tasksFocusStatus:
			switch key {
			case "left", "h":
				p.statusIdx = (p.statusIdx + len(model.Statuses()) - 1) % len(model.Statuses())
			case "right", "l", " ":
				p.statusIdx = (p.statusIdx + 1) % len(model.Statuses())
			}
			return m, nil
		case tasksFocusPriority:
			switch key {
			case "left", "h":
				p.priorityIdx = (p.priorityIdx + len(model.Priorities()) - 1) % len(model.Priorities())
			case "right", "l", " ":
				p.priorityIdx = (p.priorityIdx + 1) % len(model.Priorities())
			}
			return m, nil
		}
		return m, p.forward(msg)
	}
}

func (m appModel) submitTaskDraft() (tea.Model, tea.Cmd) {
	p := &m.tasks
	if p.busy {
		return m, nil
	}
	if strings.TrimSpace(p.title.Value()) == "" {
		return m, m.postNotice(noticeError, "Task title is required")
	}
	return m, p.submitCmd(m.client)
}

func nextTasksFormFocus(f tasksFocus) tasksFocus {
	switch f {
	case tasksFocusTitle:
		return tasksFocusDescription
	case tasksFocusDescription:
		return tasksFocusStatus
	case tasksFocusStatus:
		return tasksFocusPriority
	case tasksFocusPriority:
		return tasksFocusDue
	default:
		return tasksFocusTitle
	}
}

func prevTasksFormFocus(f tasksFocus) tasksFocus {
	switch f {
	case tasksFocusTitle:
		return tasksFocusDue
	case tasksFocusDue:
		return tasksFocusPriority
	case tasksFocusPriority:
		return tasksFocusStatus
	case tasksFocusStatus:
		return tasksFocusDescription
	default:
		return tasksFocusTitle
	}
}

func (m appModel) handleTasksLoaded(msg tasksLoadedMsg) (tea.Model, tea.Cmd) {
	p := &m.tasks
	p.busy = false
	if msg.err != nil {
		return m, m.postNotice(noticeError, "Failed to fetch tasks")
	}
	p.collection = msg.tasks
	p.applyFilter()
	return m, nil
}

func (m appModel) handleTaskSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	p := &m.tasks
	p.busy = false
	if msg.err != nil {
		return m, m.postNotice(noticeError, apiMessage(msg.err, "An error occurred"))
	}
	text := "Task added successfully"
	if msg.updated {
		text = "Task updated successfully"
	}
	p.resetDraft()
	p.setFocus(tasksFocusList)
	return m, tea.Batch(m.postNotice(noticeInfo, text), p.refreshCmd(m.client))
}

func (m appModel) handleTaskDeleted(msg taskDeletedMsg) (tea.Model, tea.Cmd) {
	p := &m.tasks
	p.busy = false
	if msg.err != nil {
		return m, m.postNotice(noticeError, "Failed to delete task")
	}
	return m, tea.Batch(m.postNotice(noticeInfo, "Task deleted successfully"), p.refreshCmd(m.client))
}

func (m appModel) handleTaskStatusSet(msg taskStatusSetMsg) (tea.Model, tea.Cmd) {
	p := &m.tasks
	if msg.err != nil {
		return m, m.postNotice(noticeError, "Failed to update task status")
	}
	return m, tea.Batch(m.postNotice(noticeInfo, "Task status updated"), p.refreshCmd(m.client))
}

func (m appModel) tasksView(w, h int) string {
	p := m.tasks
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Render("Task Management")
	b.WriteString(title + "   " + renderFilterTabs(p.filterStatus) + "\n\n")

	formTitle := "Add New Task"
	if !p.editingID.IsZero() {
		formTitle = "Edit Task"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(formTitle) + "\n")
	b.WriteString(renderField("Title      ", p.focus == tasksFocusTitle, renderInputLine(p.title.Width+2, p.title.View())) + "\n")
	descView := p.description.View()
	if p.focus != tasksFocusDescription {
		descView = firstLine(p.description.Value())
		if descView == "" {
			descView = styleMuted().Render("(no description)")
		}
	}
	b.WriteString(renderField("Description", p.focus == tasksFocusDescription, descView) + "\n")
	b.WriteString(renderField("Status     ", p.focus == tasksFocusStatus, renderSelect(model.Statuses()[p.statusIdx].Label(), p.focus == tasksFocusStatus)) + "\n")
	b.WriteString(renderField("Priority   ", p.focus == tasksFocusPriority, renderSelect(string(model.Priorities()[p.priorityIdx]), p.focus == tasksFocusPriority)) + "\n")
	b.WriteString(renderField("Due Date   ", p.focus == tasksFocusDue, renderInputLine(14, p.due.View())) + "\n\n")

	listH := h - 12
	if listH < 3 {
		listH = 3
	}
	switch {
	case p.busy && len(p.view) == 0:
		b.WriteString(m.loadingView(w, listH))
	case len(p.view) == 0:
		empty := "No tasks found"
		if p.filterStatus != filterAll {
			empty = "No " + strings.ReplaceAll(p.filterStatus, "-", " ") + " tasks"
		}
		b.WriteString(styleMuted().Render(empty))
	default:
		previewH := 4
		rows := visibleRange(len(p.view), p.cursor, listH-previewH)
		for _, i := range rows {
			b.WriteString(renderTaskLine(p.view[i], w, i == p.cursor && p.focus == tasksFocusList) + "\n")
		}
		if t, ok := p.selected(); ok && strings.TrimSpace(t.Description) != "" {
			b.WriteString("\n" + renderMarkdown(t.Description, w-4))
		}
	}

	return b.String()
}

func renderFilterTabs(active string) string {
	tabs := []struct {
		key   string
		label string
	}{
		{filterAll, "All"},
		{string(model.StatusTodo), "To Do"},
		{string(model.StatusInProgress), "In Progress"},
		{string(model.StatusDone), "Done"},
	}
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		if tab.key == active {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(colorSelectedFg).
				Background(colorSelectedBg).
				Bold(true).
				Padding(0, 1).
				Render(tab.label))
			continue
		}
		parts = append(parts, styleMuted().Padding(0, 1).Render(tab.label))
	}
	return strings.Join(parts, " ")
}

func renderTaskLine(t model.Task, w int, selected bool) string {
	status := string(t.Status)
	parts := []string{
		lipgloss.NewStyle().Foreground(statusColor(status)).Render(glyphStatus(status) + " " + t.Status.Label()),
		lipgloss.NewStyle().Foreground(priorityColor(string(t.DisplayPriority()))).Render(string(t.DisplayPriority())),
	}
	if t.DueDate != "" {
		parts = append(parts, styleMuted().Render("Due: "+t.DueDate))
	}
	line := truncate(t.Title, w/2) + "  " + strings.Join(parts, "  ")
	if selected {
		return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Render(truncate(line, w-2))
	}
	return line
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
