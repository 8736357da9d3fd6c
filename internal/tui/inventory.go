package tui

import (
	"context"
	"strconv"
	"strings"

	"admindash/internal/api"
	"admindash/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type inventoryFocus int

const (
	inventoryFocusList inventoryFocus = iota
	inventoryFocusName
	inventoryFocusQuantity
)

type inventoryPage struct {
	collection []model.InventoryItem
	// view mirrors collection: the inventory page has no filter predicate.
	view []model.InventoryItem

	name     textinput.Model
	quantity textinput.Model

	editingID model.ID
	busy      bool
	cursor    int
	focus     inventoryFocus
	width     int
}

func newInventoryPage() inventoryPage {
	p := inventoryPage{}

	p.name = textinput.New()
	p.name.Placeholder = "Item Name"
	p.name.CharLimit = 100
	p.name.Width = 32

	p.quantity = textinput.New()
	p.quantity.Placeholder = "Quantity"
	p.quantity.CharLimit = 12
	p.quantity.Width = 12

	return p
}

func (p *inventoryPage) resize(w int) {
	p.width = w
	inputW := w - 20
	if inputW < 16 {
		inputW = 16
	}
	p.name.Width = inputW
}

func (p *inventoryPage) applyFilter() {
	p.view = p.collection
	p.cursor = clampCursor(p.cursor, len(p.view))
}

func (p *inventoryPage) refreshCmd(c *api.Client) tea.Cmd {
	p.busy = true
	return func() tea.Msg {
		items, err := c.ListInventory(context.Background())
		return itemsLoadedMsg{items: items, err: err}
	}
}

// draft builds the request body. Quantity goes through loose integer
// parsing; a value with no leading digits is sent as null, unguarded.
func (p *inventoryPage) draft() model.ItemDraft {
	return model.ItemDraft{
		Name:     p.name.Value(),
		Quantity: model.ParseQuantity(p.quantity.Value()),
	}
}

func (p *inventoryPage) submitCmd(c *api.Client) tea.Cmd {
	d := p.draft()
	id := p.editingID
	p.busy = true
	return func() tea.Msg {
		var err error
		if !id.IsZero() {
			_, err = c.UpdateItem(context.Background(), id, d)
		} else {
			_, err = c.CreateItem(context.Background(), d)
		}
		return itemSavedMsg{updated: !id.IsZero(), err: err}
	}
}

func (p *inventoryPage) deleteCmd(c *api.Client, id model.ID) tea.Cmd {
	p.busy = true
	return func() tea.Msg {
		return itemDeletedMsg{err: c.DeleteItem(context.Background(), id)}
	}
}

func (p *inventoryPage) beginEdit(it model.InventoryItem) {
	p.name.SetValue(it.Name)
	p.quantity.SetValue(strconv.Itoa(it.Quantity))
	p.editingID = it.ID
	p.setFocus(inventoryFocusName)
}

func (p *inventoryPage) resetDraft() {
	p.name.SetValue("")
	p.quantity.SetValue("")
	p.editingID = ""
}

func (p *inventoryPage) selected() (model.InventoryItem, bool) {
	if p.cursor < 0 || p.cursor >= len(p.view) {
		return model.InventoryItem{}, false
	}
	return p.view[p.cursor], true
}

func (p *inventoryPage) setFocus(f inventoryFocus) {
	p.focus = f
	p.name.Blur()
	p.quantity.Blur()
	switch f {
	case inventoryFocusName:
		p.name.Focus()
	case inventoryFocusQuantity:
		p.quantity.Focus()
	}
}

func (p *inventoryPage) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case inventoryFocusName:
		p.name, cmd = p.name.Update(msg)
	case inventoryFocusQuantity:
		p.quantity, cmd = p.quantity.Update(msg)
	}
	return cmd
}

func (m appModel) updateInventoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.inv
	key := msg.String()

	switch p.focus {
	case inventoryFocusList:
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
		case "n":
			p.resetDraft()
			p.setFocus(inventoryFocusName)
			return m, textinput.Blink
		case "e":
			if it, ok := p.selected(); ok {
				p.beginEdit(it)
				return m, textinput.Blink
			}
			return m, nil
		case "d":
			if it, ok := p.selected(); ok {
				id := it.ID
				m.confirm = &confirmState{
					title: "Delete item",
					body:  "Are you sure?",
					focus: confirmFocusCancel,
					accept: func(a *appModel) tea.Cmd {
						return a.inv.deleteCmd(a.client, id)
					},
				}
			}
			return m, nil
		case "r":
			m.client.Invalidate(api.ResourceInventory)
			return m, p.refreshCmd(m.client)
		}
		return m, nil

	default:
		switch key {
		case "esc":
			p.resetDraft()
			p.setFocus(inventoryFocusList)
			return m, nil
		case "tab":
			if p.focus == inventoryFocusName {
				p.setFocus(inventoryFocusQuantity)
			} else {
				p.setFocus(inventoryFocusName)
			}
			return m, textinput.Blink
		case "shift+tab":
			if p.focus == inventoryFocusQuantity {
				p.setFocus(inventoryFocusName)
			} else {
				p.setFocus(inventoryFocusQuantity)
			}
			return m, textinput.Blink
		case "enter":
			if p.busy {
				return m, nil
			}
			if strings.TrimSpace(p.name.Value()) == "" || strings.TrimSpace(p.quantity.Value()) == "" {
				return m, m.postNotice(noticeError, "Name and quantity are required")
			}
			return m, p.submitCmd(m.client)
		}
		return m, p.forward(msg)
	}
}

func (m appModel) handleItemsLoaded(msg itemsLoadedMsg) (tea.Model, tea.Cmd) {
	p := &m.inv
	p.busy = false
	if msg.err != nil {
		return m, m.postNotice(noticeError, "Failed to fetch items")
	}
	p.collection = msg.items
	p.applyFilter()
	return m, nil
}

func (m appModel) handleItemSaved(msg itemSavedMsg) (tea.Model, tea.Cmd) {
	p := &m.inv
	p.busy = false
	if msg.err != nil {
		return m, m.postNotice(noticeError, apiMessage(msg.err, "Something went wrong"))
	}
	text := "Item added"
	if msg.updated {
		text = "Item updated"
	}
	p.resetDraft()
	p.setFocus(inventoryFocusList)
	return m, tea.Batch(m.postNotice(noticeInfo, text), p.refreshCmd(m.client))
}

func (m appModel) handleItemDeleted(msg itemDeletedMsg) (tea.Model, tea.Cmd) {
	p := &m.inv
	p.busy = false
	if msg.err != nil {
		return m, m.postNotice(noticeError, "Delete failed")
	}
	return m, tea.Batch(m.postNotice(noticeInfo, "Item deleted"), p.refreshCmd(m.client))
}

func (m appModel) inventoryView(w, h int) string {
	p := m.inv
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Inventory") + "\n\n")

	formTitle := "Add Item"
	if !p.editingID.IsZero() {
		formTitle = "Update Item"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(formTitle) + "\n")
	b.WriteString(renderField("Name    ", p.focus == inventoryFocusName, renderInputLine(p.name.Width+2, p.name.View())) + "\n")
	b.WriteString(renderField("Quantity", p.focus == inventoryFocusQuantity, renderInputLine(14, p.quantity.View())) + "\n\n")

	listH := h - 7
	if listH < 3 {
		listH = 3
	}
	// This page has no loading state: an empty table reads "No items found"
	// even while the first fetch is in flight.
	switch {
	case len(p.view) == 0:
		b.WriteString(styleMuted().Render("No items found"))
	default:
		nameW := w - 14
		b.WriteString(styleMuted().Render(padCell("NAME", nameW)+"QUANTITY") + "\n")
		rows := visibleRange(len(p.view), p.cursor, listH-1)
		for _, i := range rows {
			it := p.view[i]
			line := padCell(it.Name, nameW) + strconv.Itoa(it.Quantity)
			if i == p.cursor && p.focus == inventoryFocusList {
				line = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Render(truncate(line, w-2))
			}
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}
