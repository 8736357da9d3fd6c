package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	sidebarWidth = 26
	minContentW  = 40
	maxModalW    = 64
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines. Split rendering with lipgloss.JoinHorizontal stays stable only when
// both panes are rectangular.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			if width <= 1 {
				ln = xansi.Cut(ln, 0, width)
			} else {
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most width columns, ANSI-aware, with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

func modalWidth(termW int) int {
	w := termW - 8
	if w > maxModalW {
		w = maxModalW
	}
	if w < 30 {
		w = 30
	}
	return w
}

func modalBodyWidth(termW int) int {
	return modalWidth(termW) - 4
}

// renderModalBox draws a titled box for modal content. Borders are avoided
// inside the box: some terminals show background artifacts when nesting
// bordered components on a colored surface.
func renderModalBox(termW int, title, content string) string {
	w := modalWidth(termW)
	header := lipgloss.NewStyle().
		Bold(true).
		Background(colorControlBg).
		Foreground(colorSurfaceFg).
		Width(w-2).
		Padding(0, 1).
		Render(title)
	body := lipgloss.NewStyle().
		Width(w-2).
		Padding(0, 1).
		Render(content)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Render(header + "\n" + body)
}

// overlayCentered places the modal over a dimmed content area.
func overlayCentered(w, h int, modal string) string {
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, modal)
}
