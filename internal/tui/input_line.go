package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine renders a textinput view as exactly one visual line of
// bodyW columns. Stray newlines or ANSI overflow from the input's cursor
// styling would otherwise wrap and look like inserted lines while typing.
func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}

	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Never exceed the row width; terminate styling to prevent bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

// renderField renders a labelled form row, marking the focused field.
func renderField(label string, focused bool, content string) string {
	marker := "  "
	if focused {
		marker = glyphPointer() + " "
	}
	st := styleMuted()
	if focused {
		st = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	}
	return marker + st.Render(label) + " " + content
}

// renderSelect renders a cycling select control ("< value >").
func renderSelect(value string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("< " + value + " >")
	}
	return "  " + value
}
