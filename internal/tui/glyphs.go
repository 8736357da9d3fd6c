package tui

import (
	"os"
	"strings"
	"sync"
)

// Terminal apps can't change the user's font, but we can choose between
// Unicode and ASCII glyph sets for the small UI affordances (status marks,
// badges, bullets). ASCII helps on fonts that render some glyphs poorly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ADMINDASH_TUI_GLYPHS")))
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphStatus(status string) string {
	if glyphs() == glyphSetASCII {
		switch status {
		case "todo":
			return "!"
		case "in-progress":
			return "~"
		default:
			return "x"
		}
	}
	switch status {
	case "todo":
		return "○"
	case "in-progress":
		return "◐"
	default:
		return "●"
	}
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphPointer() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "❯"
}
