package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pablasso/calplan/internal/tui/styles"
)

// StatusBar renders a bottom help bar showing contextual key hints and an
// optional right-aligned note.
type StatusBar struct{}

// NewStatusBar creates a new StatusBar instance.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// Render returns the status bar for the given width. Items are joined with
// " • ". When note is set it is right-aligned; hints are truncated to make
// room for it.
func (s StatusBar) Render(width int, items []string, note string) string {
	content := strings.Join(items, " • ")
	if note == "" {
		return styles.StatusBarStyle.Width(width).Render(ansi.Truncate(content, width, "…"))
	}

	noteWidth := lipgloss.Width(note)
	room := width - noteWidth - 1
	if room < 0 {
		return ansi.Truncate(note, width, "…")
	}
	left := ansi.Truncate(content, room, "…")
	gap := strings.Repeat(" ", max(width-lipgloss.Width(left)-noteWidth, 1))
	return styles.StatusBarStyle.Render(left) + gap + note
}

// Hints formats enabled key bindings as status bar items.
func Hints(bindings ...key.Binding) []string {
	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		items = append(items, h.Key+" "+h.Desc)
	}
	return items
}
