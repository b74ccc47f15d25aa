package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// ScrollViewport wraps bubbles/viewport.Model for top-anchored lists: it
// keeps a cursor line in view and renders a scrollbar column.
type ScrollViewport struct {
	viewport viewport.Model
	lines    []string
	width    int // total width including scrollbar
	height   int
}

// NewScrollViewport creates a ScrollViewport. The width includes 1 column
// for the scrollbar; the content area is width-1.
func NewScrollViewport(width, height int) ScrollViewport {
	vp := viewport.New(max(width-1, 0), max(height, 0))
	vp.SetContent("")

	return ScrollViewport{
		viewport: vp,
		width:    width,
		height:   max(height, 0),
	}
}

// SetSize updates the dimensions, keeping the scroll offset in range.
func (s *ScrollViewport) SetSize(width, height int) {
	if s.width == width && s.height == height {
		return
	}

	s.width = width
	s.height = max(height, 0)
	s.viewport.Width = s.ContentWidth()
	s.viewport.Height = s.height

	s.viewport.SetContent(strings.Join(s.lines, "\n"))
	s.viewport.SetYOffset(s.viewport.YOffset)
}

// SetLines replaces the content. Lines wider than the content area are
// truncated. The scroll offset is kept, clamped to the new content.
func (s *ScrollViewport) SetLines(lines []string) {
	w := s.ContentWidth()
	s.lines = make([]string, len(lines))
	for i, l := range lines {
		s.lines[i] = ansi.Truncate(l, w, "…")
	}

	s.viewport.SetContent(strings.Join(s.lines, "\n"))
	s.viewport.SetYOffset(s.viewport.YOffset)
}

// Update handles viewport key and mouse wheel events.
func (s *ScrollViewport) Update(msg tea.Msg) (ScrollViewport, tea.Cmd) {
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return *s, cmd
}

// View renders the visible lines with a 1-column scrollbar on the right.
func (s ScrollViewport) View() string {
	if s.height == 0 {
		return ""
	}
	contentLines := strings.Split(s.viewport.View(), "\n")
	scrollbarLines := strings.Split(RenderScrollbar(s.height, len(s.lines), s.viewport.YOffset), "\n")
	contentWidth := s.ContentWidth()

	var b strings.Builder
	for i := 0; i < s.height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}

		cl := ""
		if i < len(contentLines) {
			cl = contentLines[i]
		}
		b.WriteString(cl)
		// Pad so the scrollbar aligns.
		if pad := contentWidth - ansi.StringWidth(cl); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		if i < len(scrollbarLines) {
			b.WriteString(scrollbarLines[i])
		}
	}

	return b.String()
}

// ContentWidth returns the width available for content.
func (s ScrollViewport) ContentWidth() int {
	return max(s.width-1, 0)
}

// YOffset returns the index of the first visible line.
func (s ScrollViewport) YOffset() int {
	return s.viewport.YOffset
}

// LineAt maps a row within the viewport to a content line index. It
// reports false for rows past the end of the content.
func (s ScrollViewport) LineAt(row int) (int, bool) {
	if row < 0 || row >= s.height {
		return 0, false
	}
	i := s.viewport.YOffset + row
	if i >= len(s.lines) {
		return 0, false
	}
	return i, true
}

// GotoTop scrolls to the first line.
func (s *ScrollViewport) GotoTop() {
	s.viewport.GotoTop()
}

// EnsureVisible scrolls the minimum amount needed for lineIndex to be on
// screen.
func (s *ScrollViewport) EnsureVisible(lineIndex int) {
	if lineIndex < 0 || lineIndex >= len(s.lines) || s.height == 0 {
		return
	}

	top := s.viewport.YOffset
	bottom := top + s.height - 1

	if lineIndex < top {
		s.viewport.SetYOffset(lineIndex)
	} else if lineIndex > bottom {
		s.viewport.SetYOffset(lineIndex - s.height + 1)
	}
}
