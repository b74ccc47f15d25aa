package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/task"
	"github.com/pablasso/calplan/internal/tui/components"
	"github.com/pablasso/calplan/internal/tui/msgs"
	"github.com/pablasso/calplan/internal/tui/styles"
)

// SidebarWidth is the sidebar's width including its border.
const SidebarWidth = 34

// Sidebar row positions.
const (
	categoryTop  = 1
	timeRangeRow = 6
	searchRow    = 8
	listTop      = 11
)

// SidebarModel shows category filters with counts, the time range, a
// search box and the filtered tasks sorted by start date.
type SidebarModel struct {
	filters task.Filters
	counts  map[task.Category]int
	tasks   []task.Task

	cursor    int
	search    textinput.Model
	searching bool
	list      components.ScrollViewport

	originX int
	originY int
	width   int
	height  int
}

// NewSidebarModel creates an empty sidebar.
func NewSidebarModel() SidebarModel {
	ti := textinput.New()
	ti.Placeholder = "Search tasks"
	ti.Prompt = "/ "
	ti.CharLimit = titleCharLimit

	return SidebarModel{
		filters: task.DefaultFilters(),
		search:  ti,
		list:    components.NewScrollViewport(SidebarWidth-2, 0),
	}
}

// SetSize sets the sidebar height. The width is fixed.
func (m *SidebarModel) SetSize(height int) {
	m.width = SidebarWidth
	m.height = height
	inner := m.innerWidth()
	m.search.Width = max(inner-3, 1)
	m.list.SetSize(inner, max(height-listTop, 0))
	m.refreshList()
}

// SetOrigin sets the screen position of the sidebar's top-left corner.
func (m *SidebarModel) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// SetData replaces the filters, per-category counts and listed tasks. tasks
// should already be filtered and searched; they are listed by start date.
func (m *SidebarModel) SetData(filters task.Filters, counts map[task.Category]int, tasks []task.Task) {
	m.filters = filters
	m.counts = counts
	m.tasks = task.SortByStart(tasks)
	m.cursor = min(m.cursor, max(len(m.tasks)-1, 0))
	m.refreshList()
}

// Query returns the current search text.
func (m SidebarModel) Query() string {
	return m.search.Value()
}

// Searching reports whether the search box has focus.
func (m SidebarModel) Searching() bool {
	return m.searching
}

// FocusSearch gives the search box focus.
func (m *SidebarModel) FocusSearch() tea.Cmd {
	m.searching = true
	return m.search.Focus()
}

// MoveCursor moves the list selection by delta, clamped to the list.
func (m *SidebarModel) MoveCursor(delta int) {
	if len(m.tasks) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.tasks)-1)
	m.refreshList()
	m.list.EnsureVisible(m.cursor)
}

// Selected returns the task under the list cursor.
func (m SidebarModel) Selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// Init implements tea.Model.
func (m SidebarModel) Init() tea.Cmd {
	return nil
}

// Update handles search input while focused, and mouse input.
func (m SidebarModel) Update(msg tea.Msg) (SidebarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.searching {
			return m, nil
		}
		return m.updateSearch(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m SidebarModel) updateSearch(msg tea.KeyMsg) (SidebarModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m SidebarModel) updateMouse(msg tea.MouseMsg) (SidebarModel, tea.Cmd) {
	x, y := msg.X-m.originX, msg.Y-m.originY
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return m, nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	cats := task.Categories()
	switch {
	case y >= categoryTop && y < categoryTop+len(cats):
		return m, emit(msgs.ToggleCategoryMsg{Category: cats[y-categoryTop]})
	case y == timeRangeRow:
		return m, emit(msgs.CycleTimeRangeMsg{})
	case y == searchRow:
		return m, m.FocusSearch()
	case y >= listTop:
		i, ok := m.list.LineAt(y - listTop)
		if !ok {
			return m, nil
		}
		m.cursor = i
		m.refreshList()
		return m, emit(msgs.OpenEditMsg{TaskID: m.tasks[i].ID})
	}
	return m, nil
}

func (m SidebarModel) innerWidth() int {
	return max(m.width-styles.PanelStyle.GetHorizontalFrameSize(), 1)
}

func (m *SidebarModel) refreshList() {
	lines := make([]string, len(m.tasks))
	for i, t := range m.tasks {
		dot := styles.CategoryStyle(t.Category).Render("●")
		span := dates.FormatShort(t.Start)
		if !t.Start.Equal(t.End) {
			span += "-" + dates.FormatShort(t.End)
		}
		title := t.Title
		if i == m.cursor {
			title = styles.SelectedStyle.Render(title)
		}
		lines[i] = fmt.Sprintf("%s %s %s", dot, title, styles.SubtleStyle.Render(span))
	}
	m.list.SetLines(lines)
}

// View implements tea.Model.
func (m SidebarModel) View() string {
	if m.height == 0 {
		return ""
	}
	inner := m.innerWidth()
	rows := make([]string, 0, m.height)

	rows = append(rows, styles.SubtleStyle.Render("Categories"))
	for i, c := range task.Categories() {
		box := "[ ]"
		if m.filters.Includes(c) {
			box = "[x]"
		}
		label := styles.CategoryStyle(c).Render(string(c))
		rows = append(rows, fmt.Sprintf("%d %s %s %s", i+1, box, label, styles.SubtleStyle.Render(fmt.Sprintf("(%d)", m.counts[c]))))
	}
	rows = append(rows, "")
	rows = append(rows, "Range: "+styles.SelectedStyle.Render(m.filters.TimeRange.Label())+styles.SubtleStyle.Render("  r"))
	rows = append(rows, "")
	rows = append(rows, m.search.View())
	rows = append(rows, "")
	rows = append(rows, styles.SubtleStyle.Render(fmt.Sprintf("Tasks (%d)", len(m.tasks))))

	for i, r := range rows {
		rows[i] = ansi.Truncate(r, inner, "…")
	}
	if list := m.list.View(); list != "" {
		rows = append(rows, list)
	}

	body := strings.Join(rows, "\n")
	return styles.PanelStyle.
		Width(m.width - styles.PanelStyle.GetHorizontalBorderSize()).
		Height(m.height).
		MaxHeight(m.height).
		Render(body)
}
