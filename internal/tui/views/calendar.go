package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/gesture"
	"github.com/pablasso/calplan/internal/layout"
	"github.com/pablasso/calplan/internal/task"
	"github.com/pablasso/calplan/internal/tui/msgs"
	"github.com/pablasso/calplan/internal/tui/styles"
)

const (
	weekdayRows  = 1
	minCellWidth = 4

	startHandle = "▏"
	endHandle   = "▕"
)

var weekdayNames = [dates.DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type hitKind int

const (
	hitNone hitKind = iota
	hitCell
	hitBar
	hitEdge
	hitMore
)

// hit is what lies under a grid coordinate.
type hit struct {
	kind   hitKind
	inGrid bool
	day    time.Time
	taskID string
	edge   task.Edge
}

// CalendarModel renders the month grid and turns mouse input on it into
// planner messages.
//
// Each week row is one line of day numbers, visibleLayers lines of task
// bars, and one "+N more" line.
type CalendarModel struct {
	month         time.Time
	today         time.Time
	tasks         []task.Task
	weeks         []layout.WeekLayout
	visibleLayers int

	gestures *gesture.Controller
	pressed  hit
	moved    bool

	originX int
	originY int
	width   int
	height  int
}

// NewCalendarModel creates a grid showing visibleLayers bar rows per week.
func NewCalendarModel(visibleLayers int) CalendarModel {
	if visibleLayers < 1 {
		visibleLayers = layout.DefaultVisibleLayers
	}
	return CalendarModel{
		visibleLayers: visibleLayers,
		gestures:      gesture.NewController(),
	}
}

// SetSize sets the area available to the grid.
func (m *CalendarModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetOrigin sets the screen position of the grid's top-left corner, used
// to map mouse coordinates.
func (m *CalendarModel) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// SetData replaces the displayed month and tasks and recomputes layout.
func (m *CalendarModel) SetData(month, today time.Time, tasks []task.Task) {
	m.month = dates.StartOfMonth(month)
	m.today = dates.StartOfDay(today)
	m.tasks = tasks
	m.weeks = layout.Month(m.month, tasks)
}

// Month returns the first day of the displayed month.
func (m CalendarModel) Month() time.Time {
	return m.month
}

// Weeks returns the computed week layouts.
func (m CalendarModel) Weeks() []layout.WeekLayout {
	return m.weeks
}

// Phase returns the in-progress gesture.
func (m CalendarModel) Phase() gesture.Phase {
	return m.gestures.Phase()
}

// Cancel abandons any in-progress gesture.
func (m *CalendarModel) Cancel() {
	m.gestures.Leave()
	m.pressed, m.moved = hit{}, false
}

// Height returns the number of lines the grid renders.
func (m CalendarModel) Height() int {
	return weekdayRows + len(m.weeks)*m.weekHeight()
}

func (m CalendarModel) weekHeight() int {
	return m.visibleLayers + 2
}

func (m CalendarModel) cellWidth() int {
	return max(m.width/dates.DaysPerWeek, minCellWidth)
}

// hitTest maps a screen coordinate to what lies under it.
func (m CalendarModel) hitTest(x, y int) hit {
	x -= m.originX
	y -= m.originY
	cw := m.cellWidth()
	if x < 0 || y < 0 || x >= cw*dates.DaysPerWeek || y >= m.Height() {
		return hit{}
	}
	if y < weekdayRows {
		return hit{inGrid: true}
	}

	row := y - weekdayRows
	w := m.weeks[row/m.weekHeight()]
	line := row % m.weekHeight()
	col := x / cw

	h := hit{kind: hitCell, inGrid: true, day: dates.AddDays(w.Start, col)}
	switch {
	case line == 0:
	case line <= m.visibleLayers:
		p, ok := w.At(line-1, col)
		if !ok {
			return h
		}
		h.kind, h.taskID = hitBar, p.Task.ID
		switch {
		case p.IsSegmentStart && col == p.StartColumn && x == col*cw:
			h.kind, h.edge = hitEdge, task.EdgeStart
		case p.IsSegmentEnd && col == p.EndColumn() && x >= (col+1)*cw-2:
			h.kind, h.edge = hitEdge, task.EdgeEnd
		}
	default:
		if w.HiddenOn(col, m.visibleLayers) > 0 {
			h.kind = hitMore
		}
	}
	return h
}

// Init implements tea.Model.
func (m CalendarModel) Init() tea.Cmd {
	return nil
}

// Update handles mouse input on the grid.
func (m CalendarModel) Update(msg tea.Msg) (CalendarModel, tea.Cmd) {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return m, nil
	}

	h := m.hitTest(mouse.X, mouse.Y)
	switch mouse.Action {
	case tea.MouseActionPress:
		if mouse.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.press(h)
	case tea.MouseActionMotion:
		return m.motion(h), nil
	case tea.MouseActionRelease:
		return m.release(h)
	}
	return m, nil
}

func (m CalendarModel) press(h hit) (CalendarModel, tea.Cmd) {
	if m.gestures.Active() {
		return m, nil
	}

	m.pressed, m.moved = h, false
	switch h.kind {
	case hitCell:
		m.gestures.PressCell(h.day)
	case hitBar:
		m.gestures.PressTask(h.taskID, h.day)
	case hitEdge:
		m.gestures.PressEdge(h.taskID, h.edge, h.day)
	case hitMore:
		return m, emit(msgs.OpenDayMsg{Date: h.day})
	}
	return m, nil
}

func (m CalendarModel) motion(h hit) CalendarModel {
	if !m.gestures.Active() {
		return m
	}
	if !h.inGrid {
		m.Cancel()
		return m
	}
	if h.kind == hitNone {
		return m
	}
	if !h.day.Equal(m.pressed.day) {
		m.moved = true
	}
	m.gestures.Enter(h.day)
	return m
}

func (m CalendarModel) release(h hit) (CalendarModel, tea.Cmd) {
	if !m.gestures.Active() {
		return m, nil
	}

	pressed, moved := m.pressed, m.moved
	m.pressed, m.moved = hit{}, false
	clicked := !moved && h.day.Equal(pressed.day)

	switch r := m.gestures.Release(h.day, h.kind != hitNone).(type) {
	case gesture.CreateRequest:
		return m, emit(msgs.OpenCreateMsg{Start: r.Start, End: r.End})
	case gesture.MoveRequest:
		if clicked {
			return m, emit(msgs.OpenEditMsg{TaskID: r.TaskID})
		}
		return m, emit(msgs.MoveTaskMsg{TaskID: r.TaskID, Date: r.Date})
	case gesture.ResizeRequest:
		if clicked {
			return m, emit(msgs.OpenEditMsg{TaskID: r.TaskID})
		}
		return m, emit(msgs.ResizeTaskMsg{TaskID: r.TaskID, Edge: r.Edge, Date: r.Date})
	}
	return m, nil
}

// preview returns the days highlighted by the in-progress gesture: the
// selection, or where the dragged or resized task would land.
func (m CalendarModel) preview() (start, end time.Time, ok bool) {
	switch p := m.gestures.Phase().(type) {
	case gesture.Selecting:
		start, end = p.Range()
		return start, end, true
	case gesture.Dragging:
		t, found := m.find(p.TaskID)
		if !found {
			return start, end, false
		}
		return p.Over, dates.AddDays(p.Over, dates.DifferenceInDays(t.Start, t.End)), true
	case gesture.Resizing:
		t, found := m.find(p.TaskID)
		if !found {
			return start, end, false
		}
		if p.Edge == task.EdgeStart {
			start, end = dates.Order(p.Over, t.End)
		} else {
			start, end = dates.Order(t.Start, p.Over)
		}
		return start, end, true
	}
	return start, end, false
}

func (m CalendarModel) find(id string) (task.Task, bool) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

// View implements tea.Model.
func (m CalendarModel) View() string {
	if m.width == 0 || len(m.weeks) == 0 {
		return ""
	}

	cw := m.cellWidth()
	start, end, previewing := m.preview()
	activeID, _ := m.gestures.ActiveTask()

	rows := make([]string, 0, m.Height())
	rows = append(rows, renderWeekdays(cw))
	for _, w := range m.weeks {
		var b strings.Builder
		for day := range dates.EachDay(w.Start, w.End()) {
			inPreview := previewing && !day.Before(start) && !day.After(end)
			b.WriteString(m.renderDayNumber(day, cw, inPreview))
		}
		rows = append(rows, b.String())

		for layer := range m.visibleLayers {
			rows = append(rows, renderLayer(w, layer, cw, activeID))
		}
		rows = append(rows, renderMore(w, m.visibleLayers, cw))
	}
	return strings.Join(rows, "\n")
}

func renderWeekdays(cw int) string {
	var b strings.Builder
	for _, name := range weekdayNames {
		b.WriteString(styles.WeekdayStyle.Width(cw).Align(lipgloss.Center).Render(name))
	}
	return b.String()
}

func (m CalendarModel) renderDayNumber(day time.Time, cw int, inPreview bool) string {
	style := styles.DayStyle
	switch {
	case inPreview:
		style = styles.SelectionStyle
	case dates.IsSameDay(day, m.today):
		style = styles.TodayStyle
	case !dates.IsSameMonth(day, m.month):
		style = styles.OutsideDayStyle
	}
	label := fmt.Sprintf(" %d", day.Day())
	return style.Width(cw).Render(ansi.Truncate(label, cw, ""))
}

func renderLayer(w layout.WeekLayout, layer, cw int, activeID string) string {
	var b strings.Builder
	for col := 0; col < dates.DaysPerWeek; {
		p, ok := w.At(layer, col)
		if !ok {
			b.WriteString(strings.Repeat(" ", cw))
			col++
			continue
		}
		b.WriteString(renderBar(p, cw, p.Task.ID == activeID))
		col = p.EndColumn() + 1
	}
	return b.String()
}

// renderBar draws a placement across its columns, leaving the last cell
// column blank so adjacent bars stay apart.
func renderBar(p layout.Placement, cw int, active bool) string {
	width := p.ColumnSpan*cw - 1
	left, right := " ", " "
	if p.IsSegmentStart {
		left = startHandle
	}
	if p.IsSegmentEnd {
		right = endHandle
	}

	inner := max(width-2, 0)
	title := ansi.Truncate(p.Task.Title, inner, "…")
	title += strings.Repeat(" ", inner-ansi.StringWidth(title))

	style := styles.BarStyle(p.Task.Category)
	if active {
		style = style.Faint(true)
	}
	return style.Render(left+title+right) + " "
}

func renderMore(w layout.WeekLayout, visible, cw int) string {
	var b strings.Builder
	for col := range dates.DaysPerWeek {
		n := w.HiddenOn(col, visible)
		if n == 0 {
			b.WriteString(strings.Repeat(" ", cw))
			continue
		}
		label := ansi.Truncate(fmt.Sprintf("+%d more", n), cw-1, "…")
		b.WriteString(" " + styles.MoreStyle.Render(label) + strings.Repeat(" ", cw-1-ansi.StringWidth(label)))
	}
	return b.String()
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
