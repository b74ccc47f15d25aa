// Package tui is the interactive month planner.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/gesture"
	"github.com/pablasso/calplan/internal/task"
	"github.com/pablasso/calplan/internal/tui/components"
	"github.com/pablasso/calplan/internal/tui/msgs"
	"github.com/pablasso/calplan/internal/tui/styles"
	"github.com/pablasso/calplan/internal/tui/views"
)

// Minimum terminal size the planner renders at.
const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

const (
	headerHeight    = 1
	statusBarHeight = 1
	sidebarGap      = 1
)

// Options configures the planner.
type Options struct {
	Repository    *task.Repository
	Logger        *zap.Logger
	VisibleLayers int
	// Now defaults to time.Now.
	Now func() time.Time
}

type dialog int

const (
	dialogNone dialog = iota
	dialogTask
	dialogDay
	dialogGuide
)

// Model is the main Bubble Tea model. It owns the repository and routes
// input to the calendar, sidebar and whichever dialog is open.
type Model struct {
	repo   *task.Repository
	logger *zap.Logger
	now    func() time.Time
	keys   views.KeyMap

	month       time.Time
	query       string
	showSidebar bool
	width       int
	height      int

	calendar   views.CalendarModel
	sidebar    views.SidebarModel
	dialog     dialog
	taskDialog views.TaskDialogModel
	dayDialog  views.DayDialogModel
	guide      views.GuideModel

	// returnToDay reopens the day dialog after an edit started from it.
	returnToDay bool
	note        string
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

// NewModel builds the planner showing the current month.
func NewModel(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Repository == nil {
		opts.Repository = task.NewRepository(task.DefaultState(), nil)
	}

	m := Model{
		repo:        opts.Repository,
		logger:      opts.Logger,
		now:         opts.Now,
		keys:        views.DefaultKeyMap(),
		month:       dates.StartOfMonth(opts.Now()),
		showSidebar: true,
		calendar:    views.NewCalendarModel(opts.VisibleLayers),
		sidebar:     views.NewSidebarModel(),
		guide:       views.NewGuideModel(views.DefaultKeyMap()),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case msgs.OpenCreateMsg:
		m.calendar.Cancel()
		m.taskDialog = views.NewCreateDialog(msg.Start, msg.End)
		m.taskDialog.SetWidth(m.width)
		m.dialog = dialogTask
		return m, m.taskDialog.Init()

	case msgs.OpenEditMsg:
		t, ok := m.repo.Get(msg.TaskID)
		if !ok {
			return m, nil
		}
		m.returnToDay = m.dialog == dialogDay
		m.calendar.Cancel()
		m.taskDialog = views.NewEditDialog(t)
		m.taskDialog.SetWidth(m.width)
		m.dialog = dialogTask
		return m, m.taskDialog.Init()

	case msgs.OpenDayMsg:
		m.calendar.Cancel()
		m.dayDialog = views.NewDayDialog(msg.Date, m.repo.Visible(m.now()))
		m.dialog = dialogDay
		return m, nil

	case msgs.CloseDialogMsg:
		m.closeDialog()

	case msgs.SaveTaskMsg:
		m.saveTask(msg)
		m.closeDialog()

	case msgs.DeleteTaskMsg:
		m.repo.Delete(msg.TaskID)
		if m.dialog == dialogTask {
			m.closeDialog()
		}

	case msgs.MoveTaskMsg:
		m.repo.Move(msg.TaskID, msg.Date)

	case msgs.ResizeTaskMsg:
		m.repo.Resize(msg.TaskID, msg.Edge, msg.Date)

	case msgs.ToggleCategoryMsg:
		m.repo.ToggleCategory(msg.Category)

	case msgs.CycleTimeRangeMsg:
		m.repo.SetTimeRange(m.repo.Filters().TimeRange.Next())

	default:
		if m.dialog == dialogTask {
			// Cursor blink and other input-internal messages.
			m.taskDialog, cmd = m.taskDialog.Update(msg)
		}
		return m, cmd
	}

	m.refresh()
	return m, nil
}

func (m *Model) saveTask(msg msgs.SaveTaskMsg) {
	if msg.TaskID == "" {
		if _, err := m.repo.Create(msg.Title, msg.Start, msg.End, msg.Category); err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
		}
		return
	}
	m.repo.Update(msg.TaskID, task.Patch{Title: &msg.Title, Category: &msg.Category})
}

func (m *Model) closeDialog() {
	if m.dialog == dialogTask && m.returnToDay {
		m.returnToDay = false
		m.dialog = dialogDay
		return
	}
	m.returnToDay = false
	m.dialog = dialogNone
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.dialog {
	case dialogTask:
		m.taskDialog, cmd = m.taskDialog.Update(msg)
		return m, cmd
	case dialogDay:
		m.dayDialog, cmd = m.dayDialog.Update(msg)
		return m, cmd
	case dialogGuide:
		m.guide, cmd = m.guide.Update(msg)
		return m, cmd
	}

	if m.sidebar.Searching() {
		m.sidebar, cmd = m.sidebar.Update(msg)
		m.query = m.sidebar.Query()
		m.refresh()
		return m, cmd
	}

	switch {
	case msg.String() == "esc":
		m.calendar.Cancel()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Today):
		m.month = dates.StartOfMonth(m.now())
	case key.Matches(msg, m.keys.PrevMonth):
		m.month = dates.SubMonths(m.month, 1)
	case key.Matches(msg, m.keys.NextMonth):
		m.month = dates.AddMonths(m.month, 1)
	case key.Matches(msg, m.keys.Guide):
		m.calendar.Cancel()
		m.dialog = dialogGuide
	case key.Matches(msg, m.keys.Sidebar):
		m.showSidebar = !m.showSidebar
		m.keys.SetSidebar(m.showSidebar)
		m.layout()
	case key.Matches(msg, m.keys.Toggle):
		i := int(msg.String()[0] - '1')
		m.repo.ToggleCategory(task.Categories()[i])
	case key.Matches(msg, m.keys.TimeRange):
		m.repo.SetTimeRange(m.repo.Filters().TimeRange.Next())
	case key.Matches(msg, m.keys.Search):
		cmd = m.sidebar.FocusSearch()
	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveCursor(1)
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.sidebar.Selected(); ok {
			return m.Update(msgs.OpenEditMsg{TaskID: t.ID})
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.sidebar.Selected(); ok {
			m.repo.Delete(t.ID)
		}
	}

	m.refresh()
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.dialog != dialogNone {
		return m, nil
	}

	var cmd tea.Cmd
	_, idle := m.calendar.Phase().(gesture.Idle)
	if m.showSidebar && idle && msg.X < views.SidebarWidth {
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}
	m.calendar, cmd = m.calendar.Update(msg)
	return m, cmd
}

// layout sizes and positions the calendar and sidebar for the terminal.
func (m *Model) layout() {
	bodyHeight := max(m.height-headerHeight-statusBarHeight, 0)
	x := 0
	if m.showSidebar {
		m.sidebar.SetOrigin(0, headerHeight)
		m.sidebar.SetSize(bodyHeight)
		x = views.SidebarWidth + sidebarGap
	}
	m.calendar.SetOrigin(x, headerHeight)
	m.calendar.SetSize(max(m.width-x, 0), bodyHeight)
}

// refresh pushes repository state into the views.
func (m *Model) refresh() {
	now := m.now()
	visible := m.repo.Visible(now)
	m.calendar.SetData(m.month, now, visible)
	m.sidebar.SetData(m.repo.Filters(), m.repo.CategoryCounts(), task.Search(visible, m.query))
	if m.dialog == dialogDay || m.returnToDay {
		m.dayDialog.SetTasks(visible)
	}

	m.note = ""
	if err := m.repo.SaveErr(); err != nil {
		m.note = styles.ErrorStyle.Render("not saved: " + err.Error())
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.width < MinTerminalWidth || m.height < MinTerminalHeight {
		return m.renderTerminalTooSmall()
	}

	bodyHeight := m.height - headerHeight - statusBarHeight
	var body string
	switch m.dialog {
	case dialogTask:
		body = m.taskDialog.View()
	case dialogDay:
		body = m.dayDialog.View()
	case dialogGuide:
		body = m.guide.View()
	}
	if body != "" {
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	} else {
		body = m.calendar.View()
		if m.showSidebar {
			body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), strings.Repeat(" ", sidebarGap), body)
		}
		body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	}

	status := components.NewStatusBar().Render(m.width, m.statusItems(), m.note)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, status)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("‹ " + dates.FormatMonth(m.month) + " ›")

	f := m.repo.Filters()
	summary := fmt.Sprintf("%d of %d tasks", len(m.repo.Visible(m.now())), len(m.repo.Tasks()))
	if f.TimeRange != task.TimeRangeAll {
		summary += " • " + f.TimeRange.Label()
	}
	summary = styles.SubtleStyle.Render(summary)

	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(summary), 1)
	return title + strings.Repeat(" ", gap) + summary
}

func (m Model) statusItems() []string {
	switch m.dialog {
	case dialogTask, dialogDay, dialogGuide:
		return []string{"Esc Close"}
	}
	if m.sidebar.Searching() {
		return []string{"Type to filter", "Enter Done", "Esc Clear"}
	}

	switch m.calendar.Phase().(type) {
	case gesture.Selecting:
		return []string{"Release to create", "Move off grid to cancel"}
	case gesture.Dragging:
		return []string{"Release to move", "Move off grid to cancel"}
	case gesture.Resizing:
		return []string{"Release to resize", "Move off grid to cancel"}
	}

	items := components.Hints(m.keys.ShortHelp()...)
	if m.showSidebar {
		items = append(items, components.Hints(m.keys.Toggle, m.keys.TimeRange, m.keys.Search)...)
	}
	return items
}

func (m Model) renderTerminalTooSmall() string {
	msg := fmt.Sprintf("Terminal too small\n\nMinimum: %dx%d\nCurrent: %dx%d",
		MinTerminalWidth, MinTerminalHeight, m.width, m.height)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}
