package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/task"
	"github.com/pablasso/calplan/internal/tui/msgs"
	"github.com/pablasso/calplan/internal/tui/styles"
)

// DayDialogModel lists every visible task covering one date.
type DayDialogModel struct {
	date   time.Time
	tasks  []task.Task
	cursor int
}

// NewDayDialog opens the dialog for date.
func NewDayDialog(date time.Time, tasks []task.Task) DayDialogModel {
	m := DayDialogModel{date: dates.StartOfDay(date)}
	m.SetTasks(tasks)
	return m
}

// Date returns the day the dialog lists.
func (m DayDialogModel) Date() time.Time {
	return m.date
}

// SetTasks refreshes the list from tasks, keeping only those covering the
// dialog's date, and keeps the cursor in range.
func (m *DayDialogModel) SetTasks(tasks []task.Task) {
	m.tasks = task.SortByStart(task.On(m.date, tasks))
	m.cursor = min(m.cursor, max(len(m.tasks)-1, 0))
}

// Selected returns the task under the cursor.
func (m DayDialogModel) Selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// Init implements tea.Model.
func (m DayDialogModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m DayDialogModel) Update(msg tea.Msg) (DayDialogModel, tea.Cmd) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch msgKey.String() {
	case "esc", "q":
		return m, emit(msgs.CloseDialogMsg{})
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "enter":
		if t, ok := m.Selected(); ok {
			return m, emit(msgs.OpenEditMsg{TaskID: t.ID})
		}
	case "d":
		if t, ok := m.Selected(); ok {
			return m, emit(msgs.DeleteTaskMsg{TaskID: t.ID})
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m DayDialogModel) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.date.Format("Monday, January 2")))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(styles.SubtleStyle.Render("No tasks on this day"))
	}
	for i, t := range m.tasks {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := fmt.Sprintf("%s  %s", styles.CategoryStyle(t.Category).Render("●"), t.Title)
		span := fmt.Sprintf("  %s → %s", dates.FormatShort(t.Start), dates.FormatShort(t.End))
		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString(styles.SubtleStyle.Render(span))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.SubtleStyle.Render("↑↓ Navigate • Enter Edit • d Delete • Esc Close"))
	return styles.BoxStyle.Render(b.String())
}
