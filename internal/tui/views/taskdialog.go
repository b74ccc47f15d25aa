package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/task"
	"github.com/pablasso/calplan/internal/tui/msgs"
	"github.com/pablasso/calplan/internal/tui/styles"
)

const titleCharLimit = 120

// TaskDialogModel is the create/edit dialog.
type TaskDialogModel struct {
	taskID   string // empty when creating
	start    time.Time
	end      time.Time
	category task.Category
	input    textinput.Model
	width    int
}

// NewCreateDialog opens the dialog for a new task over [start, end].
func NewCreateDialog(start, end time.Time) TaskDialogModel {
	start, end = dates.Order(start, end)
	return newTaskDialog("", "", task.CategoryToDo, start, end)
}

// NewEditDialog opens the dialog for an existing task.
func NewEditDialog(t task.Task) TaskDialogModel {
	return newTaskDialog(t.ID, t.Title, t.Category, t.Start, t.End)
}

func newTaskDialog(id, title string, category task.Category, start, end time.Time) TaskDialogModel {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = titleCharLimit
	ti.Width = 40
	ti.SetValue(title)
	ti.Focus()

	return TaskDialogModel{
		taskID:   id,
		start:    start,
		end:      end,
		category: category,
		input:    ti,
	}
}

// Editing reports whether the dialog edits an existing task.
func (m TaskDialogModel) Editing() bool {
	return m.taskID != ""
}

// Category returns the selected category.
func (m TaskDialogModel) Category() task.Category {
	return m.category
}

// Title returns the trimmed title input.
func (m TaskDialogModel) Title() string {
	return strings.TrimSpace(m.input.Value())
}

// CanConfirm reports whether enter would save.
func (m TaskDialogModel) CanConfirm() bool {
	return m.Title() != ""
}

// SetWidth sets the terminal width used to size the input.
func (m *TaskDialogModel) SetWidth(width int) {
	m.width = width
	m.input.Width = min(40, max(width-16, 10))
}

// Init implements tea.Model.
func (m TaskDialogModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m TaskDialogModel) Update(msg tea.Msg) (TaskDialogModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, emit(msgs.CloseDialogMsg{})
		case "enter":
			if !m.CanConfirm() {
				return m, nil
			}
			return m, emit(msgs.SaveTaskMsg{
				TaskID:   m.taskID,
				Title:    m.Title(),
				Category: m.category,
				Start:    m.start,
				End:      m.end,
			})
		case "tab":
			m.category = m.category.Next()
			return m, nil
		case "shift+tab":
			m.category = prevCategory(m.category)
			return m, nil
		case "ctrl+d":
			if m.Editing() {
				return m, emit(msgs.DeleteTaskMsg{TaskID: m.taskID})
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func prevCategory(c task.Category) task.Category {
	all := task.Categories()
	for i, cat := range all {
		if cat == c {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return all[0]
}

// View implements tea.Model.
func (m TaskDialogModel) View() string {
	var b strings.Builder

	heading := "New Task"
	if m.Editing() {
		heading = "Edit Task"
	}
	b.WriteString(styles.TitleStyle.Render(heading))
	b.WriteString("\n\n")

	days := dates.InclusiveDays(m.start, m.end)
	span := dates.FormatShort(m.start)
	if days > 1 {
		span += " → " + dates.FormatShort(m.end)
	}
	b.WriteString(styles.SubtleStyle.Render(fmt.Sprintf("%s (%s)", span, pluralDays(days))))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	cats := make([]string, 0, len(task.Categories()))
	for _, c := range task.Categories() {
		if c == m.category {
			cats = append(cats, styles.BarStyle(c).Bold(true).Render(" "+string(c)+" "))
		} else {
			cats = append(cats, styles.CategoryStyle(c).Render(" "+string(c)+" "))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cats...))
	b.WriteString("\n\n")

	hints := []string{"Tab Category", "Esc Cancel"}
	if m.Editing() {
		hints = append(hints, "Ctrl+D Delete")
	}
	if m.CanConfirm() {
		b.WriteString(styles.SuccessStyle.Render("Enter Save") + styles.SubtleStyle.Render(" • "))
	}
	b.WriteString(styles.SubtleStyle.Render(strings.Join(hints, " • ")))

	return styles.BoxStyle.Render(b.String())
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
