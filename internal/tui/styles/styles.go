// Package styles defines shared lipgloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pablasso/calplan/internal/task"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FAFAF") // Teal accent
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text
	successColor   = lipgloss.Color("#87AF87") // Muted sage for success
	errorColor     = lipgloss.Color("#AF5F5F") // Muted terracotta for errors
	selectionColor = lipgloss.Color("#3A5F7F")

	// TitleStyle for headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// SubtleStyle for hints/help text
	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// SelectedStyle for selected items in lists
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// StatusBarStyle for bottom status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// BoxStyle for dialog borders
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	// PanelStyle for the sidebar
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(secondaryColor).
			PaddingRight(1)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// WeekdayStyle for the weekday header row of the grid
	WeekdayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)

	// DayStyle for day numbers inside the displayed month
	DayStyle = lipgloss.NewStyle()

	// OutsideDayStyle for day numbers of adjacent months
	OutsideDayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	// TodayStyle marks the current day
	TodayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(primaryColor)

	// SelectionStyle highlights cells under an in-progress selection or drop
	SelectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(selectionColor)

	// MoreStyle for the "+N more" affordance
	MoreStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(primaryColor)
)

var categoryColors = map[task.Category]lipgloss.Color{
	task.CategoryToDo:       lipgloss.Color("#5F87AF"), // blue
	task.CategoryInProgress: lipgloss.Color("#AF875F"), // amber
	task.CategoryReview:     lipgloss.Color("#875FAF"), // purple
	task.CategoryCompleted:  lipgloss.Color("#5F875F"), // green
}

// CategoryColor returns the accent colour of c.
func CategoryColor(c task.Category) lipgloss.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return secondaryColor
}

// BarStyle renders a task bar in its category colour.
func BarStyle(c task.Category) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(CategoryColor(c))
}

// CategoryStyle renders category labels as coloured text.
func CategoryStyle(c task.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CategoryColor(c))
}
