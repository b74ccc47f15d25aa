// Package msgs defines the messages views send to the planner model.
package msgs

import (
	"time"

	"github.com/pablasso/calplan/internal/task"
)

// Dialog messages

// OpenCreateMsg asks for the create dialog over [Start, End].
type OpenCreateMsg struct {
	Start time.Time
	End   time.Time
}

// OpenEditMsg asks for the edit dialog of a task.
type OpenEditMsg struct {
	TaskID string
}

// OpenDayMsg asks for the dialog listing every task on Date.
type OpenDayMsg struct {
	Date time.Time
}

// CloseDialogMsg dismisses the open dialog.
type CloseDialogMsg struct{}

// Task mutations

// SaveTaskMsg is sent when a create or edit dialog is confirmed. TaskID is
// empty for a new task.
type SaveTaskMsg struct {
	TaskID   string
	Title    string
	Category task.Category
	Start    time.Time
	End      time.Time
}

// DeleteTaskMsg removes a task.
type DeleteTaskMsg struct {
	TaskID string
}

// MoveTaskMsg is sent when a bar is dropped on Date.
type MoveTaskMsg struct {
	TaskID string
	Date   time.Time
}

// ResizeTaskMsg is sent when an edge handle is dropped on Date.
type ResizeTaskMsg struct {
	TaskID string
	Edge   task.Edge
	Date   time.Time
}

// Filter changes

// ToggleCategoryMsg flips one category in the filter set.
type ToggleCategoryMsg struct {
	Category task.Category
}

// CycleTimeRangeMsg advances the time-range filter.
type CycleTimeRangeMsg struct{}
