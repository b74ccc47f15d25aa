// Package gesture turns pointer events on the month grid into task
// requests.
//
// A Controller is always in exactly one Phase. Pressing starts a gesture
// only from Idle; releasing over a day cell completes it and yields a
// Request; releasing elsewhere or leaving the grid abandons it.
package gesture

import (
	"time"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/task"
)

// Phase is the current gesture. It is one of Idle, Selecting, Dragging or
// Resizing.
type Phase interface {
	phase()
}

// Idle means no gesture is in progress.
type Idle struct{}

// Selecting is a drag across empty cells to create a task.
type Selecting struct {
	Anchor  time.Time
	Current time.Time
}

// Range returns the selection with the earlier day first.
func (s Selecting) Range() (time.Time, time.Time) {
	return dates.Order(s.Anchor, s.Current)
}

// Dragging is a task bar being moved.
type Dragging struct {
	TaskID string
	// Over is the cell the pointer was last seen over.
	Over time.Time
}

// Resizing is a task edge handle being dragged.
type Resizing struct {
	TaskID string
	Edge   task.Edge
	Over   time.Time
}

func (Idle) phase()      {}
func (Selecting) phase() {}
func (Dragging) phase()  {}
func (Resizing) phase()  {}

// Request is a mutation a completed gesture asks for. It is one of
// CreateRequest, MoveRequest or ResizeRequest.
type Request interface {
	request()
}

// CreateRequest asks for a new task over [Start, End].
type CreateRequest struct {
	Start time.Time
	End   time.Time
}

// MoveRequest asks for a task to start on Date.
type MoveRequest struct {
	TaskID string
	Date   time.Time
}

// ResizeRequest asks for one edge of a task to move to Date.
type ResizeRequest struct {
	TaskID string
	Edge   task.Edge
	Date   time.Time
}

func (CreateRequest) request() {}
func (MoveRequest) request()   {}
func (ResizeRequest) request() {}

// Controller tracks the active gesture.
type Controller struct {
	phase Phase
}

// NewController returns a controller in Idle.
func NewController() *Controller {
	return &Controller{phase: Idle{}}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	_, idle := c.phase.(Idle)
	return !idle
}

// PressCell starts a selection anchored at day.
func (c *Controller) PressCell(day time.Time) {
	if c.Active() {
		return
	}
	day = dates.StartOfDay(day)
	c.phase = Selecting{Anchor: day, Current: day}
}

// PressTask starts dragging a task bar.
func (c *Controller) PressTask(id string, day time.Time) {
	if c.Active() || id == "" {
		return
	}
	c.phase = Dragging{TaskID: id, Over: dates.StartOfDay(day)}
}

// PressEdge starts resizing one edge of a task.
func (c *Controller) PressEdge(id string, edge task.Edge, day time.Time) {
	if c.Active() || id == "" {
		return
	}
	c.phase = Resizing{TaskID: id, Edge: edge, Over: dates.StartOfDay(day)}
}

// Enter records that the pointer moved over day.
func (c *Controller) Enter(day time.Time) {
	day = dates.StartOfDay(day)
	switch p := c.phase.(type) {
	case Selecting:
		p.Current = day
		c.phase = p
	case Dragging:
		p.Over = day
		c.phase = p
	case Resizing:
		p.Over = day
		c.phase = p
	}
}

// Release ends the gesture. When onCell is true the pointer was released
// over day and the gesture's request is returned; otherwise the gesture is
// abandoned and the request is nil.
func (c *Controller) Release(day time.Time, onCell bool) Request {
	p := c.phase
	c.phase = Idle{}
	if !onCell {
		return nil
	}

	day = dates.StartOfDay(day)
	switch p := p.(type) {
	case Selecting:
		p.Current = day
		start, end := p.Range()
		return CreateRequest{Start: start, End: end}
	case Dragging:
		return MoveRequest{TaskID: p.TaskID, Date: day}
	case Resizing:
		return ResizeRequest{TaskID: p.TaskID, Edge: p.Edge, Date: day}
	}
	return nil
}

// Leave abandons any gesture because the pointer left the grid.
func (c *Controller) Leave() {
	c.phase = Idle{}
}

// Selection returns the normalized range of an in-progress selection.
func (c *Controller) Selection() (start, end time.Time, ok bool) {
	s, ok := c.phase.(Selecting)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, end = s.Range()
	return start, end, true
}

// Contains reports whether day lies inside the in-progress selection.
func (c *Controller) Contains(day time.Time) bool {
	start, end, ok := c.Selection()
	if !ok {
		return false
	}
	day = dates.StartOfDay(day)
	return !day.Before(start) && !day.After(end)
}

// ActiveTask returns the id of the task being dragged or resized.
func (c *Controller) ActiveTask() (string, bool) {
	switch p := c.phase.(type) {
	case Dragging:
		return p.TaskID, true
	case Resizing:
		return p.TaskID, true
	}
	return "", false
}
