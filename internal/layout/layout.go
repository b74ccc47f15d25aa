// Package layout stacks task bars within calendar weeks.
//
// Each week is laid out independently. Tasks that overlap the week are
// assigned first-fit to layers in the order they are given, so the stacking
// follows insertion order rather than chronology. Two tasks share a layer
// only if their date ranges do not overlap.
package layout

import (
	"time"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/task"
)

// DefaultVisibleLayers is how many layers the grid shows before collapsing
// the rest into a "+N more" count.
const DefaultVisibleLayers = 2

// Placement is one task's segment within a week.
type Placement struct {
	Task task.Task
	// Layer is the stacking row, starting at 0.
	Layer int
	// StartColumn is the weekday of the segment's first day, 0 for Sunday.
	StartColumn int
	// ColumnSpan is the number of days the segment covers in this week.
	ColumnSpan int
	// IsSegmentStart is true when the task begins in this week.
	IsSegmentStart bool
	// IsSegmentEnd is true when the task ends in this week.
	IsSegmentEnd bool
}

// EndColumn returns the last column the segment covers.
func (p Placement) EndColumn() int {
	return p.StartColumn + p.ColumnSpan - 1
}

// CoversColumn reports whether the segment covers column col.
func (p Placement) CoversColumn(col int) bool {
	return col >= p.StartColumn && col <= p.EndColumn()
}

// WeekLayout is the stacking of every task overlapping one week.
type WeekLayout struct {
	Start time.Time
	// Layers holds placements per layer, each in placement order.
	Layers [][]Placement
}

// End returns the week's last day.
func (w WeekLayout) End() time.Time {
	return dates.AddDays(w.Start, dates.DaysPerWeek-1)
}

// Days returns the seven days of the week.
func (w WeekLayout) Days() []time.Time {
	days := make([]time.Time, 0, dates.DaysPerWeek)
	for d := range dates.EachDay(w.Start, w.End()) {
		days = append(days, d)
	}
	return days
}

// Placements returns every placement, layer by layer.
func (w WeekLayout) Placements() []Placement {
	var out []Placement
	for _, layer := range w.Layers {
		out = append(out, layer...)
	}
	return out
}

// Visible returns the placements in the first n layers.
func (w WeekLayout) Visible(n int) []Placement {
	var out []Placement
	for i, layer := range w.Layers {
		if i >= n {
			break
		}
		out = append(out, layer...)
	}
	return out
}

// Overflow counts the placements in layers at index n or beyond.
func (w WeekLayout) Overflow(n int) int {
	count := 0
	for i, layer := range w.Layers {
		if i >= n {
			count += len(layer)
		}
	}
	return count
}

// HiddenOn counts the placements beyond the first n layers that cover
// column col.
func (w WeekLayout) HiddenOn(col, n int) int {
	count := 0
	for i, layer := range w.Layers {
		if i < n {
			continue
		}
		for _, p := range layer {
			if p.CoversColumn(col) {
				count++
			}
		}
	}
	return count
}

// At returns the placement in layer covering column col.
func (w WeekLayout) At(layer, col int) (Placement, bool) {
	if layer < 0 || layer >= len(w.Layers) {
		return Placement{}, false
	}
	for _, p := range w.Layers[layer] {
		if p.CoversColumn(col) {
			return p, true
		}
	}
	return Placement{}, false
}

// Week lays out tasks for the week starting at weekStart, which should be
// a Sunday at midnight. Tasks entirely outside the week are skipped.
func Week(weekStart time.Time, tasks []task.Task) WeekLayout {
	weekStart = dates.StartOfDay(weekStart)
	weekEnd := dates.AddDays(weekStart, dates.DaysPerWeek-1)
	w := WeekLayout{Start: weekStart}

	for _, t := range tasks {
		if !overlaps(t.Start, t.End, weekStart, weekEnd) {
			continue
		}

		layer := firstFit(w.Layers, t)
		if layer == len(w.Layers) {
			w.Layers = append(w.Layers, nil)
		}
		w.Layers[layer] = append(w.Layers[layer], place(t, layer, weekStart, weekEnd))
	}
	return w
}

// Month lays out one week per row of the month grid containing month,
// from the Sunday on or before the 1st to the Saturday on or after the
// last day.
func Month(month time.Time, tasks []task.Task) []WeekLayout {
	first := dates.StartOfWeek(dates.StartOfMonth(month))
	last := dates.EndOfWeek(dates.EndOfMonth(month))

	var weeks []WeekLayout
	for ws := first; !ws.After(last); ws = dates.AddDays(ws, dates.DaysPerWeek) {
		weeks = append(weeks, Week(ws, tasks))
	}
	return weeks
}

func firstFit(layers [][]Placement, t task.Task) int {
	for i, layer := range layers {
		fits := true
		for _, p := range layer {
			if overlaps(p.Task.Start, p.Task.End, t.Start, t.End) {
				fits = false
				break
			}
		}
		if fits {
			return i
		}
	}
	return len(layers)
}

func place(t task.Task, layer int, weekStart, weekEnd time.Time) Placement {
	start := dates.Max(dates.StartOfDay(t.Start), weekStart)
	end := dates.Min(dates.StartOfDay(t.End), weekEnd)
	return Placement{
		Task:           t,
		Layer:          layer,
		StartColumn:    dates.Column(start),
		ColumnSpan:     dates.InclusiveDays(start, end),
		IsSegmentStart: dates.IsSameDay(start, t.Start),
		IsSegmentEnd:   dates.IsSameDay(end, t.End),
	}
}

// overlaps uses inclusive day semantics.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	aStart, aEnd = dates.StartOfDay(aStart), dates.StartOfDay(aEnd)
	bStart, bEnd = dates.StartOfDay(bStart), dates.StartOfDay(bEnd)
	return !(aEnd.Before(bStart) || aStart.After(bEnd))
}
