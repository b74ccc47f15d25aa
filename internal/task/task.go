package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pablasso/calplan/internal/dates"
)

// Task is a single planned item spanning one or more calendar days.
type Task struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"startDate"`
	End      time.Time `json:"endDate"`
	Category Category  `json:"category"`
}

// Days returns the inclusive number of days the task covers.
func (t Task) Days() int {
	return dates.InclusiveDays(t.Start, t.End)
}

// Covers reports whether the task spans the given day.
func (t Task) Covers(day time.Time) bool {
	day = dates.StartOfDay(day)
	return !day.Before(t.Start) && !day.After(t.End)
}

// Category is the workflow column a task belongs to.
type Category string

// Category values. The set is closed.
const (
	CategoryToDo       Category = "To Do"
	CategoryInProgress Category = "In Progress"
	CategoryReview     Category = "Review"
	CategoryCompleted  Category = "Completed"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryToDo, CategoryInProgress, CategoryReview, CategoryCompleted}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryToDo, CategoryInProgress, CategoryReview, CategoryCompleted:
		return true
	}
	return false
}

// Next returns the category after c in display order, wrapping around.
func (c Category) Next() Category {
	all := Categories()
	for i, cat := range all {
		if cat == c {
			return all[(i+1)%len(all)]
		}
	}
	return CategoryToDo
}

// ParseCategory accepts a category name case-insensitively, ignoring
// spaces, hyphens and underscores ("in-progress" matches "In Progress").
func ParseCategory(s string) (Category, error) {
	key := categoryKey(s)
	for _, c := range Categories() {
		if categoryKey(string(c)) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func categoryKey(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// TimeRange limits visible tasks to those starting within N weeks of now.
// The zero value means unrestricted.
type TimeRange string

// TimeRange values.
const (
	TimeRangeAll       TimeRange = ""
	TimeRangeOneWeek   TimeRange = "1week"
	TimeRangeTwoWeeks  TimeRange = "2weeks"
	TimeRangeThreeWeek TimeRange = "3weeks"
)

// TimeRanges returns every range in cycling order, starting with unrestricted.
func TimeRanges() []TimeRange {
	return []TimeRange{TimeRangeAll, TimeRangeOneWeek, TimeRangeTwoWeeks, TimeRangeThreeWeek}
}

// Weeks returns the number of weeks the range covers, or 0 when unrestricted.
func (r TimeRange) Weeks() int {
	switch r {
	case TimeRangeOneWeek:
		return 1
	case TimeRangeTwoWeeks:
		return 2
	case TimeRangeThreeWeek:
		return 3
	}
	return 0
}

// Valid reports whether r is unrestricted or one of the known ranges.
func (r TimeRange) Valid() bool {
	return r == TimeRangeAll || r.Weeks() > 0
}

// Next returns the range after r in cycling order.
func (r TimeRange) Next() TimeRange {
	all := TimeRanges()
	for i, tr := range all {
		if tr == r {
			return all[(i+1)%len(all)]
		}
	}
	return TimeRangeAll
}

// Label returns a human-readable description of the range.
func (r TimeRange) Label() string {
	switch r {
	case TimeRangeOneWeek:
		return "Last week"
	case TimeRangeTwoWeeks:
		return "Last 2 weeks"
	case TimeRangeThreeWeek:
		return "Last 3 weeks"
	}
	return "All time"
}

// ParseTimeRange accepts "1week", "2weeks", "3weeks", or "" / "all".
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "none":
		return TimeRangeAll, nil
	case "1week", "1w":
		return TimeRangeOneWeek, nil
	case "2weeks", "2w":
		return TimeRangeTwoWeeks, nil
	case "3weeks", "3w":
		return TimeRangeThreeWeek, nil
	}
	return "", fmt.Errorf("unknown time range %q (want 1week, 2weeks, 3weeks or all)", s)
}

// Edge identifies which end of a task a resize moves.
type Edge string

// Edge values.
const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// ParseEdge accepts "start" or "end".
func ParseEdge(s string) (Edge, error) {
	switch Edge(strings.ToLower(strings.TrimSpace(s))) {
	case EdgeStart:
		return EdgeStart, nil
	case EdgeEnd:
		return EdgeEnd, nil
	}
	return "", fmt.Errorf("unknown edge %q (want start or end)", s)
}

// Filters selects which tasks are visible.
type Filters struct {
	Categories []Category
	TimeRange  TimeRange
}

// DefaultFilters shows every category over all time.
func DefaultFilters() Filters {
	return Filters{Categories: Categories()}
}

// Includes reports whether c is one of the selected categories.
func (f Filters) Includes(c Category) bool {
	for _, fc := range f.Categories {
		if fc == c {
			return true
		}
	}
	return false
}

func (f Filters) clone() Filters {
	out := Filters{TimeRange: f.TimeRange}
	out.Categories = append([]Category(nil), f.Categories...)
	return out
}

// State is everything the planner persists.
type State struct {
	Tasks   []Task
	Filters Filters
}

// DefaultState is an empty planner with default filters.
func DefaultState() State {
	return State{Tasks: []Task{}, Filters: DefaultFilters()}
}

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("task title is empty")
	ErrUnknownCategory = errors.New("unknown category")
)
