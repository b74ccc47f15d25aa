// Package task holds the planner's task records, filter criteria, and the
// repository that owns every mutation of them.
package task

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pablasso/calplan/internal/dates"
)

// Saver receives the full state after every mutation.
type Saver interface {
	Save(State) error
}

// Repository is the in-memory task collection plus filter criteria. It is
// not safe for concurrent use; the planner owns it from a single goroutine.
type Repository struct {
	tasks   []Task
	filters Filters
	saver   Saver
	logger  *zap.Logger
	newID   func() string
	saveErr error
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for save failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIDGenerator replaces uuid-based ids. Used by tests.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRepository creates a repository seeded with state. saver may be nil,
// in which case mutations are not persisted.
func NewRepository(state State, saver Saver, opts ...Option) *Repository {
	r := &Repository{
		filters: state.Filters.clone(),
		saver:   saver,
		logger:  zap.NewNop(),
		newID:   uuid.NewString,
	}
	r.tasks = make([]Task, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		t.Start, t.End = normalizeRange(t.Start, t.End)
		r.tasks = append(r.tasks, t)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create appends a new task. Reversed dates are swapped.
func (r *Repository) Create(title string, start, end time.Time, category Category) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	if !category.Valid() {
		return Task{}, ErrUnknownCategory
	}

	start, end = normalizeRange(start, end)
	t := Task{
		ID:       r.newID(),
		Title:    title,
		Start:    start,
		End:      end,
		Category: category,
	}
	r.tasks = append(r.tasks, t)
	r.persist("create", t.ID)
	return t, nil
}

// Patch lists the fields an Update replaces. Nil fields are left alone.
type Patch struct {
	Title    *string
	Category *Category
	Start    *time.Time
	End      *time.Time
}

// Update applies patch to the task with the given id. It reports false,
// changing nothing, when the id is unknown or the patch is invalid.
func (r *Repository) Update(id string, patch Patch) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}

	t := r.tasks[i]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return false
		}
		t.Title = title
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return false
		}
		t.Category = *patch.Category
	}
	if patch.Start != nil {
		t.Start = *patch.Start
	}
	if patch.End != nil {
		t.End = *patch.End
	}
	t.Start, t.End = normalizeRange(t.Start, t.End)

	r.tasks[i] = t
	r.persist("update", id)
	return true
}

// Delete removes the task with the given id.
func (r *Repository) Delete(id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.tasks = slices.Delete(r.tasks, i, i+1)
	r.persist("delete", id)
	return true
}

// Move shifts a task so it starts on newStart, keeping its length.
func (r *Repository) Move(id string, newStart time.Time) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}

	t := &r.tasks[i]
	span := dates.DifferenceInDays(t.Start, t.End)
	t.Start = dates.StartOfDay(newStart)
	t.End = dates.AddDays(t.Start, span)
	r.persist("move", id)
	return true
}

// Resize moves one edge of a task to newDate. Dragging an edge past the
// opposite one swaps them, so the task then runs from newDate to the old
// opposite edge (or the other way round).
func (r *Repository) Resize(id string, edge Edge, newDate time.Time) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}

	t := &r.tasks[i]
	switch edge {
	case EdgeStart:
		t.Start = newDate
	case EdgeEnd:
		t.End = newDate
	default:
		return false
	}
	t.Start, t.End = normalizeRange(t.Start, t.End)
	r.persist("resize", id)
	return true
}

// SetFilters replaces the filter criteria.
func (r *Repository) SetFilters(f Filters) {
	r.filters = f.clone()
	r.persist("filters", "")
}

// ToggleCategory shows c if hidden and hides it if shown.
func (r *Repository) ToggleCategory(c Category) {
	if !c.Valid() {
		return
	}
	f := r.filters.clone()
	if f.Includes(c) {
		f.Categories = slices.DeleteFunc(f.Categories, func(fc Category) bool { return fc == c })
	} else {
		f.Categories = append(f.Categories, c)
	}
	r.filters = f
	r.persist("filters", "")
}

// SetTimeRange replaces the time range filter.
func (r *Repository) SetTimeRange(tr TimeRange) {
	if !tr.Valid() {
		return
	}
	r.filters.TimeRange = tr
	r.persist("filters", "")
}

// Filters returns a copy of the current filter criteria.
func (r *Repository) Filters() Filters {
	return r.filters.clone()
}

// Get returns the task with the given id.
func (r *Repository) Get(id string) (Task, bool) {
	i := r.index(id)
	if i < 0 {
		return Task{}, false
	}
	return r.tasks[i], true
}

// Tasks returns a copy of every task in insertion order.
func (r *Repository) Tasks() []Task {
	return slices.Clone(r.tasks)
}

// State returns a copy of the full state.
func (r *Repository) State() State {
	return State{Tasks: r.Tasks(), Filters: r.Filters()}
}

// Filter returns the tasks matching f, in insertion order. A task matches
// when its category is selected and, with a time range set, it starts on or
// after midnight N weeks before now. It never mutates the repository.
func (r *Repository) Filter(f Filters, now time.Time) []Task {
	var cutoff time.Time
	weeks := f.TimeRange.Weeks()
	if weeks > 0 {
		cutoff = dates.SubWeeks(now, weeks)
	}

	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if !f.Includes(t.Category) {
			continue
		}
		if weeks > 0 && t.Start.Before(cutoff) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Visible filters with the repository's own criteria.
func (r *Repository) Visible(now time.Time) []Task {
	return r.Filter(r.filters, now)
}

// CategoryCounts counts every task per category, ignoring filters.
func (r *Repository) CategoryCounts() map[Category]int {
	counts := make(map[Category]int, len(Categories()))
	for _, c := range Categories() {
		counts[c] = 0
	}
	for _, t := range r.tasks {
		counts[t.Category]++
	}
	return counts
}

// SaveErr returns the error from the most recent save, if it failed.
func (r *Repository) SaveErr() error {
	return r.saveErr
}

func (r *Repository) index(id string) int {
	return slices.IndexFunc(r.tasks, func(t Task) bool { return t.ID == id })
}

func (r *Repository) persist(op, id string) {
	if r.saver == nil {
		return
	}
	r.saveErr = r.saver.Save(r.State())
	if r.saveErr != nil {
		r.logger.Error("failed to save planner state",
			zap.String("op", op),
			zap.String("task_id", id),
			zap.Error(r.saveErr),
		)
	}
}

func normalizeRange(start, end time.Time) (time.Time, time.Time) {
	return dates.Order(dates.StartOfDay(start), dates.StartOfDay(end))
}

// Search keeps the tasks whose title contains query, ignoring case. A blank
// query returns tasks unchanged.
func Search(tasks []Task, query string) []Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), query) {
			out = append(out, t)
		}
	}
	return out
}

// On returns the tasks covering day.
func On(day time.Time, tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Covers(day) {
			out = append(out, t)
		}
	}
	return out
}

// SortByStart returns a copy of tasks ordered by start date, earliest
// first. Ties keep their input order.
func SortByStart(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// SampleTasks returns a few demonstration tasks in the month containing now.
func SampleTasks(now time.Time) []Task {
	m := dates.StartOfMonth(now)
	at := func(d int) time.Time { return dates.AddDays(m, d-1) }
	return []Task{
		{ID: uuid.NewString(), Title: "Project Planning Phase", Start: at(10), End: at(14), Category: CategoryToDo},
		{ID: uuid.NewString(), Title: "Development Sprint 1", Start: at(12), End: at(18), Category: CategoryInProgress},
		{ID: uuid.NewString(), Title: "Design Review", Start: at(16), End: at(17), Category: CategoryReview},
		{ID: uuid.NewString(), Title: "Testing Phase", Start: at(10), End: at(12), Category: CategoryCompleted},
		{ID: uuid.NewString(), Title: "Documentation Update", Start: at(10), End: at(11), Category: CategoryReview},
	}
}
