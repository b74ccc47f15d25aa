// Package store mirrors the planner state into a key-value backend as JSON.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/task"
)

// DefaultKey is the key the planner state is stored under.
const DefaultKey = "taskPlannerState"

// Store serializes task.State to a Backend. It satisfies task.Saver.
type Store struct {
	backend Backend
	key     string
	logger  *zap.Logger
}

// New creates a Store. An empty key uses DefaultKey and a nil logger
// discards output.
func New(backend Backend, key string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, key: key, logger: logger}
}

// record is the persisted shape of the planner state.
type record struct {
	Tasks   []taskRecord   `json:"tasks"`
	Filters *filtersRecord `json:"filters,omitempty"`
}

type taskRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category"`
}

type filtersRecord struct {
	Categories []string `json:"categories"`
	TimeRange  *string  `json:"timeRange"`
}

// Save writes the full state under the store's key.
func (s *Store) Save(st task.State) error {
	rec := record{
		Tasks:   make([]taskRecord, 0, len(st.Tasks)),
		Filters: &filtersRecord{Categories: make([]string, 0, len(st.Filters.Categories))},
	}
	for _, t := range st.Tasks {
		rec.Tasks = append(rec.Tasks, taskRecord{
			ID:        t.ID,
			Title:     t.Title,
			StartDate: t.Start.Format(time.RFC3339),
			EndDate:   t.End.Format(time.RFC3339),
			Category:  string(t.Category),
		})
	}
	for _, c := range st.Filters.Categories {
		rec.Filters.Categories = append(rec.Filters.Categories, string(c))
	}
	if st.Filters.TimeRange != task.TimeRangeAll {
		tr := string(st.Filters.TimeRange)
		rec.Filters.TimeRange = &tr
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := s.backend.Set(s.key, data); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Load reads the stored state and revives its dates. It reports false when
// nothing usable is stored: a missing key, a read error, or malformed JSON.
// Failures are logged rather than returned so callers can fall back to a
// default state. Individual tasks that cannot be revived are dropped.
func (s *Store) Load() (task.State, bool) {
	data, ok, err := s.backend.Get(s.key)
	if err != nil {
		s.logger.Warn("failed to read stored state", zap.String("key", s.key), zap.Error(err))
		return task.State{}, false
	}
	if !ok {
		return task.State{}, false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("stored state is malformed", zap.String("key", s.key), zap.Error(err))
		return task.State{}, false
	}

	st := task.State{Tasks: make([]task.Task, 0, len(rec.Tasks))}
	for i, tr := range rec.Tasks {
		t, err := reviveTask(tr)
		if err != nil {
			s.logger.Warn("dropping stored task",
				zap.Int("index", i),
				zap.String("task_id", tr.ID),
				zap.Error(err),
			)
			continue
		}
		st.Tasks = append(st.Tasks, t)
	}
	st.Filters = s.reviveFilters(rec.Filters)
	return st, true
}

func reviveTask(tr taskRecord) (task.Task, error) {
	if tr.ID == "" {
		return task.Task{}, fmt.Errorf("missing id")
	}
	title := strings.TrimSpace(tr.Title)
	if title == "" {
		return task.Task{}, task.ErrEmptyTitle
	}
	cat := task.Category(tr.Category)
	if !cat.Valid() {
		return task.Task{}, fmt.Errorf("%w: %q", task.ErrUnknownCategory, tr.Category)
	}
	start, err := reviveDate(tr.StartDate)
	if err != nil {
		return task.Task{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := reviveDate(tr.EndDate)
	if err != nil {
		return task.Task{}, fmt.Errorf("endDate: %w", err)
	}
	start, end = dates.Order(start, end)
	return task.Task{ID: tr.ID, Title: title, Start: start, End: end, Category: cat}, nil
}

// reviveDate accepts RFC 3339 timestamps (with or without fractional
// seconds, as browsers write them) and bare YYYY-MM-DD days, returning
// local midnight.
func reviveDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return dates.StartOfDay(t.In(time.Local)), nil
	}
	if t, err := time.ParseInLocation(dates.DayLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func (s *Store) reviveFilters(fr *filtersRecord) task.Filters {
	if fr == nil || fr.Categories == nil {
		f := task.DefaultFilters()
		if fr != nil {
			f.TimeRange = s.reviveTimeRange(fr.TimeRange)
		}
		return f
	}

	f := task.Filters{Categories: make([]task.Category, 0, len(fr.Categories))}
	for _, c := range fr.Categories {
		cat := task.Category(c)
		if !cat.Valid() {
			s.logger.Warn("dropping unknown category from filters", zap.String("category", c))
			continue
		}
		if !f.Includes(cat) {
			f.Categories = append(f.Categories, cat)
		}
	}
	f.TimeRange = s.reviveTimeRange(fr.TimeRange)
	return f
}

func (s *Store) reviveTimeRange(tr *string) task.TimeRange {
	if tr == nil || *tr == "" {
		return task.TimeRangeAll
	}
	r := task.TimeRange(*tr)
	if r.Weeks() == 0 {
		s.logger.Warn("ignoring unknown time range", zap.String("time_range", *tr))
		return task.TimeRangeAll
	}
	return r
}
