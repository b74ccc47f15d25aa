package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/pablasso/calplan/internal/gesture"
	"github.com/pablasso/calplan/internal/store"
	"github.com/pablasso/calplan/internal/task"
	"github.com/pablasso/calplan/internal/tui/msgs"
	"github.com/pablasso/calplan/internal/tui/views"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func fixedNow() time.Time {
	return time.Date(2025, time.July, 15, 9, 30, 0, 0, time.Local)
}

func fixtureState() task.State {
	st := task.DefaultState()
	st.Tasks = []task.Task{
		{ID: "a", Title: "Launch", Start: day(2025, time.July, 10), End: day(2025, time.July, 12), Category: task.CategoryToDo},
		{ID: "b", Title: "Review", Start: day(2025, time.July, 11), End: day(2025, time.July, 13), Category: task.CategoryReview},
		{ID: "c", Title: "Standup", Start: day(2025, time.July, 10), End: day(2025, time.July, 10), Category: task.CategoryInProgress},
		{ID: "d", Title: "Hidden", Start: day(2025, time.July, 9), End: day(2025, time.July, 10), Category: task.CategoryCompleted},
	}
	return st
}

// Screen geometry at 120x40 with the sidebar open: the grid starts at
// x=35, y=1 with 12-column cells and 4-line week rows.
const (
	gridX = views.SidebarWidth + sidebarGap
	gridY = headerHeight
	cellW = 12
	rowH  = 4
)

func cellX(col int) int {
	return gridX + col*cellW + 5
}

func dayY(week int) int {
	return gridY + 1 + week*rowH
}

func barY(week, layer int) int {
	return dayY(week) + 1 + layer
}

func moreY(week int) int {
	return dayY(week) + 3
}

type failingSaver struct{}

func (failingSaver) Save(task.State) error {
	return errors.New("disk full")
}

func newTestModel(t *testing.T, saver task.Saver) Model {
	t.Helper()
	repo := task.NewRepository(fixtureState(), saver)
	m := NewModel(Options{Repository: repo, Logger: zap.NewNop(), VisibleLayers: 2, Now: fixedNow})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// follow runs cmd and feeds the message it produces back into the model.
func follow(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	m, _ = update(t, m, cmd())
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	b := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		b = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: b}
}

func drag(t *testing.T, m Model, fromX, fromY, toX, toY int) (Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, mouse(tea.MouseActionPress, fromX, fromY))
	m, _ = update(t, m, mouse(tea.MouseActionMotion, toX, toY))
	return update(t, m, mouse(tea.MouseActionRelease, toX, toY))
}

func TestModel_View_TerminalTooSmall(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		expectSmall bool
	}{
		{"exactly minimum size", MinTerminalWidth, MinTerminalHeight, false},
		{"width too small", MinTerminalWidth - 1, MinTerminalHeight, true},
		{"height too small", MinTerminalWidth, MinTerminalHeight - 1, true},
		{"larger than minimum", 120, 40, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, nil)
			m, _ = update(t, m, tea.WindowSizeMsg{Width: tt.width, Height: tt.height})

			view := m.View()
			if got := strings.Contains(view, "Terminal too small"); got != tt.expectSmall {
				t.Errorf("too-small message shown = %v, want %v", got, tt.expectSmall)
			}
			if tt.expectSmall && !strings.Contains(view, "Minimum: 60x15") {
				t.Error("expected minimum dimensions to be shown")
			}
		})
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, nil)
	view := m.View()

	for _, want := range []string{"July 2025", "4 of 4 tasks", "Categories", "Launch", "+1 more", "? guide"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if lines := strings.Split(view, "\n"); len(lines) != 40 {
		t.Errorf("expected 40 lines, got %d", len(lines))
	}
}

func TestModel_MonthNavigation(t *testing.T) {
	m := newTestModel(t, nil)

	steps := []struct {
		key  string
		want time.Time
	}{
		{"]", day(2025, time.August, 1)},
		{"l", day(2025, time.September, 1)},
		{"t", day(2025, time.July, 1)},
		{"[", day(2025, time.June, 1)},
		{"h", day(2025, time.May, 1)},
	}
	for _, s := range steps {
		m, _ = update(t, m, keyRunes(s.key))
		if !m.month.Equal(s.want) {
			t.Errorf("after %q month = %v, want %v", s.key, m.month, s.want)
		}
	}
	if !strings.Contains(m.View(), "May 2025") {
		t.Error("header should show May 2025")
	}
}

func TestModel_CreateByDragging(t *testing.T) {
	backend := store.NewMemoryBackend()
	st := store.New(backend, store.DefaultKey, zap.NewNop())
	m := newTestModel(t, st)

	m, cmd := drag(t, m, cellX(0), dayY(3), cellX(2), dayY(3)) // Jul 20..22
	m = follow(t, m, cmd)
	if m.dialog != dialogTask {
		t.Fatalf("expected the create dialog, got %v", m.dialog)
	}
	if !strings.Contains(m.View(), "New Task") {
		t.Error("expected the create dialog to render")
	}

	// Blank titles cannot be confirmed.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("enter with a blank title must not save")
	}

	m, _ = update(t, m, keyRunes("Ship it"))
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = follow(t, m, cmd)

	if m.dialog != dialogNone {
		t.Errorf("dialog should close after saving, got %v", m.dialog)
	}
	tasks := m.repo.Tasks()
	if len(tasks) != 5 {
		t.Fatalf("expected 5 tasks, got %d", len(tasks))
	}
	created := tasks[4]
	if created.Title != "Ship it" || !created.Start.Equal(day(2025, time.July, 20)) || !created.End.Equal(day(2025, time.July, 22)) {
		t.Errorf("unexpected task %+v", created)
	}

	loaded, ok := st.Load()
	if !ok || len(loaded.Tasks) != 5 {
		t.Errorf("expected the new task to be persisted, got %d tasks", len(loaded.Tasks))
	}
}

func TestModel_CreateCancelled(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := drag(t, m, cellX(0), dayY(3), cellX(0), dayY(3))
	m = follow(t, m, cmd)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = follow(t, m, cmd)
	if m.dialog != dialogNone || len(m.repo.Tasks()) != 4 {
		t.Errorf("esc should close without creating: dialog=%v tasks=%d", m.dialog, len(m.repo.Tasks()))
	}
}

func TestModel_DragMovesTask(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := drag(t, m, cellX(5), barY(1, 0), cellX(2), dayY(2)) // Launch to Jul 15
	m = follow(t, m, cmd)

	got, _ := m.repo.Get("a")
	if !got.Start.Equal(day(2025, time.July, 15)) || !got.End.Equal(day(2025, time.July, 17)) {
		t.Errorf("expected Jul 15..17, got %v..%v", got.Start, got.End)
	}
}

func TestModel_DragHandleResizesTask(t *testing.T) {
	m := newTestModel(t, nil)

	endHandleX := gridX + 7*cellW - 2
	m, cmd := drag(t, m, endHandleX, barY(1, 0), cellX(1), dayY(2)) // end to Jul 14
	m = follow(t, m, cmd)

	got, _ := m.repo.Get("a")
	if !got.Start.Equal(day(2025, time.July, 10)) || !got.End.Equal(day(2025, time.July, 14)) {
		t.Errorf("expected Jul 10..14, got %v..%v", got.Start, got.End)
	}
}

func TestModel_ClickBarEditsTask(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := drag(t, m, cellX(5), barY(1, 0), cellX(5), barY(1, 0))
	m = follow(t, m, cmd)
	if m.dialog != dialogTask || !strings.Contains(m.View(), "Edit Task") {
		t.Fatal("expected the edit dialog")
	}

	m, _ = update(t, m, keyRunes(" v2"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = follow(t, m, cmd)

	got, _ := m.repo.Get("a")
	if got.Title != "Launch v2" || got.Category != task.CategoryInProgress {
		t.Errorf("unexpected edit result %+v", got)
	}
}

func TestModel_DayDialog(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, mouse(tea.MouseActionPress, cellX(4), moreY(1)))
	m = follow(t, m, cmd)
	if m.dialog != dialogDay || !strings.Contains(m.View(), "Thursday, July 10") {
		t.Fatal("expected the day dialog for Jul 10")
	}

	// First entry is Hidden (earliest start); delete it.
	m, cmd = update(t, m, keyRunes("d"))
	m = follow(t, m, cmd)
	if _, ok := m.repo.Get("d"); ok {
		t.Error("expected d to be deleted")
	}
	if m.dialog != dialogDay {
		t.Error("day dialog should stay open after deleting")
	}

	// Edit from the day dialog returns to it on close.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = follow(t, m, cmd)
	if m.dialog != dialogTask {
		t.Fatal("expected the edit dialog")
	}
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = follow(t, m, cmd)
	if m.dialog != dialogDay {
		t.Errorf("expected to return to the day dialog, got %v", m.dialog)
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = follow(t, m, cmd)
	if m.dialog != dialogNone {
		t.Errorf("expected no dialog, got %v", m.dialog)
	}
}

func TestModel_SidebarFilters(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, keyRunes("1"))
	if m.repo.Filters().Includes(task.CategoryToDo) {
		t.Fatal("1 should toggle To Do off")
	}
	if strings.Contains(m.View(), "Launch") {
		t.Error("Launch should be filtered out of the view")
	}

	m, _ = update(t, m, keyRunes("1"))
	m, _ = update(t, m, keyRunes("r"))
	if m.repo.Filters().TimeRange != task.TimeRangeOneWeek {
		t.Errorf("r should cycle to one week, got %q", m.repo.Filters().TimeRange)
	}
	if !strings.Contains(m.View(), "Last week") {
		t.Error("header should show the time range")
	}
}

func TestModel_SidebarClickToggles(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, mouse(tea.MouseActionPress, 3, headerHeight+2))
	m = follow(t, m, cmd)
	if m.repo.Filters().Includes(task.CategoryInProgress) {
		t.Error("clicking the second category row should toggle In Progress")
	}
}

func TestModel_Search(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, keyRunes("/"))
	if !m.sidebar.Searching() {
		t.Fatal("/ should focus search")
	}
	m, _ = update(t, m, keyRunes("rev"))
	m, _ = update(t, m, keyRunes("q"))

	if m.query != "revq" {
		t.Errorf("query = %q; keys should go to the search box while it has focus", m.query)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	view := m.View()
	if !strings.Contains(view, "Tasks (1)") {
		t.Error("search should narrow the sidebar list")
	}
	if !strings.Contains(view, "Launch") {
		t.Error("search should not filter the calendar")
	}
}

func TestModel_SidebarToggle(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, keyRunes("s"))
	if m.showSidebar || strings.Contains(m.View(), "Categories") {
		t.Fatal("s should hide the sidebar")
	}

	// With the sidebar hidden the grid starts at x=0 and sidebar keys are off.
	m, _ = update(t, m, keyRunes("1"))
	if !m.repo.Filters().Includes(task.CategoryToDo) {
		t.Error("category keys should be disabled while the sidebar is hidden")
	}
	m, cmd := update(t, m, mouse(tea.MouseActionPress, 4*(120/7)+5, dayY(1)))
	if cmd != nil {
		t.Error("pressing a day cell should not emit")
	}
	if _, ok := m.calendar.Phase().(gesture.Selecting); !ok {
		t.Errorf("expected a selection in progress, got %T", m.calendar.Phase())
	}
}

func TestModel_GuideDialog(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, keyRunes("?"))
	if m.dialog != dialogGuide || !strings.Contains(m.View(), "Quick Guide") {
		t.Fatal("expected the quick guide")
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = follow(t, m, cmd)
	if m.dialog != dialogNone {
		t.Error("esc should close the guide")
	}
}

func TestModel_SaveFailureShowsNote(t *testing.T) {
	m := newTestModel(t, failingSaver{})

	m, _ = update(t, m, msgs.MoveTaskMsg{TaskID: "a", Date: day(2025, time.July, 20)})
	if !strings.Contains(m.View(), "not saved: disk full") {
		t.Error("expected the save failure in the status bar")
	}
	got, _ := m.repo.Get("a")
	if !got.Start.Equal(day(2025, time.July, 20)) {
		t.Error("the in-memory move should still apply")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := update(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
