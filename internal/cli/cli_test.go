package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/task"
	"github.com/pablasso/calplan/internal/testutil"
)

// setup returns a fresh data directory and pins the clock to Jul 15, 2025.
func setup(t *testing.T) string {
	t.Helper()
	dir := testutil.SetupDataDir(t)
	old := now
	now = testutil.FixedClock(2025, time.July, 15)
	t.Cleanup(func() { now = old })
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatalf("calplan %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// add creates a task and returns its id.
func add(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out := mustRun(t, dir, append([]string{"task", "add"}, args...)...)
	id, ok := strings.CutPrefix(strings.TrimSpace(out), "Created ")
	if !ok || id == "" {
		t.Fatalf("unexpected add output %q", out)
	}
	return id
}

// rowFor returns the output line mentioning id.
func rowFor(t *testing.T, out, id string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, id) {
			return line
		}
	}
	t.Fatalf("no row for %s in:\n%s", id, out)
	return ""
}

func TestTaskAddAndList(t *testing.T) {
	dir := setup(t)

	review := add(t, dir, "Review", "--start", "2025-07-13", "--end", "2025-07-11", "--category", "review")
	launch := add(t, dir, "Launch", "plan", "--start", "2025-07-10", "--end", "2025-07-12")
	today := add(t, dir, "Standup")

	if _, err := os.Stat(filepath.Join(dir, "taskPlannerState.json")); err != nil {
		t.Fatalf("expected state file: %v", err)
	}

	out := mustRun(t, dir, "task", "list")
	if row := rowFor(t, out, review); !strings.Contains(row, "2025-07-11  2025-07-13  3") || !strings.Contains(row, "Review") {
		t.Errorf("reversed dates should be swapped: %q", row)
	}
	if row := rowFor(t, out, launch); !strings.Contains(row, "Launch plan") || !strings.Contains(row, "To Do") {
		t.Errorf("unexpected launch row %q", row)
	}
	if row := rowFor(t, out, today); !strings.Contains(row, "2025-07-15  2025-07-15  1") {
		t.Errorf("dates should default to today: %q", row)
	}

	// Earliest start first.
	if strings.Index(out, launch) > strings.Index(out, review) || strings.Index(out, review) > strings.Index(out, today) {
		t.Errorf("expected rows sorted by start:\n%s", out)
	}
}

func TestTaskAdd_Errors(t *testing.T) {
	dir := setup(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"blank title", []string{"   "}, task.ErrEmptyTitle},
		{"unknown category", []string{"X", "--category", "someday"}, task.ErrUnknownCategory},
		{"bad start", []string{"X", "--start", "07/10/2025"}, dates.ErrInvalidDate},
		{"bad end", []string{"X", "--end", "soon"}, dates.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dir, append([]string{"task", "add"}, tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if out := mustRun(t, dir, "task", "list"); !strings.Contains(out, "No tasks.") {
		t.Errorf("failed adds must not create tasks:\n%s", out)
	}
}

func TestTaskMutations(t *testing.T) {
	dir := setup(t)
	id := add(t, dir, "Launch", "--start", "2025-07-10", "--end", "2025-07-12")

	steps := []struct {
		name string
		args []string
		want string
	}{
		{"move keeps length", []string{"task", "move", id, "2025-07-20"}, "2025-07-20  2025-07-22  3"},
		{"resize end", []string{"task", "resize", id, "2025-07-25"}, "2025-07-20  2025-07-25  6"},
		{"resize start past end swaps", []string{"task", "resize", id, "--edge", "start", "2025-07-27"}, "2025-07-25  2025-07-27  3"},
		{"edit title and category", []string{"task", "edit", id, "--title", "Ship", "--category", "in-progress"}, "In Progress  Ship"},
		{"edit dates", []string{"task", "edit", id, "--start", "2025-07-01"}, "2025-07-01  2025-07-27  27"},
	}

	for _, s := range steps {
		out := mustRun(t, dir, s.args...)
		if row := rowFor(t, out, id); !strings.Contains(row, s.want) {
			t.Errorf("%s: row %q missing %q", s.name, row, s.want)
		}
	}

	out := mustRun(t, dir, "task", "rm", id)
	if !strings.Contains(out, "Deleted "+id) {
		t.Errorf("unexpected rm output %q", out)
	}
	if out := mustRun(t, dir, "task", "list", "--all"); !strings.Contains(out, "No tasks.") {
		t.Errorf("expected no tasks after rm:\n%s", out)
	}
}

func TestTaskMutations_Errors(t *testing.T) {
	dir := setup(t)
	id := add(t, dir, "Launch")

	tests := []struct {
		name    string
		args    []string
		want    error
		wantMsg string
	}{
		{"move unknown", []string{"task", "move", "nope", "2025-07-20"}, errTaskNotFound, "task not found: nope"},
		{"resize unknown", []string{"task", "resize", "nope", "2025-07-20"}, errTaskNotFound, ""},
		{"edit unknown", []string{"task", "edit", "nope", "--title", "x"}, errTaskNotFound, ""},
		{"rm unknown", []string{"task", "rm", "nope"}, errTaskNotFound, ""},
		{"blank title", []string{"task", "edit", id, "--title", " "}, task.ErrEmptyTitle, ""},
		{"bad category", []string{"task", "edit", id, "--category", "later"}, task.ErrUnknownCategory, ""},
		{"bad move date", []string{"task", "move", id, "tomorrow"}, dates.ErrInvalidDate, ""},
		{"nothing to edit", []string{"task", "edit", id}, nil, "nothing to change"},
		{"bad edge", []string{"task", "resize", id, "--edge", "middle", "2025-07-20"}, nil, "unknown edge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dir, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestTaskList_Filters(t *testing.T) {
	dir := setup(t)
	old := add(t, dir, "Old", "--start", "2025-07-01")
	launch := add(t, dir, "Launch", "--start", "2025-07-10", "--category", "To Do")
	review := add(t, dir, "Review", "--start", "2025-07-14", "--category", "Review")

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"saved filters show all", nil, []string{old, launch, review}, nil},
		{"category", []string{"--category", "review"}, []string{review}, []string{old, launch}},
		{"range", []string{"--range", "1week"}, []string{launch, review}, []string{old}},
		{"search", []string{"--search", "LAUN"}, []string{launch}, []string{old, review}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRun(t, dir, append([]string{"task", "list"}, tt.args...)...)
			for _, id := range tt.want {
				if !strings.Contains(out, id) {
					t.Errorf("expected %s in:\n%s", id, out)
				}
			}
			for _, id := range tt.notWant {
				if strings.Contains(out, id) {
					t.Errorf("did not expect %s in:\n%s", id, out)
				}
			}
		})
	}

	// Listing with flags does not change the saved filters.
	mustRun(t, dir, "filter", "set", "--category", "review")
	out := mustRun(t, dir, "task", "list")
	if strings.Contains(out, launch) || !strings.Contains(out, review) {
		t.Errorf("saved filter not applied:\n%s", out)
	}
	if out := mustRun(t, dir, "task", "list", "--all"); !strings.Contains(out, launch) {
		t.Errorf("--all should ignore saved filters:\n%s", out)
	}
}

func TestFilter(t *testing.T) {
	dir := setup(t)
	add(t, dir, "Launch")

	out := mustRun(t, dir, "filter", "show")
	for _, want := range []string{"[x] To Do (1)", "[x] Completed (0)", "Range: All time"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	out = mustRun(t, dir, "filter", "set", "--category", "todo,review", "--range", "2weeks")
	for _, want := range []string{"[x] To Do", "[ ] In Progress", "[x] Review", "Range: Last 2 weeks"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	// Persisted for the next process.
	if out := mustRun(t, dir, "filter", "show"); !strings.Contains(out, "Range: Last 2 weeks") {
		t.Errorf("filters not persisted:\n%s", out)
	}

	if _, err := run(t, dir, "filter", "set"); err == nil {
		t.Error("set without flags should fail")
	}
	if _, err := run(t, dir, "filter", "set", "--range", "fortnight"); err == nil {
		t.Error("unknown range should fail")
	}
}

func TestWeek(t *testing.T) {
	dir := setup(t)
	launch := add(t, dir, "Launch", "--start", "2025-07-10", "--end", "2025-07-12")
	review := add(t, dir, "Review", "--start", "2025-07-11", "--end", "2025-07-13")
	early := add(t, dir, "Early", "--start", "2025-07-03", "--end", "2025-07-07")

	out := mustRun(t, dir, "week", "2025-07-09")
	if !strings.Contains(out, "Week of Jul 6 → Jul 12, 2025") {
		t.Errorf("unexpected heading:\n%s", out)
	}

	tests := []struct {
		id    string
		layer string
		strip string
	}{
		{launch, "0", "....###"},
		{review, "1", ".....#>"},
		{early, "0", "<#....."},
	}
	for _, tt := range tests {
		row := rowFor(t, out, tt.id)
		if !strings.HasPrefix(row, tt.layer+" ") || !strings.Contains(row, tt.strip) {
			t.Errorf("row %q, want layer %s strip %s", row, tt.layer, tt.strip)
		}
	}

	if out := mustRun(t, dir, "week", "2025-08-20"); !strings.Contains(out, "No tasks.") {
		t.Errorf("expected an empty week:\n%s", out)
	}
}

func TestWeek_Overflow(t *testing.T) {
	dir := setup(t)
	for range 3 {
		add(t, dir, "Stacked", "--start", "2025-07-15")
	}

	out := mustRun(t, dir, "week")
	if !strings.Contains(out, "1 hidden beyond layer 1") {
		t.Errorf("expected overflow note:\n%s", out)
	}
}

func TestConfig(t *testing.T) {
	dir := setup(t)

	out := mustRun(t, dir, "config", "init")
	path := filepath.Join(dir, "config.yaml")
	if !strings.Contains(out, path) {
		t.Errorf("unexpected init output %q", out)
	}
	if _, err := run(t, dir, "config", "init"); err == nil {
		t.Error("init should refuse to overwrite")
	}
	mustRun(t, dir, "config", "init", "--force")

	t.Setenv("CALPLAN_VISIBLE_LAYERS", "3")
	out = mustRun(t, dir, "--log-level", "debug", "config", "show")
	for _, want := range []string{"data_dir: " + dir, "visible_layers: 3", "level: debug", "store_key: taskPlannerState"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestSampleTasks(t *testing.T) {
	dir := setup(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("sample_tasks: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	first := mustRun(t, dir, "task", "list")
	if !strings.Contains(first, "Project Planning Phase") || !strings.Contains(first, "2025-07-10") {
		t.Errorf("expected sample tasks in the current month:\n%s", first)
	}
	if second := mustRun(t, dir, "task", "list"); second != first {
		t.Errorf("sample tasks should be stored once:\n%s\nvs\n%s", first, second)
	}
}

func TestEphemeral(t *testing.T) {
	dir := setup(t)

	mustRun(t, dir, "--ephemeral", "task", "add", "Scratch")
	if out := mustRun(t, dir, "task", "list"); !strings.Contains(out, "No tasks.") {
		t.Errorf("ephemeral tasks must not be stored:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "taskPlannerState.json")); !os.IsNotExist(err) {
		t.Errorf("expected no state file, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	dir := setup(t)
	out := mustRun(t, dir, "version")
	if !strings.HasPrefix(out, "calplan dev") {
		t.Errorf("unexpected version output %q", out)
	}
}
