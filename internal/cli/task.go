package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/task"
)

var errTaskNotFound = errors.New("task not found")

func newTaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, list and change tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(opts),
		newTaskListCmd(opts),
		newTaskEditCmd(opts),
		newTaskMoveCmd(opts),
		newTaskResizeCmd(opts),
		newTaskRmCmd(opts),
	)
	return cmd
}

func newTaskAddCmd(opts *rootOptions) *cobra.Command {
	var start, end, category string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long: `Add a task spanning --start to --end. Both default to today, and
reversed dates are swapped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := parseDate(start)
			if err != nil {
				return err
			}
			last := first
			if end != "" {
				if last, err = parseDate(end); err != nil {
					return err
				}
			}
			c, err := task.ParseCategory(category)
			if err != nil {
				return err
			}

			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			t, err := e.repo.Create(strings.Join(args, " "), first, last, c)
			if err != nil {
				return err
			}
			if err := e.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "today", "first day (YYYY-MM-DD or today)")
	cmd.Flags().StringVar(&end, "end", "", "last day (default: same as --start)")
	cmd.Flags().StringVar(&category, "category", string(task.CategoryToDo), "To Do|In Progress|Review|Completed")
	return cmd
}

func newTaskListCmd(opts *rootOptions) *cobra.Command {
	var (
		categories []string
		timeRange  string
		search     string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks through the saved filters, earliest start first.
--category and --range replace the saved filters for this listing only;
--all ignores them entirely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			f := e.repo.Filters()
			if cmd.Flags().Changed("category") {
				if f.Categories, err = parseCategories(categories); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("range") {
				if f.TimeRange, err = task.ParseTimeRange(timeRange); err != nil {
					return err
				}
			}

			tasks := e.repo.Filter(f, now())
			if all {
				tasks = e.repo.Tasks()
			}
			tasks = task.SortByStart(task.Search(tasks, search))
			return printTasks(cmd.OutOrStdout(), tasks)
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "only these categories (repeatable)")
	cmd.Flags().StringVar(&timeRange, "range", "", "1week|2weeks|3weeks|all")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive title match")
	cmd.Flags().BoolVar(&all, "all", false, "ignore category and range filters")
	return cmd
}

func newTaskEditCmd(opts *rootOptions) *cobra.Command {
	var title, category, start, end string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title, category or dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch task.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				if strings.TrimSpace(title) == "" {
					return task.ErrEmptyTitle
				}
				patch.Title = &title
			}
			if flags.Changed("category") {
				c, err := task.ParseCategory(category)
				if err != nil {
					return err
				}
				patch.Category = &c
			}
			if flags.Changed("start") {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				patch.Start = &d
			}
			if flags.Changed("end") {
				d, err := parseDate(end)
				if err != nil {
					return err
				}
				patch.End = &d
			}
			if patch == (task.Patch{}) {
				return errors.New("nothing to change: pass --title, --category, --start or --end")
			}

			return mutate(opts, cmd.OutOrStdout(), args[0], func(repo *task.Repository) bool {
				return repo.Update(args[0], patch)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&start, "start", "", "new first day")
	cmd.Flags().StringVar(&end, "end", "", "new last day")
	return cmd
}

func newTaskMoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <date>",
		Short: "Move a task to start on date, keeping its length",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[1])
			if err != nil {
				return err
			}
			return mutate(opts, cmd.OutOrStdout(), args[0], func(repo *task.Repository) bool {
				return repo.Move(args[0], d)
			})
		},
	}
}

func newTaskResizeCmd(opts *rootOptions) *cobra.Command {
	var edge string

	cmd := &cobra.Command{
		Use:   "resize <id> <date>",
		Short: "Move one end of a task",
		Long: `Set the task's start or end to date. Moving an end past the other
swaps them, so the task always runs forward.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := task.ParseEdge(edge)
			if err != nil {
				return err
			}
			d, err := parseDate(args[1])
			if err != nil {
				return err
			}
			return mutate(opts, cmd.OutOrStdout(), args[0], func(repo *task.Repository) bool {
				return repo.Resize(args[0], ed, d)
			})
		},
	}

	cmd.Flags().StringVar(&edge, "edge", string(task.EdgeEnd), "start|end")
	return cmd
}

func newTaskRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.repo.Delete(args[0]) {
				return fmt.Errorf("%w: %s", errTaskNotFound, args[0])
			}
			if err := e.saved(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// mutate applies fn to the task with id and prints the result.
func mutate(opts *rootOptions, out io.Writer, id string, fn func(*task.Repository) bool) error {
	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.close()

	if _, ok := e.repo.Get(id); !ok {
		return fmt.Errorf("%w: %s", errTaskNotFound, id)
	}
	if !fn(e.repo) {
		return fmt.Errorf("task %s was not changed", id)
	}
	if err := e.saved(); err != nil {
		return err
	}

	t, _ := e.repo.Get(id)
	return printTasks(out, []task.Task{t})
}

func printTasks(out io.Writer, tasks []task.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tEND\tDAYS\tCATEGORY\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			t.ID,
			dates.FormatDay(t.Start),
			dates.FormatDay(t.End),
			t.Days(),
			t.Category,
			t.Title,
		)
	}
	return w.Flush()
}

// parseDate accepts YYYY-MM-DD or "today".
func parseDate(s string) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return dates.StartOfDay(now()), nil
	}
	return dates.ParseDay(s)
}

func parseCategories(values []string) ([]task.Category, error) {
	out := make([]task.Category, 0, len(values))
	for _, v := range values {
		c, err := task.ParseCategory(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
