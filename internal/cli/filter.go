package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pablasso/calplan/internal/task"
)

func newFilterCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show or change the saved filters",
	}
	cmd.AddCommand(newFilterShowCmd(opts), newFilterSetCmd(opts))
	return cmd
}

func newFilterShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			printFilters(cmd.OutOrStdout(), e.repo)
			return nil
		},
	}
}

func newFilterSetCmd(opts *rootOptions) *cobra.Command {
	var (
		categories []string
		timeRange  string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the saved filters",
		Long: `Replace the visible categories and/or the time range. The planner
and "task list" use these until they are changed again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("category") && !flags.Changed("range") {
				return errors.New("nothing to change: pass --category or --range")
			}

			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			f := e.repo.Filters()
			if flags.Changed("category") {
				if f.Categories, err = parseCategories(categories); err != nil {
					return err
				}
			}
			if flags.Changed("range") {
				if f.TimeRange, err = task.ParseTimeRange(timeRange); err != nil {
					return err
				}
			}
			e.repo.SetFilters(f)
			if err := e.saved(); err != nil {
				return err
			}

			printFilters(cmd.OutOrStdout(), e.repo)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "visible categories (repeatable, empty hides all)")
	cmd.Flags().StringVar(&timeRange, "range", "", "1week|2weeks|3weeks|all")
	return cmd
}

func printFilters(out io.Writer, repo *task.Repository) {
	f := repo.Filters()
	counts := repo.CategoryCounts()
	fmt.Fprintln(out, "Categories:")
	for _, c := range task.Categories() {
		mark := " "
		if f.Includes(c) {
			mark = "x"
		}
		fmt.Fprintf(out, "  [%s] %s (%d)\n", mark, c, counts[c])
	}
	fmt.Fprintf(out, "Range: %s\n", f.TimeRange.Label())
	if len(f.Categories) == 0 {
		fmt.Fprintln(out, "Every task is hidden.")
	}
}
