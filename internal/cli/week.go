package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pablasso/calplan/internal/dates"
	"github.com/pablasso/calplan/internal/layout"
)

func newWeekCmd(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Show how tasks stack in the week containing date",
		Long: `Print the layers the calendar uses for the Sunday-to-Saturday week
containing date (default today). Each row is one task segment; "<" and ">"
mark segments that continue from the previous week or into the next.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := "today"
			if len(args) == 1 {
				day = args[0]
			}
			d, err := parseDate(day)
			if err != nil {
				return err
			}

			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.close()

			tasks := e.repo.Visible(now())
			if all {
				tasks = e.repo.Tasks()
			}
			return printWeek(cmd.OutOrStdout(), layout.Week(dates.StartOfWeek(d), tasks), e.cfg.VisibleLayers)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "ignore category and range filters")
	return cmd
}

func printWeek(out io.Writer, w layout.WeekLayout, visibleLayers int) error {
	fmt.Fprintf(out, "Week of %s → %s\n\n", dates.FormatShort(w.Start), w.End().Format("Jan 2, 2006"))
	if len(w.Layers) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tSMTWTFS\tCATEGORY\tTITLE\tID")
	for _, p := range w.Placements() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.Layer, strip(p), p.Task.Category, p.Task.Title, p.Task.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if n := w.Overflow(visibleLayers); n > 0 {
		fmt.Fprintf(out, "\n%d hidden beyond layer %d\n", n, visibleLayers-1)
	}
	return nil
}

// strip draws a placement as seven day columns.
func strip(p layout.Placement) string {
	var b strings.Builder
	for col := range dates.DaysPerWeek {
		switch {
		case !p.CoversColumn(col):
			b.WriteByte('.')
		case col == p.StartColumn && !p.IsSegmentStart:
			b.WriteByte('<')
		case col == p.EndColumn() && !p.IsSegmentEnd:
			b.WriteByte('>')
		default:
			b.WriteByte('#')
		}
	}
	return b.String()
}
