// Package cli is the calplan command tree. With no subcommand it opens the
// interactive planner; the subcommands script the same repository.
package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pablasso/calplan/internal/tui"
	"github.com/pablasso/calplan/internal/version"
)

// now is the clock commands read. Tests replace it.
var now = time.Now

type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string
	ephemeral  bool
}

// NewRootCmd builds the calplan command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "calplan",
		Short: "Month calendar task planner",
		Long: `calplan plans multi-day tasks on a month calendar. Drag across days to
create a task, drag a bar to move it, or drag its edges to resize it.`,
		Version:      version.String(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanner(opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default <data-dir>/config.yaml)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory for state, config and logs")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep state in memory only")

	cmd.AddCommand(
		newTaskCmd(opts),
		newWeekCmd(opts),
		newFilterCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func runPlanner(opts *rootOptions) error {
	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.close()

	e.logger.Info("planner started", zap.Int("tasks", len(e.repo.Tasks())))
	return tui.Run(tui.Options{
		Repository:    e.repo,
		Logger:        e.logger,
		VisibleLayers: e.cfg.VisibleLayers,
		Now:           now,
	})
}
