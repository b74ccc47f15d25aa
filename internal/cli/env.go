package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pablasso/calplan/internal/config"
	"github.com/pablasso/calplan/internal/logging"
	"github.com/pablasso/calplan/internal/store"
	"github.com/pablasso/calplan/internal/task"
)

// env is everything a command needs: the effective configuration, a
// logger, and a repository backed by the configured store.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	repo   *task.Repository
}

// loadConfig reads configuration and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, opts.dataDir)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.ephemeral && cfg.Log.Output == logging.OutputFile {
		cfg.Log.Output = logging.OutputNone
	}
	return cfg, nil
}

func openEnv(opts *rootOptions) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	var backend store.Backend
	if opts.ephemeral {
		backend = store.NewMemoryBackend()
	} else {
		backend = store.NewFileBackend(cfg.DataDir)
	}
	st := store.New(backend, cfg.StoreKey, logger)

	state, ok := st.Load()
	if !ok {
		state = task.DefaultState()
		if cfg.SampleTasks {
			state.Tasks = task.SampleTasks(now())
			// Persist right away so sample ids stay stable across runs.
			if err := st.Save(state); err != nil {
				logger.Warn("failed to save sample tasks", zap.Error(err))
			}
		}
	}
	logger.Debug("state loaded",
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("stored", ok),
		zap.Int("tasks", len(state.Tasks)),
	)

	return &env{
		cfg:    cfg,
		logger: logger,
		repo:   task.NewRepository(state, st, task.WithLogger(logger)),
	}, nil
}

// saved returns the repository's last save failure, wrapped for the user.
func (e *env) saved() error {
	if err := e.repo.SaveErr(); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (e *env) close() {
	_ = e.logger.Sync()
}
