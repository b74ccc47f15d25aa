// Package config loads calplan settings from config.yaml, CALPLAN_*
// environment variables and built-in defaults, in increasing order of
// precedence: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pablasso/calplan/internal/layout"
	"github.com/pablasso/calplan/internal/logging"
	"github.com/pablasso/calplan/internal/store"
)

const (
	appName        = "calplan"
	configFileName = "config.yaml"
	logFileName    = "calplan.log"
	envPrefix      = "CALPLAN"
)

// Config is the full calplan configuration.
type Config struct {
	// DataDir holds the state file, config file and logs.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// StoreKey names the state file within DataDir.
	StoreKey string `yaml:"store_key" mapstructure:"store_key"`
	// VisibleLayers is how many task rows each week shows.
	VisibleLayers int `yaml:"visible_layers" mapstructure:"visible_layers"`
	// SampleTasks seeds demonstration tasks when nothing is stored yet.
	SampleTasks bool `yaml:"sample_tasks" mapstructure:"sample_tasks"`

	Log logging.Config `yaml:"log" mapstructure:"log"`
}

// DefaultDataDir returns <user config dir>/calplan, or .calplan in the
// working directory when the user config dir is unknown.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(dir, appName)
}

// Default returns the built-in configuration rooted at dataDir. An empty
// dataDir uses DefaultDataDir.
func Default(dataDir string) *Config {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	return &Config{
		DataDir:       dataDir,
		StoreKey:      store.DefaultKey,
		VisibleLayers: layout.DefaultVisibleLayers,
		Log: logging.Config{
			Level:      "info",
			Format:     "console",
			Output:     logging.OutputFile,
			File:       filepath.Join(dataDir, logFileName),
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Path returns where config.yaml lives for dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// Load reads configuration. path names an explicit config file, which must
// exist; when empty, config.yaml in dataDir is used if present. dataDir
// may be empty to use the default.
func Load(path, dataDir string) (*Config, error) {
	def := Default(dataDir)

	v := viper.New()
	setDefaults(v, def)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigFile(Path(def.DataDir))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", Path(def.DataDir), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// An explicit data dir wins over the file, and moving the data dir
	// without naming a log file moves the log with it.
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.Log.File == "" || cfg.Log.File == def.Log.File {
		cfg.Log.File = filepath.Join(cfg.DataDir, logFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("store_key", def.StoreKey)
	v.SetDefault("visible_layers", def.VisibleLayers)
	v.SetDefault("sample_tasks", def.SampleTasks)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.output", def.Log.Output)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.max_age_days", def.Log.MaxAgeDays)
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Validate checks for values the planner cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if strings.TrimSpace(c.StoreKey) == "" {
		return fmt.Errorf("store_key must not be empty")
	}
	if c.VisibleLayers < 1 {
		return fmt.Errorf("visible_layers must be at least 1, got %d", c.VisibleLayers)
	}
	switch strings.ToLower(c.Log.Output) {
	case logging.OutputFile, logging.OutputStderr, logging.OutputNone:
	default:
		return fmt.Errorf("log.output must be file, stderr or none, got %q", c.Log.Output)
	}
	return nil
}

// Write saves cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
