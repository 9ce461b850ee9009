package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of repofs configuration.
type Loader struct {
	workDir string
	viper   *viper.Viper
}

// NewLoader creates a configuration loader for the given working
// directory.
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir: workDir,
		viper:   viper.New(),
	}
}

// Load reads .repofs.yaml from the working directory, merged over the
// defaults and under REPOFS_* environment variables. A missing config
// file is not an error; the defaults apply.
func (l *Loader) Load() (*Config, error) {
	defaults := DefaultConfig()
	l.viper.SetDefault("git.path", defaults.Git.Path)
	l.viper.SetDefault("git.exec_timeout", defaults.Git.ExecTimeout)
	l.viper.SetDefault("cache.historical_ttl", defaults.Cache.HistoricalTTL)
	l.viper.SetDefault("cache.volatile_ttl", defaults.Cache.VolatileTTL)
	l.viper.SetDefault("logging.dir", defaults.Logging.Dir)
	l.viper.SetDefault("logging.file_enabled", defaults.Logging.FileEnabled)
	l.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	l.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	l.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	l.viper.SetEnvPrefix("REPOFS")
	l.viper.AutomaticEnv()

	configPath := filepath.Join(l.workDir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		l.viper.SetConfigFile(configPath)
		l.viper.SetConfigType("yaml")
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// WriteDefault writes the default configuration as YAML to path. It
// refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	b, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
