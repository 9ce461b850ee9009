// Package config loads repofs CLI configuration from .repofs.yaml,
// environment variables (REPOFS_ prefix) and built-in defaults.
package config

import (
	"time"

	"github.com/schmitthub/repofs/internal/logger"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// ConfigFileName is the default configuration file name, looked up in
// the working directory.
const ConfigFileName = ".repofs.yaml"

// Config is the repofs CLI configuration.
type Config struct {
	// Git configures subprocess execution.
	Git GitConfig `mapstructure:"git" yaml:"git"`

	// Cache configures the coalescing cache TTLs.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Logging configures file logging.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// GitConfig configures how the git binary is invoked.
type GitConfig struct {
	// Path is the git executable, resolved through PATH when relative.
	Path string `mapstructure:"path" yaml:"path"`

	// ExecTimeout bounds each git invocation. Zero disables the bound.
	ExecTimeout time.Duration `mapstructure:"exec_timeout" yaml:"exec_timeout"`
}

// CacheConfig holds the TTLs for cached repository reads.
type CacheConfig struct {
	// HistoricalTTL applies to content-addressed (immutable) data.
	HistoricalTTL time.Duration `mapstructure:"historical_ttl" yaml:"historical_ttl"`

	// VolatileTTL applies to live working-tree and ref state.
	VolatileTTL time.Duration `mapstructure:"volatile_ttl" yaml:"volatile_ttl"`
}

// LoggingConfig configures optional file logging.
type LoggingConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir"`
	FileEnabled bool   `mapstructure:"file_enabled" yaml:"file_enabled"`
	MaxSizeMB   int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays  int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	fileDefaults := logger.DefaultFileConfig()
	return &Config{
		Git: GitConfig{
			Path:        "git",
			ExecTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			HistoricalTTL: repofs.DefaultTTLPolicy.Historical,
			VolatileTTL:   repofs.DefaultTTLPolicy.Volatile,
		},
		Logging: LoggingConfig{
			FileEnabled: fileDefaults.Enabled,
			MaxSizeMB:   fileDefaults.MaxSizeMB,
			MaxAgeDays:  fileDefaults.MaxAgeDays,
			MaxBackups:  fileDefaults.MaxBackups,
		},
	}
}

// TTLPolicy converts the cache section into the library's policy.
func (c *Config) TTLPolicy() repofs.TTLPolicy {
	return repofs.TTLPolicy{
		Historical: c.Cache.HistoricalTTL,
		Volatile:   c.Cache.VolatileTTL,
	}
}

// FileConfig converts the logging section into the logger's config.
func (c *Config) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Enabled:    c.Logging.FileEnabled,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxAgeDays: c.Logging.MaxAgeDays,
		MaxBackups: c.Logging.MaxBackups,
	}
}
