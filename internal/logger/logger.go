// Package logger provides the global zerolog logger for the repofs
// CLI: pretty console output on stderr, with optional rotated file
// output.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance.
var Log zerolog.Logger

// fileWriter is the file output for logging (with rotation).
var fileWriter *lumberjack.Logger

// FileConfig holds configuration for file-based logging.
type FileConfig struct {
	Enabled    bool
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// DefaultFileConfig returns the rotation defaults.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Enabled:    false,
		MaxSizeMB:  50,
		MaxAgeDays: 7,
		MaxBackups: 3,
	}
}

// Init initializes console-only logging. Use InitWithFile for file
// logging.
func Init(debug bool) {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	Log = zerolog.New(output).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
}

// InitWithFile initializes the logger with optional rotated file
// output in logsDir. With an empty logsDir or file logging disabled it
// behaves like Init.
func InitWithFile(debug bool, logsDir string, cfg FileConfig) error {
	if logsDir == "" || !cfg.Enabled {
		Init(debug)
		return nil
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, "repofs.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	Log = zerolog.New(io.MultiWriter(consoleWriter, fileWriter)).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
	return nil
}

// Close flushes and closes the file writer, if any.
func Close() error {
	if fileWriter != nil {
		err := fileWriter.Close()
		fileWriter = nil
		return err
	}
	return nil
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
