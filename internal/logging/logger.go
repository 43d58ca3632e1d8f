package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration options for the logger
type Config struct {
	// Level is the minimum level: debug, info, warn or error
	Level string
	// IsDev switches to the text handler and adds source locations
	IsDev bool
	// LogDir is the directory for rotated log files; empty disables file output
	LogDir string
	// MaxSizeMB is the maximum size of a log file before rotation
	MaxSizeMB int
	// MaxBackups is the maximum number of rotated files to keep
	MaxBackups int
	// MaxAgeDays is the maximum number of days to keep rotated files
	MaxAgeDays int
	// AlsoLogToConsole tees output to stdout
	AlsoLogToConsole bool
}

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	fileLogger   *lumberjack.Logger
)

// ParseLevel converts a config level string to a slog.Level, defaulting to
// info for unknown values.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing JSON (or text in dev mode) to a rotated file
// and optionally stdout. The returned closer releases the log file.
func New(config Config) (*slog.Logger, io.Closer, error) {
	if config.MaxSizeMB <= 0 {
		config.MaxSizeMB = 100
	}
	if config.MaxBackups <= 0 {
		config.MaxBackups = 10
	}
	if config.MaxAgeDays <= 0 {
		config.MaxAgeDays = 7
	}

	var (
		writers []io.Writer
		rotator *lumberjack.Logger
	)
	if config.LogDir != "" {
		if err := os.MkdirAll(config.LogDir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator = &lumberjack.Logger{
			Filename:   filepath.Join(config.LogDir, "clientreg.log"),
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAgeDays,
			Compress:   true,
		}
		writers = append(writers, rotator)
	}
	if config.AlsoLogToConsole || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(config.Level),
		AddSource: config.IsDev,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	w := io.MultiWriter(writers...)
	var handler slog.Handler
	if config.IsDev {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	var closer io.Closer = nopCloser{}
	if rotator != nil {
		closer = rotator
	}
	return slog.New(handler), closer, nil
}

// Initialize sets up the global logger and installs it as slog's default.
func Initialize(config Config) error {
	logger, closer, err := New(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if fileLogger != nil {
		fileLogger.Close()
	}
	if rotator, ok := closer.(*lumberjack.Logger); ok {
		fileLogger = rotator
	} else {
		fileLogger = nil
	}
	globalLogger = logger
	slog.SetDefault(logger)
	return nil
}

// Get returns the global logger, falling back to a console text logger when
// Initialize has not run.
func Get() *slog.Logger {
	mu.RLock()
	logger := globalLogger
	mu.RUnlock()
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Close flushes and closes the rotated log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if fileLogger == nil {
		return nil
	}
	err := fileLogger.Close()
	fileLogger = nil
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
