// Package logging builds the zap loggers used across resto. Every subsystem
// logs through a named child logger for its category, so a single log file
// can be filtered by component.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup, config resolution
	CategoryAPI    Category = "api"    // Restaurant API calls
	CategoryStore  Category = "store"  // Offline cache
	CategoryUI     Category = "ui"     // Interactive browser
	CategorySync   Category = "sync"   // Cache prefetch
	CategoryServer Category = "server" // Mock API server
)

// Options selects level, format and destination.
type Options struct {
	Level string
	// JSON switches from the console encoder to JSON lines.
	JSON bool
	// File, when set, receives all output instead of stderr.
	File string
	// Categories disables individual categories when mapped to false.
	Categories map[string]bool
}

var (
	mu       sync.RWMutex
	root     = zap.NewNop()
	disabled map[string]bool
)

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a logger from opts without installing it.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	if !opts.JSON {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if level == zapcore.DebugLevel {
		config.Sampling = nil
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Initialize builds the process logger and installs it for Get.
func Initialize(opts Options) (*zap.Logger, error) {
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	Install(logger, opts.Categories)
	return logger, nil
}

// Install makes logger the parent of every category logger.
func Install(logger *zap.Logger, categories map[string]bool) {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	root = logger
	disabled = make(map[string]bool)
	for cat, enabled := range categories {
		if !enabled {
			disabled[cat] = true
		}
	}
}

// IsCategoryEnabled reports whether a category logs at all.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return !disabled[string(category)]
}

// Get returns the logger for a category, or a no-op logger when the
// category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if disabled[string(category)] {
		return zap.NewNop()
	}
	return root.Named(string(category))
}

// Sync flushes the installed logger.
func Sync() {
	mu.RLock()
	l := root
	mu.RUnlock()
	_ = l.Sync()
}
