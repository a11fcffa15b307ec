package config

import "restobrowse/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`                // debug, info, warn, error
	Format     string          `yaml:"format"`               // json, text
	File       string          `yaml:"file"`                 // used by the interactive browser
	Categories map[string]bool `yaml:"categories,omitempty"` // per-category toggles, all on by default
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Options converts the config into logger options. file is the
// destination; empty logs to stderr.
func (c *LoggingConfig) Options(file string) logging.Options {
	return logging.Options{
		Level:      c.Level,
		JSON:       c.Format == "json",
		File:       file,
		Categories: c.Categories,
	}
}
