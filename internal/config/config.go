package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"restobrowse/internal/logging"
)

// DefaultPath is where resto looks for its config file.
const DefaultPath = ".resto/config.yaml"

// Config holds all resto configuration.
type Config struct {
	// Restaurant API
	API APIConfig `yaml:"api"`

	// Offline cache
	Cache CacheConfig `yaml:"cache"`

	// Interactive browser
	UI UIConfig `yaml:"ui"`

	// Mock API server
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the restaurant API client.
type APIConfig struct {
	BaseURL     string `yaml:"base_url"`
	MediaURL    string `yaml:"media_url"`   // prefix for pictureId
	Placeholder string `yaml:"placeholder"` // image used when pictureId is empty
	Timeout     string `yaml:"timeout"`
	UserAgent   string `yaml:"user_agent"`
}

// CacheConfig configures the SQLite offline cache.
type CacheConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Path            string `yaml:"path"`
	MaxAge          string `yaml:"max_age"`          // entries older than this are purged by sync
	SyncConcurrency int    `yaml:"sync_concurrency"` // parallel detail fetches in `resto sync`
}

// UIConfig configures the interactive browser.
type UIConfig struct {
	Theme           string `yaml:"theme"` // auto, dark, light
	ListingPageSize int    `yaml:"listing_page_size"`
	ReviewPageSize  int    `yaml:"review_page_size"`
}

// ServerConfig configures `resto mock-server`.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Fixtures string `yaml:"fixtures"` // JSON file; empty serves the built-in sample
}

// ValidThemes lists the supported UI themes.
var ValidThemes = []string{"auto", "dark", "light"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "https://restaurant-api.dicoding.dev/",
			MediaURL:    "https://restaurant-api.dicoding.dev/images/medium/",
			Placeholder: "vite.svg",
			Timeout:     "15s",
			UserAgent:   "restobrowse",
		},

		Cache: CacheConfig{
			Enabled:         true,
			Path:            ".resto/cache.db",
			MaxAge:          "168h",
			SyncConcurrency: 4,
		},

		UI: UIConfig{
			Theme:           "auto",
			ListingPageSize: 8,
			ReviewPageSize:  4,
		},

		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   ".resto/logs/resto.log",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Variables from a .env file in the working directory are loaded
// first, then environment overrides are applied on top of the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadDotEnv exports the variables in a dotenv file without replacing ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RESTO_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("RESTO_MEDIA_URL"); v != "" {
		c.API.MediaURL = v
	}
	if v := os.Getenv("RESTO_CACHE_DB"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("RESTO_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("RESTO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetTimeout returns the API timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetCacheMaxAge returns the cache retention as a duration.
func (c *Config) GetCacheMaxAge() time.Duration {
	d, err := time.ParseDuration(c.Cache.MaxAge)
	if err != nil || d <= 0 {
		return 7 * 24 * time.Hour
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validateHTTPURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("api.media_url", c.API.MediaURL); err != nil {
		return err
	}
	if c.API.Timeout != "" {
		if d, err := time.ParseDuration(c.API.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid api.timeout: %q", c.API.Timeout)
		}
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required when the cache is enabled")
	}
	if c.Cache.SyncConcurrency < 0 {
		return fmt.Errorf("cache.sync_concurrency must not be negative")
	}
	if c.UI.ListingPageSize < 1 || c.UI.ReviewPageSize < 1 {
		return fmt.Errorf("ui page sizes must be at least 1")
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui.theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	return nil
}

func validateHTTPURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q is not an http(s) URL", field, raw)
	}
	return nil
}
