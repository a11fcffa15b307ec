package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restobrowse/internal/config"
	"restobrowse/internal/logging"
)

var (
	// Global flags
	configPath string
	baseURL    string
	mediaURL   string
	timeout    time.Duration
	verbose    bool
	offline    bool

	// Resolved configuration
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "resto",
	Short: "resto - browse a restaurant directory from the terminal",
	Long: `resto browses a restaurant directory API: list and filter restaurants by
city, search the server, read menus and reviews, and post reviews.

Run without arguments to start the interactive browser. The subcommands
print the same data for scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := cfg.Logging.Options("")
		// The interactive browser owns the terminal, so it logs to a file.
		if cmd == cmd.Root() {
			opts.File = cfg.Logging.File
		}
		if verbose {
			opts.Level = "debug"
		}
		logger, err = logging.Initialize(opts)
		if err != nil {
			return err
		}
		logging.Get(logging.CategoryBoot).Debug("configuration resolved",
			zap.String("base_url", cfg.API.BaseURL),
			zap.Bool("cache", cfg.Cache.Enabled),
			zap.Bool("offline", offline))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logging.Sync()
		}
	},
	RunE: runBrowser,
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		c.API.BaseURL = baseURL
	}
	if flags.Changed("media-url") {
		c.API.MediaURL = mediaURL
	}
	if flags.Changed("timeout") {
		c.API.Timeout = timeout.String()
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	pf.StringVar(&baseURL, "base-url", "", "Restaurant API base URL")
	pf.StringVar(&mediaURL, "media-url", "", "Base URL for restaurant pictures")
	pf.DurationVar(&timeout, "timeout", 15*time.Second, "API request timeout")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&offline, "offline", false, "Serve from the offline cache only")

	rootCmd.AddCommand(
		listCmd,
		searchCmd,
		citiesCmd,
		showCmd,
		reviewCmd,
		syncCmd,
		cacheCmd,
		mockServerCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
