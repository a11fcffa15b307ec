package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restobrowse/cmd/resto/ui"
	"restobrowse/internal/logging"
)

var syncConcurrency int

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the whole directory into the offline cache",
	Long: `Fetches the restaurant list and every restaurant's details into the
offline cache, then drops entries older than cache.max_age.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clean the offline cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the offline cache holds",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cachePurgeAll bool

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cache entries older than cache.max_age",
	Args:  cobra.NoArgs,
	RunE:  runCachePurge,
}

func init() {
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 0, "Parallel detail fetches (0 uses cache.sync_concurrency)")
	cachePurgeCmd.Flags().BoolVar(&cachePurgeAll, "all", false, "Delete every entry")
	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
}

// openCacheSession opens a session and insists the cache is enabled.
func openCacheSession() (*session, error) {
	if !cfg.Cache.Enabled {
		return nil, fmt.Errorf("the offline cache is disabled (cache.enabled: false)")
	}
	return openSession()
}

func runSync(cmd *cobra.Command, args []string) error {
	s, err := openCacheSession()
	if err != nil {
		return err
	}
	defer s.Close()

	concurrency := cfg.Cache.SyncConcurrency
	if syncConcurrency > 0 {
		concurrency = syncConcurrency
	}
	log := logging.Get(logging.CategorySync)
	log.Info("sync started", zap.Int("concurrency", concurrency))

	report, err := s.catalog.Sync(cmd.Context(), concurrency)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Synced %d restaurants (%d details) into %s\n", report.Restaurants, report.Details, s.cache.Path())
	if len(report.Failed) > 0 {
		ids := make([]string, 0, len(report.Failed))
		for id := range report.Failed {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		table := ui.NewSimpleTable("Failed", "ID", "Error")
		for _, id := range ids {
			table.AddRow(id, report.Failed[id].Error())
		}
		fmt.Fprintln(out, table.View(cliStyles()))
	}

	removed, err := s.cache.Purge(cmd.Context(), cfg.GetCacheMaxAge())
	if err != nil {
		return err
	}
	log.Info("sync finished",
		zap.Int("details", report.Details),
		zap.Int("failed", len(report.Failed)),
		zap.Int64("purged", removed))
	if removed > 0 {
		fmt.Fprintf(out, "Purged %d expired entries\n", removed)
	}
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	s, err := openCacheSession()
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := s.cache.Stats(cmd.Context())
	if err != nil {
		return err
	}
	table := ui.NewSimpleTable("Offline cache", "Field", "Value")
	table.AddRow("Path", s.cache.Path())
	table.AddRow("List cached", fmt.Sprint(st.HasList))
	table.AddRow("Restaurants", fmt.Sprint(st.Restaurants))
	if !st.Oldest.IsZero() {
		table.AddRow("Oldest", st.Oldest.Format("2006-01-02 15:04"))
		table.AddRow("Newest", st.Newest.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(cmd.OutOrStdout(), table.View(cliStyles()))
	return nil
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	s, err := openCacheSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var removed int64
	if cachePurgeAll {
		removed, err = s.cache.Clear(cmd.Context())
	} else {
		removed, err = s.cache.Purge(cmd.Context(), cfg.GetCacheMaxAge())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d entries\n", removed)
	return nil
}
