package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"restobrowse/cmd/resto/ui"
	"restobrowse/internal/catalog"
	"restobrowse/internal/directory"
)

var (
	listCity  string
	listPages int

	searchPages int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List restaurants",
	Long: `Lists restaurants a page at a time, the same way the browser does.
Use --city to narrow the list and --pages to show more than the first page.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var searchCmd = &cobra.Command{
	Use:   "search TERM...",
	Short: "Search restaurants by name, category or menu",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the cities in the directory",
	Args:  cobra.NoArgs,
	RunE:  runCities,
}

func init() {
	listCmd.Flags().StringVar(&listCity, "city", "", "Only show restaurants in this city")
	listCmd.Flags().IntVar(&listPages, "pages", 1, "Number of pages to show")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "Number of pages to show")
}

// loadListing fetches the collection into a fresh listing.
func loadListing(cmd *cobra.Command, cat *catalog.Catalog) (*directory.Listing, error) {
	l := directory.NewListing(cfg.UI.ListingPageSize)
	tok := l.BeginLoad()
	res, err := cat.List(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurants: %w", err)
	}
	if res.Stale != nil {
		l.LoadCached(tok, res.Restaurants, res.Stale.CachedAt, res.Stale.Cause)
		warnStale(cmd, res.Stale)
	} else {
		l.Load(tok, res.Restaurants)
	}
	return l, nil
}

func warnStale(cmd *cobra.Command, s *catalog.Stale) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: showing offline copy from %s (%v)\n",
		s.CachedAt.Format("2 Jan 15:04"), s.Cause)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	l, err := loadListing(cmd, s.catalog)
	if err != nil {
		return err
	}
	if listCity != "" {
		city := canonicalCity(l.Cities(), listCity)
		if city == "" {
			return fmt.Errorf("unknown city %q (known: %s)", listCity, strings.Join(l.Cities(), ", "))
		}
		l.FilterCity(city)
	}
	loadPages(l, listPages)

	title := "Restaurants"
	if l.City() != "" {
		title += " in " + l.City()
	}
	printRestaurants(cmd, title, l)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	l := directory.NewListing(cfg.UI.ListingPageSize)
	l.SetQuery(strings.Join(args, " "))
	tok, term, ok := l.BeginSearch()
	if !ok {
		return fmt.Errorf("search term is empty")
	}
	results, err := s.catalog.Search(cmd.Context(), term)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	l.ApplySearch(tok, results)
	loadPages(l, searchPages)

	printRestaurants(cmd, fmt.Sprintf("Results for %q", term), l)
	return nil
}

func runCities(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	l, err := loadListing(cmd, s.catalog)
	if err != nil {
		return err
	}
	counts := make(map[string]int)
	for _, r := range l.All() {
		counts[r.City]++
	}
	table := ui.NewSimpleTable("Cities", "City", "Restaurants")
	for _, c := range l.Cities() {
		table.AddRow(c, fmt.Sprint(counts[c]))
	}
	fmt.Fprintln(cmd.OutOrStdout(), table.View(cliStyles()))
	return nil
}

func printRestaurants(cmd *cobra.Command, title string, l *directory.Listing) {
	styles := cliStyles()
	table := ui.NewSimpleTable(title, "ID", "Name", "City", "Rating")
	for _, r := range l.Visible() {
		table.AddRow(r.ID, r.Name, r.City, fmt.Sprintf("%.1f", r.Rating))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, table.View(styles))
	fmt.Fprintf(out, "Showing %d of %d\n", len(l.Visible()), len(l.Filtered()))
	if l.HasMore() {
		fmt.Fprintln(out, styles.Muted.Render("More available: raise --pages"))
	}
}

// loadPages reveals up to n pages.
func loadPages(l *directory.Listing, n int) {
	for i := 1; i < n; i++ {
		if !l.LoadMore() {
			return
		}
	}
}

// canonicalCity returns the entry of cities matching name case-insensitively.
func canonicalCity(cities []string, name string) string {
	for _, c := range cities {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	return ""
}

func cliStyles() ui.Styles {
	return ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
}
