package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"restobrowse/internal/directory"
	"restobrowse/internal/types"
)

var showReviews int

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a restaurant's details, menu and reviews",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&showReviews, "reviews", 1, "Number of review pages to show")
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	d := directory.NewDetail(cfg.UI.ReviewPageSize)
	tok := d.Open(args[0])
	res, err := s.catalog.Detail(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load restaurant %s: %w", args[0], err)
	}
	if res.Stale != nil {
		d.LoadCached(tok, res.Restaurant, res.Stale.CachedAt, res.Stale.Cause)
		warnStale(cmd, res.Stale)
	} else {
		d.Load(tok, res.Restaurant)
	}
	for i := 1; i < showReviews; i++ {
		if !d.LoadMoreReviews() {
			break
		}
	}

	r := d.Restaurant()
	styles := cliStyles()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, styles.Title.Render(r.Name))
	fmt.Fprintf(out, "%s · %s\n", r.City, r.Address)
	fmt.Fprintf(out, "Rating: %s\n", styles.Stars(r.Rating))
	if names := r.CategoryNames(); len(names) > 0 {
		fmt.Fprintf(out, "Categories: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(out, "Picture: %s\n\n", s.client.PictureURL(r.PictureID))

	fmt.Fprintln(out, renderMarkdown(r.Description))

	if r.Menus != nil {
		fmt.Fprintf(out, "Foods: %s\n", menuNames(r.Menus.Foods))
		fmt.Fprintf(out, "Drinks: %s\n\n", menuNames(r.Menus.Drinks))
	}

	fmt.Fprintf(out, "Reviews (%d)\n", len(r.CustomerReviews))
	for _, rv := range d.Reviews() {
		fmt.Fprintf(out, "- %s (%s): %s\n", rv.Name, rv.Date, rv.Review)
	}
	if d.HasMoreReviews() {
		fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%d more, raise --reviews", len(r.CustomerReviews)-len(d.Reviews()))))
	}
	return nil
}

// renderMarkdown renders text with glamour, falling back to the raw text.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(glamour.WithStylePath("notty"), glamour.WithWordWrap(80))
	if err != nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

func menuNames(items []types.MenuItem) string {
	if len(items) == 0 {
		return "-"
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return strings.Join(names, ", ")
}
