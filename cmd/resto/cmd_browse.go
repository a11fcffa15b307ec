package main

import (
	"github.com/spf13/cobra"

	"restobrowse/cmd/resto/ui"
	"restobrowse/internal/logging"
)

// runBrowser starts the interactive browser.
func runBrowser(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.Run(ui.Options{
		Source:          s.catalog,
		Styles:          ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)),
		PictureURL:      s.client.PictureURL,
		ListingPageSize: cfg.UI.ListingPageSize,
		ReviewPageSize:  cfg.UI.ReviewPageSize,
		Logger:          logging.Get(logging.CategoryUI),
		Offline:         offline,
	})
}
