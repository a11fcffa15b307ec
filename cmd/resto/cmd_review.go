package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restobrowse/internal/directory"
	"restobrowse/internal/logging"
)

var (
	reviewName   string
	reviewText   string
	reviewRating int
)

var reviewCmd = &cobra.Command{
	Use:   "review ID",
	Short: "Post a review for a restaurant",
	Example: `  resto review rqdv5juczeskfw1e867 --name Ana --text "Great soup" --rating 5`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewName, "name", "", "Reviewer name")
	reviewCmd.Flags().StringVar(&reviewText, "text", "", "Review text")
	reviewCmd.Flags().IntVar(&reviewRating, "rating", 0, "Rating from 1 to 5")
}

func runReview(cmd *cobra.Command, args []string) error {
	form := directory.ReviewForm{Name: reviewName, Review: reviewText, Rating: reviewRating}
	if err := form.Validate(); err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	reviews, err := s.catalog.PostReview(cmd.Context(), form.Input(args[0]))
	if err != nil {
		return fmt.Errorf("failed to post review: %w", err)
	}
	logging.Get(logging.CategoryAPI).Info("review posted",
		zap.String("id", args[0]), zap.Int("reviews", len(reviews)))
	fmt.Fprintf(cmd.OutOrStdout(), "Review posted. %s now has %d reviews.\n", args[0], len(reviews))
	return nil
}
