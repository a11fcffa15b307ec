package directory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"restobrowse/internal/types"
)

// Rating bounds for a submitted review.
const (
	MinRating = 1
	MaxRating = 5
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReviewForm holds the fields of the write-a-review modal.
type ReviewForm struct {
	Name   string `validate:"required"`
	Review string `validate:"required"`
	Rating int    `validate:"required,min=1,max=5"`
}

// Reset clears every field.
func (f *ReviewForm) Reset() {
	*f = ReviewForm{}
}

// Validate checks the form after trimming whitespace from the text fields.
// The returned error names the first offending field.
func (f ReviewForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Review = strings.TrimSpace(f.Review)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Rating":
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	case "Review":
		return errors.New("review text is required")
	default:
		return fmt.Errorf("%s is required", strings.ToLower(fe.Field()))
	}
}

// Input builds the submission body for restaurant id.
func (f ReviewForm) Input(id string) types.ReviewInput {
	return types.ReviewInput{
		ID:     id,
		Name:   strings.TrimSpace(f.Name),
		Review: strings.TrimSpace(f.Review),
		Rating: f.Rating,
	}
}
