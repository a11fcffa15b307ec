package directory

import (
	"time"

	"restobrowse/internal/types"
)

// Detail is the state of the restaurant detail screen: the restaurant, the
// cursor over its reviews and the review modal.
type Detail struct {
	id         string
	restaurant *types.Restaurant
	pager      Pager

	err    error
	cached time.Time

	modalOpen  bool
	submitting bool
	form       ReviewForm
	formErr    error

	load   Generation
	submit Generation
}

// NewDetail returns an empty detail screen with the given review page size.
func NewDetail(pageSize int) *Detail {
	return &Detail{pager: NewPager(pageSize)}
}

// Open starts loading restaurant id. Opening a different identifier drops the
// restaurant shown so far and closes the modal; any fetch or submission in
// flight becomes stale.
func (d *Detail) Open(id string) Token {
	if id != d.id {
		d.id = id
		d.restaurant = nil
		d.pager.Reset(0)
		d.closeModal()
	}
	d.submit.Next()
	d.submitting = false
	return d.load.Next()
}

// Load installs the fetched restaurant and shows its first page of reviews.
func (d *Detail) Load(tok Token, r types.Restaurant) bool {
	if !d.load.Current(tok) {
		return false
	}
	d.restaurant = &r
	d.err = nil
	d.cached = time.Time{}
	d.pager.Reset(len(r.CustomerReviews))
	return true
}

// LoadCached is Load for a restaurant served from the offline cache after
// the live fetch failed with cause.
func (d *Detail) LoadCached(tok Token, r types.Restaurant, cachedAt time.Time, cause error) bool {
	if !d.Load(tok, r) {
		return false
	}
	d.err = cause
	d.cached = cachedAt
	return true
}

// Fail records a failed fetch. Whatever was shown stays.
func (d *Detail) Fail(tok Token, err error) bool {
	if !d.load.Current(tok) {
		return false
	}
	d.err = err
	return true
}

// LoadMoreReviews shows the next page of reviews.
func (d *Detail) LoadMoreReviews() bool {
	return d.pager.Next()
}

// OpenReviewModal shows the review form. It does nothing until the
// restaurant has loaded.
func (d *Detail) OpenReviewModal() bool {
	if d.restaurant == nil {
		return false
	}
	d.modalOpen = true
	return true
}

// CloseReviewModal hides the form. Field values are kept for the next time
// it opens. A submission already sent keeps going: the server may store it,
// so its result is still applied, and a failure shows when the form reopens.
func (d *Detail) CloseReviewModal() {
	d.modalOpen = false
	if !d.submitting {
		d.formErr = nil
	}
}

func (d *Detail) closeModal() {
	d.modalOpen = false
	d.submitting = false
	d.formErr = nil
	d.form.Reset()
}

// Form returns the modal's fields for editing.
func (d *Detail) Form() *ReviewForm { return &d.form }

// BeginSubmit validates the form and starts a submission. On a validation
// error the modal stays open with the error recorded.
func (d *Detail) BeginSubmit() (Token, types.ReviewInput, error) {
	if err := d.form.Validate(); err != nil {
		d.formErr = err
		return 0, types.ReviewInput{}, err
	}
	d.formErr = nil
	d.submitting = true
	return d.submit.Next(), d.form.Input(d.id), nil
}

// ApplySubmit replaces the review list with the server's list, keeps the
// previously visible count plus one more page on screen, closes the modal
// and resets the form.
func (d *Detail) ApplySubmit(tok Token, reviews []types.Review) bool {
	if !d.submit.Current(tok) || d.restaurant == nil {
		return false
	}
	d.restaurant.CustomerReviews = reviews
	d.pager.Grow(len(reviews))
	d.closeModal()
	return true
}

// FailSubmit records a rejected or failed submission. The modal stays open
// with the form intact so the user can retry.
func (d *Detail) FailSubmit(tok Token, err error) bool {
	if !d.submit.Current(tok) {
		return false
	}
	d.submitting = false
	d.formErr = err
	return true
}

// ID returns the identifier being shown.
func (d *Detail) ID() string { return d.id }

// Restaurant returns the loaded restaurant, or nil while loading.
func (d *Detail) Restaurant() *types.Restaurant { return d.restaurant }

// Reviews returns the visible reviews.
func (d *Detail) Reviews() []types.Review {
	if d.restaurant == nil {
		return nil
	}
	return Window(d.restaurant.CustomerReviews, d.pager)
}

// HasMoreReviews reports whether a see-more control should be offered.
func (d *Detail) HasMoreReviews() bool { return d.pager.HasMore() }

// Err returns the last fetch error.
func (d *Detail) Err() error { return d.err }

// CachedAt returns when the displayed restaurant was cached, and whether it
// came from the offline cache.
func (d *Detail) CachedAt() (time.Time, bool) { return d.cached, !d.cached.IsZero() }

// ModalOpen reports whether the review form is showing.
func (d *Detail) ModalOpen() bool { return d.modalOpen }

// Submitting reports whether a submission is in flight.
func (d *Detail) Submitting() bool { return d.submitting }

// FormErr returns the validation or submission error shown in the modal.
func (d *Detail) FormErr() error { return d.formErr }
