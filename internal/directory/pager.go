// Package directory holds the view state of the restaurant browser screens.
//
// The state types here own the collections, the filter and search inputs and
// the pagination cursor of each screen. Rendering layers read from them and
// feed user actions and fetch results back in; nothing in this package does
// I/O.
//
// The central invariant: the visible items of a screen are always a prefix of
// its current working list, of length a multiple of the page size, or the
// whole list when it is shorter.
package directory

// Page sizes used by the two screens.
const (
	ListingPageSize = 8
	ReviewPageSize  = 4
)

// Pager is a prefix-extension pagination cursor over a list of known length.
type Pager struct {
	size    int
	total   int
	visible int
}

// NewPager returns a pager with the given page size. Sizes below 1 are
// treated as 1.
func NewPager(size int) Pager {
	if size < 1 {
		size = 1
	}
	return Pager{size: size}
}

// Reset points the pager at a list of total items and shows the first page.
func (p *Pager) Reset(total int) {
	p.total = total
	p.visible = min(total, p.size)
}

// Next extends the visible prefix by one page. It returns false, leaving the
// pager unchanged, when every item is already visible.
func (p *Pager) Next() bool {
	if !p.HasMore() {
		return false
	}
	p.visible = min(p.total, p.visible+p.size)
	return true
}

// Grow points the pager at a replacement list of total items while keeping
// the previously visible count plus one more page on screen.
func (p *Pager) Grow(total int) {
	keep := p.visible
	p.total = total
	p.visible = min(total, keep+p.size)
}

// Size returns the page size.
func (p Pager) Size() int { return p.size }

// Visible returns the number of visible items.
func (p Pager) Visible() int { return p.visible }

// Total returns the length of the list the pager covers.
func (p Pager) Total() int { return p.total }

// HasMore reports whether a further page exists.
func (p Pager) HasMore() bool { return p.visible < p.total }

// Page returns the 1-based number of pages shown. An empty list is on page 1.
func (p Pager) Page() int {
	if p.visible == 0 {
		return 1
	}
	return (p.visible + p.size - 1) / p.size
}

// Window returns the visible prefix of items. items must be the list the
// pager was last Reset or Grown to.
func Window[T any](items []T, p Pager) []T {
	n := min(p.visible, len(items))
	return items[:n:n]
}
