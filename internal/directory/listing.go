package directory

import (
	"strings"
	"time"

	"restobrowse/internal/types"
)

// Listing is the state of the restaurant list screen: the full collection,
// the filtered working list, the city and search inputs and the cursor over
// the working list.
//
// City filtering is client-side over the full collection; search is done by
// the server and replaces the working list. The two are exclusive in practice
// because applying a search clears the city, but nothing enforces it.
type Listing struct {
	all      []types.Restaurant
	filtered []types.Restaurant
	city     string
	query    string
	pager    Pager

	loaded    bool
	err       error
	searchErr bool
	cached    time.Time

	load   Generation
	search Generation
}

// NewListing returns an empty listing with the given page size.
func NewListing(pageSize int) *Listing {
	return &Listing{pager: NewPager(pageSize)}
}

// BeginLoad starts a fetch of the full collection. Any load still in flight
// becomes stale.
func (l *Listing) BeginLoad() Token {
	return l.load.Next()
}

// Load installs the fetched collection as both the full and the working list
// and shows the first page. It returns false and changes nothing if tok is
// stale.
func (l *Listing) Load(tok Token, restaurants []types.Restaurant) bool {
	if !l.load.Current(tok) {
		return false
	}
	l.all = restaurants
	l.city = ""
	l.loaded = true
	l.err = nil
	l.searchErr = false
	l.cached = time.Time{}
	l.setWorking(restaurants)
	return true
}

// LoadCached is Load for a collection served from the offline cache after
// the live fetch failed with cause. The error stays visible so the user can
// retry.
func (l *Listing) LoadCached(tok Token, restaurants []types.Restaurant, cachedAt time.Time, cause error) bool {
	if !l.Load(tok, restaurants) {
		return false
	}
	l.err = cause
	l.cached = cachedAt
	return true
}

// Fail records a failed fetch or search. Prior state is kept.
func (l *Listing) Fail(tok Token, err error) bool {
	if !l.load.Current(tok) && !l.search.Current(tok) {
		return false
	}
	l.err = err
	l.searchErr = l.search.Current(tok)
	return true
}

// abandonSearch invalidates any search in flight and drops the error of a
// failed one.
func (l *Listing) abandonSearch() {
	l.search.Next()
	if l.searchErr {
		l.err = nil
		l.searchErr = false
	}
}

// FilterCity selects a city. The working list becomes the restaurants whose
// city equals city exactly, or the full collection when city is empty. A
// search still in flight is abandoned.
func (l *Listing) FilterCity(city string) {
	l.abandonSearch()
	l.city = city
	if city == "" {
		l.setWorking(l.all)
		return
	}
	filtered := make([]types.Restaurant, 0, len(l.all))
	for _, r := range l.all {
		if r.City == city {
			filtered = append(filtered, r)
		}
	}
	l.setWorking(filtered)
}

// SetQuery records the search term being edited.
func (l *Listing) SetQuery(q string) {
	l.query = q
}

// BeginSearch starts a server search for the current term. It returns false
// when the term is blank; blank submissions are no-ops.
func (l *Listing) BeginSearch() (Token, string, bool) {
	term := strings.TrimSpace(l.query)
	if term == "" {
		return 0, "", false
	}
	return l.search.Next(), term, true
}

// ApplySearch replaces the working list with search results and clears the
// city selection. It returns false if tok is stale.
func (l *Listing) ApplySearch(tok Token, results []types.Restaurant) bool {
	if !l.search.Current(tok) {
		return false
	}
	l.city = ""
	l.err = nil
	l.searchErr = false
	l.setWorking(results)
	return true
}

// LoadMore shows the next page of the working list. It returns false when
// nothing is left.
func (l *Listing) LoadMore() bool {
	return l.pager.Next()
}

// ClearAll returns to the unfiltered first page and clears both inputs. A
// search still in flight is abandoned.
func (l *Listing) ClearAll() {
	l.abandonSearch()
	l.query = ""
	l.city = ""
	l.setWorking(l.all)
}

// Select returns the identifier of the i-th visible restaurant.
func (l *Listing) Select(i int) (string, bool) {
	visible := l.Visible()
	if i < 0 || i >= len(visible) {
		return "", false
	}
	return visible[i].ID, true
}

func (l *Listing) setWorking(rs []types.Restaurant) {
	l.filtered = rs
	l.pager.Reset(len(rs))
}

// Visible returns the restaurants currently on screen.
func (l *Listing) Visible() []types.Restaurant { return Window(l.filtered, l.pager) }

// Filtered returns the whole working list.
func (l *Listing) Filtered() []types.Restaurant { return l.filtered }

// All returns the full fetched collection.
func (l *Listing) All() []types.Restaurant { return l.all }

// Cities returns the distinct cities of the full collection.
func (l *Listing) Cities() []string { return types.Cities(l.all) }

// HasMore reports whether a load-more control should be offered.
func (l *Listing) HasMore() bool { return l.pager.HasMore() }

// Page returns the number of pages shown.
func (l *Listing) Page() int { return l.pager.Page() }

// City returns the selected city, empty for all.
func (l *Listing) City() string { return l.city }

// Query returns the search term.
func (l *Listing) Query() string { return l.query }

// Loaded reports whether the full collection has arrived.
func (l *Listing) Loaded() bool { return l.loaded }

// Err returns the last fetch or search error, if any.
func (l *Listing) Err() error { return l.err }

// CachedAt returns when the displayed collection was cached, and whether it
// came from the offline cache at all.
func (l *Listing) CachedAt() (time.Time, bool) { return l.cached, !l.cached.IsZero() }
