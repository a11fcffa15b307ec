package directory

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restobrowse/internal/types"
)

func makeRestaurants(n int, cities ...string) []types.Restaurant {
	rs := make([]types.Restaurant, n)
	for i := range rs {
		city := "Medan"
		if len(cities) > 0 {
			city = cities[i%len(cities)]
		}
		rs[i] = types.Restaurant{ID: fmt.Sprintf("r%02d", i), Name: fmt.Sprintf("Resto %d", i), City: city}
	}
	return rs
}

func ids(rs []types.Restaurant) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func loadedListing(t *testing.T, rs []types.Restaurant) *Listing {
	t.Helper()
	l := NewListing(ListingPageSize)
	require.True(t, l.Load(l.BeginLoad(), rs))
	return l
}

func TestListing_TenRestaurants(t *testing.T) {
	l := loadedListing(t, makeRestaurants(10))

	assert.Len(t, l.Visible(), 8)
	assert.True(t, l.HasMore())
	assert.Equal(t, 1, l.Page())

	assert.True(t, l.LoadMore())
	assert.Len(t, l.Visible(), 10)
	assert.False(t, l.HasMore())
	assert.Equal(t, 2, l.Page())

	assert.False(t, l.LoadMore())
	assert.Len(t, l.Visible(), 10)
}

func TestListing_FilterCity(t *testing.T) {
	all := makeRestaurants(20, "Medan", "Bali", "Surabaya")
	l := loadedListing(t, all)
	l.LoadMore()

	l.FilterCity("Bali")
	for _, r := range l.Filtered() {
		assert.Equal(t, "Bali", r.City)
	}
	want := 0
	for _, r := range all {
		if r.City == "Bali" {
			want++
		}
	}
	assert.Len(t, l.Filtered(), want)
	assert.Equal(t, 1, l.Page(), "filtering resets to the first page")
	assert.Equal(t, "Bali", l.City())

	l.FilterCity("bali")
	assert.Empty(t, l.Filtered(), "city match is exact")
	assert.False(t, l.HasMore())

	l.FilterCity("")
	if diff := cmp.Diff(ids(all), ids(l.Filtered())); diff != "" {
		t.Errorf("empty city should restore the full list (-want +got):\n%s", diff)
	}
}

func TestListing_SearchNoMatches(t *testing.T) {
	l := loadedListing(t, makeRestaurants(10))
	l.FilterCity("Medan")

	l.SetQuery("pizza")
	tok, term, ok := l.BeginSearch()
	require.True(t, ok)
	assert.Equal(t, "pizza", term)

	require.True(t, l.ApplySearch(tok, nil))
	assert.Empty(t, l.Visible())
	assert.False(t, l.HasMore())
	assert.Equal(t, "", l.City(), "search clears the city")
	assert.Equal(t, "pizza", l.Query())
}

func TestListing_BlankSearchIsNoop(t *testing.T) {
	l := loadedListing(t, makeRestaurants(3))
	for _, q := range []string{"", "   "} {
		l.SetQuery(q)
		_, _, ok := l.BeginSearch()
		assert.False(t, ok, "query %q", q)
	}
	assert.Len(t, l.Visible(), 3)
}

func TestListing_ClearAllIdempotent(t *testing.T) {
	all := makeRestaurants(12, "Medan", "Bali")
	l := loadedListing(t, all)

	l.SetQuery("kafe")
	tok, _, _ := l.BeginSearch()
	l.ApplySearch(tok, all[:2])
	l.FilterCity("Bali")
	l.LoadMore()

	for i := 0; i < 2; i++ {
		l.ClearAll()
		assert.Equal(t, "", l.Query())
		assert.Equal(t, "", l.City())
		assert.Equal(t, 1, l.Page())
		assert.Len(t, l.Visible(), 8)
		assert.Equal(t, ids(all), ids(l.Filtered()))
	}
}

func TestListing_StaleResultsDropped(t *testing.T) {
	l := NewListing(ListingPageSize)
	first := l.BeginLoad()
	second := l.BeginLoad()

	assert.False(t, l.Load(first, makeRestaurants(3)))
	assert.False(t, l.Loaded())
	assert.True(t, l.Load(second, makeRestaurants(5)))
	assert.Len(t, l.All(), 5)

	l.SetQuery("x")
	tok, _, _ := l.BeginSearch()
	l.ClearAll()
	assert.False(t, l.ApplySearch(tok, nil), "clear all abandons the pending search")
	assert.Len(t, l.Visible(), 5)

	l.SetQuery("x")
	tok, _, _ = l.BeginSearch()
	l.FilterCity("Medan")
	assert.False(t, l.ApplySearch(tok, nil), "picking a city abandons the pending search")
	assert.False(t, l.Fail(tok, errors.New("late")))
	assert.NoError(t, l.Err())
}

func TestListing_FailKeepsState(t *testing.T) {
	l := loadedListing(t, makeRestaurants(4))
	l.SetQuery("kafe")
	tok, _, _ := l.BeginSearch()

	boom := errors.New("connection refused")
	assert.True(t, l.Fail(tok, boom))
	assert.ErrorIs(t, l.Err(), boom)
	assert.Len(t, l.Visible(), 4)

	tok, _, _ = l.BeginSearch()
	l.ApplySearch(tok, makeRestaurants(1))
	assert.NoError(t, l.Err())
}

func TestListing_AbandonedSearchDropsItsError(t *testing.T) {
	l := loadedListing(t, makeRestaurants(10, "Medan", "Bali"))
	l.SetQuery("kafe")
	tok, _, _ := l.BeginSearch()
	require.True(t, l.Fail(tok, errors.New("connection refused")))

	l.FilterCity("Bali")
	assert.NoError(t, l.Err(), "picking a city abandons the failed search")
	assert.Equal(t, "Bali", l.City())
	assert.Len(t, l.Visible(), 5)

	tok, _, _ = l.BeginSearch()
	require.True(t, l.Fail(tok, errors.New("timeout")))
	l.ClearAll()
	assert.NoError(t, l.Err())
}

func TestListing_FilterCityKeepsLoadError(t *testing.T) {
	l := NewListing(ListingPageSize)
	cause := errors.New("offline")
	require.True(t, l.LoadCached(l.BeginLoad(), makeRestaurants(4), time.Now(), cause))

	l.FilterCity("Medan")
	assert.ErrorIs(t, l.Err(), cause)

	tok := l.BeginLoad()
	require.True(t, l.Fail(tok, errors.New("still offline")))
	l.ClearAll()
	assert.Error(t, l.Err())
}

func TestListing_LoadCached(t *testing.T) {
	l := NewListing(ListingPageSize)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cause := errors.New("offline")

	require.True(t, l.LoadCached(l.BeginLoad(), makeRestaurants(2), at, cause))
	got, ok := l.CachedAt()
	assert.True(t, ok)
	assert.Equal(t, at, got)
	assert.ErrorIs(t, l.Err(), cause)

	require.True(t, l.Load(l.BeginLoad(), makeRestaurants(2)))
	_, ok = l.CachedAt()
	assert.False(t, ok)
	assert.NoError(t, l.Err())
}

func TestListing_SelectAndCities(t *testing.T) {
	l := loadedListing(t, makeRestaurants(10, "Medan", "Bali"))

	id, ok := l.Select(3)
	assert.True(t, ok)
	assert.Equal(t, "r03", id)

	_, ok = l.Select(8)
	assert.False(t, ok, "only visible items are selectable")

	assert.Equal(t, []string{"Medan", "Bali"}, l.Cities())
}
