package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restobrowse/internal/api"
	"restobrowse/internal/catalog"
	"restobrowse/internal/directory"
	"restobrowse/internal/fakeapi"
	"restobrowse/internal/types"
)

// fakeSource serves the sample fixtures and records submissions.
type fakeSource struct {
	mu          sync.Mutex
	restaurants []types.Restaurant
	listErr     error
	detailErr   error
	postErr     error
	stale       *catalog.Stale
	searches    []string
	posted      []types.ReviewInput
}

func newFakeSource() *fakeSource {
	return &fakeSource{restaurants: fakeapi.SampleRestaurants()}
}

func (f *fakeSource) List(ctx context.Context) (catalog.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return catalog.Listing{}, f.listErr
	}
	out := make([]types.Restaurant, len(f.restaurants))
	for i, r := range f.restaurants {
		out[i] = r.Summary()
	}
	return catalog.Listing{Restaurants: out, Stale: f.stale}, nil
}

func (f *fakeSource) Search(ctx context.Context, term string) ([]types.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, term)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []types.Restaurant{}
	for _, r := range f.restaurants {
		if r.Matches(term) {
			out = append(out, r.Summary())
		}
	}
	return out, nil
}

func (f *fakeSource) Detail(ctx context.Context, id string) (catalog.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailErr != nil {
		return catalog.Detail{}, f.detailErr
	}
	for _, r := range f.restaurants {
		if r.ID == id {
			r.CustomerReviews = append([]types.Review(nil), r.CustomerReviews...)
			return catalog.Detail{Restaurant: r, Stale: f.stale}, nil
		}
	}
	return catalog.Detail{}, &api.StatusError{StatusCode: 404, Message: "restaurant not found"}
}

func (f *fakeSource) PostReview(ctx context.Context, in types.ReviewInput) ([]types.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, in)
	if f.postErr != nil {
		return nil, f.postErr
	}
	for i := range f.restaurants {
		if f.restaurants[i].ID == in.ID {
			f.restaurants[i].CustomerReviews = append(f.restaurants[i].CustomerReviews,
				types.Review{Name: in.Name, Review: in.Review, Date: "19 October 2026"})
			return append([]types.Review(nil), f.restaurants[i].CustomerReviews...), nil
		}
	}
	return nil, &api.ServerError{Message: "restaurant not found"}
}

func (f *fakeSource) set(fn func(f *fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// collect runs cmd and any batched commands, returning the messages the
// screens care about. Timer-driven commands (spinner, cursor blink) are
// abandoned after a short wait.
func collect(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		done := make(chan tea.Msg, 1)
		go func() { done <- c() }()
		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(50 * time.Millisecond):
			continue
		}
		switch m := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, m...)
		case listLoadedMsg, searchDoneMsg, detailLoadedMsg, reviewSubmittedMsg, navigateMsg, backMsg, tea.QuitMsg:
			out = append(out, m)
		}
	}
	return out
}

// settle feeds cmd's results back into the app until nothing is pending.
// It reports whether the app asked to quit.
func settle(t *testing.T, a *App, cmd tea.Cmd) bool {
	t.Helper()
	for i := 0; i < 20; i++ {
		msgs := collect(cmd)
		if len(msgs) == 0 {
			return false
		}
		var next []tea.Cmd
		for _, msg := range msgs {
			if _, ok := msg.(tea.QuitMsg); ok {
				return true
			}
			_, c := a.Update(msg)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
	t.Fatal("app did not settle")
	return false
}

func press(t *testing.T, a *App, keys ...tea.KeyMsg) bool {
	t.Helper()
	quit := false
	for _, k := range keys {
		_, cmd := a.Update(k)
		quit = settle(t, a, cmd) || quit
	}
	return quit
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func newTestApp(t *testing.T, src *fakeSource) *App {
	t.Helper()
	a := NewApp(Options{
		Source:     src,
		Styles:     NewStyles(LightTheme()),
		PictureURL: func(id string) string { return api.PictureURL("http://media/", id, api.DefaultPlaceholder) },
	})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	settle(t, a, a.Init())
	t.Cleanup(func() { a.quit() })
	return a
}

// =============================================================================
// LISTING
// =============================================================================

func TestApp_InitialLoadShowsFirstPage(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	l := a.Listing().State()

	require.True(t, l.Loaded())
	assert.Len(t, l.Visible(), 8)
	assert.True(t, l.HasMore())
	assert.False(t, a.Listing().Busy())

	view := a.View()
	assert.Contains(t, view, "Melting Pot")
	assert.Contains(t, view, "load more (8 of 10)")
	assert.NotContains(t, view, "Rumah Senja")
}

func TestApp_LoadMoreHidesControl(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	press(t, a, runes("m"))

	l := a.Listing().State()
	assert.Len(t, l.Visible(), 10)
	assert.False(t, l.HasMore())
	assert.NotContains(t, a.View(), "load more")
}

func TestApp_CityCycle(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	l := a.Listing().State()

	press(t, a, runes("c"))
	assert.Equal(t, "Medan", l.City())
	assert.Len(t, l.Visible(), 3)
	assert.False(t, l.HasMore())
	assert.Contains(t, a.View(), "[Medan]")

	// Medan, Gorontalo, Surabaya, Aceh, Balikpapan, then back to all
	for i := 0; i < 5; i++ {
		press(t, a, runes("c"))
	}
	assert.Equal(t, "", l.City())
	assert.Len(t, l.Visible(), 8)
}

func TestApp_SearchAndClearAll(t *testing.T) {
	src := newFakeSource()
	a := newTestApp(t, src)
	l := a.Listing().State()

	press(t, a, runes("c"), runes("/"), runes("  pizza "), keyEnter)
	assert.Equal(t, []string{"pizza"}, src.searches)
	assert.Equal(t, "", l.City(), "search clears the city")
	require.Len(t, l.Visible(), 1)
	assert.Equal(t, "Gigitan Cepat", l.Visible()[0].Name)

	press(t, a, runes("x"))
	assert.Equal(t, "", l.Query())
	assert.Len(t, l.Visible(), 8)
	assert.True(t, l.HasMore())
}

func TestApp_SearchWithNoMatches(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	press(t, a, runes("/"), runes("sushi"), keyEnter)

	l := a.Listing().State()
	assert.Empty(t, l.Visible())
	assert.False(t, l.HasMore())
	assert.Contains(t, a.View(), "No restaurants found")
}

func TestApp_BlankSearchIsNoop(t *testing.T) {
	src := newFakeSource()
	a := newTestApp(t, src)
	press(t, a, runes("/"), runes("   "), keyEnter)
	assert.Empty(t, src.searches)
	assert.Len(t, a.Listing().State().Visible(), 8)
}

func TestApp_ListErrorAndRetry(t *testing.T) {
	src := newFakeSource()
	src.listErr = &api.StatusError{StatusCode: 503}
	a := newTestApp(t, src)

	l := a.Listing().State()
	assert.False(t, l.Loaded())
	assert.Error(t, l.Err())
	assert.Contains(t, a.View(), "r to retry")

	src.set(func(f *fakeSource) { f.listErr = nil })
	press(t, a, runes("r"))
	assert.True(t, l.Loaded())
	assert.NoError(t, l.Err())
	assert.Len(t, l.Visible(), 8)
}

func TestApp_CityAfterFailedSearch(t *testing.T) {
	src := newFakeSource()
	a := newTestApp(t, src)
	l := a.Listing().State()

	src.set(func(f *fakeSource) { f.listErr = &api.StatusError{StatusCode: 503} })
	press(t, a, runes("/"), runes("kafe"), keyEnter)
	require.Error(t, l.Err())

	src.set(func(f *fakeSource) { f.listErr = nil })
	press(t, a, runes("c"))
	assert.Equal(t, "Medan", l.City())
	assert.NoError(t, l.Err())
	assert.NotContains(t, a.View(), "r to retry")

	press(t, a, runes("r"))
	assert.Equal(t, []string{"kafe"}, src.searches, "retry does not rerun the abandoned search")
	assert.Equal(t, "Medan", l.City())
}

func TestApp_StaleListingBanner(t *testing.T) {
	src := newFakeSource()
	src.stale = &catalog.Stale{CachedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC), Cause: &api.StatusError{StatusCode: 502}}
	a := newTestApp(t, src)

	_, cached := a.Listing().State().CachedAt()
	assert.True(t, cached)
	assert.Contains(t, a.View(), "offline copy from")
	assert.Len(t, a.Listing().State().Visible(), 8)
}

// =============================================================================
// NAVIGATION AND DETAIL
// =============================================================================

func TestApp_NavigateToDetailAndBack(t *testing.T) {
	a := newTestApp(t, newFakeSource())

	press(t, a, keyEnter)
	require.Equal(t, Route{Kind: RouteDetail, ID: "rqdv5juczeskfw1e867"}, a.Current())
	d := a.Detail().State()
	require.NotNil(t, d.Restaurant())
	assert.Len(t, d.Reviews(), 4)
	assert.True(t, d.HasMoreReviews())

	view := a.View()
	assert.Contains(t, view, "Melting Pot")
	assert.Contains(t, view, "http://media/14")
	assert.Contains(t, view, "see more reviews (4 of 5)")

	press(t, a, runes("m"))
	assert.Len(t, d.Reviews(), 5)
	assert.False(t, d.HasMoreReviews())

	quit := press(t, a, keyEsc)
	assert.False(t, quit)
	assert.Len(t, a.History(), 1)
	assert.Equal(t, RouteListing, a.Current().Kind)
	assert.Len(t, a.Listing().State().Visible(), 8, "listing state survives navigation")

	assert.True(t, press(t, a, keyEsc), "back at the root quits")
}

func TestApp_PlaceholderPicture(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	// Kafe Cemara is seventh and has no picture
	for i := 0; i < 6; i++ {
		press(t, a, keyDown)
	}
	press(t, a, keyEnter)
	assert.Equal(t, "dwg2wesikhdkfw1e867", a.Current().ID)
	assert.Contains(t, a.View(), "Picture: vite.svg")
}

func TestApp_DetailNotFound(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	settle(t, a, func() tea.Msg { return navigateMsg{id: "missing"} })

	d := a.Detail().State()
	assert.Nil(t, d.Restaurant())
	assert.True(t, api.NotFound(d.Err()))
	assert.Contains(t, a.View(), "not found")
}

func TestDetailPage_StaleFetchDiscarded(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	p := a.Detail()

	first := collect(p.Open("rqdv5juczeskfw1e867"))
	settle(t, a, p.Open("s1knt6za9kkfw1e867"))
	require.Equal(t, "Kafe Kita", p.State().Restaurant().Name)

	for _, msg := range first {
		a.Update(msg)
	}
	assert.Equal(t, "Kafe Kita", p.State().Restaurant().Name)
}

// =============================================================================
// REVIEW MODAL
// =============================================================================

func openKafeKita(t *testing.T, a *App) {
	t.Helper()
	press(t, a, keyDown, keyEnter)
	require.Equal(t, "s1knt6za9kkfw1e867", a.Current().ID)
	require.NotNil(t, a.Detail().State().Restaurant())
}

func TestReviewModal_Submit(t *testing.T) {
	src := newFakeSource()
	a := newTestApp(t, src)
	openKafeKita(t, a)
	d := a.Detail().State()

	press(t, a, runes("w"))
	require.True(t, d.ModalOpen())
	assert.Contains(t, a.View(), "Write a review")

	press(t, a, runes("Tester"), keyTab, runes("Enak sekali"), keyTab, runes("5"), keySave)

	require.Len(t, src.posted, 1)
	assert.Equal(t, types.ReviewInput{ID: "s1knt6za9kkfw1e867", Name: "Tester", Review: "Enak sekali", Rating: 5}, src.posted[0])
	assert.False(t, d.ModalOpen())
	assert.Len(t, d.Reviews(), 2)
	assert.Equal(t, "Tester", d.Reviews()[1].Name)
	assert.Empty(t, d.Form().Name, "form resets after success")
}

func TestReviewModal_ValidationKeepsModalOpen(t *testing.T) {
	src := newFakeSource()
	a := newTestApp(t, src)
	openKafeKita(t, a)
	d := a.Detail().State()

	press(t, a, runes("w"), keySave)
	assert.True(t, d.ModalOpen())
	assert.EqualError(t, d.FormErr(), "name is required")
	assert.Empty(t, src.posted)

	press(t, a, runes("Tester"), keyTab, runes("ok"), keySave)
	assert.EqualError(t, d.FormErr(), "rating must be between 1 and 5")
	assert.Contains(t, a.View(), "rating must be between 1 and 5")
	assert.Empty(t, src.posted)
}

func TestReviewModal_ServerErrorKeepsForm(t *testing.T) {
	src := newFakeSource()
	src.postErr = &api.ServerError{Message: "try again later"}
	a := newTestApp(t, src)
	openKafeKita(t, a)
	d := a.Detail().State()

	press(t, a, runes("w"), runes("Tester"), keyTab, runes("Enak"), keyTab, runes("4"), keyEnter)

	require.Len(t, src.posted, 1)
	assert.True(t, d.ModalOpen())
	assert.False(t, d.Submitting())
	assert.Equal(t, "Tester", d.Form().Name)
	assert.Len(t, d.Restaurant().CustomerReviews, 1)
	assert.Contains(t, a.View(), "try again later")
}

func TestReviewModal_CancelKeepsValues(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	openKafeKita(t, a)
	d := a.Detail().State()

	press(t, a, runes("w"), runes("Draft"), keyEsc)
	assert.False(t, d.ModalOpen())
	assert.Equal(t, RouteDetail, a.Current().Kind, "esc closes the modal, not the screen")

	press(t, a, runes("w"))
	assert.True(t, d.ModalOpen())
	assert.Equal(t, "Draft", d.Form().Name)
	assert.Contains(t, a.View(), "Draft")
}

func TestReviewModal_RatingKeys(t *testing.T) {
	m := NewReviewModal(NewStyles(DarkTheme()))
	m.Load(directory.ReviewForm{})
	m.setFocus(fieldRating)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Rating())
	m.Update(runes("4"))
	assert.Equal(t, 4, m.Rating())
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 5, m.Rating())
	m.Update(runes("9"))
	assert.Equal(t, 5, m.Rating())
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 4, m.Rating())

	action, _ := m.Update(keyEnter)
	assert.Equal(t, modalSubmit, action)
	action, _ = m.Update(keyEsc)
	assert.Equal(t, modalCancel, action)

	assert.True(t, strings.Contains(m.View("Kafe Kita", nil, ""), "★★★★"))
}

func TestReviewModal_CancelWhileSubmittingStillShowsReview(t *testing.T) {
	src := newFakeSource()
	a := newTestApp(t, src)
	openKafeKita(t, a)
	d := a.Detail().State()

	press(t, a, runes("w"), runes("Tester"), keyTab, runes("Enak"), keyTab, runes("4"))
	_, submit := a.Update(keySave)
	require.True(t, d.Submitting())

	press(t, a, keyEsc)
	assert.False(t, d.ModalOpen())

	settle(t, a, submit)
	require.Len(t, src.posted, 1)
	assert.False(t, d.Submitting())
	assert.Len(t, d.Restaurant().CustomerReviews, 2)
	assert.Equal(t, "Tester", d.Reviews()[1].Name)
}
