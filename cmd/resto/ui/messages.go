package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"restobrowse/internal/catalog"
	"restobrowse/internal/directory"
	"restobrowse/internal/types"
)

// Source is where the screens get their data. *catalog.Catalog satisfies it.
type Source interface {
	List(ctx context.Context) (catalog.Listing, error)
	Search(ctx context.Context, term string) ([]types.Restaurant, error)
	Detail(ctx context.Context, id string) (catalog.Detail, error)
	PostReview(ctx context.Context, in types.ReviewInput) ([]types.Review, error)
}

// Fetch results carry the token of the request that produced them; the
// screen state drops results whose token is no longer current.

type listLoadedMsg struct {
	tok     directory.Token
	listing catalog.Listing
	err     error
}

type searchDoneMsg struct {
	tok     directory.Token
	term    string
	results []types.Restaurant
	err     error
}

type detailLoadedMsg struct {
	tok    directory.Token
	id     string
	detail catalog.Detail
	err    error
}

type reviewSubmittedMsg struct {
	tok     directory.Token
	reviews []types.Review
	err     error
}

// navigateMsg pushes the detail screen for a restaurant.
type navigateMsg struct{ id string }

// backMsg pops the current screen.
type backMsg struct{}

func navigate(id string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{id: id} }
}

func back() tea.Msg { return backMsg{} }

func fetchList(ctx context.Context, src Source, tok directory.Token) tea.Cmd {
	return func() tea.Msg {
		l, err := src.List(ctx)
		return listLoadedMsg{tok: tok, listing: l, err: err}
	}
}

func fetchSearch(ctx context.Context, src Source, tok directory.Token, term string) tea.Cmd {
	return func() tea.Msg {
		rs, err := src.Search(ctx, term)
		return searchDoneMsg{tok: tok, term: term, results: rs, err: err}
	}
}

func fetchDetail(ctx context.Context, src Source, tok directory.Token, id string) tea.Cmd {
	return func() tea.Msg {
		d, err := src.Detail(ctx, id)
		return detailLoadedMsg{tok: tok, id: id, detail: d, err: err}
	}
}

func submitReview(ctx context.Context, src Source, tok directory.Token, in types.ReviewInput) tea.Cmd {
	return func() tea.Msg {
		reviews, err := src.PostReview(ctx, in)
		return reviewSubmittedMsg{tok: tok, reviews: reviews, err: err}
	}
}
