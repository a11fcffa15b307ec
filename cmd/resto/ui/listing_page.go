package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"restobrowse/internal/directory"
)

type listingOp int

const (
	opLoad listingOp = iota
	opSearch
)

// ListingPage is the restaurant list screen.
type ListingPage struct {
	state   *directory.Listing
	source  Source
	logger  *zap.Logger
	styles  Styles
	keys    listingKeyMap
	help    help.Model
	search  textinput.Model
	spinner spinner.Model
	layout  LayoutConfig

	ctx    context.Context
	cancel context.CancelFunc

	cursor    int
	loading   bool
	searching bool
	last      listingOp
	lastTerm  string
}

// NewListingPage creates the listing screen. Nothing is fetched until Start.
func NewListingPage(src Source, styles Styles, pageSize int, logger *zap.Logger) *ListingPage {
	ti := textinput.New()
	ti.Placeholder = "name, city, category or menu"
	ti.Prompt = "/ "
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &ListingPage{
		state:   directory.NewListing(pageSize),
		source:  src,
		logger:  logger,
		styles:  styles,
		keys:    newListingKeyMap(),
		help:    help.New(),
		search:  ti,
		spinner: sp,
		ctx:     ctx,
		cancel:  cancel,
	}
	p.SetSize(DefaultWidth, DefaultHeight)
	return p
}

// State exposes the underlying view state.
func (p *ListingPage) State() *directory.Listing { return p.state }

// SetSize updates the layout.
func (p *ListingPage) SetSize(w, h int) {
	p.layout = NewLayoutConfig(w, h)
	p.search.Width = p.layout.ContentWidth() - 4
	p.help.Width = p.layout.ContentWidth()
}

// Start fetches the full collection.
func (p *ListingPage) Start() tea.Cmd {
	return p.reload()
}

// Close cancels anything in flight.
func (p *ListingPage) Close() {
	p.cancel()
}

// Busy reports whether a fetch or search is in flight.
func (p *ListingPage) Busy() bool { return p.loading || p.searching }

// Editing reports whether the search box has focus.
func (p *ListingPage) Editing() bool { return p.search.Focused() }

func (p *ListingPage) reload() tea.Cmd {
	tok := p.state.BeginLoad()
	p.loading = true
	p.last = opLoad
	p.logger.Debug("fetching restaurant list")
	return tea.Batch(fetchList(p.ctx, p.source, tok), p.spinner.Tick)
}

func (p *ListingPage) runSearch() tea.Cmd {
	p.state.SetQuery(p.search.Value())
	tok, term, ok := p.state.BeginSearch()
	if !ok {
		return nil
	}
	p.searching = true
	p.last = opSearch
	p.lastTerm = term
	p.logger.Debug("searching", zap.String("term", term))
	return tea.Batch(fetchSearch(p.ctx, p.source, tok, term), p.spinner.Tick)
}

func (p *ListingPage) retry() tea.Cmd {
	if p.last == opSearch && p.state.Loaded() {
		p.search.SetValue(p.lastTerm)
		return p.runSearch()
	}
	return p.reload()
}

func (p *ListingPage) cycleCity() {
	cities := p.state.Cities()
	if len(cities) == 0 {
		return
	}
	next := cities[0]
	for i, c := range cities {
		if c == p.state.City() {
			if i == len(cities)-1 {
				next = ""
			} else {
				next = cities[i+1]
			}
			break
		}
	}
	p.state.FilterCity(next)
	p.searching = false
	p.last = opLoad
	p.cursor = 0
}

func (p *ListingPage) clampCursor() {
	n := len(p.state.Visible())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// Update handles messages.
func (p *ListingPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listLoadedMsg:
		p.applyList(msg)
		return nil

	case searchDoneMsg:
		if msg.err != nil {
			if p.state.Fail(msg.tok, msg.err) {
				p.searching = false
				p.logger.Warn("search failed", zap.String("term", msg.term), zap.Error(msg.err))
			}
			return nil
		}
		if p.state.ApplySearch(msg.tok, msg.results) {
			p.searching = false
			p.cursor = 0
			p.logger.Debug("search results", zap.String("term", msg.term), zap.Int("count", len(msg.results)))
		}
		return nil

	case spinner.TickMsg:
		if !p.Busy() {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if p.search.Focused() {
			return p.updateSearchInput(msg)
		}
		return p.handleKey(msg)
	}
	return nil
}

func (p *ListingPage) applyList(msg listLoadedMsg) {
	if msg.err != nil {
		if p.state.Fail(msg.tok, msg.err) {
			p.loading = false
			p.logger.Warn("list fetch failed", zap.Error(msg.err))
		}
		return
	}
	var applied bool
	if st := msg.listing.Stale; st != nil {
		applied = p.state.LoadCached(msg.tok, msg.listing.Restaurants, st.CachedAt, st.Cause)
	} else {
		applied = p.state.Load(msg.tok, msg.listing.Restaurants)
	}
	if applied {
		p.loading = false
		p.cursor = 0
		p.logger.Debug("list loaded", zap.Int("count", len(msg.listing.Restaurants)), zap.Bool("stale", msg.listing.Stale != nil))
	}
}

func (p *ListingPage) updateSearchInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		p.search.Blur()
		return p.runSearch()
	case tea.KeyEsc:
		p.search.Blur()
		p.search.SetValue(p.state.Query())
		return nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	return cmd
}

func (p *ListingPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Quit):
		return back
	case key.Matches(msg, p.keys.Up):
		p.cursor--
		p.clampCursor()
	case key.Matches(msg, p.keys.Down):
		p.cursor++
		p.clampCursor()
	case key.Matches(msg, p.keys.Open):
		if id, ok := p.state.Select(p.cursor); ok {
			return navigate(id)
		}
	case key.Matches(msg, p.keys.Search):
		p.search.Focus()
		return textinput.Blink
	case key.Matches(msg, p.keys.City):
		p.cycleCity()
	case key.Matches(msg, p.keys.More):
		shown := len(p.state.Visible())
		if p.state.LoadMore() {
			p.cursor = shown
		}
	case key.Matches(msg, p.keys.ClearAll):
		p.state.ClearAll()
		p.search.SetValue("")
		p.searching = false
		p.last = opLoad
		p.cursor = 0
	case key.Matches(msg, p.keys.Retry):
		if p.state.Err() != nil || !p.state.Loaded() {
			return p.retry()
		}
	case key.Matches(msg, p.keys.Help):
		p.help.ShowAll = !p.help.ShowAll
	}
	return nil
}

// View renders the page.
func (p *ListingPage) View() string {
	var sb strings.Builder

	sb.WriteString(p.styles.Title.Render("Restaurants"))
	if c := p.state.City(); c != "" {
		sb.WriteString("  " + p.styles.Badge.Render(c))
	}
	sb.WriteString("\n")
	sb.WriteString(p.search.View())
	sb.WriteString("\n")
	sb.WriteString(p.styles.Muted.Render(p.cityLine()))
	sb.WriteString("\n")

	if banner := p.banner(); banner != "" {
		sb.WriteString(banner)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	visible := p.state.Visible()
	switch {
	case p.loading && !p.state.Loaded():
		sb.WriteString(p.spinner.View() + " loading restaurants…\n")
	case p.state.Loaded() && len(visible) == 0:
		sb.WriteString(p.styles.Subtitle.Render("No restaurants found.") + "\n")
	default:
		rows := max((p.layout.ContentHeight()-6)/ListingRowHeight, 1)
		start := 0
		if p.cursor >= rows {
			start = p.cursor - rows + 1
		}
		end := min(len(visible), start+rows)
		for i := start; i < end; i++ {
			r := visible[i]
			line := fmt.Sprintf("%s\n%s · %s", r.Name, r.City, p.styles.Stars(r.Rating))
			if i == p.cursor {
				sb.WriteString(p.styles.Selected.Render(line))
			} else {
				sb.WriteString(p.styles.Unselected.Render(line))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if p.searching {
		sb.WriteString(p.spinner.View() + " searching…\n")
	}
	if p.state.HasMore() {
		sb.WriteString(p.styles.Focused.Render(fmt.Sprintf("m: load more (%d of %d)", len(visible), len(p.state.Filtered()))))
		sb.WriteString("\n")
	}
	sb.WriteString(p.help.View(p.keys))
	return sb.String()
}

func (p *ListingPage) cityLine() string {
	cities := p.state.Cities()
	if len(cities) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cities)+1)
	for _, c := range append([]string{""}, cities...) {
		label := c
		if c == "" {
			label = "All"
		}
		if c == p.state.City() {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return "City: " + strings.Join(parts, " ")
}

func (p *ListingPage) banner() string {
	at, cached := p.state.CachedAt()
	return statusBanner(p.styles, p.state.Err(), at, cached)
}
