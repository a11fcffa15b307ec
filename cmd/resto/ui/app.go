package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"restobrowse/internal/directory"
)

// RouteKind identifies a screen.
type RouteKind int

const (
	RouteListing RouteKind = iota
	RouteDetail
)

// Route is one entry of the navigation history.
type Route struct {
	Kind RouteKind
	ID   string
}

// Options configures the browser.
type Options struct {
	Source          Source
	Styles          Styles
	PictureURL      func(pictureID string) string
	ListingPageSize int
	ReviewPageSize  int
	Logger          *zap.Logger
	// Offline is shown in the header.
	Offline bool
}

// App is the root model. It routes between the listing and detail screens
// with a history stack; going back from the first entry quits.
type App struct {
	listing *ListingPage
	detail  *DetailPage
	history []Route
	styles  Styles
	logger  *zap.Logger
	offline bool
	width   int
	height  int
}

// NewApp creates the browser at the listing screen.
func NewApp(opts Options) *App {
	if opts.ListingPageSize < 1 {
		opts.ListingPageSize = directory.ListingPageSize
	}
	if opts.ReviewPageSize < 1 {
		opts.ReviewPageSize = directory.ReviewPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		listing: NewListingPage(opts.Source, opts.Styles, opts.ListingPageSize, logger),
		detail:  NewDetailPage(opts.Source, opts.Styles, opts.ReviewPageSize, opts.PictureURL, logger),
		history: []Route{{Kind: RouteListing}},
		styles:  opts.Styles,
		logger:  logger,
		offline: opts.Offline,
		width:   DefaultWidth,
		height:  DefaultHeight,
	}
}

// Init starts the listing fetch.
func (a *App) Init() tea.Cmd {
	return a.listing.Start()
}

// Current returns the route on top of the history stack.
func (a *App) Current() Route { return a.history[len(a.history)-1] }

// History returns a copy of the navigation stack.
func (a *App) History() []Route { return append([]Route(nil), a.history...) }

// Listing returns the listing screen.
func (a *App) Listing() *ListingPage { return a.listing }

// Detail returns the detail screen.
func (a *App) Detail() *DetailPage { return a.detail }

// Update routes messages to the active screen. Fetch results go to the
// screen that issued them whether or not it is on top.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.listing.SetSize(msg.Width, msg.Height-HeaderHeight)
		a.detail.SetSize(msg.Width, msg.Height-HeaderHeight)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, a.quit()
		}

	case navigateMsg:
		return a, a.push(Route{Kind: RouteDetail, ID: msg.id})

	case backMsg:
		return a, a.pop()

	case listLoadedMsg, searchDoneMsg:
		return a, a.listing.Update(msg)

	case detailLoadedMsg, reviewSubmittedMsg:
		return a, a.detail.Update(msg)
	}

	if a.Current().Kind == RouteDetail {
		return a, a.detail.Update(msg)
	}
	return a, a.listing.Update(msg)
}

func (a *App) push(r Route) tea.Cmd {
	a.history = append(a.history, r)
	a.logger.Debug("navigate", zap.String("id", r.ID), zap.Int("depth", len(a.history)))
	if r.Kind == RouteDetail {
		return a.detail.Open(r.ID)
	}
	return nil
}

func (a *App) pop() tea.Cmd {
	if len(a.history) == 1 {
		return a.quit()
	}
	left := a.Current()
	a.history = a.history[:len(a.history)-1]
	if left.Kind == RouteDetail {
		a.detail.Close()
	}
	if top := a.Current(); top.Kind == RouteDetail {
		return a.detail.Open(top.ID)
	}
	return nil
}

func (a *App) quit() tea.Cmd {
	a.detail.Close()
	a.listing.Close()
	return tea.Quit
}

// View renders the header and the active screen.
func (a *App) View() string {
	var sb strings.Builder
	title := "resto"
	if a.Current().Kind == RouteDetail {
		title += " › detail"
	}
	if a.offline {
		title += " (offline)"
	}
	sb.WriteString(a.styles.Header.Width(max(a.width, 1)).Render(title))
	sb.WriteString("\n\n")
	if a.Current().Kind == RouteDetail {
		sb.WriteString(a.detail.View())
	} else {
		sb.WriteString(a.listing.View())
	}
	return sb.String()
}

// Run starts the browser and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
