package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"restobrowse/internal/directory"
	"restobrowse/internal/types"
)

// DetailPage shows one restaurant with its menus and paginated reviews, and
// hosts the review modal.
type DetailPage struct {
	state      *directory.Detail
	source     Source
	pictureURL func(pictureID string) string
	logger     *zap.Logger
	styles     Styles
	keys       detailKeyMap
	help       help.Model
	viewport   viewport.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer
	modal      ReviewModal
	layout     LayoutConfig

	ctx     context.Context
	cancel  context.CancelFunc
	loading bool
}

// NewDetailPage creates the detail screen. pictureURL turns a pictureId into
// the image URL shown on screen.
func NewDetailPage(src Source, styles Styles, pageSize int, pictureURL func(string) string, logger *zap.Logger) *DetailPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	if logger == nil {
		logger = zap.NewNop()
	}
	if pictureURL == nil {
		pictureURL = func(id string) string { return id }
	}
	p := &DetailPage{
		state:      directory.NewDetail(pageSize),
		source:     src,
		pictureURL: pictureURL,
		logger:     logger,
		styles:     styles,
		keys:       newDetailKeyMap(),
		help:       help.New(),
		viewport:   viewport.New(DefaultWidth, DefaultHeight),
		spinner:    sp,
		modal:      NewReviewModal(styles),
		cancel:     func() {},
		ctx:        context.Background(),
	}
	p.SetSize(DefaultWidth, DefaultHeight)
	return p
}

// State exposes the underlying view state.
func (p *DetailPage) State() *directory.Detail { return p.state }

// SetSize updates the viewport and re-wraps the description.
func (p *DetailPage) SetSize(w, h int) {
	p.layout = NewLayoutConfig(w, h)
	p.viewport.Width = p.layout.ContentWidth()
	p.viewport.Height = max(p.layout.ContentHeight()-3, 3)
	p.help.Width = p.layout.ContentWidth()
	p.modal.SetWidth(p.layout.ModalWidth())
	p.renderer = newMarkdownRenderer(p.styles.Theme, p.layout.ContentWidth())
	p.UpdateContent()
}

func newMarkdownRenderer(theme Theme, width int) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	if theme.Name == "light" || theme.Name == "dark" {
		style = glamour.WithStylePath(theme.Name)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

// Open starts loading restaurant id, abandoning whatever was in flight.
func (p *DetailPage) Open(id string) tea.Cmd {
	p.cancel()
	p.ctx, p.cancel = context.WithCancel(context.Background())
	tok := p.state.Open(id)
	p.loading = true
	p.viewport.GotoTop()
	p.UpdateContent()
	p.logger.Debug("fetching restaurant", zap.String("id", id))
	return tea.Batch(fetchDetail(p.ctx, p.source, tok, id), p.spinner.Tick)
}

// Close cancels anything in flight. Called when the screen is left.
func (p *DetailPage) Close() {
	p.cancel()
	p.loading = false
}

// Busy reports whether a fetch or submission is in flight.
func (p *DetailPage) Busy() bool { return p.loading || p.state.Submitting() }

// Editing reports whether the review modal has the keyboard.
func (p *DetailPage) Editing() bool { return p.state.ModalOpen() }

// Update handles messages.
func (p *DetailPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		p.applyDetail(msg)
		return nil

	case reviewSubmittedMsg:
		if msg.err != nil {
			if p.state.FailSubmit(msg.tok, msg.err) {
				p.logger.Warn("review submission failed", zap.String("id", p.state.ID()), zap.Error(msg.err))
			}
			return nil
		}
		if p.state.ApplySubmit(msg.tok, msg.reviews) {
			p.logger.Info("review submitted", zap.String("id", p.state.ID()), zap.Int("reviews", len(msg.reviews)))
			p.UpdateContent()
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
		if p.state.ModalOpen() {
			return p.updateModal(msg)
		}
		return p.handleKey(msg)
	}

	if p.state.ModalOpen() {
		_, cmd := p.modal.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *DetailPage) applyDetail(msg detailLoadedMsg) {
	if msg.err != nil {
		if p.state.Fail(msg.tok, msg.err) {
			p.loading = false
			p.logger.Warn("restaurant fetch failed", zap.String("id", msg.id), zap.Error(msg.err))
			p.UpdateContent()
		}
		return
	}
	var applied bool
	if st := msg.detail.Stale; st != nil {
		applied = p.state.LoadCached(msg.tok, msg.detail.Restaurant, st.CachedAt, st.Cause)
	} else {
		applied = p.state.Load(msg.tok, msg.detail.Restaurant)
	}
	if applied {
		p.loading = false
		p.UpdateContent()
	}
}

func (p *DetailPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Back):
		return back
	case key.Matches(msg, p.keys.More):
		if p.state.LoadMoreReviews() {
			p.UpdateContent()
		}
		return nil
	case key.Matches(msg, p.keys.Review):
		if p.state.OpenReviewModal() {
			return p.modal.Load(*p.state.Form())
		}
		return nil
	case key.Matches(msg, p.keys.Retry):
		if p.state.Err() != nil && !p.loading {
			return p.Open(p.state.ID())
		}
		return nil
	case key.Matches(msg, p.keys.Help):
		p.help.ShowAll = !p.help.ShowAll
		return nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *DetailPage) updateModal(msg tea.KeyMsg) tea.Cmd {
	if p.state.Submitting() {
		// Only cancel is honoured while the request is out.
		if key.Matches(msg, p.modal.keys.Cancel) {
			p.modal.Store(p.state.Form())
			p.state.CloseReviewModal()
		}
		return nil
	}

	action, cmd := p.modal.Update(msg)
	p.modal.Store(p.state.Form())
	switch action {
	case modalCancel:
		p.state.CloseReviewModal()
		return nil
	case modalSubmit:
		tok, in, err := p.state.BeginSubmit()
		if err != nil {
			return cmd
		}
		p.logger.Debug("submitting review", zap.String("id", in.ID), zap.Int("rating", in.Rating))
		return tea.Batch(cmd, submitReview(p.ctx, p.source, tok, in), p.spinner.Tick)
	}
	return cmd
}

// UpdateContent re-renders the restaurant into the viewport.
func (p *DetailPage) UpdateContent() {
	r := p.state.Restaurant()
	if r == nil {
		p.viewport.SetContent("")
		return
	}

	var sb strings.Builder
	sb.WriteString(p.styles.Muted.Render(strings.Join([]string{r.City, r.Address}, " · ")))
	sb.WriteString("\n")
	sb.WriteString(p.styles.Stars(r.Rating))
	if cats := r.CategoryNames(); len(cats) > 0 {
		sb.WriteString("  ")
		for _, c := range cats {
			sb.WriteString(p.styles.Badge.Render(c) + " ")
		}
	}
	sb.WriteString("\n")
	sb.WriteString(p.styles.Muted.Render("Picture: " + p.pictureURL(r.PictureID)))
	sb.WriteString("\n")

	sb.WriteString(p.renderDescription(r.Description))

	if r.Menus != nil {
		sb.WriteString(p.styles.Title.Render("Menu"))
		sb.WriteString("\n")
		sb.WriteString(p.menuColumns(*r.Menus))
		sb.WriteString("\n\n")
	}

	sb.WriteString(p.styles.Title.Render(fmt.Sprintf("Reviews (%d)", len(r.CustomerReviews))))
	sb.WriteString("\n")
	reviews := p.state.Reviews()
	if len(reviews) == 0 {
		sb.WriteString(p.styles.Subtitle.Render("No reviews yet. Press w to write one."))
		sb.WriteString("\n")
	}
	for _, rv := range reviews {
		sb.WriteString(p.renderReview(rv))
		sb.WriteString("\n")
	}
	if p.state.HasMoreReviews() {
		sb.WriteString(p.styles.Focused.Render(fmt.Sprintf("m: see more reviews (%d of %d)", len(reviews), len(r.CustomerReviews))))
		sb.WriteString("\n")
	}

	p.viewport.SetContent(sb.String())
}

func (p *DetailPage) renderDescription(desc string) string {
	if p.renderer != nil {
		if out, err := p.renderer.Render(desc); err == nil {
			return out
		}
	}
	return "\n" + p.styles.Body.Render(desc) + "\n\n"
}

func (p *DetailPage) menuColumns(m types.Menus) string {
	list := func(title string, items []types.MenuItem) string {
		var sb strings.Builder
		sb.WriteString(p.styles.Bold.Render(title))
		for _, it := range items {
			sb.WriteString("\n• " + it.Name)
		}
		return sb.String()
	}
	col := lipgloss.NewStyle().Width(p.layout.ContentWidth() / 2)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		col.Render(list("Foods", m.Foods)),
		col.Render(list("Drinks", m.Drinks)))
}

func (p *DetailPage) renderReview(rv types.Review) string {
	head := p.styles.Bold.Render(rv.Name) + p.styles.Muted.Render(" · "+rv.Date)
	if rv.Rating > 0 {
		head += " " + p.styles.Rating.Render(strings.Repeat("★", rv.Rating))
	}
	return head + "\n" + p.styles.Body.Render(rv.Review) + "\n"
}

// View renders the page.
func (p *DetailPage) View() string {
	var sb strings.Builder

	r := p.state.Restaurant()
	switch {
	case r != nil:
		sb.WriteString(p.styles.Title.Render(r.Name))
	default:
		sb.WriteString(p.styles.Title.Render("Restaurant"))
	}
	sb.WriteString("\n")

	at, cached := p.state.CachedAt()
	if banner := statusBanner(p.styles, p.state.Err(), at, cached); banner != "" {
		sb.WriteString(banner)
		sb.WriteString("\n")
	}

	if r == nil {
		if p.loading {
			sb.WriteString(p.spinner.View() + " loading…\n")
		}
		sb.WriteString(p.help.View(p.keys))
		return sb.String()
	}

	if p.state.ModalOpen() {
		busy := ""
		if p.state.Submitting() {
			busy = p.spinner.View() + " submitting…"
		}
		sb.WriteString(lipgloss.Place(p.layout.ContentWidth(), p.viewport.Height, lipgloss.Center, lipgloss.Center,
			p.modal.View(r.Name, p.state.FormErr(), busy)))
		return sb.String()
	}

	sb.WriteString(p.viewport.View())
	sb.WriteString("\n")
	if p.loading {
		sb.WriteString(p.spinner.View() + " refreshing…\n")
	}
	sb.WriteString(p.help.View(p.keys))
	return sb.String()
}
