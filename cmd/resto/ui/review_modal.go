package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"restobrowse/internal/directory"
)

type modalField int

const (
	fieldName modalField = iota
	fieldReview
	fieldRating
	fieldCount
)

type modalAction int

const (
	modalNone modalAction = iota
	modalSubmit
	modalCancel
)

// ReviewModal is the write-a-review form: name, review text and a 1-5
// rating. It only edits fields; the detail page owns submission.
type ReviewModal struct {
	name   textinput.Model
	review textarea.Model
	rating int
	focus  modalField
	keys   modalKeyMap
	help   help.Model
	styles Styles
	width  int
}

// NewReviewModal creates an empty modal.
func NewReviewModal(styles Styles) ReviewModal {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 80

	review := textarea.New()
	review.Placeholder = "What did you think?"
	review.ShowLineNumbers = false
	review.CharLimit = 1000
	review.SetHeight(4)

	m := ReviewModal{
		name:   name,
		review: review,
		keys:   newModalKeyMap(),
		help:   help.New(),
		styles: styles,
	}
	m.SetWidth(MaxModalWidth)
	return m
}

// SetWidth sizes the modal's inputs.
func (m *ReviewModal) SetWidth(w int) {
	m.width = w
	inner := max(w-6, 10)
	m.name.Width = inner
	m.review.SetWidth(inner)
	m.help.Width = inner
}

// Load fills the fields from f and focuses the name field.
func (m *ReviewModal) Load(f directory.ReviewForm) tea.Cmd {
	m.name.SetValue(f.Name)
	m.review.SetValue(f.Review)
	m.rating = f.Rating
	return m.setFocus(fieldName)
}

// Store copies the field values into f.
func (m *ReviewModal) Store(f *directory.ReviewForm) {
	f.Name = m.name.Value()
	f.Review = m.review.Value()
	f.Rating = m.rating
}

// Rating returns the selected rating, 0 when none.
func (m *ReviewModal) Rating() int { return m.rating }

func (m *ReviewModal) setFocus(f modalField) tea.Cmd {
	m.focus = (f + fieldCount) % fieldCount
	m.name.Blur()
	m.review.Blur()
	switch m.focus {
	case fieldName:
		return m.name.Focus()
	case fieldReview:
		return m.review.Focus()
	}
	return nil
}

// Update handles a key press and reports whether the user asked to submit or
// cancel.
func (m *ReviewModal) Update(msg tea.Msg) (modalAction, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		switch m.focus {
		case fieldName:
			m.name, cmd = m.name.Update(msg)
		case fieldReview:
			m.review, cmd = m.review.Update(msg)
		}
		return modalNone, cmd
	}

	switch {
	case key.Matches(km, m.keys.Cancel):
		return modalCancel, nil
	case key.Matches(km, m.keys.Submit):
		return modalSubmit, nil
	case key.Matches(km, m.keys.Next):
		return modalNone, m.setFocus(m.focus + 1)
	case key.Matches(km, m.keys.Prev):
		return modalNone, m.setFocus(m.focus - 1)
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		if km.Type == tea.KeyEnter {
			return modalNone, m.setFocus(fieldReview)
		}
		m.name, cmd = m.name.Update(km)
	case fieldReview:
		m.review, cmd = m.review.Update(km)
	case fieldRating:
		switch km.Type {
		case tea.KeyEnter:
			return modalSubmit, nil
		case tea.KeyLeft:
			m.rating = max(m.rating-1, directory.MinRating)
		case tea.KeyRight:
			m.rating = min(m.rating+1, directory.MaxRating)
		case tea.KeyRunes:
			if len(km.Runes) == 1 && km.Runes[0] >= '1' && km.Runes[0] <= '5' {
				m.rating = int(km.Runes[0] - '0')
			}
		}
	}
	return modalNone, cmd
}

// View renders the modal for restaurant name.
func (m *ReviewModal) View(restaurant string, formErr error, busy string) string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Write a review"))
	sb.WriteString(m.styles.Muted.Render(" · " + restaurant))
	sb.WriteString("\n\n")

	sb.WriteString(m.label("Name", fieldName) + "\n")
	sb.WriteString(m.name.View() + "\n\n")
	sb.WriteString(m.label("Review", fieldReview) + "\n")
	sb.WriteString(m.review.View() + "\n\n")
	sb.WriteString(m.label("Rating", fieldRating) + "  ")
	sb.WriteString(m.ratingView())
	sb.WriteString("\n\n")

	switch {
	case busy != "":
		sb.WriteString(busy + "\n")
	case formErr != nil:
		sb.WriteString(m.styles.Error.Render(describeError(formErr)) + "\n")
	}
	sb.WriteString(m.help.View(m.keys))

	return m.styles.Modal.Width(m.width).Render(sb.String())
}

func (m *ReviewModal) label(text string, f modalField) string {
	if m.focus == f {
		return m.styles.Focused.Render("› " + text)
	}
	return m.styles.Bold.Render("  " + text)
}

func (m *ReviewModal) ratingView() string {
	stars := m.styles.Rating.Render(strings.Repeat("★", m.rating)) +
		m.styles.Muted.Render(strings.Repeat("☆", directory.MaxRating-m.rating))
	if m.focus == fieldRating {
		stars += m.styles.Muted.Render("  1-5 or ←/→, enter submits")
	}
	return stars
}
