// Package ui is the interactive restaurant browser: a listing screen and a
// detail screen with a review modal, composed under a history-stack router.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme is drawn with.
type Palette struct {
	Ink     lipgloss.Color // body text
	Brand   lipgloss.Color // titles, header, selection
	Spice   lipgloss.Color // badges, focus, spinner
	Ash     lipgloss.Color // secondary text
	Plate   lipgloss.Color // modal border
	Star    lipgloss.Color
	Alert   lipgloss.Color
	Caution lipgloss.Color
}

var (
	lightPalette = Palette{
		Ink:     "#2b2118", // espresso
		Brand:   "#b4441f", // paprika
		Spice:   "#d9902f", // saffron
		Ash:     "#8a8178",
		Plate:   "#dcd3c8",
		Star:    "#f5b301",
		Alert:   "#e53935",
		Caution: "#c77700",
	}
	darkPalette = Palette{
		Ink:     "#f3ece4",
		Brand:   "#f0a35e",
		Spice:   "#e06a3f",
		Ash:     "#7d746b",
		Plate:   "#3b322b",
		Star:    "#f5b301",
		Alert:   "#ff6f61",
		Caution: "#ffc107",
	}
)

// Theme is a named palette.
type Theme struct {
	Name    string
	IsDark  bool
	Palette Palette
}

// LightTheme is the default theme.
func LightTheme() Theme { return Theme{Name: "light", Palette: lightPalette} }

// DarkTheme suits dark terminal backgrounds.
func DarkTheme() Theme { return Theme{Name: "dark", IsDark: true, Palette: darkPalette} }

// DetectTheme guesses the terminal background from COLORFGBG
// ("foreground;background") and falls back to light.
func DetectTheme() Theme {
	_, bg, ok := strings.Cut(os.Getenv("COLORFGBG"), ";")
	if !ok {
		return LightTheme()
	}
	// ANSI 0-6 and 8 are dark backgrounds.
	if n, err := strconv.Atoi(bg); err == nil && (n >= 0 && n <= 6 || n == 8) {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeByName resolves a configured theme name; "auto" and unknown names
// detect.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// Styles are the rendered styles the screens share.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Modal  lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Rating     lipgloss.Style
	Badge      lipgloss.Style
	Focused    lipgloss.Style
	Spinner    lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles derives the screen styles from theme.
func NewStyles(theme Theme) Styles {
	p := theme.Palette
	text := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(lipgloss.Color("#ffffff")).Background(p.Brand),
		Modal: lipgloss.NewStyle().Padding(1, 2).
			Border(lipgloss.RoundedBorder()).BorderForeground(p.Plate),

		Title:    text(p.Brand).Bold(true),
		Subtitle: text(p.Ash).Italic(true),
		Body:     text(p.Ink),
		Muted:    text(p.Ash),
		Bold:     text(p.Ink).Bold(true),

		Selected: text(p.Brand).Bold(true).PaddingLeft(1).
			Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(p.Spice),
		Unselected: text(p.Ink).PaddingLeft(2),
		Rating:     text(p.Star),
		Badge:      lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#ffffff")).Background(p.Spice),
		Focused:    text(p.Spice).Bold(true),
		Spinner:    text(p.Spice),

		Error:   text(p.Alert).Bold(true),
		Warning: text(p.Caution).Bold(true),
	}
}

// Stars renders a 0-5 rating as filled and empty stars followed by the value.
func (s Styles) Stars(rating float64) string {
	full := min(max(int(rating+0.5), 0), 5)
	return s.Rating.Render(strings.Repeat("★", full)+strings.Repeat("☆", 5-full)) +
		" " + s.Muted.Render(strconv.FormatFloat(rating, 'f', 1, 64))
}
