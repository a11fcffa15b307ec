package ui

// Layout constants for consistent spacing and dimensions
const (
	HeaderHeight = 2
	FooterHeight = 2

	// Listing rows: name line plus city/rating line
	ListingRowHeight = 2

	MinContentWidth = 40
	MaxModalWidth   = 60

	DefaultWidth  = 80
	DefaultHeight = 24
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return LayoutConfig{TerminalWidth: width, TerminalHeight: height}
}

// ContentWidth returns the usable content width
func (l LayoutConfig) ContentWidth() int {
	return max(l.TerminalWidth-4, MinContentWidth)
}

// ContentHeight returns the rows left between header and footer
func (l LayoutConfig) ContentHeight() int {
	return max(l.TerminalHeight-HeaderHeight-FooterHeight, 3)
}

// ModalWidth returns the review modal width, narrowed for small terminals
func (l LayoutConfig) ModalWidth() int {
	return min(MaxModalWidth, l.ContentWidth())
}
