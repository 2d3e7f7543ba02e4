package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette (gruvbox dark).
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	StyleGreen  = fg(ColorGreen)
	StyleYellow = fg(ColorYellow)
	StyleRed    = fg(ColorRed)
	StyleBlue   = fg(ColorBlue)
	StylePurple = fg(ColorPurple)
	StyleDim    = fg(ColorDim)
	StyleFg     = fg(ColorFg)
	StyleHeader = fg(ColorHeader).Bold(true)
	StyleBold   = fg(ColorFg).Bold(true)
)

var healthStyles = map[domain.HealthStatus]lipgloss.Style{
	domain.HealthGreen:  StyleGreen,
	domain.HealthYellow: StyleYellow,
	domain.HealthRed:    StyleRed,
}

// UsePlainOutput drops color and attributes from everything rendered after
// the call, for piped or redirected stdout.
func UsePlainOutput() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// HealthColor is dim for anything but green, yellow and red.
func HealthColor(h domain.HealthStatus) lipgloss.Style {
	if s, ok := healthStyles[h]; ok {
		return s
	}
	return StyleDim
}

// HealthIndicator renders e.g. "● YELLOW".
func HealthIndicator(h domain.HealthStatus) string {
	label := strings.ToUpper(string(h))
	if label == "" {
		label = "UNKNOWN"
	}
	return HealthColor(h).Render("● " + label)
}

// Header renders an upper-cased title with a dim rule beneath it.
func Header(text string) string {
	title := strings.ToUpper(text)
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(title), Dim(strings.Repeat("─", lipgloss.Width(title))))
}

func Dim(text string) string  { return StyleDim.Render(text) }
func Bold(text string) string { return StyleBold.Render(text) }
