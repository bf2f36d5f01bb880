package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorGreen = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorRed   = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray  = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
)

// Success marks completed stages and written artifact paths.
var Success = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// Error marks failed runs on stderr.
var Error = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// Detail renders secondary information such as counts and file paths.
var Detail = lipgloss.NewStyle().
	Foreground(ColorGray)
