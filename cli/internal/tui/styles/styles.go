// ABOUTME: Shared lipgloss styles for consistent terminal output
// ABOUTME: Defines colors, panels, and the efficiency score bar

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light

	DeltaPositive = lipgloss.Color("#10B981") // Green - savings
	DeltaNegative = lipgloss.Color("#F59E0B") // Amber - extra spend

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(22)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	DeltaPositiveStyle = lipgloss.NewStyle().
				Foreground(DeltaPositive).
				Bold(true)

	DeltaNegativeStyle = lipgloss.NewStyle().
				Foreground(DeltaNegative).
				Bold(true)
)

// ScoreColor maps an efficiency score to green, amber, or red.
func ScoreColor(score int) lipgloss.Color {
	switch {
	case score >= 70:
		return Secondary
	case score >= 40:
		return Warning
	default:
		return Danger
	}
}

// ScoreBar returns a styled bar for a 0-100 efficiency score
func ScoreBar(score, width int) string {
	filled := score * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(ScoreColor(score)).Render(bar)
}
