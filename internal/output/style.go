// Package output renders analytics results for the terminal.
package output

import "github.com/charmbracelet/lipgloss"

var (
	colorHeading  = lipgloss.Color("#7e57c2")
	colorPositive = lipgloss.Color("#66bb6a")
	colorNegative = lipgloss.Color("#ef5350")
	colorMuted    = lipgloss.Color("#888888")
)

var (
	// StyleHeading marks section titles.
	StyleHeading = lipgloss.NewStyle().Foreground(colorHeading).Bold(true)

	// StylePositive marks improving trends and positive-valence emotions.
	StylePositive = lipgloss.NewStyle().Foreground(colorPositive)

	// StyleNegative marks worsening trends and negative-valence emotions.
	StyleNegative = lipgloss.NewStyle().Foreground(colorNegative)

	// StyleMuted de-emphasizes secondary text and separators.
	StyleMuted = lipgloss.NewStyle().Foreground(colorMuted)
)

// SetNoColor strips all styling, for pipes and dumb terminals.
func SetNoColor(disabled bool) {
	if !disabled {
		return
	}
	plain := lipgloss.NewStyle()
	StyleHeading = plain
	StylePositive = plain
	StyleNegative = plain
	StyleMuted = plain
}
