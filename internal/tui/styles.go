package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ColorPalette holds the colors used for styling.
type ColorPalette struct {
	Primary   lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Active    lipgloss.Color
	Inactive  lipgloss.Color
	Available lipgloss.Color
	Border    lipgloss.Color
}

var darkPalette = ColorPalette{
	Primary:   lipgloss.Color("#7D56F4"),
	Text:      lipgloss.Color("#FAFAFA"),
	Muted:     lipgloss.Color("#626262"),
	Active:    lipgloss.Color("#2EC4B6"),
	Inactive:  lipgloss.Color("#FF9F1C"),
	Available: lipgloss.Color("#5A9FD4"),
	Border:    lipgloss.Color("#383838"),
}

var lightPalette = ColorPalette{
	Primary:   lipgloss.Color("#5B3DC8"),
	Text:      lipgloss.Color("#1A1A1A"),
	Muted:     lipgloss.Color("#6B6B6B"),
	Active:    lipgloss.Color("#0F9488"),
	Inactive:  lipgloss.Color("#D97706"),
	Available: lipgloss.Color("#2563EB"),
	Border:    lipgloss.Color("#D1D5DB"),
}

// Styles holds all the styles used in the browse view.
type Styles struct {
	Title     lipgloss.Style
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Active    lipgloss.Style
	Inactive  lipgloss.Style
	Available lipgloss.Style
	Help      lipgloss.Style
	Notice    lipgloss.Style
	ErrorText lipgloss.Style
	Detail    lipgloss.Style
}

// DefaultStyles builds the styles from the terminal-appropriate palette.
func DefaultStyles() Styles {
	palette := darkPalette
	if !lipgloss.HasDarkBackground() {
		palette = lightPalette
	}

	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(palette.Primary),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(palette.Text).Background(palette.Border),
		Normal:    lipgloss.NewStyle().Foreground(palette.Text),
		Muted:     lipgloss.NewStyle().Foreground(palette.Muted),
		Active:    lipgloss.NewStyle().Foreground(palette.Active),
		Inactive:  lipgloss.NewStyle().Foreground(palette.Inactive),
		Available: lipgloss.NewStyle().Foreground(palette.Available),
		Help:      lipgloss.NewStyle().Foreground(palette.Muted),
		Notice:    lipgloss.NewStyle().Foreground(palette.Active),
		ErrorText: lipgloss.NewStyle().Foreground(lipgloss.Color("#E71D36")),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Border).
			Padding(0, 1),
	}
}
